// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/configs"
	authRepo "gestionabsence_backend/internals/features/users/auth/repository"
	helper "gestionabsence_backend/internals/helpers"
)

type AuthOpts struct {
	// Secret defaults to configs.JWTSecret when empty.
	Secret              string
	AllowCookieFallback bool
}

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return AuthMiddlewareWithOpts(db, AuthOpts{AllowCookieFallback: true})
}

func AuthMiddlewareWithOpts(db *gorm.DB, opts AuthOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Authorization header or cookie
		tokenString, err := extractBearerToken(c, opts.AllowCookieFallback)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := opts.Secret
		if secretKey == "" {
			secretKey = configs.JWTSecret
		}
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		// 2) Parse & verify signature (HS256 only)
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[WARN] token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 3) exp
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 4) blacklist
		blacklisted, err := authRepo.IsTokenBlacklisted(db, tokenString)
		if err != nil {
			log.Println("[ERROR] blacklist lookup:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if blacklisted {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		}

		// 5) user_id + active account
		userID, err := uintClaim(claims, "id")
		if err != nil || userID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		if err := ensureUserActive(db, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			return fiber.NewError(fiber.StatusForbidden, "Account disabled")
		}

		c.Locals(helper.LocUserID, userID)
		helper.SetRawAccessToken(c, tokenString)
		storeBasicClaimsToLocals(c, claims)
		return c.Next()
	}
}
