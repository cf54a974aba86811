// internals/middlewares/auth/claims_utils.go
package auth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	helper "gestionabsence_backend/internals/helpers"
)

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx, allowCookie bool) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" && allowCookie {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - No token provided")
	}

	// toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expUnix, err := int64Claim(claims, "exp")
	if err != nil {
		return fmt.Errorf("token has no valid exp: %w", err)
	}
	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func int64Claim(claims jwt.MapClaims, key string) (int64, error) {
	raw, ok := claims[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("missing %s", key)
	}
	switch t := raw.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("invalid %s", key)
		}
		return int64(t), nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return strconv.ParseInt(fmt.Sprintf("%v", t), 10, 64)
	}
}

func uintClaim(claims jwt.MapClaims, key string) (uint, error) {
	n, err := int64Claim(claims, key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s", key)
	}
	return uint(n), nil
}

func ensureUserActive(db *gorm.DB, userID uint) error {
	var user struct {
		IsActive bool
	}
	if err := db.Table("users").Select("is_active").Where("id = ?", userID).Take(&user).Error; err != nil {
		return err
	}
	if !user.IsActive {
		return errors.New("user inactive")
	}
	return nil
}

/* ======== Store claims to Locals ======== */

func storeBasicClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if role, ok := claims["role"].(string); ok {
		c.Locals(helper.LocUserRole, role)
	}
	if email, ok := claims["email"].(string); ok {
		c.Locals(helper.LocEmail, email)
	}
	if sid, err := uintClaim(claims, "student_id"); err == nil && sid > 0 {
		c.Locals(helper.LocStudentID, sid)
	}
}
