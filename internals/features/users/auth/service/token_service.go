package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"gestionabsence_backend/internals/configs"
	userModel "gestionabsence_backend/internals/features/users/user/model"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not configured")

// IssueAccessToken signs an HS256 token carrying id, email, role and (for students) student_id.
func IssueAccessToken(user *userModel.UserModel, now time.Time) (string, time.Time, error) {
	if configs.JWTSecret == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	ttl := configs.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	if user.StudentID != nil {
		claims["student_id"] = *user.StudentID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// TokenExpiry reads exp without verifying the signature; the middleware already did.
func TokenExpiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("token has no exp")
	}
	return time.Unix(int64(exp), 0).UTC(), nil
}
