// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "gestionabsence_backend/internals/features/users/auth/model"
	userModel "gestionabsence_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uint) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUserPassword(db *gorm.DB, userID uint, hashed string) error {
	return db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hashed).Error
}

/* ====================== BLACKLIST ====================== */

// BlacklistToken is idempotent: logging out twice with the same token is not an error.
func BlacklistToken(db *gorm.DB, token string, expiredAt time.Time) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklist{Token: token, ExpiredAt: expiredAt}).Error
}

func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var count int64
	err := db.Model(&authModel.TokenBlacklist{}).Where("token = ?", token).Count(&count).Error
	return count > 0, err
}

// CleanupExpiredBlacklist deletes rows whose token expired before now.
func CleanupExpiredBlacklist(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expired_at < ?", now).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
