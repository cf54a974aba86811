package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/configs"
	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/databases/testdb"
	authModel "gestionabsence_backend/internals/features/users/auth/model"
	authRepo "gestionabsence_backend/internals/features/users/auth/repository"
	userModel "gestionabsence_backend/internals/features/users/user/model"
)

func seedUser(t *testing.T, db *gorm.DB, email, password, role string, active bool) *userModel.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &userModel.UserModel{Name: "Test", Email: email, Password: string(hash), Role: role, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	if !active {
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
		u.IsActive = false
	}
	return u
}

func withSecret(t *testing.T) {
	t.Helper()
	prevSecret, prevTTL := configs.JWTSecret, configs.JWTTTL
	configs.JWTSecret, configs.JWTTTL = "test-secret", time.Hour
	t.Cleanup(func() { configs.JWTSecret, configs.JWTTTL = prevSecret, prevTTL })
}

func TestLogin(t *testing.T) {
	withSecret(t)
	db := testdb.New(t)
	seedUser(t, db, "prof@univ.fr", "secret", constants.RoleProfessor, true)
	seedUser(t, db, "off@univ.fr", "secret", constants.RoleProfessor, false)

	res, err := Login(db, "Prof@Univ.fr", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, constants.RoleProfessor, res.User.Role)

	exp, err := TokenExpiry(res.AccessToken)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	_, err = Login(db, "prof@univ.fr", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Login(db, "ghost@univ.fr", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Login(db, "off@univ.fr", "secret")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestIssueAccessTokenWithoutSecret(t *testing.T) {
	prev := configs.JWTSecret
	configs.JWTSecret = ""
	t.Cleanup(func() { configs.JWTSecret = prev })

	_, _, err := IssueAccessToken(&userModel.UserModel{ID: 1}, time.Now())
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoginGoogleDisabled(t *testing.T) {
	prev := configs.GoogleClientID
	configs.GoogleClientID = ""
	t.Cleanup(func() { configs.GoogleClientID = prev })

	_, err := LoginGoogle(nil, "whatever")
	assert.ErrorIs(t, err, ErrGoogleDisabled)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	withSecret(t)
	db := testdb.New(t)
	seedUser(t, db, "prof@univ.fr", "secret", constants.RoleProfessor, true)

	res, err := Login(db, "prof@univ.fr", "secret")
	require.NoError(t, err)

	require.NoError(t, Logout(db, res.AccessToken))
	// twice is fine
	require.NoError(t, Logout(db, res.AccessToken))

	ok, err := authRepo.IsTokenBlacklisted(db, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	var row authModel.TokenBlacklist
	require.NoError(t, db.Where("token = ?", res.AccessToken).First(&row).Error)
	assert.WithinDuration(t, res.ExpiresAt, row.ExpiredAt, time.Second)
}

func TestCleanupExpiredBlacklist(t *testing.T) {
	db := testdb.New(t)
	now := time.Now().UTC()
	require.NoError(t, authRepo.BlacklistToken(db, "old", now.Add(-time.Hour)))
	require.NoError(t, authRepo.BlacklistToken(db, "fresh", now.Add(time.Hour)))

	n, err := authRepo.CleanupExpiredBlacklist(db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, _ := authRepo.IsTokenBlacklisted(db, "fresh")
	assert.True(t, ok)
}

func TestChangePassword(t *testing.T) {
	db := testdb.New(t)
	u := seedUser(t, db, "prof@univ.fr", "secret", constants.RoleProfessor, true)

	assert.ErrorIs(t, ChangePassword(db, u.ID, "wrong", "newpass"), ErrWrongPassword)
	assert.ErrorIs(t, ChangePassword(db, u.ID, "secret", "secret"), ErrSamePassword)
	require.NoError(t, ChangePassword(db, u.ID, "secret", "newpass"))

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, u.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("newpass")))

	assert.ErrorIs(t, ChangePassword(db, 999, "a", "bbbb"), ErrUserNotFound)
}
