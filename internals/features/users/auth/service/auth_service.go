// internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/configs"
	authRepo "gestionabsence_backend/internals/features/users/auth/repository"
	userModel "gestionabsence_backend/internals/features/users/user/model"
)

var (
	ErrInvalidCredentials = errors.New("Email ou mot de passe incorrect")
	ErrAccountDisabled    = errors.New("Compte désactivé")
	ErrGoogleDisabled     = errors.New("Google login is not configured")
	ErrInvalidGoogleToken = errors.New("Invalid Google ID Token")
	ErrUserNotFound       = errors.New("Utilisateur introuvable")
	ErrWrongPassword      = errors.New("Ancien mot de passe incorrect")
	ErrSamePassword       = errors.New("Le nouveau mot de passe doit être différent")
)

type LoginResult struct {
	AccessToken string                `json:"access_token"`
	ExpiresAt   time.Time             `json:"expires_at"`
	User        *userModel.UserModel `json:"user"`
}

// ========================== LOGIN ==========================

func Login(db *gorm.DB, email, password string) (*LoginResult, error) {
	user, err := authRepo.FindUserByEmail(db, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same answer as a wrong password
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return issue(user)
}

// ========================== LOGIN GOOGLE ==========================

// LoginGoogle only signs in accounts that already exist; there is no self-registration.
func LoginGoogle(db *gorm.DB, idToken string) (*LoginResult, error) {
	if configs.GoogleClientID == "" {
		return nil, ErrGoogleDisabled
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{configs.GoogleClientID}); err != nil {
		log.Printf("[WARN] google id token rejected: %v", err)
		return nil, ErrInvalidGoogleToken
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	user, err := authRepo.FindUserByEmail(db, claimSet.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return issue(user)
}

func issue(user *userModel.UserModel) (*LoginResult, error) {
	token, exp, err := IssueAccessToken(user, time.Now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// ========================== LOGOUT ==========================

// Logout blacklists the token until it would have expired anyway.
func Logout(db *gorm.DB, rawToken string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil
	}
	exp, err := TokenExpiry(rawToken)
	if err != nil {
		exp = time.Now().Add(configs.JWTTTL)
	}
	return authRepo.BlacklistToken(db, rawToken, exp)
}

// ========================== ME ==========================

func Me(db *gorm.DB, userID uint) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ========================== CHANGE PASSWORD ==========================

func ChangePassword(db *gorm.DB, userID uint, oldPassword, newPassword string) error {
	user, err := Me(db, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return authRepo.UpdateUserPassword(db, userID, string(hashed))
}
