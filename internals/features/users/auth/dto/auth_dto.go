package dto

import (
	"gestionabsence_backend/internals/features/users/auth/service"
	userModel "gestionabsence_backend/internals/features/users/user/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginGoogleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4"`
}

type UserDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	StudentID *uint  `json:"student_id"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresAt   int64   `json:"expires_at"`
	User        UserDTO `json:"user"`
}

func ToUserDTO(u *userModel.UserModel) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		StudentID: u.StudentID,
	}
}

func ToLoginResponse(r *service.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: r.AccessToken,
		ExpiresAt:   r.ExpiresAt.Unix(),
		User:        ToUserDTO(r.User),
	}
}
