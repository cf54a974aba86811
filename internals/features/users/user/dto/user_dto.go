package dto

import (
	"strings"

	"gestionabsence_backend/internals/constants"
	uModel "gestionabsence_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateProfessorRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=4"`
}

func (r *CreateProfessorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// ToModel leaves Password plain; the service hashes it.
func (r *CreateProfessorRequest) ToModel() *uModel.UserModel {
	return &uModel.UserModel{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     constants.RoleProfessor,
		IsActive: true,
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type ProfessorDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToProfessorDTO(u *uModel.UserModel) ProfessorDTO {
	return ProfessorDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToProfessorDTOs(users []uModel.UserModel) []ProfessorDTO {
	out := make([]ProfessorDTO, 0, len(users))
	for i := range users {
		out = append(out, ToProfessorDTO(&users[i]))
	}
	return out
}
