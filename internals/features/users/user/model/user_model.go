package model

import (
	"time"

	studentModel "gestionabsence_backend/internals/features/academics/students/model"
)

// UserModel represents the users table. Student accounts carry StudentID.
type UserModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:'PROFESSEUR';index" json:"role"`
	StudentID *uint     `gorm:"uniqueIndex" json:"student_id,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Student *studentModel.StudentModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}
