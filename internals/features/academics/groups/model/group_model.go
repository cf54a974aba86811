package model

import (
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
)

type GroupModel struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	SemesterID uint   `gorm:"not null;index" json:"semester_id"`

	Semester *semesterModel.SemesterModel `gorm:"foreignKey:SemesterID;constraint:OnDelete:CASCADE" json:"semester,omitempty"`
}

func (GroupModel) TableName() string {
	return "groups"
}
