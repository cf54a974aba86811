package model

import (
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
)

type CourseMaterialModel struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	SemesterID uint   `gorm:"not null;index" json:"semester_id"`

	Semester *semesterModel.SemesterModel `gorm:"foreignKey:SemesterID;constraint:OnDelete:CASCADE" json:"semester,omitempty"`
}

func (CourseMaterialModel) TableName() string {
	return "course_materials"
}
