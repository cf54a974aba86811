package model

import (
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
)

// InscriptionModel enrolls a student into a group.
type InscriptionModel struct {
	StudentID uint `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	GroupID   uint `gorm:"primaryKey;autoIncrement:false;index" json:"group_id"`

	Student *studentModel.StudentModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Group   *groupModel.GroupModel     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
}

func (InscriptionModel) TableName() string {
	return "inscriptions"
}
