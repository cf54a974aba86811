package model

import (
	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
)

// SessionTypeGlobalModel holds the three kinds of teaching: CM, TD, TP.
type SessionTypeGlobalModel struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:10;not null;uniqueIndex" json:"name"`
}

func (SessionTypeGlobalModel) TableName() string {
	return "session_type_globals"
}

// SessionTypeModel binds a global type to one course material ("TD of Analyse réelle 1").
type SessionTypeModel struct {
	ID                  uint `gorm:"primaryKey" json:"id"`
	SessionTypeGlobalID uint `gorm:"not null;uniqueIndex:uq_session_type_global_course" json:"session_type_global_id"`
	CourseMaterialID    uint `gorm:"not null;uniqueIndex:uq_session_type_global_course;index" json:"course_material_id"`

	SessionTypeGlobal *SessionTypeGlobalModel          `gorm:"foreignKey:SessionTypeGlobalID;constraint:OnDelete:CASCADE" json:"session_type_global,omitempty"`
	CourseMaterial    *courseModel.CourseMaterialModel `gorm:"foreignKey:CourseMaterialID;constraint:OnDelete:CASCADE" json:"course_material,omitempty"`
}

func (SessionTypeModel) TableName() string {
	return "session_types"
}
