package model

import (
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
)

// PresenceModel records an ABSENCE: a row means the student missed the slot.
type PresenceModel struct {
	StudentID         uint    `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	SlotID            uint    `gorm:"primaryKey;autoIncrement:false;index" json:"slot_id"`
	Justified         bool    `gorm:"not null;default:false" json:"justified"`
	JustificationFile *string `gorm:"size:512" json:"justification_file,omitempty"`

	Student *studentModel.StudentModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Slot    *slotModel.SlotModel       `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE" json:"slot,omitempty"`
}

func (PresenceModel) TableName() string {
	return "presences"
}
