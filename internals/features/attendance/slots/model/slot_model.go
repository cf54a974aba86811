package model

import (
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	userModel "gestionabsence_backend/internals/features/users/user/model"
	"gestionabsence_backend/internals/helpers/dbtime"

	"gorm.io/datatypes"
)

// SlotModel is one class session. A professor "calls" a slot to record absences.
type SlotModel struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Date          datatypes.Date `gorm:"not null;index;uniqueIndex:uq_slot_session" json:"date"`
	StartTime     dbtime.Tod     `gorm:"type:time;not null" json:"start_time"`
	EndTime       dbtime.Tod     `gorm:"type:time;not null" json:"end_time"`
	SessionTypeID uint           `gorm:"not null;uniqueIndex:uq_slot_session" json:"session_type_id"`
	GroupID       *uint          `gorm:"index;uniqueIndex:uq_slot_session" json:"group_id"`
	ProfessorID   uint           `gorm:"not null;index;uniqueIndex:uq_slot_session" json:"professor_id"`

	SessionType *sessionTypeModel.SessionTypeModel `gorm:"foreignKey:SessionTypeID;constraint:OnDelete:CASCADE" json:"session_type,omitempty"`
	Group       *groupModel.GroupModel             `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Professor   *userModel.UserModel               `gorm:"foreignKey:ProfessorID;constraint:OnDelete:CASCADE" json:"professor,omitempty"`
}

func (SlotModel) TableName() string {
	return "slots"
}
