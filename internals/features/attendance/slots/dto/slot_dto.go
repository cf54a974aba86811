package dto

import (
	"time"

	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	"gestionabsence_backend/internals/helpers/dbtime"
)

// SessionSlotRequest identifies a slot by group, course name and session type.
// Keys follow what the attendance screen sends.
type SessionSlotRequest struct {
	GroupID             uint        `json:"groupId" validate:"required"`
	CourseName          string      `json:"courseName" validate:"required,max=255"`
	SessionTypeGlobalID uint        `json:"sessionTypeGlobalId" validate:"required"`
	Date                string      `json:"date" validate:"required"`
	StartTime           *dbtime.Tod `json:"start_time"`
	EndTime             *dbtime.Tod `json:"end_time"`
}

type UpdateSlotRequest struct {
	Date          *string     `json:"date"`
	StartTime     *dbtime.Tod `json:"start_time"`
	EndTime       *dbtime.Tod `json:"end_time"`
	GroupID       *uint       `json:"group_id" validate:"omitempty,gt=0"`
	SessionTypeID *uint       `json:"session_type_id" validate:"omitempty,gt=0"`
}

type SlotDTO struct {
	ID             uint       `json:"id"`
	Date           string     `json:"date"`
	StartTime      dbtime.Tod `json:"start_time"`
	EndTime        dbtime.Tod `json:"end_time"`
	SessionTypeID  uint       `json:"session_type_id"`
	GroupID        *uint      `json:"group_id"`
	ProfessorID    uint       `json:"professor_id"`
	SessionType    string     `json:"session_type,omitempty"`
	SessionGlobal  uint       `json:"session_type_global_id,omitempty"`
	CourseMaterial string     `json:"course_material,omitempty"`
	GroupName      string     `json:"group_name,omitempty"`
}

func ToSlotDTO(s *slotModel.SlotModel) SlotDTO {
	d := SlotDTO{
		ID:            s.ID,
		Date:          time.Time(s.Date).UTC().Format("2006-01-02"),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		SessionTypeID: s.SessionTypeID,
		GroupID:       s.GroupID,
		ProfessorID:   s.ProfessorID,
	}
	if st := s.SessionType; st != nil {
		if st.SessionTypeGlobal != nil {
			d.SessionType = st.SessionTypeGlobal.Name
			d.SessionGlobal = st.SessionTypeGlobal.ID
		}
		if st.CourseMaterial != nil {
			d.CourseMaterial = st.CourseMaterial.Name
		}
	}
	if s.Group != nil {
		d.GroupName = s.Group.Name
	}
	return d
}

func ToSlotDTOs(rows []slotModel.SlotModel) []SlotDTO {
	out := make([]SlotDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToSlotDTO(&rows[i]))
	}
	return out
}
