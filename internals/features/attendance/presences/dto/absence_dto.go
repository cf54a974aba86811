package dto

import (
	"time"

	"gestionabsence_backend/internals/helpers/dbtime"
)

// YearAbsenceDTO is a row of GET /api/presence/by-year/:year.
type YearAbsenceDTO struct {
	Name           string     `json:"name"`
	StudentNumber  string     `json:"student_number"`
	Date           time.Time  `json:"date"`
	StartTime      dbtime.Tod `json:"start_time"`
	EndTime        dbtime.Tod `json:"end_time"`
	SessionType    string     `json:"session_type"`
	CourseMaterial string     `json:"course_material"`
	Justified      bool       `json:"justified"`
	StudentID      uint       `json:"student_id"`
	SlotID         uint       `json:"slot_id"`
}

// StudentAbsenceDTO is what a student (or the manager) sees for one student.
type StudentAbsenceDTO struct {
	CourseMaterial    string     `json:"course_material"`
	SessionType       string     `json:"session_type"`
	Date              time.Time  `json:"date"`
	StartTime         dbtime.Tod `json:"start_time"`
	EndTime           dbtime.Tod `json:"end_time"`
	CourseID          uint       `json:"course_id"`
	Justified         bool       `json:"justified"`
	StudentID         uint       `json:"student_id"`
	SlotID            uint       `json:"slot_id"`
	JustificationFile *string    `json:"justification_file"`
}

// CourseAbsenceDTO lists the absences of one course material.
type CourseAbsenceDTO struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	StudentNumber     string     `json:"student_number"`
	Date              time.Time  `json:"date"`
	StartTime         dbtime.Tod `json:"start_time"`
	EndTime           dbtime.Tod `json:"end_time"`
	SessionType       string     `json:"session_type"`
	CourseMaterial    string     `json:"course_material"`
	Justified         bool       `json:"justified"`
	JustificationFile *string    `json:"justification_file"`
	StudentID         uint       `json:"student_id"`
	SlotID            uint       `json:"slot_id"`
}
