package dto

import (
	"strings"

	groupDTO "gestionabsence_backend/internals/features/academics/groups/dto"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	"gestionabsence_backend/internals/features/academics/students/service"
	helper "gestionabsence_backend/internals/helpers"
)

type CreateStudentRequest struct {
	StudentNumber string `json:"student_number" validate:"required,max=32"`
	Name          string `json:"name" validate:"required,max=255"`
}

func (r *CreateStudentRequest) ToModel() *studentModel.StudentModel {
	return &studentModel.StudentModel{
		StudentNumber: strings.TrimSpace(r.StudentNumber),
		Name:          helper.NormalizeName(r.Name),
	}
}

// ImportStudentRequest is one element of POST /api/student/many/:semester_id.
// first_name/last_name are optional; name is split ("LAST First") when they are missing.
type ImportStudentRequest struct {
	StudentNumber string `json:"student_number" validate:"required,max=32"`
	Name          string `json:"name" validate:"required_without_all=FirstName LastName,max=255"`
	FirstName     string `json:"first_name" validate:"max=120"`
	LastName      string `json:"last_name" validate:"max=120"`
}

// ToRow prefers explicit first/last names over splitting name.
func (r *ImportStudentRequest) ToRow() service.StudentRow {
	row := service.StudentRow{
		StudentNumber: strings.TrimSpace(r.StudentNumber),
		FirstName:     helper.NormalizeName(r.FirstName),
		LastName:      helper.NormalizeName(r.LastName),
	}
	if row.FirstName == "" && row.LastName == "" {
		row.FirstName, row.LastName = service.SplitName(r.Name)
	}
	return row
}

func ToRows(reqs []ImportStudentRequest) []service.StudentRow {
	rows := make([]service.StudentRow, 0, len(reqs))
	for i := range reqs {
		rows = append(rows, reqs[i].ToRow())
	}
	return rows
}

type UpdateStudentRequest struct {
	StudentNumber *string `json:"student_number" validate:"omitempty,min=1,max=32"`
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
}

func (r *UpdateStudentRequest) ToUpdates() map[string]any {
	m := map[string]any{}
	if r.StudentNumber != nil {
		m["student_number"] = strings.TrimSpace(*r.StudentNumber)
	}
	if r.Name != nil {
		m["name"] = helper.NormalizeName(*r.Name)
	}
	return m
}

type StudentDTO struct {
	ID            uint   `json:"id"`
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
}

func ToStudentDTO(s *studentModel.StudentModel) StudentDTO {
	return StudentDTO{ID: s.ID, StudentNumber: s.StudentNumber, Name: s.Name}
}

func ToStudentDTOs(rows []studentModel.StudentModel) []StudentDTO {
	out := make([]StudentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToStudentDTO(&rows[i]))
	}
	return out
}

// OtherGroupStudentDTO carries the group the student comes from when it is a similar group (TD1 vs TD2).
type OtherGroupStudentDTO struct {
	StudentDTO
	OriginalGroupID   *uint  `json:"original_group_id,omitempty"`
	OriginalGroupName string `json:"original_group_name,omitempty"`
}

func ToOtherGroupStudentDTOs(rows []service.OtherGroupStudent) []OtherGroupStudentDTO {
	out := make([]OtherGroupStudentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, OtherGroupStudentDTO{
			StudentDTO:        ToStudentDTO(&rows[i].StudentModel),
			OriginalGroupID:   rows[i].OriginalGroupID,
			OriginalGroupName: rows[i].OriginalGroupName,
		})
	}
	return out
}

type ImportResultDTO struct {
	Created  int               `json:"created"`
	Updated  int               `json:"updated"`
	Enrolled int64             `json:"enrolled"`
	Group    groupDTO.GroupDTO `json:"group"`
	Students []StudentDTO      `json:"students"`
}

func ToImportResultDTO(r *service.ImportResult) ImportResultDTO {
	return ImportResultDTO{
		Created:  r.Created,
		Updated:  r.Updated,
		Enrolled: r.Enrolled,
		Group:    groupDTO.ToGroupDTO(r.Group),
		Students: ToStudentDTOs(r.Students),
	}
}
