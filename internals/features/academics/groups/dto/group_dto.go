package dto

import (
	"strings"

	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
)

type CreateGroupRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	SemesterID uint   `json:"semester_id" validate:"required"`
}

func (r *CreateGroupRequest) ToModel() *groupModel.GroupModel {
	return &groupModel.GroupModel{Name: strings.TrimSpace(r.Name), SemesterID: r.SemesterID}
}

type CreateGroupBySemesterNameRequest struct {
	SemesterName string `json:"semester_name" validate:"required"`
	Name         string `json:"name" validate:"required,max=100"`
}

type UpdateGroupRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=100"`
	SemesterID *uint   `json:"semester_id" validate:"omitempty,gt=0"`
}

// ToUpdates only carries the fields that were sent.
func (r *UpdateGroupRequest) ToUpdates() map[string]any {
	m := map[string]any{}
	if r.Name != nil {
		m["name"] = strings.TrimSpace(*r.Name)
	}
	if r.SemesterID != nil {
		m["semester_id"] = *r.SemesterID
	}
	return m
}

type GroupDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	SemesterID   uint   `json:"semester_id"`
	SemesterName string `json:"semester_name,omitempty"`
}

func ToGroupDTO(g *groupModel.GroupModel) GroupDTO {
	d := GroupDTO{ID: g.ID, Name: g.Name, SemesterID: g.SemesterID}
	if g.Semester != nil {
		d.SemesterName = g.Semester.Name
	}
	return d
}

func ToGroupDTOs(rows []groupModel.GroupModel) []GroupDTO {
	out := make([]GroupDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToGroupDTO(&rows[i]))
	}
	return out
}
