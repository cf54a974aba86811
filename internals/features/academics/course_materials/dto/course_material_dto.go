package dto

import (
	"strings"

	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
)

type CreateCourseMaterialRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	SemesterID uint   `json:"semester_id" validate:"required"`
}

func (r *CreateCourseMaterialRequest) ToModel() *courseModel.CourseMaterialModel {
	return &courseModel.CourseMaterialModel{Name: strings.TrimSpace(r.Name), SemesterID: r.SemesterID}
}

type UpdateCourseMaterialRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	SemesterID *uint   `json:"semester_id" validate:"omitempty,gt=0"`
}

func (r *UpdateCourseMaterialRequest) ToUpdates() map[string]any {
	m := map[string]any{}
	if r.Name != nil {
		m["name"] = strings.TrimSpace(*r.Name)
	}
	if r.SemesterID != nil {
		m["semester_id"] = *r.SemesterID
	}
	return m
}

type CourseMaterialDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	SemesterID uint   `json:"semester_id"`
}

func ToCourseMaterialDTO(cm *courseModel.CourseMaterialModel) CourseMaterialDTO {
	return CourseMaterialDTO{ID: cm.ID, Name: cm.Name, SemesterID: cm.SemesterID}
}

func ToCourseMaterialDTOs(rows []courseModel.CourseMaterialModel) []CourseMaterialDTO {
	out := make([]CourseMaterialDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToCourseMaterialDTO(&rows[i]))
	}
	return out
}
