package dto

import (
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
)

type GlobalTypeDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SessionTypeDTO struct {
	ID                  uint   `json:"id"`
	SessionTypeGlobalID uint   `json:"session_type_global_id"`
	CourseMaterialID    uint   `json:"course_material_id"`
	Type                string `json:"type,omitempty"`
	CourseMaterial      string `json:"course_material,omitempty"`
}

func ToGlobalTypeDTOs(rows []sessionTypeModel.SessionTypeGlobalModel) []GlobalTypeDTO {
	out := make([]GlobalTypeDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, GlobalTypeDTO{ID: r.ID, Name: r.Name})
	}
	return out
}

func ToSessionTypeDTOs(rows []sessionTypeModel.SessionTypeModel) []SessionTypeDTO {
	out := make([]SessionTypeDTO, 0, len(rows))
	for _, r := range rows {
		d := SessionTypeDTO{
			ID:                  r.ID,
			SessionTypeGlobalID: r.SessionTypeGlobalID,
			CourseMaterialID:    r.CourseMaterialID,
		}
		if r.SessionTypeGlobal != nil {
			d.Type = r.SessionTypeGlobal.Name
		}
		if r.CourseMaterial != nil {
			d.CourseMaterial = r.CourseMaterial.Name
		}
		out = append(out, d)
	}
	return out
}
