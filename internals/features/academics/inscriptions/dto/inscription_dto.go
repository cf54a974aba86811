package dto

import (
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
)

type InscriptionStudentDTO struct {
	ID            uint   `json:"id"`
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
}

type InscriptionDTO struct {
	StudentID uint                   `json:"student_id"`
	GroupID   uint                   `json:"group_id"`
	Student   *InscriptionStudentDTO `json:"student,omitempty"`
}

func ToInscriptionDTOs(rows []inscriptionModel.InscriptionModel) []InscriptionDTO {
	out := make([]InscriptionDTO, 0, len(rows))
	for _, r := range rows {
		d := InscriptionDTO{StudentID: r.StudentID, GroupID: r.GroupID}
		if r.Student != nil {
			d.Student = &InscriptionStudentDTO{
				ID:            r.Student.ID,
				StudentNumber: r.Student.StudentNumber,
				Name:          r.Student.Name,
			}
		}
		out = append(out, d)
	}
	return out
}
