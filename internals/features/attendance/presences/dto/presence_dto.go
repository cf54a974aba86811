package dto

type CreatePresenceRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	SlotID    uint `json:"slot_id" validate:"required"`
}

type UpdateJustifiedRequest struct {
	Justified *bool `json:"justified" validate:"required"`
}
