package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PromotionKindSemester = "semester"
	PromotionKindYear     = "year"
)

// PromotionRunModel keeps an audit trail of every successful rollover.
type PromotionRunModel struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Kind        string         `gorm:"size:16;not null;index" json:"kind"`
	Summary     datatypes.JSON `gorm:"not null" json:"summary"`
	ActorUserID *uint          `json:"actor_user_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (PromotionRunModel) TableName() string {
	return "promotion_runs"
}
