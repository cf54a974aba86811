package dto

import (
	"time"

	"github.com/bytedance/sonic"

	promotionModel "gestionabsence_backend/internals/features/promotion/model"
	"gestionabsence_backend/internals/features/promotion/service"
)

type PromotionRunDTO struct {
	ID          uint            `json:"id"`
	Kind        string          `json:"kind"`
	Summary     *service.Result `json:"summary"`
	ActorUserID *uint           `json:"actor_user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func ToPromotionRunDTOs(rows []promotionModel.PromotionRunModel) []PromotionRunDTO {
	out := make([]PromotionRunDTO, 0, len(rows))
	for _, r := range rows {
		d := PromotionRunDTO{ID: r.ID, Kind: r.Kind, ActorUserID: r.ActorUserID, CreatedAt: r.CreatedAt}
		var summary service.Result
		if err := sonic.Unmarshal(r.Summary, &summary); err == nil {
			d.Summary = &summary
		}
		out = append(out, d)
	}
	return out
}
