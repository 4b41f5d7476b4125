package discussions

import (
	"florist/internal/reservations"

	"github.com/shopspring/decimal"
)

type CreateDiscussionRequest struct {
	ServiceID     string          `json:"service_id" binding:"required,uuid"`
	ProposedPrice decimal.Decimal `json:"proposed_price"`
	reservations.EventDetailsRequest
}

type RespondRequest struct {
	AdminPrice decimal.Decimal `json:"reponse_admin"`
	Note       string          `json:"note" binding:"max=2000"`
}

type FinalizeRequest struct {
	Action Action `json:"action" binding:"required,oneof=valider annuler"`
}

// ListQuery filters GET /admin/discussions
type ListQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}
