package discussions

import (
	"time"

	"florist/internal/reservations"

	"github.com/shopspring/decimal"
)

type DiscussionResponse struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	reservations.EventDetailsResponse
	ProposedPrice decimal.Decimal     `json:"proposed_price"`
	AdminPrice    decimal.NullDecimal `json:"reponse_admin"`
	AdminNote     string              `json:"admin_note,omitempty"`
	Status        Status              `json:"status"`
	ReservationID *string             `json:"reservation_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	RespondedAt   *time.Time          `json:"responded_at,omitempty"`
	FinalizedAt   *time.Time          `json:"finalized_at,omitempty"`
}

type DiscussionListResponse struct {
	Discussions []DiscussionResponse `json:"discussions"`
	Count       int                  `json:"count"`
}

// FinalizeResponse carries the reservation created by an accepted offer.
type FinalizeResponse struct {
	Discussion  DiscussionResponse                `json:"discussion"`
	Reservation *reservations.ReservationResponse `json:"reservation,omitempty"`
}
