package reservations

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventDetailsResponse struct {
	EventDate   string    `json:"event_date"`
	VenueType   VenueType `json:"venue_type"`
	Address     string    `json:"address"`
	PeopleCount int       `json:"people_count"`
	Message     string    `json:"message"`
}

func NewEventDetailsResponse(d EventDetails) EventDetailsResponse {
	return EventDetailsResponse{
		EventDate:   d.EventDate.Format(EventDateLayout),
		VenueType:   d.VenueType,
		Address:     d.Address,
		PeopleCount: d.PeopleCount,
		Message:     d.Message,
	}
}

type ReservationResponse struct {
	ID           string          `json:"id"`
	ServiceID    string          `json:"service_id"`
	ServiceName  string          `json:"service_name"`
	DiscussionID *string         `json:"discussion_id,omitempty"`
	Price        decimal.Decimal `json:"price"`
	EventDetailsResponse
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Count        int                   `json:"count"`
}
