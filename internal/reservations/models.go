package reservations

import (
	"time"

	"florist/internal/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventDetails is the event metadata shared by reservations and quote discussions.
type EventDetails struct {
	EventDate   time.Time `gorm:"type:date;not null" json:"event_date"`
	VenueType   VenueType `gorm:"type:varchar(20);not null" json:"venue_type"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	PeopleCount int       `gorm:"default:0" json:"people_count"`
	Message     string    `gorm:"type:text" json:"message"`
}

// Reservation is a booked service at an agreed price.
type Reservation struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"client_id"`
	ServiceID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"service_id"`
	DiscussionID *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"discussion_id,omitempty"`
	Price        decimal.Decimal `gorm:"type:numeric(12,0);not null" json:"price"`
	EventDetails `gorm:"embedded"`
	Status       Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Service *catalog.Service `json:"service,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusReserved
	}
	return nil
}

func (r *Reservation) serviceName() string {
	if r.Service == nil {
		return ""
	}
	return r.Service.Name
}

// ToResponse converts the model to its API representation
func (r *Reservation) ToResponse() ReservationResponse {
	resp := ReservationResponse{
		ID:                   r.ID.String(),
		ServiceID:            r.ServiceID.String(),
		ServiceName:          r.serviceName(),
		Price:                r.Price,
		EventDetailsResponse: NewEventDetailsResponse(r.EventDetails),
		Status:               r.Status,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
		CancelledAt:          r.CancelledAt,
		CompletedAt:          r.CompletedAt,
	}
	if r.DiscussionID != nil {
		id := r.DiscussionID.String()
		resp.DiscussionID = &id
	}
	return resp
}
