package discussions

import (
	"time"

	"florist/internal/catalog"
	"florist/internal/reservations"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscussionReservation is a price negotiation on an on-quote service.
type DiscussionReservation struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID      uuid.UUID           `gorm:"type:uuid;index;not null" json:"client_id"`
	ServiceID     uuid.UUID           `gorm:"type:uuid;index;not null" json:"service_id"`
	ProposedPrice decimal.Decimal     `gorm:"type:numeric(12,0);not null" json:"proposed_price"`
	AdminPrice    decimal.NullDecimal `gorm:"type:numeric(12,0)" json:"reponse_admin"`
	AdminNote     string              `gorm:"type:text" json:"admin_note"`
	AdminID       *uuid.UUID          `gorm:"type:uuid" json:"admin_id,omitempty"`
	Status        Status              `gorm:"type:varchar(20);not null;index" json:"status"`
	ReservationID *uuid.UUID          `gorm:"type:uuid" json:"reservation_id,omitempty"`
	RespondedAt   *time.Time          `json:"responded_at,omitempty"`
	FinalizedAt   *time.Time          `json:"finalized_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`

	reservations.EventDetails `gorm:"embedded"`

	// Relationships
	Service *catalog.Service `json:"service,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for DiscussionReservation
func (DiscussionReservation) TableName() string {
	return "discussion_reservations"
}

func (d *DiscussionReservation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = StatusAwaitingAdmin
	}
	return nil
}

func (d *DiscussionReservation) serviceName() string {
	if d.Service == nil {
		return ""
	}
	return d.Service.Name
}

// NewReservation builds the reservation spawned by an accepted counter-offer.
func (d *DiscussionReservation) NewReservation() *reservations.Reservation {
	discussionID := d.ID
	return &reservations.Reservation{
		ClientID:     d.ClientID,
		ServiceID:    d.ServiceID,
		DiscussionID: &discussionID,
		Price:        d.AdminPrice.Decimal,
		EventDetails: d.EventDetails,
		Status:       reservations.StatusReserved,
	}
}

func (d *DiscussionReservation) ToResponse() DiscussionResponse {
	resp := DiscussionResponse{
		ID:                   d.ID.String(),
		ServiceID:            d.ServiceID.String(),
		ServiceName:          d.serviceName(),
		EventDetailsResponse: reservations.NewEventDetailsResponse(d.EventDetails),
		ProposedPrice:        d.ProposedPrice,
		AdminPrice:           d.AdminPrice,
		AdminNote:            d.AdminNote,
		Status:               d.Status,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		RespondedAt:          d.RespondedAt,
		FinalizedAt:          d.FinalizedAt,
	}
	if d.ReservationID != nil {
		id := d.ReservationID.String()
		resp.ReservationID = &id
	}
	return resp
}
