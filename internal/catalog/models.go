package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is a bookable floral offering.
type Service struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"not null;size:255" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	Category    string                      `gorm:"size:100;index" json:"category"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	PricingMode PricingMode                 `gorm:"type:varchar(20);not null;index" json:"pricing_mode"`
	Price       decimal.NullDecimal         `gorm:"type:numeric(12,0)" json:"price"`
	Available   bool                        `gorm:"not null" json:"available"`
	Dimension   string                      `gorm:"size:100" json:"dimension"`
	MaxPeople   int                         `gorm:"default:0" json:"max_people"`
	Venue       string                      `gorm:"size:255" json:"venue"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// TableName sets the table name for Service
func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsQuoteEligible reports whether the service is negotiated through a discussion.
func (s *Service) IsQuoteEligible() bool {
	return s.PricingMode == PricingOnQuote
}

// IsBookableAtFixedPrice reports whether a direct reservation can be made.
func (s *Service) IsBookableAtFixedPrice() bool {
	return s.Available && s.PricingMode == PricingFixed && s.Price.Valid
}

// ToResponse converts the model to its API representation
func (s *Service) ToResponse() ServiceResponse {
	images := []string(s.Images)
	if images == nil {
		images = []string{}
	}
	return ServiceResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		Description:  s.Description,
		Category:     s.Category,
		Images:       images,
		PricingMode:  s.PricingMode,
		Tarification: s.PricingMode.Label(),
		Price:        s.Price,
		Available:    s.Available,
		Dimension:    s.Dimension,
		MaxPeople:    s.MaxPeople,
		Venue:        s.Venue,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
