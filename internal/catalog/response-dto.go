package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	Images       []string            `json:"images"`
	PricingMode  PricingMode         `json:"pricing_mode"`
	Tarification string              `json:"tarification"`
	Price        decimal.NullDecimal `json:"price"`
	Available    bool                `json:"available"`
	Dimension    string              `json:"dimension"`
	MaxPeople    int                 `json:"max_people"`
	Venue        string              `json:"venue"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Count    int               `json:"count"`
}
