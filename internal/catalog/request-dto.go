package catalog

import "github.com/shopspring/decimal"

// ListQuery filters GET /services
type ListQuery struct {
	Tarification string `form:"tarification"`
	PricingMode  string `form:"pricing_mode"`
	Category     string `form:"category"`
	All          bool   `form:"all"` // include unavailable services (admin)
}

type CreateServiceRequest struct {
	Name        string           `json:"name" binding:"required,min=2,max=255"`
	Description string           `json:"description" binding:"max=5000"`
	Category    string           `json:"category" binding:"max=100"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
	PricingMode PricingMode      `json:"pricing_mode" binding:"required,oneof=fixed on_quote"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
	Dimension   string           `json:"dimension" binding:"max=100"`
	MaxPeople   int              `json:"max_people" binding:"min=0"`
	Venue       string           `json:"venue" binding:"max=255"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
	PricingMode *PricingMode     `json:"pricing_mode" binding:"omitempty,oneof=fixed on_quote"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
	Dimension   *string          `json:"dimension" binding:"omitempty,max=100"`
	MaxPeople   *int             `json:"max_people" binding:"omitempty,min=0"`
	Venue       *string          `json:"venue" binding:"omitempty,max=255"`
}
