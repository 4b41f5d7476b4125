package catalog

import "strings"

// PricingMode tells whether a service is booked at its catalog price or
// negotiated through a quote discussion.
type PricingMode string

const (
	PricingFixed   PricingMode = "fixed"
	PricingOnQuote PricingMode = "on_quote"
)

// Wire labels used by the storefront ("tarification").
const (
	TarificationFixed   = "Prix fixe"
	TarificationOnQuote = "Sur devis"
)

func (m PricingMode) IsValid() bool {
	switch m {
	case PricingFixed, PricingOnQuote:
		return true
	}
	return false
}

func (m PricingMode) String() string {
	return string(m)
}

// Label returns the French tarification label.
func (m PricingMode) Label() string {
	if m == PricingOnQuote {
		return TarificationOnQuote
	}
	return TarificationFixed
}

// ParsePricingMode accepts either the internal value or the tarification label.
func ParsePricingMode(raw string) (PricingMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case string(PricingFixed), strings.ToLower(TarificationFixed):
		return PricingFixed, true
	case string(PricingOnQuote), strings.ToLower(TarificationOnQuote), "devis":
		return PricingOnQuote, true
	}
	return "", false
}
