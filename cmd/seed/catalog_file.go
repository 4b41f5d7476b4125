package main

import (
	"fmt"
	"os"
	"strings"

	"florist/internal/catalog"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk shape of a catalog import.
type CatalogFile struct {
	Services []ServiceEntry `yaml:"services"`
}

type ServiceEntry struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	Category     string   `yaml:"category,omitempty"`
	Images       []string `yaml:"images,omitempty"`
	Tarification string   `yaml:"tarification"`
	Price        *int64   `yaml:"price,omitempty"`
	Available    *bool    `yaml:"available,omitempty"`
	Dimension    string   `yaml:"dimension,omitempty"`
	MaxPeople    int      `yaml:"max_people,omitempty"`
	Venue        string   `yaml:"venue,omitempty"`
}

func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*CatalogFile, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(file.Services) == 0 {
		return nil, fmt.Errorf("catalog file lists no services")
	}
	return &file, nil
}

// ToRequest maps an entry onto the admin create request. The tarification
// accepts both the display label ("Prix fixe") and the mode ("fixed").
func (e ServiceEntry) ToRequest() (catalog.CreateServiceRequest, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return catalog.CreateServiceRequest{}, fmt.Errorf("service without a name")
	}

	mode, ok := catalog.ParsePricingMode(e.Tarification)
	if !ok || mode == "" {
		return catalog.CreateServiceRequest{}, fmt.Errorf("%s: unknown tarification %q", name, e.Tarification)
	}

	req := catalog.CreateServiceRequest{
		Name:        name,
		Description: e.Description,
		Category:    e.Category,
		Images:      e.Images,
		PricingMode: mode,
		Available:   e.Available,
		Dimension:   e.Dimension,
		MaxPeople:   e.MaxPeople,
		Venue:       e.Venue,
	}
	if e.Price != nil {
		price := decimal.NewFromInt(*e.Price)
		req.Price = &price
	}
	return req, nil
}
