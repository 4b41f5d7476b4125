package catalog

import (
	"context"
	"errors"
	"fmt"

	"florist/internal/shared/constants"
	"florist/pkg/cache"
	"florist/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrInvalidPricingMode = errors.New("invalid pricing mode")
	ErrFixedPriceRequired = errors.New("fixed-price services need a positive price")
)

// Catalog is the business contract of the service catalog.
type Catalog interface {
	ListServices(ctx context.Context, filter ListFilter) ([]ServiceResponse, error)
	GetService(ctx context.Context, id uuid.UUID) (*ServiceResponse, error)

	// FindService bypasses the cache; used when booking against a service.
	FindService(ctx context.Context, id uuid.UUID) (*Service, error)

	CreateService(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error)
}

type catalog struct {
	repo  Repository
	cache cache.Service
}

// NewCatalog creates the catalog service. cacheService may be nil.
func NewCatalog(repo Repository, cacheService cache.Service) Catalog {
	return &catalog{
		repo:  repo,
		cache: cacheService,
	}
}

func (c *catalog) ListServices(ctx context.Context, filter ListFilter) ([]ServiceResponse, error) {
	fetch := func() (interface{}, error) {
		services, err := c.repo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list services: %w", err)
		}
		out := make([]ServiceResponse, 0, len(services))
		for i := range services {
			out = append(out, services[i].ToResponse())
		}
		return out, nil
	}

	if c.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.([]ServiceResponse), nil
	}

	var out []ServiceResponse
	key := constants.BuildCatalogListKey(filter.PricingMode.String(), filter.Category, filter.OnlyAvailable)
	if err := c.cache.GetOrSet(ctx, key, constants.TTL_CATALOG_LIST, fetch, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalog) GetService(ctx context.Context, id uuid.UUID) (*ServiceResponse, error) {
	fetch := func() (interface{}, error) {
		service, err := c.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return service.ToResponse(), nil
	}

	if c.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		resp := data.(ServiceResponse)
		return &resp, nil
	}

	var out ServiceResponse
	if err := c.cache.GetOrSet(ctx, constants.BuildCatalogDetailKey(id.String()), constants.TTL_CATALOG_DETAIL, fetch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *catalog) FindService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return c.repo.GetByID(ctx, id)
}

func (c *catalog) CreateService(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error) {
	service := &Service{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Images:      req.Images,
		PricingMode: req.PricingMode,
		Available:   true,
		Dimension:   req.Dimension,
		MaxPeople:   req.MaxPeople,
		Venue:       req.Venue,
	}
	if req.Available != nil {
		service.Available = *req.Available
	}
	if req.Price != nil {
		service.Price = decimal.NewNullDecimal(*req.Price)
	}

	if err := normalizePricing(service); err != nil {
		return nil, err
	}

	if err := c.repo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	c.invalidate(ctx)
	logger.GetDefault().InfoWithContext(ctx, "Service created", map[string]interface{}{
		"service_id":   service.ID.String(),
		"pricing_mode": string(service.PricingMode),
	})
	resp := service.ToResponse()
	return &resp, nil
}

func (c *catalog) UpdateService(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	service, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.Images != nil {
		service.Images = req.Images
	}
	if req.PricingMode != nil {
		service.PricingMode = *req.PricingMode
	}
	if req.Price != nil {
		service.Price = decimal.NewNullDecimal(*req.Price)
	}
	if req.Available != nil {
		service.Available = *req.Available
	}
	if req.Dimension != nil {
		service.Dimension = *req.Dimension
	}
	if req.MaxPeople != nil {
		service.MaxPeople = *req.MaxPeople
	}
	if req.Venue != nil {
		service.Venue = *req.Venue
	}

	if err := normalizePricing(service); err != nil {
		return nil, err
	}

	if err := c.repo.Update(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	c.invalidate(ctx)
	resp := service.ToResponse()
	return &resp, nil
}

// normalizePricing enforces: fixed => positive price, on_quote => no price.
func normalizePricing(service *Service) error {
	switch service.PricingMode {
	case PricingFixed:
		if !service.Price.Valid || !service.Price.Decimal.IsPositive() {
			return ErrFixedPriceRequired
		}
	case PricingOnQuote:
		service.Price = decimal.NullDecimal{}
	default:
		return ErrInvalidPricingMode
	}
	return nil
}

func (c *catalog) invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_CATALOG); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to invalidate catalog cache", err, nil)
	}
}
