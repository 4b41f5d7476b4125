package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows a catalog listing.
type ListFilter struct {
	PricingMode   PricingMode
	Category      string
	OnlyAvailable bool
}

type Repository interface {
	Create(ctx context.Context, service *Service) error
	Update(ctx context.Context, service *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	List(ctx context.Context, filter ListFilter) ([]Service, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, service *Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *repository) Update(ctx context.Context, service *Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var service Service
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Service, error) {
	var services []Service
	query := r.db.WithContext(ctx).Model(&Service{})

	if filter.PricingMode != "" {
		query = query.Where("pricing_mode = ?", filter.PricingMode)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyAvailable {
		query = query.Where("available = ?", true)
	}

	err := query.Order("name ASC").Find(&services).Error
	return services, err
}
