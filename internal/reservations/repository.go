package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows the admin listing.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Reservation, error)
	List(ctx context.Context, filter ListFilter) ([]Reservation, error)

	// TransitionStatus moves the reservation only if it is still in from.
	// It reports false when another request changed the status first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Omit("Service").Create(reservation).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Reservation, error) {
	var reservations []Reservation
	query := r.db.WithContext(ctx).Preload("Service")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Order("event_date ASC, created_at ASC").Find(&reservations).Error
	return reservations, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case StatusCancelled:
		updates["cancelled_at"] = at
	case StatusCompleted:
		updates["completed_at"] = at
	}

	result := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
