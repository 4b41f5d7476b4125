package discussions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"florist/internal/reservations"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, discussion *DiscussionReservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*DiscussionReservation, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]DiscussionReservation, error)
	List(ctx context.Context, filter ListFilter) ([]DiscussionReservation, error)

	// Respond records the admin counter-offer if the discussion still awaits the admin.
	Respond(ctx context.Context, id, adminID uuid.UUID, price decimal.Decimal, note string, at time.Time) (bool, error)

	// Finalize closes a discussion awaiting the client. For an accepted offer
	// the reservation is inserted in the same transaction. It reports false
	// when the discussion was no longer awaiting the client.
	Finalize(ctx context.Context, discussion *DiscussionReservation, action Action, at time.Time) (*reservations.Reservation, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, discussion *DiscussionReservation) error {
	return r.db.WithContext(ctx).Omit("Service").Create(discussion).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*DiscussionReservation, error) {
	var discussion DiscussionReservation
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ?", id).
		First(&discussion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscussionNotFound
		}
		return nil, err
	}
	return &discussion, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]DiscussionReservation, error) {
	var discussions []DiscussionReservation
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&discussions).Error
	return discussions, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]DiscussionReservation, error) {
	var discussions []DiscussionReservation
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

	err := query.Order("created_at ASC").Find(&discussions).Error
	return discussions, err
}

func (r *repository) Respond(ctx context.Context, id, adminID uuid.UUID, price decimal.Decimal, note string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&DiscussionReservation{}).
		Where("id = ? AND status = ?", id, StatusAwaitingAdmin).
		Updates(map[string]interface{}{
			"status":       StatusAwaitingClient,
			"admin_price":  price,
			"admin_note":   note,
			"admin_id":     adminID,
			"responded_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) Finalize(ctx context.Context, discussion *DiscussionReservation, action Action, at time.Time) (*reservations.Reservation, bool, error) {
	var created *reservations.Reservation
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&DiscussionReservation{}).
			Where("id = ? AND status = ?", discussion.ID, StatusAwaitingClient).
			Updates(map[string]interface{}{
				"status":       action.Target(),
				"finalized_at": at,
				"updated_at":   at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return errFinalizeConflict
		}

		if action == ActionAccept {
			reservation := discussion.NewReservation()
			if err := tx.Omit("Service").Create(reservation).Error; err != nil {
				return fmt.Errorf("failed to create reservation: %w", err)
			}
			err := tx.Model(&DiscussionReservation{}).
				Where("id = ?", discussion.ID).
				Update("reservation_id", reservation.ID).Error
			if err != nil {
				return err
			}
			created = reservation
		}

		applied = true
		return nil
	})

	if errors.Is(err, errFinalizeConflict) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return created, applied, nil
}

var errFinalizeConflict = errors.New("discussion no longer awaiting client")
