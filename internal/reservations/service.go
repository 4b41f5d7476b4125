package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"florist/internal/catalog"
	"florist/internal/notifications"
	"florist/internal/shared/constants"
	"florist/pkg/cache"
	"florist/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrNotOwner             = errors.New("reservation belongs to another client")
	ErrServiceRequiresQuote = errors.New("service is priced on quote")
	ErrServiceUnavailable   = errors.New("service is not available")
	ErrInvalidStatusFilter  = errors.New("invalid status filter")
)

type Service interface {
	CreateReservation(ctx context.Context, clientID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error)
	ListUserReservations(ctx context.Context, clientID uuid.UUID) ([]ReservationResponse, error)
	CancelReservation(ctx context.Context, clientID, reservationID uuid.UUID) (*ReservationResponse, error)

	// Admin operations
	ListReservations(ctx context.Context, filter ListFilter) ([]ReservationResponse, error)
	CompleteReservation(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error)
}

type service struct {
	repo      Repository
	catalog   catalog.Catalog
	cache     cache.Service
	publisher notifications.Publisher
	now       func() time.Time
}

// NewService creates the reservation service. cacheService may be nil.
func NewService(repo Repository, catalogService catalog.Catalog, cacheService cache.Service, publisher notifications.Publisher) Service {
	if publisher == nil {
		publisher = notifications.NewNoopPublisher()
	}
	return &service{
		repo:      repo,
		catalog:   catalogService,
		cache:     cacheService,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateReservation(ctx context.Context, clientID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, catalog.ErrServiceNotFound
	}

	svc, err := s.catalog.FindService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.IsQuoteEligible() {
		return nil, ErrServiceRequiresQuote
	}
	if !svc.IsBookableAtFixedPrice() {
		return nil, ErrServiceUnavailable
	}

	details, err := req.ToDetails(s.now())
	if err != nil {
		return nil, err
	}

	reservation := &Reservation{
		ClientID:     clientID,
		ServiceID:    svc.ID,
		Price:        svc.Price.Decimal,
		EventDetails: details,
		Status:       StatusReserved,
	}
	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	reservation.Service = svc

	s.invalidateUser(ctx, clientID)
	logger.GetDefault().LogReservationCreated(ctx, reservation.ID.String(), svc.ID.String(), clientID.String())
	notifications.Emit(ctx, s.publisher,
		notifications.NewLifecycleEvent(notifications.EventReservationCreated, clientID, svc.ID, svc.Name, string(reservation.Status)).
			WithReservation(reservation.ID).
			WithPrice(reservation.Price))

	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) ListUserReservations(ctx context.Context, clientID uuid.UUID) ([]ReservationResponse, error) {
	fetch := func() (interface{}, error) {
		list, err := s.repo.ListByClient(ctx, clientID)
		if err != nil {
			return nil, fmt.Errorf("failed to list reservations: %w", err)
		}
		return toResponses(list), nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.([]ReservationResponse), nil
	}

	var out []ReservationResponse
	key := constants.BuildUserReservationsKey(clientID.String())
	if err := s.cache.GetOrSet(ctx, key, constants.TTL_USER_LISTS, fetch, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) CancelReservation(ctx context.Context, clientID, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.ClientID != clientID {
		return nil, ErrNotOwner
	}

	updated, err := s.transition(ctx, reservation, StatusCancelled)
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogReservationCancelled(ctx, reservationID.String(), clientID.String())
	notifications.Emit(ctx, s.publisher,
		notifications.NewLifecycleEvent(notifications.EventReservationCancelled, clientID, updated.ServiceID, updated.serviceName(), string(updated.Status)).
			WithReservation(updated.ID))

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) ListReservations(ctx context.Context, filter ListFilter) ([]ReservationResponse, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidStatusFilter
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return toResponses(list), nil
}

func (s *service) CompleteReservation(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, reservation, StatusCompleted)
	if err != nil {
		return nil, err
	}

	notifications.Emit(ctx, s.publisher,
		notifications.NewLifecycleEvent(notifications.EventReservationCompleted, updated.ClientID, updated.ServiceID, updated.serviceName(), string(updated.Status)).
			WithReservation(updated.ID))

	resp := updated.ToResponse()
	return &resp, nil
}

// transition applies a guarded status change and returns the fresh row.
func (s *service) transition(ctx context.Context, reservation *Reservation, to Status) (*Reservation, error) {
	allowed := false
	switch to {
	case StatusCancelled:
		allowed = reservation.Status.CanBeCancelled()
	case StatusCompleted:
		allowed = reservation.Status.CanBeCompleted()
	}
	if !allowed {
		return nil, &TransitionError{Current: string(reservation.Status), Target: string(to)}
	}

	ok, err := s.repo.TransitionStatus(ctx, reservation.ID, reservation.Status, to, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}
	s.invalidateUser(ctx, reservation.ClientID)

	if !ok {
		return nil, &TransitionError{Current: string(updated.Status), Target: string(to)}
	}
	return updated, nil
}

func (s *service) invalidateUser(ctx context.Context, clientID uuid.UUID) {
	InvalidateUserLists(ctx, s.cache, clientID)
}

// InvalidateUserLists drops the cached tracker lists of a client.
func InvalidateUserLists(ctx context.Context, cacheService cache.Service, clientID uuid.UUID) {
	if cacheService == nil {
		return
	}
	err := cacheService.Delete(ctx,
		constants.BuildUserReservationsKey(clientID.String()),
		constants.BuildUserDiscussionsKey(clientID.String()),
	)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to invalidate user lists", err, map[string]interface{}{
			"client_id": clientID.String(),
		})
	}
}

func toResponses(list []Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out
}
