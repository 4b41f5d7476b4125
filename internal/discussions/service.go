package discussions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"florist/internal/catalog"
	"florist/internal/notifications"
	"florist/internal/reservations"
	"florist/internal/shared/constants"
	"florist/pkg/cache"
	"florist/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrDiscussionNotFound      = errors.New("discussion not found")
	ErrNotOwner                = errors.New("discussion belongs to another client")
	ErrServiceNotQuoteEligible = errors.New("service has a fixed price")
	ErrServiceUnavailable      = errors.New("service is not available")
	ErrInvalidPrice            = errors.New("price must be positive")
	ErrInvalidAction           = errors.New("invalid finalize action")
	ErrInvalidStatusFilter     = errors.New("invalid status filter")
)

type Service interface {
	OpenDiscussion(ctx context.Context, clientID uuid.UUID, req CreateDiscussionRequest) (*DiscussionResponse, error)
	ListUserDiscussions(ctx context.Context, clientID uuid.UUID) ([]DiscussionResponse, error)
	Finalize(ctx context.Context, clientID, discussionID uuid.UUID, action Action) (*FinalizeResponse, error)

	// Admin operations
	ListDiscussions(ctx context.Context, filter ListFilter) ([]DiscussionResponse, error)
	Respond(ctx context.Context, adminID, discussionID uuid.UUID, req RespondRequest) (*DiscussionResponse, error)
}

type service struct {
	repo      Repository
	catalog   catalog.Catalog
	cache     cache.Service
	publisher notifications.Publisher
	now       func() time.Time
}

// NewService creates the discussion service. cacheService may be nil.
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

func (s *service) OpenDiscussion(ctx context.Context, clientID uuid.UUID, req CreateDiscussionRequest) (*DiscussionResponse, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, catalog.ErrServiceNotFound
	}

	svc, err := s.catalog.FindService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsQuoteEligible() {
		return nil, ErrServiceNotQuoteEligible
	}
	if !svc.Available {
		return nil, ErrServiceUnavailable
	}
	if !req.ProposedPrice.IsPositive() {
		return nil, ErrInvalidPrice
	}

	details, err := req.ToDetails(s.now())
	if err != nil {
		return nil, err
	}

	discussion := &DiscussionReservation{
		ClientID:      clientID,
		ServiceID:     svc.ID,
		ProposedPrice: req.ProposedPrice.Round(0),
		Status:        StatusAwaitingAdmin,
		EventDetails:  details,
	}
	if err := s.repo.Create(ctx, discussion); err != nil {
		return nil, fmt.Errorf("failed to create discussion: %w", err)
	}
	discussion.Service = svc

	reservations.InvalidateUserLists(ctx, s.cache, clientID)
	logger.GetDefault().LogDiscussionOpened(ctx, discussion.ID.String(), svc.ID.String(), clientID.String(), discussion.ProposedPrice.String())
	notifications.Emit(ctx, s.publisher,
		notifications.NewLifecycleEvent(notifications.EventDiscussionOpened, clientID, svc.ID, svc.Name, string(discussion.Status)).
			WithDiscussion(discussion.ID).
			WithPrice(discussion.ProposedPrice))

	resp := discussion.ToResponse()
	return &resp, nil
}

func (s *service) ListUserDiscussions(ctx context.Context, clientID uuid.UUID) ([]DiscussionResponse, error) {
	fetch := func() (interface{}, error) {
		list, err := s.repo.ListByClient(ctx, clientID)
		if err != nil {
			return nil, fmt.Errorf("failed to list discussions: %w", err)
		}
		return toResponses(list), nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.([]DiscussionResponse), nil
	}

	var out []DiscussionResponse
	key := constants.BuildUserDiscussionsKey(clientID.String())
	if err := s.cache.GetOrSet(ctx, key, constants.TTL_USER_LISTS, fetch, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Finalize(ctx context.Context, clientID, discussionID uuid.UUID, action Action) (*FinalizeResponse, error) {
	if !action.IsValid() {
		return nil, ErrInvalidAction
	}

	discussion, err := s.repo.GetByID(ctx, discussionID)
	if err != nil {
		return nil, err
	}
	if discussion.ClientID != clientID {
		return nil, ErrNotOwner
	}
	if !discussion.Status.CanFinalize() {
		return nil, transitionError(discussion.Status, action.Target())
	}

	reservation, applied, err := s.repo.Finalize(ctx, discussion, action, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to finalize discussion: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, discussionID)
	if err != nil {
		return nil, err
	}
	reservations.InvalidateUserLists(ctx, s.cache, clientID)

	if !applied {
		return nil, transitionError(updated.Status, action.Target())
	}

	logger.GetDefault().LogDiscussionFinalized(ctx, discussionID.String(), clientID.String(), string(action), string(updated.Status))

	eventType := notifications.EventDiscussionRefused
	if action == ActionAccept {
		eventType = notifications.EventDiscussionAccepted
	}
	event := notifications.NewLifecycleEvent(eventType, clientID, updated.ServiceID, updated.serviceName(), string(updated.Status)).
		WithDiscussion(updated.ID)
	if reservation != nil {
		event = event.WithReservation(reservation.ID).WithPrice(reservation.Price)
	}
	notifications.Emit(ctx, s.publisher, event)

	out := &FinalizeResponse{Discussion: updated.ToResponse()}
	if reservation != nil {
		reservation.Service = updated.Service
		resp := reservation.ToResponse()
		out.Reservation = &resp
	}
	return out, nil
}

func (s *service) ListDiscussions(ctx context.Context, filter ListFilter) ([]DiscussionResponse, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidStatusFilter
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list discussions: %w", err)
	}
	return toResponses(list), nil
}

func (s *service) Respond(ctx context.Context, adminID, discussionID uuid.UUID, req RespondRequest) (*DiscussionResponse, error) {
	if !req.AdminPrice.IsPositive() {
		return nil, ErrInvalidPrice
	}
	price := req.AdminPrice.Round(0)

	discussion, err := s.repo.GetByID(ctx, discussionID)
	if err != nil {
		return nil, err
	}
	if !discussion.Status.CanRespond() {
		return nil, transitionError(discussion.Status, StatusAwaitingClient)
	}

	applied, err := s.repo.Respond(ctx, discussionID, adminID, price, req.Note, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record counter-offer: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, discussionID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, transitionError(updated.Status, StatusAwaitingClient)
	}

	reservations.InvalidateUserLists(ctx, s.cache, updated.ClientID)
	logger.GetDefault().LogDiscussionResponded(ctx, discussionID.String(), adminID.String(), price.String())
	notifications.Emit(ctx, s.publisher,
		notifications.NewLifecycleEvent(notifications.EventDiscussionResponded, updated.ClientID, updated.ServiceID, updated.serviceName(), string(updated.Status)).
			WithDiscussion(updated.ID).
			WithPrice(price))

	resp := updated.ToResponse()
	return &resp, nil
}

func transitionError(current, target Status) error {
	return &reservations.TransitionError{Current: string(current), Target: string(target)}
}

func toResponses(list []DiscussionReservation) []DiscussionResponse {
	out := make([]DiscussionResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out
}
