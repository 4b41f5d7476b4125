// Package storefront is the server-rendered client: catalog pages, the
// reservation and quote forms, and the client's reservation tracker.
package storefront

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"florist/internal/catalog"
	"florist/internal/discussions"
	"florist/internal/notifications"
	"florist/internal/reservations"
	"florist/pkg/client"
	"florist/pkg/logger"

	"github.com/gin-gonic/gin"
)

// API is the subset of pkg/client the pages call.
type API interface {
	Login(ctx context.Context, req client.LoginRequest) (string, error)
	ListServices(ctx context.Context, tarification string) ([]catalog.ServiceResponse, error)
	GetService(ctx context.Context, id string) (*catalog.ServiceResponse, error)
	CreateReservation(ctx context.Context, token string, req reservations.CreateReservationRequest) (*reservations.ReservationResponse, string, error)
	CancelReservation(ctx context.Context, token, id string) (string, error)
	ListReservations(ctx context.Context, token string) ([]reservations.ReservationResponse, error)
	CreateDiscussion(ctx context.Context, token string, req discussions.CreateDiscussionRequest) (*discussions.DiscussionResponse, string, error)
	ListDiscussions(ctx context.Context, token string) ([]discussions.DiscussionResponse, error)
	FinalizeDiscussion(ctx context.Context, token, id string, action discussions.Action) (*discussions.FinalizeResponse, string, error)
	ListNotifications(ctx context.Context, token string) ([]notifications.Notification, error)
}

type Options struct {
	Sessions      SessionFactory
	RedirectDelay time.Duration
	BannerTTL     time.Duration
	SecureCookies bool
	Logger        *logger.Logger
}

type Handler struct {
	api           API
	sessions      SessionFactory
	guard         *InFlightGuard
	forms         *FormValidator
	flash         flashes
	views         *views
	redirectDelay time.Duration
	log           *logger.Logger

	// last quote-eligible list, reused when a form is re-rendered without calling the API
	quoteMu       sync.RWMutex
	quoteServices []catalog.ServiceResponse
}

func NewHandler(api API, opts Options) (*Handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if opts.Sessions == nil {
		opts.Sessions = CookieSessions("florist_token", opts.SecureCookies)
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = 3 * time.Second
	}
	if opts.BannerTTL <= 0 {
		opts.BannerTTL = 3 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetDefault()
	}

	return &Handler{
		api:           api,
		sessions:      opts.Sessions,
		guard:         NewInFlightGuard(),
		forms:         NewFormValidator(),
		flash:         flashes{ttl: opts.BannerTTL, secure: opts.SecureCookies},
		views:         v,
		redirectDelay: opts.RedirectDelay,
		log:           opts.Logger,
	}, nil
}

type page struct {
	Title         string
	Authenticated bool
	Banner        *Banner
}

func (h *Handler) newPage(c *gin.Context, title string) page {
	return page{Title: title, Authenticated: h.sessions(c).IsAuthenticated()}
}

func errorBanner(message string) *Banner {
	return &Banner{Kind: BannerError, Message: message}
}

// requireSession redirects to the login page and reports false when the
// request carries no token.
func (h *Handler) requireSession(c *gin.Context, returnTo string) (Session, bool) {
	s := h.sessions(c)
	if s.IsAuthenticated() {
		return s, true
	}
	c.Redirect(http.StatusFound, loginURL(returnTo))
	c.Abort()
	return nil, false
}

// expired drops a token the API rejected and sends the client to log in again.
func (h *Handler) expired(c *gin.Context, s Session, returnTo string) {
	s.Clear()
	c.Redirect(http.StatusSeeOther, loginURL(returnTo))
}

func (h *Handler) rememberQuoteServices(list []catalog.ServiceResponse) {
	h.quoteMu.Lock()
	h.quoteServices = list
	h.quoteMu.Unlock()
}

func (h *Handler) knownQuoteServices() []catalog.ServiceResponse {
	h.quoteMu.RLock()
	defer h.quoteMu.RUnlock()
	return h.quoteServices
}
