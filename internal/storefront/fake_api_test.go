package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"florist/internal/catalog"
	"florist/internal/discussions"
	"florist/internal/notifications"
	"florist/internal/reservations"
	"florist/pkg/client"

	"github.com/gin-gonic/gin"
)

const testToken = "session-token"

// fakeAPI records every call; fields set the canned answers.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	services      []catalog.ServiceResponse
	service       *catalog.ServiceResponse
	reservations  []reservations.ReservationResponse
	discussions   []discussions.DiscussionResponse
	notifications []notifications.Notification

	reservationsErr error
	discussionsErr  error
	mutationErr     error
	loginToken      string

	lastAction discussions.Action
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) Login(ctx context.Context, req client.LoginRequest) (string, error) {
	f.record("login")
	if f.loginToken == "" {
		return "", &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Identifiants invalides"}
	}
	return f.loginToken, nil
}

func (f *fakeAPI) ListServices(ctx context.Context, tarification string) ([]catalog.ServiceResponse, error) {
	f.record("list-services")
	return f.services, nil
}

func (f *fakeAPI) GetService(ctx context.Context, id string) (*catalog.ServiceResponse, error) {
	f.record("get-service")
	if f.service == nil {
		return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "Prestation introuvable"}
	}
	return f.service, nil
}

func (f *fakeAPI) CreateReservation(ctx context.Context, token string, req reservations.CreateReservationRequest) (*reservations.ReservationResponse, string, error) {
	f.record("create-reservation")
	if f.mutationErr != nil {
		return nil, "", f.mutationErr
	}
	return &reservations.ReservationResponse{ID: "r-new", Status: reservations.StatusReserved}, "Réservation créée", nil
}

func (f *fakeAPI) CancelReservation(ctx context.Context, token, id string) (string, error) {
	f.record("cancel-reservation")
	if f.mutationErr != nil {
		return "", f.mutationErr
	}
	return "Réservation annulée", nil
}

func (f *fakeAPI) ListReservations(ctx context.Context, token string) ([]reservations.ReservationResponse, error) {
	f.record("list-reservations")
	return f.reservations, f.reservationsErr
}

func (f *fakeAPI) CreateDiscussion(ctx context.Context, token string, req discussions.CreateDiscussionRequest) (*discussions.DiscussionResponse, string, error) {
	f.record("create-discussion")
	if f.mutationErr != nil {
		return nil, "", f.mutationErr
	}
	return &discussions.DiscussionResponse{ID: "d-new", Status: discussions.StatusAwaitingAdmin}, "Demande envoyée", nil
}

func (f *fakeAPI) ListDiscussions(ctx context.Context, token string) ([]discussions.DiscussionResponse, error) {
	f.record("list-discussions")
	return f.discussions, f.discussionsErr
}

func (f *fakeAPI) FinalizeDiscussion(ctx context.Context, token, id string, action discussions.Action) (*discussions.FinalizeResponse, string, error) {
	f.record("finalize")
	f.mu.Lock()
	f.lastAction = action
	f.mu.Unlock()
	if f.mutationErr != nil {
		return nil, "", f.mutationErr
	}
	return &discussions.FinalizeResponse{}, "Offre acceptée", nil
}

func (f *fakeAPI) ListNotifications(ctx context.Context, token string) ([]notifications.Notification, error) {
	f.record("list-notifications")
	return f.notifications, nil
}

type storefrontFixture struct {
	t       *testing.T
	api     *fakeAPI
	handler *Handler
	engine  *gin.Engine
}

func newStorefront(t *testing.T, api API) *storefrontFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := NewHandler(api, Options{})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	engine := gin.New()
	SetupRoutes(engine, h)

	fake, _ := api.(*fakeAPI)
	return &storefrontFixture{t: t, api: fake, handler: h, engine: engine}
}

func (f *storefrontFixture) get(path string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		req.AddCookie(&http.Cookie{Name: "florist_token", Value: testToken})
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *storefrontFixture) post(path string, form url.Values, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authenticated {
		req.AddCookie(&http.Cookie{Name: "florist_token", Value: testToken})
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
