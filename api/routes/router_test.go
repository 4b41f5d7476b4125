package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"florist/internal/shared/config"
	"florist/internal/shared/database"
	"florist/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type apiHarness struct {
	t      *testing.T
	engine *gin.Engine
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		APIPrefix:  "/api",
		APIVersion: "v1",
		JWT:        config.JWTConfig{Secret: testSecret},
	}

	engine := gin.New()
	NewRouter(cfg, db, nil, cache.NewMemoryService(), nil).SetupRoutes(engine)
	return &apiHarness{t: t, engine: engine}
}

func (h *apiHarness) token(userID uuid.UUID, role string) string {
	h.t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		h.t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (h *apiHarness) do(method, path, token string, body interface{}, wantCode int, out interface{}) envelope {
	h.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	if w.Code != wantCode {
		h.t.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantCode, w.Code, w.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		h.t.Fatalf("decode envelope: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			h.t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

type idOnly struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// A client negotiates a workshop, the florist counters, the client accepts.
func TestQuoteNegotiationEndToEnd(t *testing.T) {
	h := newHarness(t)

	adminToken := h.token(uuid.New(), "ADMIN")
	clientToken := h.token(uuid.New(), "USER")
	eventDate := time.Now().AddDate(0, 3, 0).Format("2006-01-02")

	var service idOnly
	h.do(http.MethodPost, "/api/v1/admin/services", adminToken, map[string]interface{}{
		"name":         "Atelier Floral",
		"pricing_mode": "on_quote",
		"category":     "atelier",
	}, http.StatusCreated, &service)

	var quoteList struct {
		Services []struct {
			ID           string `json:"id"`
			Tarification string `json:"tarification"`
		} `json:"services"`
	}
	h.do(http.MethodGet, "/api/v1/services?tarification=Sur%20devis", "", nil, http.StatusOK, &quoteList)
	if len(quoteList.Services) != 1 || quoteList.Services[0].Tarification != "Sur devis" {
		t.Fatalf("expected the workshop in the quote list, got %+v", quoteList.Services)
	}

	var discussion idOnly
	h.do(http.MethodPost, "/api/v1/discussions", clientToken, map[string]interface{}{
		"service_id":     service.ID,
		"proposed_price": 50000,
		"event_date":     eventDate,
		"venue_type":     "intérieur",
		"address":        "Akwa, Douala",
		"message":        "Vingt participants",
	}, http.StatusCreated, &discussion)
	if discussion.Status != "réponse_client" {
		t.Fatalf("expected réponse_client, got %q", discussion.Status)
	}

	// Finalizing before the counter-offer is rejected
	h.do(http.MethodPost, fmt.Sprintf("/api/v1/discussions/%s/finalize", discussion.ID), clientToken,
		map[string]string{"action": "valider"}, http.StatusConflict, nil)

	h.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/discussions/%s/respond", discussion.ID), adminToken,
		map[string]interface{}{"reponse_admin": 45000}, http.StatusOK, nil)

	var finalized struct {
		Discussion  idOnly `json:"discussion"`
		Reservation struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Price  string `json:"price"`
		} `json:"reservation"`
	}
	h.do(http.MethodPost, fmt.Sprintf("/api/v1/discussions/%s/finalize", discussion.ID), clientToken,
		map[string]string{"action": "valider"}, http.StatusOK, &finalized)
	if finalized.Discussion.Status != "finalisé" {
		t.Fatalf("expected finalisé, got %q", finalized.Discussion.Status)
	}
	if finalized.Reservation.Status != "réservé" || finalized.Reservation.Price != "45000" {
		t.Fatalf("expected réservé at 45000, got %+v", finalized.Reservation)
	}

	env := h.do(http.MethodPost, fmt.Sprintf("/api/v1/discussions/%s/finalize", discussion.ID), clientToken,
		map[string]string{"action": "annuler"}, http.StatusConflict, nil)
	if env.Message == "" {
		t.Fatalf("conflict must carry a message")
	}

	var reservations struct {
		Reservations []idOnly `json:"reservations"`
		Count        int      `json:"count"`
	}
	h.do(http.MethodGet, "/api/v1/users/reservations", clientToken, nil, http.StatusOK, &reservations)
	if reservations.Count != 1 || reservations.Reservations[0].Status != "réservé" {
		t.Fatalf("expected one réservé reservation, got %+v", reservations)
	}

	var feed struct {
		Count int `json:"count"`
	}
	h.do(http.MethodGet, "/api/v1/users/notifications", clientToken, nil, http.StatusOK, &feed)
	if feed.Count != 0 {
		t.Fatalf("feed stays empty without an event bus, got %d", feed.Count)
	}
}

func TestHealthRoutes(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/health", "/ping", "/status"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	h := newHarness(t)
	clientToken := h.token(uuid.New(), "USER")

	h.do(http.MethodPost, "/api/v1/admin/services", clientToken, map[string]interface{}{
		"name": "Arche", "pricing_mode": "on_quote",
	}, http.StatusForbidden, nil)
	h.do(http.MethodGet, "/api/v1/admin/discussions", "", nil, http.StatusUnauthorized, nil)
}
