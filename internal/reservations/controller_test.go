package reservations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"florist/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"email":   "client@example.com",
		"role":    role,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	SetupReservationRoutes(r.Group("/api/v1"), NewController(f.service), cfg)
	return r
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestReservationRoutes(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f)
	token := signToken(t, f.clientID, "USER")

	w, _ := doRequest(t, r, http.MethodPost, "/api/v1/reservations", "", f.request(f.fixed.ID))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w, env := doRequest(t, r, http.MethodPost, "/api/v1/reservations", token, map[string]string{"service_id": f.fixed.ID})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", w.Code)
	}
	if env.Message == "" {
		t.Fatalf("expected a French error message")
	}

	w, env = doRequest(t, r, http.MethodPost, "/api/v1/reservations", token, f.request(f.fixed.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created ReservationResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode reservation: %v", err)
	}

	intruder := signToken(t, uuid.New(), "USER")
	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/reservations/"+created.ID+"/cancel", intruder, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another client, got %d", w.Code)
	}

	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/reservations/"+created.ID+"/cancel", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on cancel, got %d", w.Code)
	}

	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/reservations/"+created.ID+"/cancel", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second cancel, got %d", w.Code)
	}

	w, env = doRequest(t, r, http.MethodGet, "/api/v1/users/reservations", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on list, got %d", w.Code)
	}
	var list ReservationListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || list.Reservations[0].Status != StatusCancelled {
		t.Fatalf("unexpected list %+v", list)
	}

	w, _ = doRequest(t, r, http.MethodGet, "/api/v1/admin/reservations", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	admin := signToken(t, uuid.New(), "ADMIN")
	w, _ = doRequest(t, r, http.MethodGet, "/api/v1/admin/reservations?status=annul%C3%A9", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin list, got %d", w.Code)
	}
}
