package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"florist/internal/discussions"
	"florist/internal/shared/utils/response"
)

func writeEnvelope(w http.ResponseWriter, code int, message string, data interface{}) {
	status := "success"
	if code >= 300 {
		status = "error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response.StandardApiResponse{
		Status: status, StatusCode: code, Message: message, Data: data,
	})
}

func TestListServicesSendsTarification(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("tarification")
		writeEnvelope(w, http.StatusOK, "", map[string]interface{}{
			"services": []map[string]interface{}{{"id": "s1", "name": "Atelier Floral", "tarification": "Sur devis"}},
			"count":    1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	services, err := c.ListServices(context.Background(), "Sur devis")
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if gotQuery != "Sur devis" {
		t.Fatalf("expected tarification query, got %q", gotQuery)
	}
	if len(services) != 1 || services[0].Name != "Atelier Floral" {
		t.Fatalf("unexpected services: %+v", services)
	}
}

func TestFinalizeCarriesTokenAndSurfacesConflict(t *testing.T) {
	var gotAuth string
	var gotBody discussions.FinalizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusConflict, "La discussion est déjà finalisé", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	_, _, err := c.FinalizeDiscussion(context.Background(), "tok", "d1", discussions.ActionAccept)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected a 409 APIError, got %v", err)
	}
	if Message(err) != "La discussion est déjà finalisé" {
		t.Fatalf("expected the backend message, got %q", Message(err))
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotBody.Action != discussions.ActionAccept {
		t.Fatalf("expected valider, got %q", gotBody.Action)
	}
}

func TestUnauthorizedAndNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "Jeton invalide", nil)
	}))
	c := New(srv.URL, "", time.Second)
	_, err := c.ListReservations(context.Background(), "expired")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	srv.Close()

	_, err = c.ListReservations(context.Background(), "tok")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected a network error, got %v", err)
	}
	if Message(err) != response.GenericErrorMessage {
		t.Fatalf("expected the generic message, got %q", Message(err))
	}
}

func TestLoginReturnsAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Login successful", map[string]string{"access_token": "jwt"})
	}))
	defer srv.Close()

	c := New("", srv.URL, time.Second)
	token, err := c.Login(context.Background(), LoginRequest{Email: "a@b.cm", Password: "secret"})
	if err != nil || token != "jwt" {
		t.Fatalf("expected token jwt, got %q (%v)", token, err)
	}
	if _, err := c.Login(context.Background(), LoginRequest{Email: "a@b.cm", Password: "nope"}); !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestForwardedForFollowsContext(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("X-Forwarded-For"))
		writeEnvelope(w, http.StatusOK, "Réservation annulée", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	ctx := WithForwardedFor(context.Background(), "203.0.113.7")
	if _, err := c.CancelReservation(ctx, "tok", "r1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := c.CancelReservation(context.Background(), "tok", "r1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(got) != 2 || got[0] != "203.0.113.7" || got[1] != "" {
		t.Fatalf("expected shopper address only when set, got %q", got)
	}
}
