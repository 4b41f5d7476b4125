package storefront

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"florist/internal/catalog"
	"florist/internal/discussions"
	"florist/internal/reservations"
	"florist/pkg/client"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		status  string
		variant string
		label   string
	}{
		{"réservé", "info", "Réservé"},
		{"finalisé", "success", "Finalisé"},
		{"annulé", "danger", "Annulé"},
		{"réponse_client", "warning", "En attente de l'administrateur"},
		{"réponse_admin", "primary", "Réponse reçue"},
		{"archivé", "secondary", "archivé"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := BadgeFor(tt.status)
			if got.Variant != tt.variant || got.Label != tt.label {
				t.Fatalf("BadgeFor(%q) = %+v, want %s/%s", tt.status, got, tt.variant, tt.label)
			}
		})
	}
}

func TestSanitizeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                                  "/mes-reservations",
		"/devis?service=abc":                "/devis?service=abc",
		"//evil.example":                    "/mes-reservations",
		"https://evil.example/x":            "/mes-reservations",
		"/\\evil.example":                   "/mes-reservations",
		"/login?redirect=/devis":            "/mes-reservations",
		"/mes-reservations?tab=discussions": "/mes-reservations?tab=discussions",
	}

	for raw, want := range tests {
		if got := SanitizeRedirect(raw); got != want {
			t.Errorf("SanitizeRedirect(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestInFlightGuard(t *testing.T) {
	g := NewInFlightGuard()

	release, ok := g.Acquire("tok", "finalize", "d1")
	if !ok {
		t.Fatalf("first acquire must succeed")
	}
	if _, ok := g.Acquire("tok", "finalize", "d1"); ok {
		t.Fatalf("second acquire while in flight must fail")
	}
	if _, ok := g.Acquire("tok", "finalize", "d2"); !ok {
		t.Fatalf("another target is independent")
	}
	if _, ok := g.Acquire("other", "finalize", "d1"); !ok {
		t.Fatalf("another session is independent")
	}

	release()
	release()
	if _, ok := g.Acquire("tok", "finalize", "d1"); !ok {
		t.Fatalf("acquire after release must succeed")
	}
}

func TestFormatFCFA(t *testing.T) {
	tests := map[int64]string{0: "0 FCFA", 950: "950 FCFA", 45000: "45 000 FCFA", 1250000: "1 250 000 FCFA"}
	for in, want := range tests {
		if got := formatFCFA(decimal.NewFromInt(in)); got != want {
			t.Errorf("formatFCFA(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSubmitReservationWithMissingFieldMakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	f := newStorefront(t, api)

	w := f.post("/services/s1/reserver", url.Values{
		"event_date": {"2030-06-01"},
		"venue_type": {"intérieur"},
		"address":    {"   "},
		"message":    {"Mariage"},
	}, true)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no API call, got %v", api.calls)
	}
	if !strings.Contains(w.Body.String(), "est obligatoire") {
		t.Fatalf("expected a validation message, body: %s", w.Body.String())
	}
}

func TestSubmitDevisWithoutPriceMakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	f := newStorefront(t, api)

	w := f.post("/devis", url.Values{
		"service_id": {"s1"},
		"event_date": {"2030-06-01"},
		"venue_type": {"extérieur"},
		"address":    {"Bonapriso"},
	}, true)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no API call, got %v", api.calls)
	}
	if !strings.Contains(w.Body.String(), "Le prix proposé est obligatoire.") {
		t.Fatalf("expected the price message, body: %s", w.Body.String())
	}
	// No GET /devis preceded this submit, yet the chosen service stays selected.
	if !strings.Contains(w.Body.String(), `<option value="s1" selected>`) {
		t.Fatalf("expected the submitted service to stay selected, body: %s", w.Body.String())
	}
}

func TestSubmitDevisBackendErrorReloadsServices(t *testing.T) {
	api := &fakeAPI{
		services:    []catalog.ServiceResponse{{ID: "s1", Name: "Arche fleurie"}, {ID: "s2", Name: "Centre de table"}},
		mutationErr: &client.APIError{StatusCode: http.StatusBadRequest, Message: "Cette prestation n'est pas sur devis"},
	}
	f := newStorefront(t, api)

	w := f.post("/devis", url.Values{
		"service_id":     {"s1"},
		"proposed_price": {"50000"},
		"event_date":     {"2030-06-01"},
		"venue_type":     {"intérieur"},
		"address":        {"Akwa"},
	}, true)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<option value="s1" selected>Arche fleurie</option>`) || !strings.Contains(body, "Centre de table") {
		t.Fatalf("expected the refreshed quote list with s1 selected, body: %s", body)
	}
	if len(api.calls) != 2 || api.calls[0] != "create-discussion" || api.calls[1] != "list-services" {
		t.Fatalf("expected create then list, got %v", api.calls)
	}
}

func TestUnauthenticatedDevisRedirectsToLogin(t *testing.T) {
	api := &fakeAPI{}
	f := newStorefront(t, api)

	w := f.get("/devis?service=abc", false)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	want := "/login?redirect=" + url.QueryEscape("/devis?service=abc")
	if got := w.Header().Get("Location"); got != want {
		t.Fatalf("expected redirect to %q, got %q", want, got)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no API call, got %v", api.calls)
	}

	w = f.post("/devis", url.Values{"service_id": {"abc"}, "proposed_price": {"50000"}}, false)
	if w.Code != http.StatusFound || api.callCount() != 0 {
		t.Fatalf("unauthenticated submit must redirect without calling the API (code %d, calls %v)", w.Code, api.calls)
	}
}

func TestSubmitDevisWhileInFlightIsRejected(t *testing.T) {
	api := &fakeAPI{}
	f := newStorefront(t, api)

	release, ok := f.handler.guard.Acquire(testToken, "devis", "s1")
	if !ok {
		t.Fatalf("acquire")
	}
	defer release()

	w := f.post("/devis", url.Values{
		"service_id":     {"s1"},
		"proposed_price": {"50000"},
		"event_date":     {"2030-06-01"},
		"venue_type":     {"intérieur"},
		"address":        {"Akwa"},
	}, true)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no API call, got %v", api.calls)
	}
}

func TestSubmitDevisSuccessRedirectsAfterDelay(t *testing.T) {
	api := &fakeAPI{}
	f := newStorefront(t, api)

	w := f.post("/devis", url.Values{
		"service_id":     {"s1"},
		"proposed_price": {"50 000"},
		"event_date":     {"2030-06-01"},
		"venue_type":     {"intérieur"},
		"address":        {"Akwa"},
	}, true)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `content="3;url=/mes-reservations?tab=discussions"`) {
		t.Fatalf("expected a 3s refresh to the tracker, body: %s", w.Body.String())
	}
}

func TestSubmitReservationShowsBackendError(t *testing.T) {
	api := &fakeAPI{mutationErr: &client.APIError{StatusCode: http.StatusBadRequest, Message: "Cette prestation est sur devis"}}
	f := newStorefront(t, api)

	w := f.post("/services/s1/reserver", url.Values{
		"event_date": {"2030-06-01"},
		"venue_type": {"intérieur"},
		"address":    {"Akwa"},
	}, true)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Cette prestation est sur devis") {
		t.Fatalf("expected the backend message, body: %s", w.Body.String())
	}
}

func TestTrackerRendersActionsPerStatus(t *testing.T) {
	api := &fakeAPI{
		reservations: []reservations.ReservationResponse{
			{ID: "r1", ServiceName: "Bouquet", Status: reservations.StatusReserved, Price: decimal.NewFromInt(35000)},
			{ID: "r2", ServiceName: "Centre de table", Status: reservations.StatusCancelled, Price: decimal.NewFromInt(15000)},
		},
		discussions: []discussions.DiscussionResponse{
			{ID: "d1", ServiceName: "Atelier Floral", Status: discussions.StatusAwaitingClient,
				ProposedPrice: decimal.NewFromInt(50000), AdminPrice: decimal.NewNullDecimal(decimal.NewFromInt(45000))},
			{ID: "d2", ServiceName: "Arche", Status: discussions.StatusAwaitingAdmin, ProposedPrice: decimal.NewFromInt(80000)},
		},
	}
	f := newStorefront(t, api)

	w := f.get("/mes-reservations?tab=discussions", true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if n := strings.Count(body, "/finaliser"); n != 1 {
		t.Fatalf("expected one finalize form, got %d", n)
	}
	if !strings.Contains(body, "/mes-reservations/discussions/d1/finaliser") {
		t.Fatalf("finalize form must target d1")
	}
	if !strings.Contains(body, "Réponse reçue") || !strings.Contains(body, "45 000 FCFA") {
		t.Fatalf("expected the counter-offer row, body: %s", body)
	}
	if !strings.Contains(body, "data-disable-on-submit") {
		t.Fatalf("action buttons must disable on submit")
	}

	w = f.get("/mes-reservations?tab=reservations", true)
	body = w.Body.String()
	if n := strings.Count(body, "/annuler\""); n != 1 {
		t.Fatalf("expected one cancel form, got %d", n)
	}
	if !strings.Contains(body, "/mes-reservations/r1/annuler") {
		t.Fatalf("cancel form must target r1")
	}
}

func TestTrackerKeepsViewOnFetchError(t *testing.T) {
	api := &fakeAPI{
		reservationsErr: fmt.Errorf("%w: connection refused", client.ErrNetwork),
		discussions: []discussions.DiscussionResponse{
			{ID: "d1", ServiceName: "Atelier Floral", Status: discussions.StatusAwaitingAdmin},
		},
	}
	f := newStorefront(t, api)

	w := f.get("/mes-reservations?tab=discussions", true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Une erreur est survenue. Veuillez réessayer.") {
		t.Fatalf("expected the generic banner, body: %s", body)
	}
	if !strings.Contains(body, "Atelier Floral") {
		t.Fatalf("discussions must still render")
	}
}

func TestTrackerWithExpiredSessionRedirectsToLogin(t *testing.T) {
	api := &fakeAPI{reservationsErr: &client.APIError{StatusCode: http.StatusUnauthorized}}
	f := newStorefront(t, api)

	w := f.get("/mes-reservations", true)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Location"), "/login?redirect=") {
		t.Fatalf("expected a login redirect, got %q", w.Header().Get("Location"))
	}
	if c := responseCookie(w, "florist_token"); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be cleared")
	}
}

func decodeBanner(t *testing.T, c *http.Cookie) Banner {
	t.Helper()
	if c == nil {
		t.Fatalf("expected a banner cookie")
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		t.Fatalf("decode banner: %v", err)
	}
	var b Banner
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatalf("unmarshal banner: %v", err)
	}
	return b
}

func TestFinalizeAcceptRedirectsWithBanner(t *testing.T) {
	api := &fakeAPI{}
	f := newStorefront(t, api)

	w := f.post("/mes-reservations/discussions/d1/finaliser", url.Values{"action": {"valider"}}, true)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/mes-reservations?tab=reservations" {
		t.Fatalf("unexpected redirect %q", got)
	}
	if api.lastAction != discussions.ActionAccept {
		t.Fatalf("expected valider, got %q", api.lastAction)
	}
	b := decodeBanner(t, responseCookie(w, bannerCookie))
	if b.Kind != BannerSuccess || b.Message != "Offre acceptée" {
		t.Fatalf("unexpected banner %+v", b)
	}
}

func TestFinalizeConflictShowsBackendMessage(t *testing.T) {
	api := &fakeAPI{mutationErr: &client.APIError{StatusCode: http.StatusConflict, Message: "Discussion déjà finalisé"}}
	f := newStorefront(t, api)

	w := f.post("/mes-reservations/discussions/d1/finaliser", url.Values{"action": {"annuler"}}, true)

	if got := w.Header().Get("Location"); got != "/mes-reservations?tab=discussions" {
		t.Fatalf("unexpected redirect %q", got)
	}
	b := decodeBanner(t, responseCookie(w, bannerCookie))
	if b.Kind != BannerError || b.Message != "Discussion déjà finalisé" {
		t.Fatalf("unexpected banner %+v", b)
	}
}

func TestFinalizeUnknownActionMakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	f := newStorefront(t, api)

	f.post("/mes-reservations/discussions/d1/finaliser", url.Values{"action": {"supprimer"}}, true)
	if api.callCount() != 0 {
		t.Fatalf("expected no API call, got %v", api.calls)
	}
}

func TestLoginStoresTokenAndSanitizesRedirect(t *testing.T) {
	api := &fakeAPI{loginToken: "jwt"}
	f := newStorefront(t, api)

	w := f.post("/login", url.Values{
		"email":    {"awa@example.cm"},
		"password": {"secret"},
		"redirect": {"//evil.example"},
	}, false)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/mes-reservations" {
		t.Fatalf("unexpected redirect %q", got)
	}
	c := responseCookie(w, "florist_token")
	if c == nil || c.Value != "jwt" || !c.HttpOnly {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", c)
	}

	w = f.post("/login", url.Values{
		"email":    {"awa@example.cm"},
		"password": {"secret"},
		"redirect": {"/devis?service=abc"},
	}, false)
	if got := w.Header().Get("Location"); got != "/devis?service=abc" {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestServicesQuoteFilterAndFailure(t *testing.T) {
	api := &fakeAPI{services: []catalog.ServiceResponse{
		{ID: "s1", Name: "Atelier Floral", PricingMode: catalog.PricingOnQuote, Tarification: catalog.TarificationOnQuote},
	}}
	f := newStorefront(t, api)

	w := f.get("/services?devis=1", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Prestations sur devis") || !strings.Contains(body, "/devis?service=s1") {
		t.Fatalf("expected the quote list, body: %s", body)
	}
	if got := f.handler.knownQuoteServices(); len(got) != 1 {
		t.Fatalf("quote list must be remembered for form re-renders, got %d", len(got))
	}
}

type failingCatalogAPI struct{ fakeAPI }

func (f *failingCatalogAPI) ListServices(ctx context.Context, tarification string) ([]catalog.ServiceResponse, error) {
	return nil, fmt.Errorf("%w: timeout", client.ErrNetwork)
}

func TestServicesFailureShowsEmptyListAndMessage(t *testing.T) {
	f := newStorefront(t, &failingCatalogAPI{})

	w := f.get("/services", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Une erreur est survenue. Veuillez réessayer.") {
		t.Fatalf("expected the generic error, body: %s", body)
	}
	if !strings.Contains(body, "Aucune prestation disponible") {
		t.Fatalf("expected an empty list")
	}
}

func TestRenderFailureSendsNoPartialPage(t *testing.T) {
	f := newStorefront(t, &fakeAPI{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/devis", nil)

	// The header renders from page, then the form body has no fields to read.
	f.handler.views.render(c, http.StatusOK, "devis.html", page{Title: "Demande de devis"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "<!doctype html>") {
		t.Fatalf("a failed render must not leak the page header, body: %s", w.Body.String())
	}
}
