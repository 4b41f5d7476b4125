package storefront

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"florist/internal/catalog"
	"florist/pkg/client"

	"github.com/gin-gonic/gin"
)

const (
	trackerReservations = "/mes-reservations?tab=reservations"
	trackerDiscussions  = "/mes-reservations?tab=discussions"

	msgMissingFields = "Veuillez remplir tous les champs obligatoires."
	msgBusy          = "Votre demande précédente est encore en cours de traitement."
)

type reservePage struct {
	page
	ServiceID   string
	ServiceName string
	Form        ReservationForm
	Errors      FieldErrors
}

type devisPage struct {
	page
	Services []catalog.ServiceResponse
	Form     DiscussionForm
	Errors   FieldErrors
}

type successPage struct {
	page
	Message      string
	RedirectURL  string
	DelaySeconds int
}

// statusFor picks the status to re-render a form with after a failed API call.
func statusFor(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func (h *Handler) renderSuccess(c *gin.Context, message, next string) {
	data := successPage{
		page:         h.newPage(c, "Demande envoyée"),
		Message:      message,
		RedirectURL:  next,
		DelaySeconds: int(h.redirectDelay.Seconds()),
	}
	data.Banner = &Banner{Kind: BannerSuccess, Message: message}
	h.views.render(c, http.StatusCreated, "success.html", data)
}

func (h *Handler) ReserveForm(c *gin.Context) {
	if _, ok := h.requireSession(c, c.Request.URL.RequestURI()); !ok {
		return
	}
	id := c.Param("id")
	data := reservePage{page: h.newPage(c, "Réserver"), ServiceID: id}

	service, err := h.api.GetService(c.Request.Context(), id)
	if err != nil {
		data.Banner = errorBanner(client.Message(err))
		h.views.render(c, statusFor(err), "reserve.html", data)
		return
	}
	if service.PricingMode == catalog.PricingOnQuote {
		c.Redirect(http.StatusFound, "/devis?service="+url.QueryEscape(id))
		return
	}
	data.ServiceName = service.Name

	h.views.render(c, http.StatusOK, "reserve.html", data)
}

// SubmitReservation validates locally, then issues a single create call.
func (h *Handler) SubmitReservation(c *gin.Context) {
	id := c.Param("id")
	formURL := "/services/" + url.PathEscape(id) + "/reserver"
	s, ok := h.requireSession(c, formURL)
	if !ok {
		return
	}

	var form ReservationForm
	_ = c.ShouldBind(&form)
	data := reservePage{
		page:        h.newPage(c, "Réserver"),
		ServiceID:   id,
		ServiceName: c.PostForm("service_name"),
		Form:        form,
	}

	req, errs := h.forms.ValidateReservation(id, form)
	if errs.Any() {
		data.Errors = errs
		data.Banner = errorBanner(msgMissingFields)
		h.views.render(c, http.StatusBadRequest, "reserve.html", data)
		return
	}

	release, ok := h.guard.Acquire(s.Token(), "reserve", id)
	if !ok {
		data.Banner = errorBanner(msgBusy)
		h.views.render(c, http.StatusConflict, "reserve.html", data)
		return
	}
	defer release()

	_, message, err := h.api.CreateReservation(c.Request.Context(), s.Token(), req)
	if err != nil {
		if client.IsUnauthorized(err) {
			h.expired(c, s, formURL)
			return
		}
		h.log.Error("Reservation rejected", slog.String("service_id", id), slog.Any("error", err))
		data.Banner = errorBanner(client.Message(err))
		h.views.render(c, statusFor(err), "reserve.html", data)
		return
	}

	if message == "" {
		message = "Votre réservation a bien été enregistrée."
	}
	h.renderSuccess(c, message, trackerReservations)
}

func (h *Handler) DevisForm(c *gin.Context) {
	if _, ok := h.requireSession(c, c.Request.URL.RequestURI()); !ok {
		return
	}
	data := devisPage{page: h.newPage(c, "Demande de devis")}
	data.Form.ServiceID = c.Query("service")

	services, err := h.api.ListServices(c.Request.Context(), catalog.TarificationOnQuote)
	if err != nil {
		h.log.Error("Failed to list quote services", slog.Any("error", err))
		data.Banner = errorBanner(client.Message(err))
	} else {
		h.rememberQuoteServices(services)
	}
	data.Services = services

	h.views.render(c, http.StatusOK, "devis.html", data)
}

// SubmitDevis opens a quote discussion at the client's proposed price.
func (h *Handler) SubmitDevis(c *gin.Context) {
	var form DiscussionForm
	_ = c.ShouldBind(&form)

	returnTo := "/devis"
	if form.ServiceID != "" {
		returnTo += "?service=" + url.QueryEscape(form.ServiceID)
	}
	s, ok := h.requireSession(c, returnTo)
	if !ok {
		return
	}

	data := devisPage{
		page:     h.newPage(c, "Demande de devis"),
		Services: quoteChoices(h.knownQuoteServices(), form.ServiceID),
		Form:     form,
	}

	req, errs := h.forms.ValidateDiscussion(form)
	if errs.Any() {
		data.Errors = errs
		data.Banner = errorBanner(msgMissingFields)
		h.views.render(c, http.StatusBadRequest, "devis.html", data)
		return
	}

	release, ok := h.guard.Acquire(s.Token(), "devis", req.ServiceID)
	if !ok {
		data.Banner = errorBanner(msgBusy)
		h.views.render(c, http.StatusConflict, "devis.html", data)
		return
	}
	defer release()

	_, message, err := h.api.CreateDiscussion(c.Request.Context(), s.Token(), req)
	if err != nil {
		if client.IsUnauthorized(err) {
			h.expired(c, s, returnTo)
			return
		}
		h.log.Error("Quote request rejected", slog.String("service_id", req.ServiceID), slog.Any("error", err))
		data.Banner = errorBanner(client.Message(err))
		if services, listErr := h.api.ListServices(c.Request.Context(), catalog.TarificationOnQuote); listErr == nil {
			h.rememberQuoteServices(services)
			data.Services = quoteChoices(services, form.ServiceID)
		}
		h.views.render(c, statusFor(err), "devis.html", data)
		return
	}

	if message == "" {
		message = "Votre demande de devis a bien été envoyée."
	}
	h.renderSuccess(c, message, trackerDiscussions)
}

// quoteChoices keeps the submitted service selectable even when the list
// behind the form is stale or empty.
func quoteChoices(services []catalog.ServiceResponse, selected string) []catalog.ServiceResponse {
	if selected == "" {
		return services
	}
	for _, service := range services {
		if service.ID == selected {
			return services
		}
	}
	choices := make([]catalog.ServiceResponse, 0, len(services)+1)
	choices = append(choices, catalog.ServiceResponse{ID: selected, Name: "Prestation sélectionnée"})
	return append(choices, services...)
}
