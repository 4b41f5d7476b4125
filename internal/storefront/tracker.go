package storefront

import (
	"log/slog"
	"net/http"

	"florist/internal/discussions"
	"florist/internal/notifications"
	"florist/internal/reservations"
	"florist/pkg/client"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type reservationRow struct {
	ID          string
	ServiceName string
	EventDate   string
	VenueType   string
	Address     string
	Price       string
	Badge       Badge
	CanCancel   bool
}

type discussionRow struct {
	ID            string
	ServiceName   string
	EventDate     string
	VenueType     string
	ProposedPrice string
	AdminPrice    string
	AdminNote     string
	Badge         Badge
	CanFinalize   bool
}

type trackerPage struct {
	page
	Tab           string
	Reservations  []reservationRow
	Discussions   []discussionRow
	Notifications []notifications.Notification
	FetchError    string
}

func newReservationRow(r reservations.ReservationResponse) reservationRow {
	return reservationRow{
		ID:          r.ID,
		ServiceName: r.ServiceName,
		EventDate:   r.EventDate,
		VenueType:   venueLabel(string(r.VenueType)),
		Address:     r.Address,
		Price:       formatFCFA(r.Price),
		Badge:       BadgeFor(string(r.Status)),
		CanCancel:   r.Status == reservations.StatusReserved,
	}
}

func newDiscussionRow(d discussions.DiscussionResponse) discussionRow {
	return discussionRow{
		ID:            d.ID,
		ServiceName:   d.ServiceName,
		EventDate:     d.EventDate,
		VenueType:     venueLabel(string(d.VenueType)),
		ProposedPrice: formatFCFA(d.ProposedPrice),
		AdminPrice:    formatNullFCFA(d.AdminPrice, "En attente"),
		AdminNote:     d.AdminNote,
		Badge:         BadgeFor(string(d.Status)),
		CanFinalize:   d.Status == discussions.StatusAwaitingClient,
	}
}

// Tracker shows both lists side by side; each mount fetches fresh data.
func (h *Handler) Tracker(c *gin.Context) {
	s, ok := h.requireSession(c, c.Request.URL.RequestURI())
	if !ok {
		return
	}

	data := trackerPage{page: h.newPage(c, "Mes réservations"), Tab: "reservations"}
	if c.Query("tab") == "discussions" {
		data.Tab = "discussions"
	}
	data.Banner = h.flash.take(c)

	var reservationsErr, discussionsErr error
	token := s.Token()

	// Only an expired session aborts the page; other failures leave the view usable.
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		list, err := h.api.ListReservations(ctx, token)
		if err != nil {
			reservationsErr = err
			return unauthorizedOnly(err)
		}
		for _, r := range list {
			data.Reservations = append(data.Reservations, newReservationRow(r))
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.api.ListDiscussions(ctx, token)
		if err != nil {
			discussionsErr = err
			return unauthorizedOnly(err)
		}
		for _, d := range list {
			data.Discussions = append(data.Discussions, newDiscussionRow(d))
		}
		return nil
	})
	g.Go(func() error {
		feed, err := h.api.ListNotifications(ctx, token)
		if err != nil {
			h.log.Warn("Notification feed unavailable", slog.Any("error", err))
			return nil
		}
		data.Notifications = feed
		return nil
	})

	if err := g.Wait(); err != nil {
		h.expired(c, s, c.Request.URL.RequestURI())
		return
	}

	for _, err := range []error{reservationsErr, discussionsErr} {
		if err != nil {
			h.log.Error("Tracker fetch failed", slog.Any("error", err))
			data.FetchError = client.Message(err)
			break
		}
	}

	h.views.render(c, http.StatusOK, "tracker.html", data)
}

func unauthorizedOnly(err error) error {
	if client.IsUnauthorized(err) {
		return err
	}
	return nil
}
