package storefront

import (
	"log/slog"
	"net/http"

	"florist/internal/discussions"
	"florist/pkg/client"

	"github.com/gin-gonic/gin"
)

// FinalizeDiscussion accepts or refuses the florist's counter-offer, then
// sends the client back to a freshly fetched tracker.
func (h *Handler) FinalizeDiscussion(c *gin.Context) {
	s, ok := h.requireSession(c, trackerDiscussions)
	if !ok {
		return
	}
	id := c.Param("id")
	action := discussions.Action(c.PostForm("action"))

	if !action.IsValid() {
		h.flash.set(c, Banner{Kind: BannerError, Message: "Action inconnue."})
		c.Redirect(http.StatusSeeOther, trackerDiscussions)
		return
	}

	release, ok := h.guard.Acquire(s.Token(), "finalize", id)
	if !ok {
		h.flash.set(c, Banner{Kind: BannerError, Message: msgBusy})
		c.Redirect(http.StatusSeeOther, trackerDiscussions)
		return
	}
	defer release()

	_, message, err := h.api.FinalizeDiscussion(c.Request.Context(), s.Token(), id, action)
	if err != nil {
		if client.IsUnauthorized(err) {
			h.expired(c, s, trackerDiscussions)
			return
		}
		h.log.Warn("Finalize rejected", slog.String("discussion_id", id), slog.Any("error", err))
		h.flash.set(c, Banner{Kind: BannerError, Message: client.Message(err)})
		c.Redirect(http.StatusSeeOther, trackerDiscussions)
		return
	}

	if message == "" {
		message = "Votre réponse a bien été enregistrée."
	}
	next := trackerDiscussions
	if action == discussions.ActionAccept {
		next = trackerReservations
	}
	h.flash.set(c, Banner{Kind: BannerSuccess, Message: message})
	c.Redirect(http.StatusSeeOther, next)
}

func (h *Handler) CancelReservation(c *gin.Context) {
	s, ok := h.requireSession(c, trackerReservations)
	if !ok {
		return
	}
	id := c.Param("id")

	release, ok := h.guard.Acquire(s.Token(), "cancel", id)
	if !ok {
		h.flash.set(c, Banner{Kind: BannerError, Message: msgBusy})
		c.Redirect(http.StatusSeeOther, trackerReservations)
		return
	}
	defer release()

	message, err := h.api.CancelReservation(c.Request.Context(), s.Token(), id)
	if err != nil {
		if client.IsUnauthorized(err) {
			h.expired(c, s, trackerReservations)
			return
		}
		h.log.Warn("Cancel rejected", slog.String("reservation_id", id), slog.Any("error", err))
		h.flash.set(c, Banner{Kind: BannerError, Message: client.Message(err)})
		c.Redirect(http.StatusSeeOther, trackerReservations)
		return
	}

	if message == "" {
		message = "Votre réservation a été annulée."
	}
	h.flash.set(c, Banner{Kind: BannerSuccess, Message: message})
	c.Redirect(http.StatusSeeOther, trackerReservations)
}
