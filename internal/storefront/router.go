package storefront

import (
	"net/http"

	"florist/pkg/client"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the storefront pages.
func SetupRoutes(engine *gin.Engine, h *Handler) {
	engine.Use(forwardClientIP())

	engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/services")
	})

	engine.GET("/services", h.Services) // ?devis=1 for quote-eligible services
	engine.GET("/services/:id", h.ServiceDetail)
	engine.GET("/services/:id/reserver", h.ReserveForm)
	engine.POST("/services/:id/reserver", h.SubmitReservation)

	engine.GET("/devis", h.DevisForm) // ?service=<id>
	engine.POST("/devis", h.SubmitDevis)

	tracker := engine.Group("/mes-reservations")
	{
		tracker.GET("", h.Tracker) // ?tab=reservations|discussions
		tracker.POST("/:id/annuler", h.CancelReservation)
		tracker.POST("/discussions/:id/finaliser", h.FinalizeDiscussion)
	}

	engine.GET("/login", h.LoginForm)
	engine.POST("/login", h.Login)
	engine.POST("/logout", h.Logout)
}

// forwardClientIP hands the shopper's address to every API call of the request.
func forwardClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := client.WithForwardedFor(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
