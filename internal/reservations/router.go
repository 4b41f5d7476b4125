package reservations

import (
	"florist/internal/shared/config"
	"florist/internal/shared/middleware"
	"florist/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupReservationRoutes configures all reservation-related routes
func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	clientRoles := middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin))

	reservations := rg.Group("/reservations")
	reservations.Use(middleware.JWTAuthWithConfig(cfg), clientRoles)
	{
		reservations.POST("", controller.CreateReservation)            // POST /api/v1/reservations
		reservations.POST("/:id/cancel", controller.CancelReservation) // POST /api/v1/reservations/:id/cancel
	}

	userRoutes := rg.Group("/users")
	userRoutes.Use(middleware.JWTAuthWithConfig(cfg), clientRoles)
	{
		userRoutes.GET("/reservations", controller.GetUserReservations) // GET /api/v1/users/reservations
	}

	admin := rg.Group("/admin/reservations")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListReservations)                // GET /api/v1/admin/reservations?status=réservé
		admin.POST("/:id/complete", controller.CompleteReservation) // POST /api/v1/admin/reservations/:id/complete
	}
}
