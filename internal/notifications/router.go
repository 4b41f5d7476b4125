package notifications

import (
	"florist/internal/shared/config"
	"florist/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupNotificationRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	users := rg.Group("/users")
	users.Use(middleware.JWTAuthWithConfig(cfg))
	{
		users.GET("/notifications", controller.ListNotifications)
	}
}
