package discussions

import (
	"florist/internal/shared/config"
	"florist/internal/shared/middleware"
	"florist/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupDiscussionRoutes configures quote discussion routes
func SetupDiscussionRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	clientRoles := middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin))

	discussions := rg.Group("/discussions")
	discussions.Use(middleware.JWTAuthWithConfig(cfg), clientRoles)
	{
		discussions.POST("", controller.CreateDiscussion)                // POST /api/v1/discussions
		discussions.POST("/:id/finalize", controller.FinalizeDiscussion) // POST /api/v1/discussions/:id/finalize
	}

	userRoutes := rg.Group("/users")
	userRoutes.Use(middleware.JWTAuthWithConfig(cfg), clientRoles)
	{
		userRoutes.GET("/discussions", controller.GetUserDiscussions) // GET /api/v1/users/discussions
	}

	admin := rg.Group("/admin/discussions")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListDiscussions)                 // GET /api/v1/admin/discussions?status=réponse_client
		admin.POST("/:id/respond", controller.RespondDiscussion) // POST /api/v1/admin/discussions/:id/respond
	}
}
