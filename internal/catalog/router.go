package catalog

import (
	"florist/internal/shared/config"
	"florist/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupServiceRoutes configures catalog routes
func SetupServiceRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public routes - anyone can browse the catalog
	public := rg.Group("/services")
	{
		public.GET("", controller.ListServices)   // GET /api/v1/services?tarification=Sur devis
		public.GET("/:id", controller.GetService) // GET /api/v1/services/:id
	}

	admin := rg.Group("/admin/services")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListServices)      // GET /api/v1/admin/services?all=true
		admin.POST("", controller.CreateService)    // POST /api/v1/admin/services
		admin.PUT("/:id", controller.UpdateService) // PUT /api/v1/admin/services/:id
	}
}
