// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"florist/internal/catalog"
	"florist/internal/discussions"
	"florist/internal/notifications"
	"florist/internal/reservations"
	"florist/internal/shared/config"
	"florist/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// HealthChecker is implemented by database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *gorm.DB
	health        HealthChecker
	cache         cache.Service
	notifications *notifications.Service

	catalog catalog.Catalog // shared by reservations and discussions
}

// NewRouter creates a new router instance. cacheService and notificationService may be nil.
func NewRouter(cfg *config.Config, db *gorm.DB, health HealthChecker, cacheService cache.Service, notificationService *notifications.Service) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		health:        health,
		cache:         cacheService,
		notifications: notificationService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Catalog first: the booking flows depend on it
		r.setupCatalogRoutes(api)
		r.setupReservationRoutes(api)
		r.setupDiscussionRoutes(api)
		r.setupNotificationRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if r.health != nil {
			if err := r.health.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"error":     err.Error(),
					"timestamp": time.Now(),
					"service":   "florist-backend",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "florist-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"api_version":   r.config.APIVersion,
			"kafka_enabled": r.config.Kafka.Enabled,
			"timestamp":     time.Now(),
		})
	})
}

func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogRepo := catalog.NewRepository(r.db)
	r.catalog = catalog.NewCatalog(catalogRepo, r.cache)
	catalogController := catalog.NewController(r.catalog)

	catalog.SetupServiceRoutes(rg, catalogController, r.config)
}

func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationRepo := reservations.NewRepository(r.db)
	reservationService := reservations.NewService(reservationRepo, r.catalog, r.cache, r.publisher())
	reservationController := reservations.NewController(reservationService)

	reservations.SetupReservationRoutes(rg, reservationController, r.config)
}

func (r *Router) setupDiscussionRoutes(rg *gin.RouterGroup) {
	discussionRepo := discussions.NewRepository(r.db)
	discussionService := discussions.NewService(discussionRepo, r.catalog, r.cache, r.publisher())
	discussionController := discussions.NewController(discussionService)

	discussions.SetupDiscussionRoutes(rg, discussionController, r.config)
}

func (r *Router) setupNotificationRoutes(rg *gin.RouterGroup) {
	var inbox notifications.Inbox
	if r.notifications != nil {
		inbox = r.notifications.Inbox()
	}
	notifications.SetupNotificationRoutes(rg, notifications.NewController(inbox), r.config)
}

func (r *Router) publisher() notifications.Publisher {
	if r.notifications == nil {
		return notifications.NewNoopPublisher()
	}
	return r.notifications.Publisher()
}
