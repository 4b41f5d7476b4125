package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"florist/internal/shared/config"
	"florist/internal/storefront"
	"florist/pkg/client"
	"florist/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.GetDefault().Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	appLogger := logger.New()
	logger.SetDefault(appLogger)

	api := client.New(cfg.Storefront.APIBaseURL, cfg.Storefront.LoginURL, cfg.Storefront.RequestTimeout)

	handler, err := storefront.NewHandler(api, storefront.Options{
		Sessions:      storefront.CookieSessions(cfg.Storefront.CookieName, cfg.Storefront.CookieSecure),
		RedirectDelay: cfg.Storefront.RedirectDelay,
		BannerTTL:     cfg.Storefront.BannerTTL,
		SecureCookies: cfg.Storefront.CookieSecure,
		Logger:        appLogger,
	})
	if err != nil {
		appLogger.Error("Failed to build storefront", slog.Any("error", err))
		os.Exit(1)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.Storefront.TrustedProxies); err != nil {
		appLogger.Error("Invalid trusted proxies", slog.Any("error", err))
		os.Exit(1)
	}
	engine.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		appLogger.LogHTTPRequest(c, time.Since(start))
	}, gin.Recovery())
	storefront.SetupRoutes(engine, handler)

	// Pages wait on the API, so the write deadline follows the client timeout
	srv := &http.Server{
		Addr:         cfg.GetStorefrontAddress(),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.Storefront.RequestTimeout + 5*time.Second,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		appLogger.Info("Storefront running",
			slog.String("address", cfg.GetStorefrontAddress()),
			slog.String("api", cfg.Storefront.APIBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Storefront failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down storefront...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}
}
