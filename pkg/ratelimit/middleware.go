package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"florist/internal/shared/utils/response"
	"florist/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the per-IP limit of the route's class. The IP comes from
// gin's ClientIP, so forwarded headers only count when the engine trusts the
// sending proxy (see gin.Engine.SetTrustedProxies).
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := getRateLimitType(c.Request.Method, c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Redis trouble must not take the storefront down
			logger.GetDefault().WarnContext(c.Request.Context(), "Rate limit check failed, allowing request",
				slog.String("ip", clientIP), slog.Any("error", err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Trop de requêtes, veuillez patienter quelques instants", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType maps a route to its limit class.
func getRateLimitType(method, path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	// State-changing reservation flow
	case method == http.MethodPost && (strings.HasSuffix(path, "/reservations") ||
		strings.HasSuffix(path, "/discussions") ||
		strings.HasSuffix(path, "/cancel") ||
		strings.HasSuffix(path, "/finalize")):
		return RateLimitTypeReservationCritical

	case strings.Contains(path, "/reservations"),
		strings.Contains(path, "/discussions"),
		strings.Contains(path, "/notifications"):
		return RateLimitTypeReservation

	case strings.Contains(path, "/services"),
		strings.HasPrefix(path, "/swagger"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}
