package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
)

// ContextKeyUser is the context key for storing the acting participant name.
const ContextKeyUser = "user"

// UserMiddleware copies the User header into the request context.
// The header is trusted as-is; there is no authentication.
func UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUser, strings.TrimSpace(c.GetHeader(proto.HeaderUser)))
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(ContextKeyUser)
}

// RateLimitMiddleware rejects clients exceeding limit requests per minute.
// A non-positive limit disables it.
func RateLimitMiddleware(limit int, logger *zerolog.Logger) gin.HandlerFunc {
	limiter := newRateLimiter(limit)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			logger.Debug().Str("client_ip", c.ClientIP()).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			return
		}
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("user", currentUser(c)).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
