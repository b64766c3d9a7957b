package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/logging"
)

// contextUserIDKey is the gin context key holding the authenticated user id.
const contextUserIDKey = "auth.user_id"

// requestLogger logs one line per request through the structured logger.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// rateLimit guards the login route with the per-address fixed-window limiter.
// A denied attempt gets 403; a limiter store failure aborts the request too,
// so an unreachable store never opens the gate.
func rateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			respondWithError(c, err)
			return
		}
		if !allowed {
			respondWithError(c, common.ErrRateLimited)
			return
		}
		c.Next()
	}
}

// requireAuth resolves the bearer token to a user id and stores it in the
// context. Missing, malformed, invalid, expired and superseded tokens are
// indistinguishable to the caller: all produce the same 401.
func requireAuth(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondWithError(c, common.ErrUnauthenticated)
			return
		}

		userID, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondWithError(c, common.ErrUnauthenticated)
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// requireSuperuser layers a role check on top of requireAuth.
func requireSuperuser(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(contextUserIDKey)
		ok, err := users.IsSuperuser(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if !ok {
			respondWithError(c, common.ErrForbidden)
			return
		}
		c.Next()
	}
}

// currentUserID returns the authenticated user id set by requireAuth.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(contextUserIDKey)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
		return "", false
	}
	return userID, true
}
