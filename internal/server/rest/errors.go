package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/server/services"
)

// respondWithError maps service errors to the HTTP taxonomy. Authentication
// failures stay deliberately uninformative: the body never says which check
// failed.
func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
	case errors.Is(err, common.ErrRateLimited):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "too many login attempts"})
	case errors.Is(err, common.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "forbidden"})
	case errors.Is(err, common.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "not found"})
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrSamePassword):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "operation failed"})
	}
}
