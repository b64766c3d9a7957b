// Package rest exposes the application services over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkireev/realty/internal/logging"
	"github.com/dkireev/realty/internal/server/config"
	"github.com/dkireev/realty/internal/server/models"
	"github.com/dkireev/realty/internal/server/repositories/listings"
	"github.com/dkireev/realty/internal/server/repositories/users"
	"github.com/dkireev/realty/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// UserService is the account and authentication surface consumed by the
// transport. *services.UserService satisfies it.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	IsSuperuser(ctx context.Context, userID string) (bool, error)
	UpdateProfile(ctx context.Context, userID string, upd users.ProfileUpdate) error
	Delete(ctx context.Context, userID string) error
	DeleteAll(ctx context.Context) (int64, error)
	GenerateFakeUsers(ctx context.Context, n int) ([]*models.User, error)
}

// ListingService is the listing CRUD surface consumed by the transport.
type ListingService interface {
	Create(ctx context.Context, ownerID string, in services.ListingInput) (*models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	ListAll(ctx context.Context) ([]*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error)
	Update(ctx context.Context, callerID, listingID string, upd listings.Update) error
	Delete(ctx context.Context, callerID, listingID string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// PhotoService is the listing-photo surface consumed by the transport.
type PhotoService interface {
	AddPhoto(ctx context.Context, callerID, listingID string) (*models.ListingPhoto, string, error)
	GetPhotoURL(ctx context.Context, photoID string) (string, error)
	ListPhotos(ctx context.Context, listingID string) ([]*models.ListingPhoto, error)
	DeletePhoto(ctx context.Context, callerID, photoID string) error
}

// RateLimiter guards the login route. *ratelimit.Limiter satisfies it.
type RateLimiter interface {
	Allow(ctx context.Context, addr string) (bool, error)
}

// Server is the HTTP front of the application.
type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

// NewServer wires the routes and middleware and returns a runnable server.
func NewServer(cfg *config.Config, logger logging.Logger, us UserService, ls ListingService, ps PhotoService, limiter RateLimiter) *Server {
	gin.SetMode(cfg.GinMode)

	s := &Server{
		address: cfg.ListenAddr,
		logger:  logger.With("module", "rest_server"),
	}
	s.engine = s.buildRouter(cfg, us, ls, ps, limiter)
	return s
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
