// Package server initializes and runs the application: configuration,
// database and Redis connections, schema migrations, superuser bootstrap and
// the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dkireev/realty/internal/logging"
	"github.com/dkireev/realty/internal/server/auth"
	"github.com/dkireev/realty/internal/server/config"
	"github.com/dkireev/realty/internal/server/ratelimit"
	"github.com/dkireev/realty/internal/server/repositories/repomanager"
	"github.com/dkireev/realty/internal/server/rest"
	"github.com/dkireev/realty/internal/server/services"
	"github.com/dkireev/realty/internal/server/session"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	rdb            *redis.Client
	userService    *services.UserService
	listingService *services.ListingService
	photoService   *services.PhotoService
	limiter        *ratelimit.Limiter
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping error: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}
	sessions := session.NewStore(rdb)
	limiter := ratelimit.NewLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)

	us := services.NewUserService(db, rm, tokens, sessions)
	ls := services.NewListingService(db, rm)
	ps := services.NewPhotoService(db, rm, cfg)

	app := &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		rdb:            rdb,
		userService:    us,
		listingService: ls,
		photoService:   ps,
		limiter:        limiter,
	}

	if err := app.bootstrapSuperuser(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrapSuperuser creates the configured superuser account on first start.
func (app *App) bootstrapSuperuser(ctx context.Context) error {
	cfg := app.config
	if cfg.SuperuserUsername == "" || cfg.SuperuserPassword == "" {
		app.logger.Info(ctx, "No superuser credentials configured, skipping bootstrap")
		return nil
	}

	created, err := app.userService.EnsureSuperuser(ctx, cfg.SuperuserUsername, cfg.SuperuserEmail, cfg.SuperuserPassword)
	if err != nil {
		return fmt.Errorf("superuser bootstrap error: %w", err)
	}
	if created {
		app.logger.Info(ctx, "Superuser created", "username", cfg.SuperuserUsername)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config, app.logger, app.userService, app.listingService, app.photoService, app.limiter)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	if err := app.rdb.Close(); err != nil {
		app.logger.Error(ctx, "redis close error", "error", err)
	}
}
