// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/deskroute/deskroute/internal/config"
	"github.com/deskroute/deskroute/internal/identity"
	identityjwt "github.com/deskroute/deskroute/internal/identity/jwt"
	identitymongo "github.com/deskroute/deskroute/internal/identity/mongo"
	"github.com/deskroute/deskroute/internal/identity/password"
	"github.com/deskroute/deskroute/internal/pkg/ctxlog"
	"github.com/deskroute/deskroute/internal/pkg/httputil"
	"github.com/deskroute/deskroute/internal/pkg/metrics"
	"github.com/deskroute/deskroute/internal/pkg/mongodb"
	"github.com/deskroute/deskroute/internal/triage"
	"github.com/deskroute/deskroute/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	client        *mongo.Client
	server        *http.Server
	metricsServer *http.Server
	rateLimiter   *httputil.RateLimiter
}

// New creates a new application instance. It connects to the document store
// and provisions the unique email index before any server starts, so the
// uniqueness invariant holds from the first request onward.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer connectCancel()

	client, err := mongodb.Connect(connectCtx, mongodb.Config{
		URI:             cfg.Mongo.URI,
		ConnectAttempts: cfg.Mongo.ConnectAttempts,
		PoolMonitor:     metrics.NewPoolMonitor(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	app := &App{
		config: cfg,
		logger: logger,
		client: client,
	}

	router, err := app.setupRouter(connectCtx)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	if a.rateLimiter != nil {
		a.rateLimiter.Close()
	}

	if err := a.client.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disconnect mongodb: %w", err))
	}

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter(ctx context.Context) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	repo := identitymongo.NewRepository(a.client.Database(a.config.Mongo.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	tokens, err := identityjwt.NewService(identityjwt.Config{
		SecretKey: a.config.JWT.SecretKey,
		TokenTTL:  a.config.JWT.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}

	hasher := password.NewHasher(a.config.Password.BcryptCost)
	identityService := identity.NewService(repo, hasher, tokens)
	identityHandler := identity.NewHandler(identityService)

	triageHandler := triage.NewHandler()

	if a.config.RateLimit.Enabled {
		a.rateLimiter = httputil.NewRateLimiter(a.config.RateLimit.RPS, a.config.RateLimit.Burst)
		r.Group(func(r chi.Router) {
			r.Use(a.rateLimiter.Middleware)
			identityHandler.RegisterRoutes(r)
		})
	} else {
		identityHandler.RegisterRoutes(r)
	}

	triageHandler.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(httputil.AuthMiddleware(identityService))
		identityHandler.RegisterProtectedRoutes(r)
	})

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx, readpref.Primary()); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Document store unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
