package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	"postboard/internal/config"
	pgRepo "postboard/internal/infra/adapter/persistence/postgres"
	"postboard/internal/infra/db"
	"postboard/internal/infra/objectstore"
	"postboard/internal/observability/logging"
	"postboard/internal/observability/metrics"
	"postboard/internal/observability/tracing"
	"postboard/internal/resilience/circuitbreaker"

	artUC "postboard/internal/usecase/article"
	"postboard/internal/usecase/media"

	hhttp "postboard/internal/handler/http"
	harticle "postboard/internal/handler/http/article"
	hauth "postboard/internal/handler/http/auth"
	"postboard/internal/handler/http/middleware"
	"postboard/internal/handler/http/pathutil"
	"postboard/internal/handler/http/requestid"
	authservice "postboard/internal/service/auth"

	_ "postboard/docs" // swagger docs
)

// @title           Postboard API
// @version         1.0
// @description     Short articles with optional images, written by registered users and readable by anyone.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from /signup or /login. Send it as "Bearer {token}" in the Authorization header.

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup("postboard", cfg.Version, cfg.TraceSampleRatio)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	database, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	components, err := setupServer(ctx, cfg, logger, database)
	if err != nil {
		return err
	}

	return runServer(ctx, cfg, logger, components)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	database, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return database, nil
}

// imageStore is what the API needs from an object store backend.
type imageStore interface {
	media.ObjectStore
	hhttp.HealthChecker
}

// initObjectStore builds the configured image backend. The memory driver
// also returns the handler that serves its objects.
func initObjectStore(ctx context.Context, cfg config.ObjectStoreConfig, logger *slog.Logger) (imageStore, *objectstore.MemoryStore, error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("object store: using in-memory driver, images are lost on restart")
		mem := objectstore.NewMemoryStore(cfg.PublicBaseURL)
		return mem, mem, nil
	default:
		s3Store, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
			Bucket:        cfg.Bucket,
			Region:        cfg.Region,
			Endpoint:      cfg.Endpoint,
			AccessKey:     cfg.AccessKey,
			SecretKey:     cfg.SecretKey,
			UsePathStyle:  cfg.UsePathStyle,
			PublicBaseURL: cfg.PublicBaseURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init object store: %w", err)
		}
		logger.Info("object store: s3",
			slog.String("bucket", cfg.Bucket),
			slog.String("region", cfg.Region))
		return s3Store, nil, nil
	}
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler   http.Handler
	Scheduler *cron.Cron
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(ctx context.Context, cfg config.Config, logger *slog.Logger, database *sql.DB) (*ServerComponents, error) {
	dbBreaker := circuitbreaker.NewDBCircuitBreaker(database)
	users := pgRepo.NewUserRepo(dbBreaker)

	tokens, err := authservice.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token manager: %w", err)
	}
	logger.Info("token issuer initialized", slog.Duration("token_ttl", tokens.TTL()))
	authSvc := authservice.NewService(users, authservice.NewPasswordHasher(cfg.BcryptCost), tokens, cfg.MinPassword, logger)

	store, memStore, err := initObjectStore(ctx, cfg.ObjectStore, logger)
	if err != nil {
		return nil, err
	}
	storeBreaker := circuitbreaker.New(circuitbreaker.ObjectStoreConfig())
	uploader := media.NewUploader(store, media.Options{
		Folder:  cfg.ObjectStore.Folder,
		Breaker: storeBreaker,
		Logger:  logger,
	})
	artSvc := &artUC.Service{
		Repo:   pgRepo.NewArticleRepo(dbBreaker),
		Users:  users,
		Media:  uploader,
		Logger: logger,
	}

	trusted, err := hhttp.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("load trusted proxies: %w", err)
	}
	authLimiter := hhttp.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, trusted)
	logger.Info("auth rate limiting initialized",
		slog.Int("per_minute", cfg.AuthRateLimit),
		slog.Int("burst", cfg.AuthRateBurst),
		slog.Int("trusted_proxies_count", len(trusted)))

	scheduler := cron.New()
	if _, err := hhttp.ScheduleRateLimitCleanup(scheduler, authLimiter, hhttp.LoadCleanupConfigFromEnv("auth"), logger); err != nil {
		return nil, err
	}
	if _, err := metrics.ScheduleStatsRefresh(scheduler, pgRepo.NewStatsRepo(dbBreaker), cfg.StatsInterval, logger); err != nil {
		return nil, err
	}

	mux := setupRoutes(routeDeps{
		database:    database,
		version:     cfg.Version,
		authSvc:     authSvc,
		tokens:      tokens,
		artSvc:      artSvc,
		authLimiter: authLimiter,
		store:       store,
		memStore:    memStore,
		breakers: map[string]hhttp.BreakerStateReporter{
			"database":     dbBreaker,
			"object_store": storeBreaker,
		},
		logger: logger,
	})

	handler, err := applyMiddleware(cfg, logger, mux)
	if err != nil {
		return nil, err
	}

	return &ServerComponents{Handler: handler, Scheduler: scheduler}, nil
}

type routeDeps struct {
	database    *sql.DB
	version     string
	authSvc     *authservice.Service
	tokens      *authservice.TokenManager
	artSvc      *artUC.Service
	authLimiter *hhttp.IPRateLimiter
	store       hhttp.HealthChecker
	memStore    *objectstore.MemoryStore
	breakers    map[string]hhttp.BreakerStateReporter
	logger      *slog.Logger
}

// setupRoutes registers all HTTP routes (public and protected).
func setupRoutes(d routeDeps) *http.ServeMux {
	mux := http.NewServeMux()

	hauth.Register(mux, d.authSvc, d.tokens, d.authLimiter.Limit)
	harticle.Register(mux, d.artSvc, d.tokens)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:          d.database,
		ObjectStore: d.store,
		Breakers:    d.breakers,
		Version:     d.version,
		Logger:      d.logger,
	})
	mux.Handle("GET /health/live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	if d.memStore != nil {
		mux.Handle(d.memStore.BasePath()+"/", d.memStore)
	}
	return mux
}

// applyMiddleware wraps the handler with middleware chain.
// Middleware order: Request ID → Tracing → Logging → Recovery → Metrics →
// Security headers → CORS → Input validation → Body limit → Timeout
func applyMiddleware(cfg config.Config, logger *slog.Logger, handler http.Handler) (http.Handler, error) {
	if err := middleware.ValidateOrigins(cfg.CORSAllowedOrigins); err != nil {
		return nil, fmt.Errorf("load CORS configuration: %w", err)
	}
	corsConfig := middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins)
	corsConfig.Logger = logger
	logger.Info("CORS enabled",
		slog.Int("allowed_origins_count", len(cfg.CORSAllowedOrigins)),
		slog.Any("allowed_origins", cfg.CORSAllowedOrigins))

	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware(func(r *http.Request) string { return pathutil.NormalizePath(r.URL.Path) }),
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		middleware.SecurityHeaders,
		middleware.CORS(corsConfig),
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(harticle.MaxMultipartBytes),
		hhttp.Timeout(cfg.RequestTimeout),
	), nil
}

// requestBaseContext detaches request contexts from the signal context so a
// shutdown signal leaves in-flight requests to Shutdown to drain.
func requestBaseContext(ctx context.Context) func(net.Listener) context.Context {
	base := context.WithoutCancel(ctx)
	return func(_ net.Listener) context.Context { return base }
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger, components *ServerComponents) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext:       requestBaseContext(ctx),
	}

	components.Scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		<-components.Scheduler.Stop().Done()
		logger.Debug("background jobs stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
