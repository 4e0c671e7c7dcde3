package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/config"
	"github.com/geosnap-io/geosnap/internal/db"
	dbRedis "github.com/geosnap-io/geosnap/internal/db/redis"
	"github.com/geosnap-io/geosnap/internal/exif"
	logpkg "github.com/geosnap-io/geosnap/internal/logger"
	"github.com/geosnap-io/geosnap/internal/metrics"
	"github.com/geosnap-io/geosnap/internal/objstore"
	"github.com/geosnap-io/geosnap/internal/repository/geocache"
	historyrepo "github.com/geosnap-io/geosnap/internal/repository/history"
	photorepo "github.com/geosnap-io/geosnap/internal/repository/photo"
	chiTransport "github.com/geosnap-io/geosnap/internal/transport/chi"
	openaiOCR "github.com/geosnap-io/geosnap/internal/transport/openai"
	"github.com/geosnap-io/geosnap/internal/transport/yandex"
	healthuc "github.com/geosnap-io/geosnap/internal/usecase/health"
	photouc "github.com/geosnap-io/geosnap/internal/usecase/photo"
	"github.com/geosnap-io/geosnap/internal/usecase/resolve"
	searchuc "github.com/geosnap-io/geosnap/internal/usecase/search"
	"github.com/geosnap-io/geosnap/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting geosnap API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("vision_provider", cfg.Vision.Provider),
	)

	ctx := context.Background()

	// Postgres record store
	pg, err := sqlx.Connect("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = pg.Close() }()
	pg.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	pg.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := photorepo.Migrate(pg); err != nil {
		logger.Fatal("Failed to migrate photos", zap.Error(err))
	}
	if err := historyrepo.Migrate(pg); err != nil {
		logger.Fatal("Failed to migrate search history", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register resolver metrics explicitly (no init())
	metrics.RegisterResolverMetrics()

	// Geocode cache store (optional)
	var kv db.Store
	if len(cfg.Redis.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Redis.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		kv = store
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Redis.Addrs))
	}

	// Object storage
	blobs, err := objstore.New(objstore.Config{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		UseSSL:        cfg.Storage.UseSSL,
		PresignExpiry: time.Duration(cfg.Storage.PresignExpirySec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create object storage client", zap.Error(err))
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Fatal("Failed to ensure bucket", zap.Error(err))
	}
	logger.Info("Connected to object storage", zap.String("bucket", cfg.Storage.Bucket))

	// Geocoder, optionally wrapped in the KV cache.
	// Pass nil interfaces (not typed nil pointers!) when not configured.
	var geocoder geocache.Geocoder
	if cfg.Geocoder.APIKey != "" {
		geocoder = yandex.NewGeocoder(yandex.GeocoderConfig{
			APIKey:  cfg.Geocoder.APIKey,
			BaseURL: cfg.Geocoder.BaseURL,
			Timeout: time.Duration(cfg.Geocoder.TimeoutSec) * time.Second,
		})
		if kv != nil {
			ttl := time.Duration(cfg.Redis.TTLSec) * time.Second
			geocoder = geocache.New(geocoder, kv, ttl, logger)
		}
	}

	// Text detection provider
	var detector resolve.TextDetector
	switch cfg.Vision.Provider {
	case "yandex":
		detector = yandex.NewVision(yandex.VisionConfig{
			APIKey:  cfg.Vision.APIKey,
			BaseURL: cfg.Vision.BaseURL,
			Timeout: time.Duration(cfg.Vision.TimeoutSec) * time.Second,
		})
	case "openai":
		detector = openaiOCR.NewOCR(openaiOCR.Config{
			APIKey:  cfg.Vision.APIKey,
			BaseURL: cfg.Vision.BaseURL,
			Model:   cfg.Vision.Model,
		})
	}

	// Resolution chain configuration
	resCfg := resolve.DefaultConfig()
	if cfg.Resolver.DefaultLocality != "" {
		resCfg.DefaultLocality = cfg.Resolver.DefaultLocality
	}
	for fragment, address := range cfg.Resolver.Landmarks {
		resCfg.Landmarks[fragment] = address
	}

	var resolveGeocoder resolve.Geocoder
	if geocoder != nil {
		resolveGeocoder = geocoder
	}
	chain := resolve.NewChain(resCfg, detector, resolveGeocoder)
	addresses := resolve.NewAddressResolver(resolveGeocoder, resCfg.DefaultLocality)

	// Repositories and use case services
	photoRepo := photorepo.New(pg)
	historyRepo := historyrepo.New(pg)

	photoSvc := photouc.New(photoRepo, exif.NewExtractor(), chain, addresses, blobs)

	var searchGeocoder searchuc.Geocoder
	if geocoder != nil {
		searchGeocoder = geocoder
	}
	searchSvc := searchuc.New(photoRepo, historyRepo, searchGeocoder, addresses, blobs)

	var cachePinger healthuc.CachePinger
	if kv != nil {
		cachePinger = kv
	}
	healthSvc := healthuc.New(pgPinger{db: pg}, cachePinger, blobs)

	// Create chi server
	server := chiTransport.NewServer(photoSvc, searchSvc, healthSvc, chiTransport.SearchDefaults{
		RadiusKm:   cfg.Search.DefaultRadiusKm,
		MinScore:   cfg.Search.DefaultMinConfidence,
		MaxResults: cfg.Search.MaxResults,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// pgPinger adapts sqlx.DB to the health DBPinger contract.
type pgPinger struct {
	db *sqlx.DB
}

func (p pgPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
