package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/linkcalc/internal/api"
	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/internal/config"
	"github.com/RMahshie/linkcalc/internal/metrics"
	"github.com/RMahshie/linkcalc/internal/ui"
	"github.com/RMahshie/linkcalc/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg)

	var sessions *ui.Sessions

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector, err = metrics.NewCollector(nil, func() int { return sessions.Len() })
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to register metrics")
		}
	}

	// Initialize services
	var recorder calculator.Recorder
	if collector != nil {
		recorder = collector
	}
	calc := calculator.NewCalculatorService(recorder)
	chartOpts := chart.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height}

	sessions = ui.NewSessions(func(ctx context.Context) *ui.Controller {
		return ui.NewController(ctx, calc, chartOpts)
	}, cfg.Session.TTL, cfg.Session.Max)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	sessionsDone := make(chan struct{})
	go func() {
		defer close(sessionsDone)
		sessions.Run(bgCtx, time.Minute)
	}()

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.ZerologLogger())
	router.Use(middleware.Recoverer)
	if collector != nil {
		router.Use(collector.Middleware)
	}
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Link Budget Calculator API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, calc, chartOpts)
	api.RegisterPageRoutes(router, sessions, cfg.Session.TTL)

	if collector != nil {
		router.Handle("/metrics", collector.Handler())
	}

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("Starting link budget calculator")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	stopBackground()
	<-sessionsDone

	log.Info().Msg("Server exited")
}

// setupLogging switches to JSON output outside development and applies
// the configured level.
func setupLogging(cfg *config.Config) {
	if cfg.Server.Env != "dev" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Handlers without a request logger in their context fall back to the
	// global logger.
	zerolog.DefaultContextLogger = &log.Logger
}
