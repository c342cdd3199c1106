// Package server assembles the telemedicine HTTP API from its domain
// packages.
package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/healthconnect/telemed/internal/config"
	"github.com/healthconnect/telemed/internal/domain/appointment"
	"github.com/healthconnect/telemed/internal/domain/consultation"
	"github.com/healthconnect/telemed/internal/domain/location"
	"github.com/healthconnect/telemed/internal/domain/pharmacy"
	"github.com/healthconnect/telemed/internal/domain/provider"
	"github.com/healthconnect/telemed/internal/domain/records"
	"github.com/healthconnect/telemed/internal/domain/triage"
	"github.com/healthconnect/telemed/internal/platform/apperror"
	"github.com/healthconnect/telemed/internal/platform/i18n"
	"github.com/healthconnect/telemed/internal/platform/metrics"
	"github.com/healthconnect/telemed/internal/platform/middleware"
	"github.com/healthconnect/telemed/internal/platform/random"
)

const Version = "0.1.0"

// New builds the echo instance with every route registered. All state is
// in memory and lives as long as the returned server.
func New(cfg *config.Config, logger zerolog.Logger) (*echo.Echo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := i18n.Default(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("load i18n catalog: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	if cfg.MetricsEnabled {
		e.Use(middleware.Metrics())
	}
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.Sanitize())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "Accept-Language", middleware.RequestIDHeader},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": Version,
		})
	})
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           middleware.DefaultRateLimitConfig().IdleTTL,
	}))

	dir := location.Default()
	location.NewHandler(dir).RegisterRoutes(apiV1)

	gen := provider.NewGenerator(dir, random.New(cfg.RandomSeed), provider.Options{
		PrimaryLanguage:   cfg.PrimaryLanguage,
		SecondaryLanguage: cfg.SecondaryLanguage,
		Fee:               cfg.ConsultationFee,
	})
	provider.NewHandler(provider.NewService(gen, cfg.ProviderCount, logger)).RegisterRoutes(apiV1)

	triage.NewHandler(triage.NewService(triage.Default(), logger)).RegisterRoutes(apiV1)
	pharmacy.NewHandler(pharmacy.Default()).RegisterRoutes(apiV1)

	apptSvc := appointment.NewService(appointment.NewMemoryRepo(), dir, cfg.ConsultationFee, logger)
	appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)

	store := records.NewSeededStore()
	records.NewHandler(store).RegisterRoutes(apiV1)

	consultSvc := consultation.NewService(apptSvc, store, logger)
	apptSvc.SetSessionTracker(consultSvc)
	consultation.NewHandler(consultSvc).RegisterRoutes(apiV1)
	i18n.NewHandler(catalog).RegisterRoutes(apiV1)

	return e, nil
}
