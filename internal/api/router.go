package api

import (
	"crypto/rand"
	"fmt"
	"net/http"

	"github.com/mldjordje/bubanjskioganj/internal/admin"
	"github.com/mldjordje/bubanjskioganj/internal/api/handlers"
	"github.com/mldjordje/bubanjskioganj/internal/api/middleware"
	"github.com/mldjordje/bubanjskioganj/internal/assets"
	"github.com/mldjordje/bubanjskioganj/internal/config"
	"github.com/mldjordje/bubanjskioganj/internal/events"
	"github.com/mldjordje/bubanjskioganj/internal/metrics"
	"github.com/mldjordje/bubanjskioganj/internal/public"
	"github.com/mldjordje/bubanjskioganj/internal/supabase"
	"github.com/mldjordje/bubanjskioganj/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter wires the whole HTTP surface: the public page, the admin panel,
// the config endpoint the backend components bootstrap from, health and
// metrics.
func NewRouter(cfg config.Config, logger zerolog.Logger) (http.Handler, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	endpoint := cfg.Supabase.ConfigEndpoint
	if endpoint == "" {
		endpoint = cfg.Server.BaseURL + "/api/supabase-config"
	}
	provider := supabase.NewProvider(endpoint, supabase.WithProviderLogger(logger))

	repo := events.NewRepository(provider, cfg.Supabase.EventsTable,
		events.WithLogger(logger))
	uploader := assets.NewUploader(provider, cfg.Supabase.ImageBucket,
		assets.WithLogger(logger))
	projection := public.NewProjection(repo, public.WithLogger(logger))

	publicHandler := handlers.NewPublicHandler(projection, templates, logger)
	adminHandler := handlers.NewAdminHandler(admin.NewBackend(provider), repo, uploader, templates, logger)
	siteConfig := handlers.NewSiteConfigHandler(cfg.Supabase, cfg.Environment)

	key, err := csrfKey(cfg.Admin.CSRFKey)
	if err != nil {
		return nil, err
	}
	secure := cfg.Environment == "production"
	csrfProtect := middleware.CSRFProtection(key, secure)
	loginLimit := middleware.LoginRateLimit(cfg.Admin.LoginPerMinute)

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /admin", adminHandler.ServePanel)
	adminMux.Handle("POST /admin/login", loginLimit(http.HandlerFunc(adminHandler.Login)))
	adminMux.HandleFunc("POST /admin/logout", adminHandler.Logout)
	adminMux.HandleFunc("POST /admin/events", adminHandler.SubmitEvent)
	adminMux.HandleFunc("POST /admin/events/{id}/edit", adminHandler.EditEvent)
	adminMux.HandleFunc("POST /admin/events/{id}/delete", adminHandler.DeleteEvent)
	adminMux.HandleFunc("POST /admin/cancel", adminHandler.CancelEdit)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", publicHandler.ServeHome)
	mux.HandleFunc("GET /api/supabase-config", siteConfig.Serve)
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/admin", csrfProtect(adminMux))
	mux.Handle("/admin/", csrfProtect(adminMux))

	var handler http.Handler = mux
	handler = middleware.SecurityHeaders(secure)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	return handler, nil
}

func csrfKey(configured string) ([]byte, error) {
	if configured != "" {
		if len(configured) < 32 {
			return nil, fmt.Errorf("csrf key must be at least 32 bytes, got %d", len(configured))
		}
		return []byte(configured)[:32], nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}
