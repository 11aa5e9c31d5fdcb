package http

import (
	"net/http"

	"github.com/dreschagin/fleet-maintenance/internal/interfaces/http/handler"
	"github.com/dreschagin/fleet-maintenance/internal/interfaces/http/middleware"
	"github.com/dreschagin/fleet-maintenance/pkg/config"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux                *http.ServeMux
	alertsAPIHandler   *handler.AlertsAPIHandler
	overhaulAPIHandler *handler.OverhaulAPIHandler
	authAPIHandler     *handler.AuthAPIHandler
	security           config.SecurityConfig
	logger             *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	alertsAPIHandler *handler.AlertsAPIHandler,
	overhaulAPIHandler *handler.OverhaulAPIHandler,
	authAPIHandler *handler.AuthAPIHandler,
	security config.SecurityConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		alertsAPIHandler:   alertsAPIHandler,
		overhaulAPIHandler: overhaulAPIHandler,
		authAPIHandler:     authAPIHandler,
		security:           security,
		logger:             logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Health endpoints are intentionally unauthenticated for probes.
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
	}, rt.logger)

	rateLimiter := middleware.NewIPRateLimiter(rt.security.RateLimitRPS, rt.security.RateLimitBurst)
	rateLimit := middleware.RateLimit(rateLimiter)

	// API endpoints
	rt.mux.HandleFunc("/api/v1/auth/login", rt.authAPIHandler.Login)
	rt.mux.HandleFunc("/api/v1/auth/logout", rt.authAPIHandler.Logout)
	rt.mux.HandleFunc("/api/v1/auth/status", rt.authAPIHandler.Status)

	rt.mux.Handle("GET /api/v1/fleet/alerts",
		authMiddleware(http.HandlerFunc(rt.alertsAPIHandler.GetFleetAlerts)))
	rt.mux.Handle("GET /api/v1/aircraft/{id}/alerts",
		authMiddleware(http.HandlerFunc(rt.alertsAPIHandler.GetAircraftAlerts)))
	rt.mux.Handle("POST /api/v1/parameters/{id}/overhaul",
		authMiddleware(rateLimit(http.HandlerFunc(rt.overhaulAPIHandler.CompleteOverhaul))))

	// Применяем middleware
	var handler http.Handler = rt.mux
	handler = middleware.Compression(handler)
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.Recovery(rt.logger)(handler)

	return handler
}
