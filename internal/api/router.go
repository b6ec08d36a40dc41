package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/moonpull/moonpull-web/internal/api/handler"
	"github.com/moonpull/moonpull-web/internal/api/middleware"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	SecureCookies bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger, cfg.SecureCookies)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Public routes
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/join", authHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Session is optional: anonymous callers get {"authenticated":false}
	me := api.PathPrefix("/me").Subrouter()
	me.Use(middleware.OptionalAuth(cfg.AuthService))
	me.HandleFunc("", authHandler.Me).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(cfg.AuthService))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.HandleFunc("/ping", authHandler.Admin).Methods(http.MethodGet)

	return r
}
