package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/moonpull/moonpull-web/internal/guard"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
	"github.com/moonpull/moonpull-web/internal/web/handler"
	"github.com/moonpull/moonpull-web/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	SecureCookies bool
	StaticDir     string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger, cfg.SecureCookies)
	memberHandler := handler.NewMemberHandler(cfg.AuthService, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Every page gets a flash message and a bootstrapped session holder
	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Flash())
	pages.Use(middleware.Session(cfg.AuthService, cfg.Logger, cfg.SecureCookies))

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	pages.HandleFunc("/auth/login", authHandler.LoginPage).Methods(http.MethodGet)
	pages.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	pages.HandleFunc("/auth/join", authHandler.JoinPage).Methods(http.MethodGet)
	pages.HandleFunc("/auth/join", authHandler.Join).Methods(http.MethodPost)
	pages.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes: the guard shows the login prompt to signed-out visitors
	protected := pages.NewRoute().Subrouter()
	protected.Use(guard.Protect(memberHandler.Denied))
	protected.HandleFunc("/dashboard", memberHandler.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/mypage", memberHandler.MyPage).Methods(http.MethodGet)

	admin := protected.NewRoute().Subrouter()
	admin.Use(guard.RequireRole(model.RoleAdmin))
	admin.HandleFunc("/admin", memberHandler.Admin).Methods(http.MethodGet)

	r.NotFoundHandler = middleware.Session(cfg.AuthService, cfg.Logger, cfg.SecureCookies)(http.HandlerFunc(handler.NotFound))

	return r
}
