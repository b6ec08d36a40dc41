package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/moonpull/moonpull-web/internal/api/middleware"
	"github.com/moonpull/moonpull-web/internal/api/request"
	"github.com/moonpull/moonpull-web/internal/api/response"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
)

// AuthHandler serves the session endpoints
type AuthHandler struct {
	authService   *auth.Service
	logger        *slog.Logger
	secureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// Me handles GET /api/me. It never fails for anonymous callers.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		response.JSON(w, http.StatusOK, response.Anonymous)
		return
	}
	response.JSON(w, http.StatusOK, response.MeFromSession(session))
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.LoginID = strings.TrimSpace(req.LoginID)
	if req.LoginID == "" {
		WriteError(w, NewInvalidRequestError("loginId is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.LoginID, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.startSession(w, session)
	response.JSON(w, http.StatusOK, response.MeFromSession(session))
}

// Join handles POST /api/join
func (h *AuthHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.LoginID = strings.TrimSpace(req.LoginID)
	switch {
	case req.LoginID == "":
		WriteError(w, NewInvalidRequestError("loginId is required"))
		return
	case len(req.Password) < 8:
		WriteError(w, NewInvalidRequestError("password must be at least 8 characters"))
		return
	case strings.TrimSpace(req.Nickname) == "":
		WriteError(w, NewInvalidRequestError("nickname is required"))
		return
	}

	session, err := h.authService.Join(r.Context(), req.LoginID, req.Password, strings.TrimSpace(req.Nickname))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.startSession(w, session)
	response.JSON(w, http.StatusCreated, response.MeFromSession(session))
}

// Logout handles POST /api/logout. The body is ignored and the answer is
// always 204: an unknown or missing session still clears the cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.ExtractToken(r); token != "" {
		if err := h.authService.InvalidateSession(r.Context(), token); err != nil {
			h.logger.Warn("failed to invalidate session", slog.String("error", err.Error()))
		}
	}

	auth.ClearSessionCookies(w, h.secureCookies)
	response.NoContent(w)
}

// Admin handles GET /api/admin/ping, a role check for admin clients
func (h *AuthHandler) Admin(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"role":   model.PrimaryRole(session.Roles),
	})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, auth.SessionCookie(session.Token, h.authService.Remaining(session), h.secureCookies))
}
