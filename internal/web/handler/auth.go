package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/moonpull/moonpull-web/internal/guard"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/prompt"
	"github.com/moonpull/moonpull-web/internal/services/auth"
	"github.com/moonpull/moonpull-web/internal/web/middleware"
	"github.com/moonpull/moonpull-web/internal/web/templates/pages"
)

// AuthHandler handles authentication pages and actions
type AuthHandler struct {
	authService   *auth.Service
	logger        *slog.Logger
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get(prompt.RedirectParam)

	if holder := guard.HolderFrom(r.Context()); holder != nil && holder.IsAuthenticated() {
		http.Redirect(w, r, prompt.SafeRedirect(redirect), http.StatusSeeOther)
		return
	}

	render(w, r, http.StatusOK, pages.Login(pages.LoginData{
		PageData: pageData(r, "Log in"),
		Redirect: redirect,
	}))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, http.StatusBadRequest, "Invalid form data", "", "")
		return
	}

	loginID := strings.TrimSpace(r.FormValue("loginId"))
	password := r.FormValue("password")
	redirect := r.FormValue(prompt.RedirectParam)

	if loginID == "" || password == "" {
		h.renderLoginError(w, r, http.StatusBadRequest, "Login ID and password are required", loginID, redirect)
		return
	}

	session, err := h.authService.Login(r.Context(), loginID, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("login failed", slog.String("error", err.Error()))
		}
		h.renderLoginError(w, r, http.StatusUnauthorized, "Invalid login ID or password", loginID, redirect)
		return
	}

	h.startSession(w, r, session)
	middleware.SetFlash(w, "success", "Welcome back, "+session.Profile().Nickname+"!")
	http.Redirect(w, r, prompt.SafeRedirect(redirect), http.StatusSeeOther)
}

// JoinPage renders the sign-up page
func (h *AuthHandler) JoinPage(w http.ResponseWriter, r *http.Request) {
	if holder := guard.HolderFrom(r.Context()); holder != nil && holder.IsAuthenticated() {
		http.Redirect(w, r, prompt.HomePath, http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, pages.Join(pages.JoinData{
		PageData:    pageData(r, "Join"),
		FieldErrors: map[string]string{},
	}))
}

// Join handles sign-up form submission
func (h *AuthHandler) Join(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderJoinError(w, r, http.StatusBadRequest, pages.JoinData{Error: "Invalid form data"})
		return
	}

	data := pages.JoinData{
		LoginID:     strings.TrimSpace(r.FormValue("loginId")),
		Nickname:    strings.TrimSpace(r.FormValue("nickname")),
		FieldErrors: map[string]string{},
	}
	password := r.FormValue("password")

	switch {
	case data.LoginID == "":
		data.FieldErrors["loginId"] = "Login ID is required"
	case len(data.LoginID) < 3:
		data.FieldErrors["loginId"] = "Login ID must be at least 3 characters"
	case len(data.LoginID) > 20:
		data.FieldErrors["loginId"] = "Login ID must be at most 20 characters"
	}
	if data.Nickname == "" {
		data.FieldErrors["nickname"] = "Nickname is required"
	}
	if len(password) < 8 {
		data.FieldErrors["password"] = "Password must be at least 8 characters"
	}
	if password != r.FormValue("password_confirm") {
		data.FieldErrors["password_confirm"] = "Passwords do not match"
	}
	if len(data.FieldErrors) > 0 {
		h.renderJoinError(w, r, http.StatusBadRequest, data)
		return
	}

	session, err := h.authService.Join(r.Context(), data.LoginID, password, data.Nickname)
	if err != nil {
		if errors.Is(err, auth.ErrLoginIDExists) {
			data.FieldErrors["loginId"] = "Login ID already taken"
			h.renderJoinError(w, r, http.StatusConflict, data)
			return
		}
		h.logger.Error("join failed", slog.String("error", err.Error()))
		data.Error = "Could not create the account, please try again"
		h.renderJoinError(w, r, http.StatusInternalServerError, data)
		return
	}

	h.startSession(w, r, session)
	middleware.SetFlash(w, "success", "Account created! Welcome, "+session.Profile().Nickname+"!")
	http.Redirect(w, r, prompt.HomePath, http.StatusSeeOther)
}

// Logout signs the holder out, which also invalidates the server session,
// then expires the cookies whatever the server said
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if holder := guard.HolderFrom(r.Context()); holder != nil {
		holder.Logout(r.Context())
	}

	auth.ClearSessionCookies(w, h.secureCookies)
	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, prompt.HomePath, http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, session *model.Session) {
	http.SetCookie(w, auth.SessionCookie(session.Token, h.authService.Remaining(session), h.secureCookies))

	if holder := guard.HolderFrom(r.Context()); holder != nil {
		profile := session.Profile()
		holder.Login(profile.Nickname, profile.Role)
	}
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, status int, msg, loginID, redirect string) {
	render(w, r, status, pages.Login(pages.LoginData{
		PageData: pageData(r, "Log in"),
		LoginID:  loginID,
		Error:    msg,
		Redirect: redirect,
	}))
}

func (h *AuthHandler) renderJoinError(w http.ResponseWriter, r *http.Request, status int, data pages.JoinData) {
	data.PageData = pageData(r, "Join")
	if data.FieldErrors == nil {
		data.FieldErrors = map[string]string{}
	}
	render(w, r, status, pages.Join(data))
}
