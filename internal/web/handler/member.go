package handler

import (
	"log/slog"
	"net/http"

	"github.com/moonpull/moonpull-web/internal/prompt"
	"github.com/moonpull/moonpull-web/internal/services/auth"
	"github.com/moonpull/moonpull-web/internal/web/middleware"
	"github.com/moonpull/moonpull-web/internal/web/templates/pages"
)

// MemberHandler serves the pages behind the route guard
type MemberHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(authService *auth.Service, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{
		authService: authService,
		logger:      logger,
	}
}

// Denied renders the login prompt in place of a protected page. The
// prompt's links carry out dismiss and proceed in the browser.
func (h *MemberHandler) Denied(w http.ResponseWriter, r *http.Request, requestedPath string) {
	p := prompt.New(requestedPath, prompt.NavigatorFunc(func(string) {}))
	render(w, r, http.StatusUnauthorized, pages.Gated(pages.GatedData{
		PageData: pageData(r, "Login required"),
		Prompt:   p,
	}))
}

// Dashboard renders the member dashboard
func (h *MemberHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.Dashboard(pages.DashboardData{PageData: pageData(r, "Dashboard")}))
}

// MyPage renders the member's own profile
func (h *MemberHandler) MyPage(w http.ResponseWriter, r *http.Request) {
	data := pages.MyPageData{PageData: pageData(r, "My page")}
	if s := middleware.CurrentSession(r.Context()); s != nil {
		data.LoginID = s.LoginID
		data.MemberID = string(s.MemberID)
		data.ExpiresIn = h.authService.Remaining(s)
	}
	render(w, r, http.StatusOK, pages.MyPage(data))
}

// Admin renders the admin dashboard
func (h *MemberHandler) Admin(w http.ResponseWriter, r *http.Request) {
	count, err := h.authService.CountActiveSessions(r.Context())
	if err != nil {
		h.logger.Error("count sessions failed", slog.String("error", err.Error()))
		render(w, r, http.StatusInternalServerError, pages.Error(pageData(r, "Error"), "Could not load session statistics."))
		return
	}
	render(w, r, http.StatusOK, pages.Admin(pages.AdminData{
		PageData:       pageData(r, "Admin"),
		ActiveSessions: count,
	}))
}
