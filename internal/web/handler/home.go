package handler

import (
	"net/http"

	"github.com/moonpull/moonpull-web/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.Home(pages.HomeData{PageData: pageData(r, "Home")}))
}
