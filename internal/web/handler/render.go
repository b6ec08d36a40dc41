package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/moonpull/moonpull-web/internal/web/middleware"
	"github.com/moonpull/moonpull-web/internal/web/templates/layout"
	"github.com/moonpull/moonpull-web/internal/web/templates/pages"
)

// pageData fills the fields every page shares from the request
func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:   title,
		Profile: middleware.CurrentProfile(r.Context()),
		Flash:   middleware.GetFlash(r.Context()),
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	// The status is already sent, so a render error can only truncate the page
	_ = c.Render(r.Context(), w)
}

// NotFound renders the 404 page
func NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, pages.NotFound(pageData(r, "Not found")))
}
