package handler

import (
	"net/http"

	"github.com/moonpull/moonpull-web/internal/api/response"
)

// Health handles GET /api/health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
