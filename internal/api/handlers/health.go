package handlers

import (
	"commute-radius-service/internal/api/dto"
	"net/http"
)

// HealthHandler reports liveness plus the loaded dataset size and provider.
type HealthHandler struct {
	Localities int
	Provider   string
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:     "ok",
		Localities: h.Localities,
		Provider:   h.Provider,
	})
}
