package handlers

import (
	"commute-radius-service/internal/api/dto"
	"commute-radius-service/internal/domain"
	"net/http"

	"github.com/samber/lo"
)

type LocalityHandler struct {
	Localities []domain.Locality
}

// List returns the locality table the service was started with.
func (h *LocalityHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := dto.ListLocalityResponse{
		Localities: lo.Map(h.Localities, func(l domain.Locality, _ int) dto.LocalityResponse {
			return dto.LocalityResponse{Name: l.Name, Lat: l.Lat, Lng: l.Lng}
		}),
		Count: len(h.Localities),
	}

	writeJSON(w, r, http.StatusOK, res)
}
