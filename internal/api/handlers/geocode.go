package handlers

import (
	"commute-radius-service/internal/api/dto"
	"commute-radius-service/internal/ports"
	"errors"
	"log"
	"net/http"
	"strings"
)

// GeocodeHandler resolves a free-text address. Geocoder is nil when no
// geocoding key is configured.
type GeocodeHandler struct {
	Geocoder ports.Geocoder
}

func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if h.Geocoder == nil {
		writeError(w, r, http.StatusServiceUnavailable, "geocoding is not configured")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, http.StatusBadRequest, "q is required")
		return
	}

	res, err := h.Geocoder.Geocode(r.Context(), q)
	if errors.Is(err, ports.ErrNoGeocodeMatch) {
		writeError(w, r, http.StatusNotFound, "no match for address")
		return
	}
	if err != nil {
		log.Printf("geocode failed: q=%q err=%v", q, err)
		writeError(w, r, http.StatusBadGateway, "geocoding failed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{
		Lat:   res.Coordinates.Lat,
		Lng:   res.Coordinates.Lng,
		Label: res.Label,
	})
}
