package handlers

import (
	"commute-radius-service/internal/api/dto"
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/samber/lo"
)

const maxBodyBytes = 1 << 20

// CommuteService answers commute-radius queries.
type CommuteService interface {
	Handle(ctx context.Context, q domain.CommuteQuery) (domain.CommuteResponse, error)
}

type CommuteHandler struct {
	Service CommuteService
}

// Commute decodes a commute query, runs it and renders the ranked localities.
func (h *CommuteHandler) Commute(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CommuteRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.Destination == nil || req.Destination.Lat == nil || req.Destination.Lng == nil {
		writeError(w, r, http.StatusBadRequest, "destination lat and lng are required")
		return
	}
	if req.MaxMinutes == nil {
		writeError(w, r, http.StatusBadRequest, "maxMinutes is required")
		return
	}

	q := domain.CommuteQuery{
		Destination: &domain.Coordinates{Lat: *req.Destination.Lat, Lng: *req.Destination.Lng},
		MaxMinutes:  *req.MaxMinutes,
		TravelMode:  domain.ParseTravelMode(req.TravelMode),
	}

	resp, err := h.Service.Handle(r.Context(), q)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		writeError(w, r, http.StatusBadRequest, verr.Error())
		return
	}
	if err != nil {
		log.Printf("commute query failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.CommuteResponse{
		Results: lo.Map(resp.Results, func(c domain.CommuteResult, _ int) dto.CommuteResultResponse {
			return dto.CommuteResultResponse{
				Name:         c.Name,
				Lat:          c.Lat,
				Lng:          c.Lng,
				Minutes:      c.Minutes,
				Km:           c.Km,
				DurationText: c.DurationText,
				DistanceText: c.DistanceText,
			}
		}),
		Warning: resp.Warning,
		Message: resp.Message,
	}

	writeJSON(w, r, http.StatusOK, res)
}
