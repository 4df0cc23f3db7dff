package services

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
)

// RouteFetcher is the routing stage as seen by the commute service.
type RouteFetcher interface {
	FetchDurations(
		ctx context.Context,
		destination domain.Coordinates,
		candidates []domain.Candidate,
		mode domain.TravelMode,
	) ([]domain.RouteEstimate, error)
}

type CommuteConfig struct {
	Candidates          CandidateConfig
	FallbackKmPerMinute float64
}

// CommuteQueryService answers "which localities can reach this point within
// N minutes". It owns no mutable state; the locality table is read-only.
type CommuteQueryService struct {
	localities []domain.Locality
	router     RouteFetcher
	traffic    TrafficModel
	fallback   FallbackEstimator
	candidates CandidateConfig
}

func NewCommuteQueryService(
	localities []domain.Locality,
	router RouteFetcher,
	traffic TrafficModel,
	cfg CommuteConfig,
) *CommuteQueryService {
	return &CommuteQueryService{
		localities: localities,
		router:     router,
		traffic:    traffic,
		fallback:   FallbackEstimator{KmPerMinute: cfg.FallbackKmPerMinute},
		candidates: cfg.Candidates,
	}
}

func (s *CommuteQueryService) Localities() []domain.Locality {
	return s.localities
}

// Handle runs validation, candidate selection, routing (or the fallback),
// traffic correction, budget filtering and sorting.
// The only error it returns is *ValidationError.
func (s *CommuteQueryService) Handle(ctx context.Context, q domain.CommuteQuery) (_ domain.CommuteResponse, err error) {
	defer obs.Time(ctx, "commute.Handle")(&err)

	if err := validateQuery(q); err != nil {
		return domain.CommuteResponse{}, err
	}

	destination := *q.Destination
	mode := q.TravelMode
	if mode == "" {
		mode = domain.TravelModeDrive
	}

	candidates := SelectCandidates(destination, s.localities, s.candidates)
	if len(candidates) == 0 {
		return domain.CommuteResponse{
			Results: []domain.CommuteResult{},
			Message: noCandidatesMessage(s.candidates.RadiusKm),
		}, nil
	}

	estimates, routeErr := s.router.FetchDurations(ctx, destination, candidates, mode)
	if routeErr != nil || len(estimates) == 0 {
		if routeErr == nil {
			routeErr = errors.New("no routable candidates")
		}
		log.Printf(
			"req_id=%s op=commute.Handle degraded=true candidates=%d err=%v",
			obs.RequestID(ctx), len(candidates), routeErr,
		)
		return s.fallback.Estimate(destination, s.localities, q.MaxMinutes), nil
	}

	results := make([]domain.CommuteResult, 0, len(estimates))
	for _, e := range estimates {
		r := s.toResult(e, mode)
		if float64(r.Minutes) > q.MaxMinutes {
			continue
		}
		results = append(results, r)
	}

	sortResults(results)

	return domain.CommuteResponse{Results: results}, nil
}

func (s *CommuteQueryService) toResult(e domain.RouteEstimate, mode domain.TravelMode) domain.CommuteResult {
	loc := e.Candidate.Locality

	km := e.Candidate.AirDistanceKm
	approxKm := true
	if e.DistanceMeters != nil {
		km = *e.DistanceMeters / 1000
		approxKm = false
	}

	factor := s.traffic.CorrectionFactor(loc.Coordinates(), mode, km)
	minutes := int(math.Round(e.DurationSeconds * factor / 60))
	roundedKm := roundTenth(km)

	return domain.CommuteResult{
		Locality:     loc,
		Minutes:      minutes,
		Km:           roundedKm,
		DurationText: formatMinutes(minutes, false),
		DistanceText: formatKm(roundedKm, approxKm),
	}
}

func validateQuery(q domain.CommuteQuery) error {
	if q.Destination == nil {
		return &ValidationError{Field: "destination", Reason: "is required"}
	}
	// Zero lat or lng is how clients encode an unset map pin.
	if q.Destination.Lat == 0 || q.Destination.Lng == 0 {
		return &ValidationError{Field: "destination", Reason: "lat and lng are required"}
	}
	if err := q.Destination.Validate(); err != nil {
		return &ValidationError{Field: "destination", Reason: err.Error()}
	}
	if math.IsNaN(q.MaxMinutes) || math.IsInf(q.MaxMinutes, 0) || q.MaxMinutes <= 0 {
		return &ValidationError{Field: "maxMinutes", Reason: "must be a positive number"}
	}
	return nil
}

func noCandidatesMessage(radiusKm float64) string {
	if radiusKm <= 0 {
		return "No localities available"
	}
	return fmt.Sprintf("No localities within %gkm", radiusKm)
}
