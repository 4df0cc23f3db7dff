package api

import (
	"commute-radius-service/internal/api/handlers"
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/ports"
	"net/http"

	"github.com/rs/cors"
)

// Deps are the collaborators the HTTP layer needs. Geocoder may be nil.
type Deps struct {
	Commute    handlers.CommuteService
	Geocoder   ports.Geocoder
	Localities []domain.Locality
	Provider   string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	commuteHandler := &handlers.CommuteHandler{Service: deps.Commute}
	geocodeHandler := &handlers.GeocodeHandler{Geocoder: deps.Geocoder}
	localityHandler := &handlers.LocalityHandler{Localities: deps.Localities}
	healthHandler := &handlers.HealthHandler{
		Localities: len(deps.Localities),
		Provider:   deps.Provider,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/api/commute", commuteHandler.Commute)
	mux.HandleFunc("/api/geocode", geocodeHandler.Geocode)
	mux.HandleFunc("/api/localities", localityHandler.List)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(mux)))
}
