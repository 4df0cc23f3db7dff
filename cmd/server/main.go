package main

import (
	"commute-radius-service/internal/adapters/geocoding"
	"commute-radius-service/internal/adapters/repositories"
	"commute-radius-service/internal/adapters/routing"
	"commute-radius-service/internal/api"
	"commute-radius-service/internal/config"
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/db"
	"commute-radius-service/internal/ports"
	"commute-radius-service/internal/services"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (routing provider, locality source, geocoder)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	localities, err := loadLocalities(ctx, cfg.Localities)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("localities loaded source=%s count=%d", cfg.Localities.Source, len(localities))

	matrix, err := newMatrix(cfg)
	if err != nil {
		log.Fatal(err)
	}

	router := services.NewRoutingBatchClient(matrix, cfg.Routing)
	svc := services.NewCommuteQueryService(localities, router, cfg.Traffic, cfg.Commute)

	geocoder, err := newGeocoder(cfg)
	if err != nil {
		log.Fatal(err)
	}

	handler := api.NewRouter(api.Deps{
		Commute:    svc,
		Geocoder:   geocoder,
		Localities: svc.Localities(),
		Provider:   router.Provider(),
	})

	// A query may run several rounds of batches with backoff before falling back.
	log.Printf("Server listening addr=:%s provider=%s batch_size=%d", cfg.Port, router.Provider(), router.BatchSize())
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func loadLocalities(ctx context.Context, src config.LocalitySource) ([]domain.Locality, error) {
	var repo ports.LocalityRepository

	if src.Source == "file" {
		repo = repositories.NewJSONLocalityRepository(src.Path)
	} else {
		driver, err := db.DriverFor(src.Source)
		if err != nil {
			return nil, fmt.Errorf("load localities: %w", err)
		}
		conn, err := db.Open(driver, src.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("load localities: %w", err)
		}
		// The table is read once; the pool is not needed afterwards.
		defer conn.Close()
		repo = repositories.NewSQLLocalityRepository(conn)
	}

	localities, err := repo.ListLocalities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load localities: %w", err)
	}
	if len(localities) == 0 {
		log.Printf("localities: source=%s is empty, every query will return no results", src.Source)
	}
	return localities, nil
}

func newMatrix(cfg config.Config) (ports.TravelTimeMatrix, error) {
	session := &http.Client{Timeout: cfg.Provider.Timeout}

	switch cfg.Provider.Name {
	case "osrm":
		return routing.NewOSRMMatrix(cfg.Provider.BaseURL, session), nil
	case "ors":
		return routing.NewORSMatrix(cfg.ORSAPIKey, cfg.Provider.BaseURL, session)
	case "google":
		return routing.NewGoogleMatrix(cfg.GoogleMapsAPIKey, cfg.Provider.BaseURL)
	default:
		return nil, fmt.Errorf("unknown routing provider %q", cfg.Provider.Name)
	}
}

// newGeocoder prefers the key of the active routing provider. It returns a
// nil geocoder when no key is configured.
func newGeocoder(cfg config.Config) (ports.Geocoder, error) {
	useGoogle := cfg.GoogleMapsAPIKey != "" && (cfg.Provider.Name == "google" || cfg.ORSAPIKey == "")

	switch {
	case useGoogle:
		return geocoding.NewGoogleGeocoder(cfg.GoogleMapsAPIKey, "")
	case cfg.ORSAPIKey != "":
		return geocoding.NewORSGeocoder(cfg.ORSAPIKey, "", &http.Client{Timeout: cfg.Provider.Timeout})
	default:
		log.Println("geocoding disabled: neither ORS_API_KEY nor GOOGLE_MAPS_API_KEY is set")
		return nil, nil
	}
}
