package config

import (
	"commute-radius-service/internal/services"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return d, nil
}

type RoutingProvider struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

type LocalitySource struct {
	Source      string
	Path        string
	DatabaseURL string
}

// Config is the full service configuration, built once at startup and passed
// explicitly to constructors.
type Config struct {
	Port             string
	Provider         RoutingProvider
	ORSAPIKey        string
	GoogleMapsAPIKey string
	Routing          services.RoutingConfig
	Commute          services.CommuteConfig
	Traffic          services.TrafficModel
	Localities       LocalitySource
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port: Get("PORT", "8080"),
		Provider: RoutingProvider{
			Name:    strings.ToLower(Get("ROUTING_PROVIDER", "osrm")),
			BaseURL: Get("ROUTING_BASE_URL", ""),
		},
		ORSAPIKey:        Get("ORS_API_KEY", ""),
		GoogleMapsAPIKey: Get("GOOGLE_MAPS_API_KEY", ""),
		Localities: LocalitySource{
			Source:      strings.ToLower(Get("LOCALITY_SOURCE", "file")),
			Path:        Get("LOCALITY_PATH", "data/localities.json"),
			DatabaseURL: Get("DATABASE_URL", ""),
		},
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	cfg.Provider.Timeout, err = getDuration("ROUTING_TIMEOUT", 10*time.Second)
	collect(err)
	cfg.Routing.BatchSize, err = getInt("ROUTING_BATCH_SIZE", services.DefaultBatchSize)
	collect(err)
	cfg.Routing.RetryBudget, err = getInt("ROUTING_RETRY_BUDGET", services.DefaultRetryBudget)
	collect(err)
	backoffMs, err := getInt("ROUTING_BACKOFF_MS", int(services.DefaultBackoff/time.Millisecond))
	collect(err)
	cfg.Routing.Backoff = time.Duration(backoffMs) * time.Millisecond
	cfg.Routing.MaxConcurrency, err = getInt("ROUTING_MAX_CONCURRENCY", services.DefaultMaxConcurrency)
	collect(err)
	cfg.Routing.RequestsPerSecond, err = getFloat("ROUTING_RATE_LIMIT_RPS", 5)
	collect(err)
	cfg.Commute.Candidates.Ceiling, err = getInt("CANDIDATE_CEILING", services.DefaultCandidateCeiling)
	collect(err)
	cfg.Commute.Candidates.RadiusKm, err = getFloat("CANDIDATE_RADIUS_KM", services.DefaultCandidateRadiusKm)
	collect(err)
	cfg.Commute.FallbackKmPerMinute, err = getFloat("FALLBACK_SPEED_KMPM", services.DefaultFallbackKmPerMinute)
	collect(err)

	cfg.Traffic = services.DefaultTrafficModel()
	if path := Get("TRAFFIC_ZONES_PATH", ""); path != "" {
		cfg.Traffic, err = LoadTrafficModel(path)
		collect(err)
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Routing.BatchSize < 1 {
		errs = append(errs, errors.New("config: ROUTING_BATCH_SIZE must be >= 1"))
	}
	if c.Routing.RetryBudget < 0 {
		errs = append(errs, errors.New("config: ROUTING_RETRY_BUDGET must be >= 0"))
	}
	if c.Routing.Backoff < 0 {
		errs = append(errs, errors.New("config: ROUTING_BACKOFF_MS must be >= 0"))
	}
	if c.Routing.MaxConcurrency < 1 {
		errs = append(errs, errors.New("config: ROUTING_MAX_CONCURRENCY must be >= 1"))
	}
	if c.Commute.Candidates.Ceiling < 1 {
		errs = append(errs, errors.New("config: CANDIDATE_CEILING must be >= 1"))
	}
	if c.Commute.FallbackKmPerMinute <= 0 {
		errs = append(errs, errors.New("config: FALLBACK_SPEED_KMPM must be > 0"))
	}

	switch c.Provider.Name {
	case "osrm":
	case "ors":
		if c.ORSAPIKey == "" {
			errs = append(errs, errors.New("config: ORS_API_KEY is required for ROUTING_PROVIDER=ors"))
		}
	case "google":
		if c.GoogleMapsAPIKey == "" {
			errs = append(errs, errors.New("config: GOOGLE_MAPS_API_KEY is required for ROUTING_PROVIDER=google"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown ROUTING_PROVIDER %q", c.Provider.Name))
	}

	switch c.Localities.Source {
	case "file":
	case "postgres", "sqlite", "mysql":
		if c.Localities.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("config: DATABASE_URL is required for LOCALITY_SOURCE=%s", c.Localities.Source))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown LOCALITY_SOURCE %q", c.Localities.Source))
	}

	if err := c.Traffic.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LoadTrafficModel reads a YAML zone table. Unset tuning fields keep the
// built-in defaults; a present zones list replaces the built-in zones.
func LoadTrafficModel(path string) (services.TrafficModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return services.TrafficModel{}, fmt.Errorf("load traffic zones: read %q: %w", path, err)
	}

	model := services.DefaultTrafficModel()
	if err := yaml.Unmarshal(b, &model); err != nil {
		return services.TrafficModel{}, fmt.Errorf("load traffic zones: parse %q: %w", path, err)
	}

	if err := model.Validate(); err != nil {
		return services.TrafficModel{}, fmt.Errorf("load traffic zones: %w", err)
	}
	return model, nil
}
