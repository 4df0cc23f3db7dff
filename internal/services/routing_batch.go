package services

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"commute-radius-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultBatchSize      = 40
	DefaultRetryBudget    = 2
	DefaultBackoff        = 500 * time.Millisecond
	DefaultMaxConcurrency = 4
)

// ErrRoutingUnavailable is returned when every batch of a query failed.
var ErrRoutingUnavailable = errors.New("routing service unavailable")

// RoutingConfig controls batching and retry against the matrix service.
// RetryBudget counts retries after the first attempt.
// RequestsPerSecond <= 0 disables outbound pacing.
type RoutingConfig struct {
	BatchSize         int
	RetryBudget       int
	Backoff           time.Duration
	MaxConcurrency    int
	RequestsPerSecond float64
}

// RoutingBatchClient splits a candidate set into bounded batches, sends each
// to the matrix service with retry/backoff, and merges the results.
//
// A batch that exhausts its retries contributes nothing; the query only fails
// when no batch succeeded. It is safe for concurrent use.
type RoutingBatchClient struct {
	matrix  ports.TravelTimeMatrix
	cfg     RoutingConfig
	limiter *rate.Limiter
}

// sourceLimiter is implemented by providers with a hard per-request source cap.
type sourceLimiter interface {
	MaxSources() int
}

func NewRoutingBatchClient(matrix ports.TravelTimeMatrix, cfg RoutingConfig) *RoutingBatchClient {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if l, ok := matrix.(sourceLimiter); ok && l.MaxSources() > 0 && cfg.BatchSize > l.MaxSources() {
		log.Printf("routing: provider=%s batch size %d exceeds limit, using %d", matrix.Name(), cfg.BatchSize, l.MaxSources())
		cfg.BatchSize = l.MaxSources()
	}
	if cfg.RetryBudget < 0 {
		cfg.RetryBudget = 0
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &RoutingBatchClient{
		matrix:  matrix,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.MaxConcurrency),
	}
}

func (c *RoutingBatchClient) BatchSize() int { return c.cfg.BatchSize }

func (c *RoutingBatchClient) Provider() string { return c.matrix.Name() }

// batchOutcome is the typed per-batch result: estimates on success, err otherwise.
type batchOutcome struct {
	estimates []domain.RouteEstimate
	err       error
}

// FetchDurations returns one estimate per routable candidate, in candidate order.
// Entries with no reported duration are dropped. It returns an error wrapping
// ErrRoutingUnavailable when every batch failed.
func (c *RoutingBatchClient) FetchDurations(
	ctx context.Context,
	destination domain.Coordinates,
	candidates []domain.Candidate,
	mode domain.TravelMode,
) (_ []domain.RouteEstimate, err error) {
	defer obs.Time(ctx, "routing.FetchDurations")(&err)

	if len(candidates) == 0 {
		return []domain.RouteEstimate{}, nil
	}

	batches := lo.Chunk(candidates, c.cfg.BatchSize)
	outcomes := make([]batchOutcome, len(batches))

	// Batches are independent; each goroutine owns exactly one outcome slot,
	// so merge order follows candidate order whatever the completion order.
	var g errgroup.Group
	g.SetLimit(c.cfg.MaxConcurrency)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			outcomes[i] = c.fetchBatch(ctx, i, destination, batch, mode)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.RouteEstimate, 0, len(candidates))
	var failures []error
	for i, o := range outcomes {
		if o.err != nil {
			failures = append(failures, fmt.Errorf("batch %d: %w", i, o.err))
			continue
		}
		out = append(out, o.estimates...)
	}

	if len(failures) == len(batches) {
		return nil, fmt.Errorf("%w: %w", ErrRoutingUnavailable, errors.Join(failures...))
	}
	if len(failures) > 0 {
		log.Printf(
			"req_id=%s op=routing.FetchDurations provider=%s partial=true failed_batches=%d batches=%d",
			obs.RequestID(ctx), c.matrix.Name(), len(failures), len(batches),
		)
	}

	return out, nil
}

func (c *RoutingBatchClient) fetchBatch(
	ctx context.Context,
	index int,
	destination domain.Coordinates,
	batch []domain.Candidate,
	mode domain.TravelMode,
) batchOutcome {
	sources := lo.Map(batch, func(cand domain.Candidate, _ int) domain.Coordinates {
		return cand.Locality.Coordinates()
	})

	cells, err := c.withRetry(ctx, index, func() ([]ports.MatrixCell, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		cells, err := c.matrix.DurationsTo(ctx, destination, sources, mode)
		if err != nil {
			return nil, err
		}

		// Cells are decoded by position, so a short or long row cannot be trusted.
		if len(cells) != len(sources) {
			return nil, fmt.Errorf("%w: got %d cells for %d sources", ports.ErrUpstream, len(cells), len(sources))
		}
		return cells, nil
	})
	if err != nil {
		return batchOutcome{err: err}
	}

	estimates := make([]domain.RouteEstimate, 0, len(batch))
	for i, cell := range cells {
		if cell.DurationSeconds == nil {
			continue
		}
		estimates = append(estimates, domain.RouteEstimate{
			Candidate:       batch[i],
			DurationSeconds: *cell.DurationSeconds,
			DistanceMeters:  cell.DistanceMeters,
		})
	}

	return batchOutcome{estimates: estimates}
}

// withRetry runs attempt up to 1+RetryBudget times, sleeping a fixed backoff
// between attempts. Rate limiting and upstream errors are retried alike;
// context cancellation stops immediately.
func (c *RoutingBatchClient) withRetry(
	ctx context.Context,
	batch int,
	attempt func() ([]ports.MatrixCell, error),
) ([]ports.MatrixCell, error) {
	maxAttempts := 1 + c.cfg.RetryBudget

	var lastErr error
	for n := 1; n <= maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := attempt()
		if err == nil {
			return cells, nil
		}
		lastErr = err

		// Per-call timeouts are retried; only the query's own context stops us.
		if ctx.Err() != nil {
			return nil, err
		}

		log.Printf(
			"req_id=%s op=routing.batch provider=%s batch=%d attempt=%d/%d rate_limited=%t err=%v",
			obs.RequestID(ctx), c.matrix.Name(), batch, n, maxAttempts, errors.Is(err, ports.ErrRateLimited), err,
		)

		if n == maxAttempts {
			break
		}

		if c.cfg.Backoff > 0 {
			timer := time.NewTimer(c.cfg.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, lastErr
}
