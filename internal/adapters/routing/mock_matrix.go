package routing

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/ports"
	"context"
	"sync"
)

// MockMatrix is a scripted TravelTimeMatrix for tests.
//
// Durations and Distances are keyed by source coordinate; a source without a
// duration yields a nil cell. Failures are returned by successive calls before
// any call succeeds. FailAll, when set, fails every call.
type MockMatrix struct {
	Durations map[domain.Coordinates]float64
	Distances map[domain.Coordinates]float64
	Failures  []error
	FailAll   error

	mu         sync.Mutex
	calls      int
	batchSizes []int
	modes      []domain.TravelMode
}

func NewMockMatrix() *MockMatrix {
	return &MockMatrix{
		Durations: make(map[domain.Coordinates]float64),
		Distances: make(map[domain.Coordinates]float64),
	}
}

// Set scripts the travel time and distance from one source.
func (m *MockMatrix) Set(source domain.Coordinates, seconds, meters float64) {
	m.Durations[source] = seconds
	m.Distances[source] = meters
}

func (m *MockMatrix) Name() string { return "mock" }

func (m *MockMatrix) DurationsTo(
	ctx context.Context,
	destination domain.Coordinates,
	sources []domain.Coordinates,
	mode domain.TravelMode,
) ([]ports.MatrixCell, error) {
	m.mu.Lock()
	call := m.calls
	m.calls++
	m.batchSizes = append(m.batchSizes, len(sources))
	m.modes = append(m.modes, mode)
	m.mu.Unlock()

	if m.FailAll != nil {
		return nil, m.FailAll
	}
	if call < len(m.Failures) && m.Failures[call] != nil {
		return nil, m.Failures[call]
	}

	cells := make([]ports.MatrixCell, len(sources))
	for i, s := range sources {
		if d, ok := m.Durations[s]; ok {
			cells[i].DurationSeconds = &d
		}
		if d, ok := m.Distances[s]; ok {
			cells[i].DistanceMeters = &d
		}
	}
	return cells, nil
}

func (m *MockMatrix) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// BatchSizes returns the source count of every call, in call order.
func (m *MockMatrix) BatchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.batchSizes...)
}

func (m *MockMatrix) Modes() []domain.TravelMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TravelMode(nil), m.modes...)
}
