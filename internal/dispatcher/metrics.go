package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Outcome is the result of processing one key event.
type Outcome uint8

const (
	// OutcomeNotFound means no binding matched.
	OutcomeNotFound Outcome = iota
	// OutcomeHandled means a handler ran.
	OutcomeHandled
	// OutcomeSwallowed means an autorepeat press was dropped.
	OutcomeSwallowed
	// OutcomeInhibited means shortcuts are inhibited for the focus window.
	OutcomeInhibited
	// OutcomeFiltered means the compositor filter rejected the binding.
	OutcomeFiltered
	// OutcomePanic means the handler panicked.
	OutcomePanic
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeHandled:
		return "handled"
	case OutcomeSwallowed:
		return "swallowed"
	case OutcomeInhibited:
		return "inhibited"
	case OutcomeFiltered:
		return "filtered"
	case OutcomePanic:
		return "panic"
	default:
		return "not-found"
	}
}

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-binding metrics
	bindingMetrics map[string]*BindingMetrics

	// Global counters
	totalDispatches uint64
	totalPanics     uint64
	outcomes        [OutcomePanic + 1]uint64

	// Timing
	totalDuration time.Duration
}

// BindingMetrics holds metrics for one binding.
type BindingMetrics struct {
	Name          string
	DispatchCount uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastOutcome   Outcome
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		bindingMetrics: make(map[string]*BindingMetrics),
	}
}

// RecordDispatch records one processed event. name is empty when no
// binding matched.
func (m *Metrics) RecordDispatch(name string, duration time.Duration, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	m.outcomes[outcome]++
	if outcome == OutcomePanic {
		m.totalPanics++
	}

	if name == "" {
		return
	}
	bm := m.bindingMetrics[name]
	if bm == nil {
		bm = &BindingMetrics{Name: name}
		m.bindingMetrics[name] = bm
	}
	bm.DispatchCount++
	bm.TotalDuration += duration
	bm.LastOutcome = outcome
	bm.LastDispatch = time.Now()
	if duration > bm.MaxDuration {
		bm.MaxDuration = duration
	}
}

// TotalDispatches returns the total number of processed events.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalPanics returns the total number of panics recovered.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// Count returns how many events ended with outcome.
func (m *Metrics) Count(outcome Outcome) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outcomes[outcome]
}

// BindingStats returns metrics for one binding.
func (m *Metrics) BindingStats(name string) *BindingMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bm := m.bindingMetrics[name]
	if bm == nil {
		return nil
	}

	// Return a copy
	copy := *bm
	return &copy
}

// TopBindings returns the n most dispatched bindings.
func (m *Metrics) TopBindings(n int) []*BindingMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*BindingMetrics, 0, len(m.bindingMetrics))
	for _, bm := range m.bindingMetrics {
		copy := *bm
		list = append(list, &copy)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].DispatchCount != list[j].DispatchCount {
			return list[i].DispatchCount > list[j].DispatchCount
		}
		return list[i].Name < list[j].Name
	})

	if n > len(list) {
		n = len(list)
	}
	return list[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bindingMetrics = make(map[string]*BindingMetrics)
	m.totalDispatches = 0
	m.totalPanics = 0
	m.outcomes = [OutcomePanic + 1]uint64{}
	m.totalDuration = 0
}

// AverageDuration returns the average duration for the binding.
func (bm *BindingMetrics) AverageDuration() time.Duration {
	if bm.DispatchCount == 0 {
		return 0
	}
	return bm.TotalDuration / time.Duration(bm.DispatchCount)
}
