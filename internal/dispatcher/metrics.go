package dispatcher

import (
	"sort"
	"time"
)

// Metrics collects per-primitive execution statistics.
type Metrics struct {
	primitives map[string]*PrimitiveMetrics

	// Global counters
	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64

	// Timing
	totalDuration time.Duration
}

// PrimitiveMetrics holds metrics for one primitive.
type PrimitiveMetrics struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastError     error
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		primitives: make(map[string]*PrimitiveMetrics),
	}
}

// RecordDispatch records one execution of the named primitive.
func (m *Metrics) RecordDispatch(name string, duration time.Duration, err error) {
	m.totalDispatches++
	m.totalDuration += duration

	if err != nil {
		m.totalErrors++
	}

	am := m.primitives[name]
	if am == nil {
		am = &PrimitiveMetrics{
			Name:        name,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.primitives[name] = am
	}

	am.DispatchCount++
	am.TotalDuration += duration
	am.LastError = err
	am.LastDispatch = time.Now()

	if duration < am.MinDuration {
		am.MinDuration = duration
	}
	if duration > am.MaxDuration {
		am.MaxDuration = duration
	}

	if err != nil {
		am.ErrorCount++
	}
}

// RecordPanic records a panic recovery.
func (m *Metrics) RecordPanic(name string) {
	m.totalPanics++

	if am := m.primitives[name]; am != nil {
		am.ErrorCount++
	}
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	return m.totalDispatches
}

// TotalErrors returns the total number of errors.
func (m *Metrics) TotalErrors() uint64 {
	return m.totalErrors
}

// TotalPanics returns the total number of panics recovered.
func (m *Metrics) TotalPanics() uint64 {
	return m.totalPanics
}

// TotalDuration returns the total duration of all dispatches.
func (m *Metrics) TotalDuration() time.Duration {
	return m.totalDuration
}

// AverageDuration returns the average dispatch duration.
func (m *Metrics) AverageDuration() time.Duration {
	if m.totalDispatches == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalDispatches)
}

// PrimitiveStats returns metrics for the named primitive, or nil.
func (m *Metrics) PrimitiveStats(name string) *PrimitiveMetrics {
	am := m.primitives[name]
	if am == nil {
		return nil
	}

	c := *am
	return &c
}

// TopPrimitives returns the n most executed primitives, ties by name.
func (m *Metrics) TopPrimitives(n int) []*PrimitiveMetrics {
	stats := m.copies()
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].DispatchCount != stats[j].DispatchCount {
			return stats[i].DispatchCount > stats[j].DispatchCount
		}
		return stats[i].Name < stats[j].Name
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// SlowestPrimitives returns the n slowest primitives by average duration.
func (m *Metrics) SlowestPrimitives(n int) []*PrimitiveMetrics {
	stats := m.copies()

	sort.Slice(stats, func(i, j int) bool {
		avgI := stats[i].TotalDuration / time.Duration(stats[i].DispatchCount)
		avgJ := stats[j].TotalDuration / time.Duration(stats[j].DispatchCount)
		return avgI > avgJ
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

func (m *Metrics) copies() []*PrimitiveMetrics {
	out := make([]*PrimitiveMetrics, 0, len(m.primitives))
	for _, am := range m.primitives {
		c := *am
		out = append(out, &c)
	}
	return out
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.primitives = make(map[string]*PrimitiveMetrics)
	m.totalDispatches = 0
	m.totalErrors = 0
	m.totalPanics = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time view of the totals.
type MetricsSnapshot struct {
	TotalDispatches uint64
	TotalErrors     uint64
	TotalPanics     uint64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	PrimitiveCount  int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{
		TotalDispatches: m.totalDispatches,
		TotalErrors:     m.totalErrors,
		TotalPanics:     m.totalPanics,
		TotalDuration:   m.totalDuration,
		PrimitiveCount:  len(m.primitives),
		Timestamp:       time.Now(),
	}

	if m.totalDispatches > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalDispatches)
	}

	return snapshot
}

// AverageDuration returns the average execution time.
func (am *PrimitiveMetrics) AverageDuration() time.Duration {
	if am.DispatchCount == 0 {
		return 0
	}
	return am.TotalDuration / time.Duration(am.DispatchCount)
}

// ErrorRate returns the error rate as a percentage.
func (am *PrimitiveMetrics) ErrorRate() float64 {
	if am.DispatchCount == 0 {
		return 0
	}
	return float64(am.ErrorCount) / float64(am.DispatchCount) * 100
}
