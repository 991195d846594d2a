// Package stats aggregates per-step response times reported by the host
// into HDR histograms for post-run summaries. The core never measures wire
// timing itself; it only books the numbers each StepResponse carries.
package stats

import (
	"sort"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1 microsecond to 10 minutes in microseconds, 3
// significant figures.
const (
	histMin     = 1
	histMax     = 600_000_000
	histSigFigs = 3
)

// Recorder collects per-step latency and outcome counts for one run. Safe
// for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	steps    map[string]*stepRecord
	totalOK  int64
	totalErr int64
}

type stepRecord struct {
	hist     *hdrhistogram.Histogram
	failures int64
}

// NewRecorder creates an empty run recorder.
func NewRecorder() *Recorder {
	return &Recorder{steps: make(map[string]*stepRecord)}
}

// Record books one step execution: the host-measured response time in
// milliseconds and whether the step's response counted as a success.
func (r *Recorder) Record(stepID string, responseTimeMs float64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.steps[stepID]
	if !ok {
		rec = &stepRecord{hist: hdrhistogram.New(histMin, histMax, histSigFigs)}
		r.steps[stepID] = rec
	}

	micros := int64(responseTimeMs * 1000)
	if micros < histMin {
		micros = histMin
	}
	if micros > histMax {
		micros = histMax
	}
	rec.hist.RecordValue(micros)

	if success {
		r.totalOK++
	} else {
		rec.failures++
		r.totalErr++
	}
}

// StepStats is an aggregated view of one step's executions.
type StepStats struct {
	StepID   string
	Count    int64
	Failures int64
	P50Ms    float64
	P95Ms    float64
	P99Ms    float64
	MaxMs    float64
}

// Snapshot returns per-step aggregates sorted by step id.
func (r *Recorder) Snapshot() []StepStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]StepStats, 0, len(r.steps))
	for id, rec := range r.steps {
		out = append(out, StepStats{
			StepID:   id,
			Count:    rec.hist.TotalCount(),
			Failures: rec.failures,
			P50Ms:    float64(rec.hist.ValueAtQuantile(50)) / 1000,
			P95Ms:    float64(rec.hist.ValueAtQuantile(95)) / 1000,
			P99Ms:    float64(rec.hist.ValueAtQuantile(99)) / 1000,
			MaxMs:    float64(rec.hist.Max()) / 1000,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepID < out[j].StepID })
	return out
}

// Totals returns run-wide success and failure counts.
func (r *Recorder) Totals() (ok, failed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalOK, r.totalErr
}
