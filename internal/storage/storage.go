// Package storage keeps a history of bench runs. Two backends share the
// RunStore interface: a directory of JSON metadata plus CSV traces, and a
// single SQLite database.
package storage

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/monitor"
)

// ErrRunNotFound is returned by Load and LoadCycles for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

type RunMetadata struct {
	ID              string             `json:"id"`
	Scenario        string             `json:"scenario"`
	Model           string             `json:"model"`
	Timestamp       time.Time          `json:"timestamp"`
	Outcome         string             `json:"outcome"`
	CyclesRun       int                `json:"cycles_run"`
	Setpoint        uint64             `json:"setpoint"`
	InitialFeedback uint64             `json:"initial_feedback"`
	FinalFeedback   uint64             `json:"final_feedback"`
	Policy          monitor.Policy     `json:"policy"`
	Metrics         map[string]float64 `json:"metrics"`
	Failure         string             `json:"failure,omitempty"`
	Clock           string             `json:"clock,omitempty"`
	ClockHz         float64            `json:"clock_hz,omitempty"`
	Gains           map[string]float64 `json:"gains,omitempty"`
}

// Passed reports whether the stored run converged.
func (m *RunMetadata) Passed() bool {
	return m.Outcome == bench.OutcomeConverged.String()
}

// NewRunMetadata fills the outcome fields from a finished run. runErr is the
// error returned by the driver, if any. A run that ended in an error before
// producing a result is recorded as aborted. ID and Timestamp are set on Save.
func NewRunMetadata(scenario, model string, initialFeedback uint64, policy monitor.Policy, result *bench.Result, runErr error) *RunMetadata {
	meta := &RunMetadata{
		Scenario:        scenario,
		Model:           model,
		InitialFeedback: initialFeedback,
		Policy:          policy,
		Metrics:         map[string]float64{},
	}
	if result != nil {
		meta.Outcome = result.Outcome.String()
		meta.CyclesRun = result.CyclesRun
		meta.Setpoint = uint64(result.Setpoint)
		meta.FinalFeedback = uint64(result.FinalFeedback)
		for k, v := range result.Metrics {
			meta.Metrics[k] = v
		}
	}
	if runErr != nil {
		meta.Failure = runErr.Error()
		if meta.Outcome == "" {
			meta.Outcome = bench.OutcomeAborted.String()
		}
	}
	return meta
}

// RunStore persists run metadata together with the per-cycle trace.
type RunStore interface {
	Init() error
	Save(meta *RunMetadata, records []bench.CycleRecord) (string, error)
	List() ([]RunMetadata, error)
	Load(runID string) (*RunMetadata, error)
	LoadCycles(runID string) ([]bench.CycleRecord, error)
	Close() error
}

// stamp assigns a fresh ID and timestamp.
func stamp(meta *RunMetadata) {
	meta.ID = xid.New().String()
	meta.Timestamp = time.Now().UTC()
}
