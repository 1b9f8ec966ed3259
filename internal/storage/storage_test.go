package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/monitor"
)

func sampleRun() (*RunMetadata, []bench.CycleRecord) {
	result := &bench.Result{
		Outcome:       bench.OutcomeFailed,
		CyclesRun:     3,
		Setpoint:      128,
		FinalFeedback: 81,
		FinalError:    47,
		Metrics:       map[string]float64{"max_abs_error": 53, "overshoot": 0},
	}
	runErr := &bench.Violation{Phase: bench.PhaseSettling, Cycle: 2, Setpoint: 128, Feedback: 81, Deviation: 47, Magnitude: 47, Tolerance: 5}
	meta := NewRunMetadata("unit", "constant", 75, monitor.DefaultPolicy(), result, runErr)
	meta.Clock = "10ns"
	meta.ClockHz = 100e6
	meta.Gains = map[string]float64{"kp": 0.5, "ki": 0.05, "kd": 0}

	records := []bench.CycleRecord{
		{Cycle: 0, Setpoint: 128, Feedback: 77, ControlOutput: 128, Error: 51, Phase: bench.PhaseWarming},
		{Cycle: 1, Setpoint: 128, Feedback: 79, ControlOutput: 128, Error: 49, Phase: bench.PhaseWarming},
		{Cycle: 2, Setpoint: 128, Feedback: 81, ControlOutput: 128, Error: 47, Phase: bench.PhaseSettling},
	}
	return meta, records
}

func backends(t *testing.T) map[string]RunStore {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]RunStore{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "runs")),
		"sqlite": db,
	}
}

func TestNewRunMetadata(t *testing.T) {
	meta, _ := sampleRun()

	assert.Equal(t, "failed", meta.Outcome)
	assert.False(t, meta.Passed())
	assert.Equal(t, uint64(128), meta.Setpoint)
	assert.Equal(t, uint64(75), meta.InitialFeedback)
	assert.Equal(t, uint64(81), meta.FinalFeedback)
	assert.Contains(t, meta.Failure, "cycle 2")
	assert.Empty(t, meta.ID)
}

func TestNewRunMetadata_ErrorWithoutResult(t *testing.T) {
	meta := NewRunMetadata("unit", "pid", 0, monitor.DefaultPolicy(), nil, bench.ErrCanceled)

	assert.Equal(t, "aborted", meta.Outcome)
	assert.False(t, meta.Passed())
	assert.Equal(t, bench.ErrCanceled.Error(), meta.Failure)
	assert.Zero(t, meta.CyclesRun)

	meta = NewRunMetadata("unit", "pid", 0, monitor.DefaultPolicy(), nil, nil)
	assert.Empty(t, meta.Outcome)
}

func TestStoreRoundTrip(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Init())

			meta, records := sampleRun()
			runID, err := st.Save(meta, records)
			require.NoError(t, err)
			assert.NotEmpty(t, runID)
			assert.Equal(t, runID, meta.ID)
			assert.False(t, meta.Timestamp.IsZero())

			loaded, err := st.Load(runID)
			require.NoError(t, err)
			assert.Equal(t, "unit", loaded.Scenario)
			assert.Equal(t, "constant", loaded.Model)
			assert.Equal(t, "failed", loaded.Outcome)
			assert.Equal(t, 3, loaded.CyclesRun)
			assert.Equal(t, monitor.DefaultPolicy(), loaded.Policy)
			assert.Equal(t, 53.0, loaded.Metrics["max_abs_error"])
			assert.Equal(t, meta.Failure, loaded.Failure)
			assert.Equal(t, "10ns", loaded.Clock)
			assert.Equal(t, 100e6, loaded.ClockHz)
			assert.Equal(t, meta.Gains, loaded.Gains)
			assert.True(t, meta.Timestamp.Equal(loaded.Timestamp))

			cycles, err := st.LoadCycles(runID)
			require.NoError(t, err)
			assert.Equal(t, records, cycles)
		})
	}
}

func TestStoreList(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Init())

			runs, err := st.List()
			require.NoError(t, err)
			assert.Empty(t, runs)

			first, records := sampleRun()
			_, err = st.Save(first, records)
			require.NoError(t, err)

			second, _ := sampleRun()
			second.Scenario = "second"
			_, err = st.Save(second, nil)
			require.NoError(t, err)

			runs, err = st.List()
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "unit", runs[0].Scenario)
			assert.Equal(t, "second", runs[1].Scenario)

			cycles, err := st.LoadCycles(second.ID)
			require.NoError(t, err)
			assert.Empty(t, cycles)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Init())

			_, err := st.Load("missing")
			assert.True(t, errors.Is(err, ErrRunNotFound))

			_, err = st.LoadCycles("missing")
			assert.True(t, errors.Is(err, ErrRunNotFound))
		})
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestFileStore_SkipsJunk(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore(dir)
	require.NoError(t, st.Init())

	require.NoError(t, os.Mkdir(filepath.Join(dir, "junk"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0644))

	meta, records := sampleRun()
	_, err := st.Save(meta, records)
	require.NoError(t, err)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestExportJSON(t *testing.T) {
	meta, records := sampleRun()
	meta.ID = "abc"

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, records))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got.Run.ID)
	require.Len(t, got.Cycles, 3)
	assert.Equal(t, ExportCycle{Cycle: 2, Phase: "settling", Setpoint: 128, Feedback: 81, ControlSignal: 128, Error: 47}, got.Cycles[2])
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	st, err := Open("file", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, st)

	st, err = Open("sqlite", filepath.Join(dir, "db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, st)
	require.NoError(t, st.Close())

	_, err = Open("redis", dir)
	assert.Error(t, err)
}
