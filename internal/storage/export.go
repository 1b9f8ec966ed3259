package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
)

type ExportCycle struct {
	Cycle         int    `json:"cycle"`
	Phase         string `json:"phase"`
	Setpoint      uint64 `json:"setpoint"`
	Feedback      uint64 `json:"feedback"`
	ControlSignal uint64 `json:"control_signal"`
	Error         int64  `json:"error"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Cycles []ExportCycle `json:"cycles"`
}

// ExportJSON writes a run and its trace as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, records []bench.CycleRecord) error {
	data := ExportData{
		Run:    *meta,
		Cycles: make([]ExportCycle, len(records)),
	}
	for i, rec := range records {
		data.Cycles[i] = ExportCycle{
			Cycle:         rec.Cycle,
			Phase:         rec.Phase.String(),
			Setpoint:      uint64(rec.Setpoint),
			Feedback:      uint64(rec.Feedback),
			ControlSignal: uint64(rec.ControlOutput),
			Error:         rec.Error,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Open returns the backend named by kind ("file" or "sqlite") rooted at dir.
func Open(kind, dir string) (RunStore, error) {
	switch kind {
	case "", "file":
		return NewFileStore(dir), nil
	case "sqlite":
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create data dir")
		}
		return OpenSQLite(filepath.Join(dir, "runs.db"))
	default:
		return nil, errors.Errorf("unknown store %q (want file or sqlite)", kind)
	}
}
