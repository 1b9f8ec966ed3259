package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

const (
	metadataFile = "metadata.json"
	cyclesFile   = "cycles.csv"
)

var cyclesHeader = []string{"cycle", "phase", "setpoint", "feedback", "control_signal", "error"}

// FileStore writes each run to its own directory under baseDir.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(meta *RunMetadata, records []bench.CycleRecord) (string, error) {
	stamp(meta)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run dir")
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", errors.Wrap(err, "create metadata")
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}

	csvFile, err := os.Create(filepath.Join(runDir, cyclesFile))
	if err != nil {
		return "", errors.Wrap(err, "create cycles")
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(cyclesHeader); err != nil {
		return "", err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Cycle),
			rec.Phase.String(),
			strconv.FormatUint(uint64(rec.Setpoint), 10),
			strconv.FormatUint(uint64(rec.Feedback), 10),
			strconv.FormatUint(uint64(rec.ControlOutput), 10),
			strconv.FormatInt(rec.Error, 10),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(err, "write cycles")
	}

	return meta.ID, nil
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *FileStore) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *FileStore) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode metadata for %s", runID)
	}
	return &meta, nil
}

func (s *FileStore) LoadCycles(runID string) ([]bench.CycleRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, cyclesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(cyclesHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read cycles for %s", runID)
	}
	if len(rows) < 2 {
		return []bench.CycleRecord{}, nil
	}

	records := make([]bench.CycleRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", cyclesFile, i+2)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (bench.CycleRecord, error) {
	var rec bench.CycleRecord
	var err error

	if rec.Cycle, err = strconv.Atoi(row[0]); err != nil {
		return rec, err
	}
	if rec.Phase, err = bench.ParsePhase(row[1]); err != nil {
		return rec, err
	}
	vals := make([]uint64, 3)
	for i := range vals {
		if vals[i], err = strconv.ParseUint(row[2+i], 10, 64); err != nil {
			return rec, err
		}
	}
	rec.Setpoint = signal.Value(vals[0])
	rec.Feedback = signal.Value(vals[1])
	rec.ControlOutput = signal.Value(vals[2])
	rec.Error, err = strconv.ParseInt(row[5], 10, 64)
	return rec, err
}
