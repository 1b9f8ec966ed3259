package scenario

import (
	"fmt"
	"io"
	"time"

	"github.com/dsatizabal/pid-controller/internal/bench"
)

// Recorder keeps every record it sees, for persistence and plotting.
type Recorder struct {
	records []bench.CycleRecord
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{records: make([]bench.CycleRecord, 0, capacity)}
}

func (r *Recorder) OnCycle(rec bench.CycleRecord) { r.records = append(r.records, rec) }

func (r *Recorder) Records() []bench.CycleRecord { return r.records }

// TraceWriter prints one human-readable line per cycle.
type TraceWriter struct {
	w   io.Writer
	err error
}

func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{w: w}
}

func (t *TraceWriter) OnCycle(rec bench.CycleRecord) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, rec.String())
}

// Err returns the first write error, if any.
func (t *TraceWriter) Err() error { return t.err }

// Pacer slows the loop down to a fixed number of cycles per second.
type Pacer struct {
	interval time.Duration
	sleep    func(time.Duration)
}

func NewPacer(cyclesPerSecond int) *Pacer {
	if cyclesPerSecond <= 0 {
		cyclesPerSecond = 1
	}
	return &Pacer{
		interval: time.Second / time.Duration(cyclesPerSecond),
		sleep:    time.Sleep,
	}
}

func (p *Pacer) OnCycle(bench.CycleRecord) { p.sleep(p.interval) }
