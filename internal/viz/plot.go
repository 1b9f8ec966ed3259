package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/dsatizabal/pid-controller/internal/bench"
)

// Series splits a trace into setpoint, feedback and control sample slices.
func Series(records []bench.CycleRecord) (setpoint, feedback, control []float64) {
	setpoint = make([]float64, len(records))
	feedback = make([]float64, len(records))
	control = make([]float64, len(records))
	for i, rec := range records {
		setpoint[i] = float64(rec.Setpoint)
		feedback[i] = float64(rec.Feedback)
		control[i] = float64(rec.ControlOutput)
	}
	return setpoint, feedback, control
}

// PlotFeedback draws feedback against the setpoint.
func PlotFeedback(records []bench.CycleRecord, width, height int) string {
	if len(records) == 0 {
		return ""
	}
	sp, fb, _ := Series(records)
	return asciigraph.PlotMany([][]float64{sp, fb},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Green),
		asciigraph.Caption("feedback vs setpoint"),
	)
}

// PlotControl draws the controller output.
func PlotControl(records []bench.CycleRecord, width, height int) string {
	if len(records) == 0 {
		return ""
	}
	_, _, ctrl := Series(records)
	return asciigraph.Plot(ctrl,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("control signal"),
	)
}
