// Package metrics summarizes a run from its cycle records.
package metrics

import "github.com/dsatizabal/pid-controller/internal/bench"

// Defaults returns the metric set attached to every CLI run.
func Defaults(finalTolerance uint64) []bench.Metric {
	return []bench.Metric{
		NewMaxError(),
		NewOvershoot(),
		NewSettleCycle(finalTolerance),
		NewControlEffort(),
	}
}
