// Package bench holds the types shared by every stage of a closed-loop
// verification run.
//
// The package defines the vocabulary the rest of the harness speaks:
//
//   - [CycleRecord]: one observation of the loop, produced once per clock cycle
//   - [Phase]: where a cycle sits in the convergence policy
//   - [Observer] and [Metric]: consumers of cycle records
//   - [Result]: the outcome of a scenario run
//   - [Violation]: a convergence failure, the only way a run fails
//
// # Example
//
//	drv := scenario.New(logger)
//	drv.AddMetric(metrics.NewMaxError())
//	result, err := drv.Run(ctx, dev, cfg)
//	if errors.Is(err, bench.ErrSettlingViolation) {
//		// result.Violation names the offending cycle
//	}
package bench
