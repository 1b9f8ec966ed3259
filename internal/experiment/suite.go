package experiment

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/config"
)

// SuiteResult is the outcome of one scenario in a suite.
type SuiteResult struct {
	Config *config.Config
	Result *bench.Result
	Err    error
}

// AsExpected reports whether the run ended the way its config expects.
func (r SuiteResult) AsExpected() bool {
	return r.Result != nil &&
		r.Result.Outcome != bench.OutcomeAborted &&
		r.Result.Outcome.String() == r.Config.ExpectedOutcome()
}

// RunSuite runs every config on its own clock and kernel, at most workers at
// a time. Results are in input order. A config that fails to assemble is
// reported through its SuiteResult.Err.
func RunSuite(ctx context.Context, cfgs []*config.Config, registry *Registry, logger *slog.Logger, workers int) []SuiteResult {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]SuiteResult, len(cfgs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, cfg := range cfgs {
		g.Go(func() error {
			results[i].Config = cfg

			exp, err := New(cfg, registry, logger.With("scenario", cfg.Name))
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = exp.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
