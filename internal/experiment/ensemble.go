package experiment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
)

// Ensemble runs the same config under consecutive seeds in parallel. Each
// member owns its own world, so nothing is shared between goroutines.
type Ensemble struct {
	cfg       *config.Config
	registry  *Registry
	integ     string
	numRuns   int
	seedStart int64
	logger    *slog.Logger
}

func NewEnsemble(cfg *config.Config, registry *Registry, integ string, numRuns int, logger *slog.Logger) *Ensemble {
	return &Ensemble{
		cfg:       cfg,
		registry:  registry,
		integ:     integ,
		numRuns:   numRuns,
		seedStart: cfg.Seed,
		logger:    logger,
	}
}

func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg.Clone()
			cfgCopy.Seed = e.seedStart + int64(idx)

			integ, err := e.registry.GetIntegrator(e.integ)
			if err != nil {
				errs[idx] = err
				return
			}
			exp := New(cfgCopy, e.logger)
			if err := exp.Setup(integ, e.registry.DefaultMetrics()); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Mean averages each metric over the ensemble.
func Mean(results []*dynamo.Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for name, v := range r.Metrics {
			out[name] += v
		}
	}
	for name := range out {
		out[name] /= float64(len(results))
	}
	return out
}
