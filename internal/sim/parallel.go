package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/metrics"
)

// Job is one headless run in a batch.
type Job struct {
	Name   string
	Engine *config.Config
	Run    Config
}

// RunBatch runs every job on its own engine concurrently. Results are in
// job order; the first error aborts the batch result.
func RunBatch(ctx context.Context, jobs []Job, log zerolog.Logger) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()

			eng, err := engine.New(job.Engine, log.With().Str("job", job.Name).Logger())
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, err)
				return
			}
			sim := New(eng)
			for _, m := range metrics.Default() {
				sim.AddMetric(m)
			}
			results[idx], errs[idx] = sim.Run(ctx, job.Run)
		}(i, job)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
