package service

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/siteaudit/domain"
)

// NormalizeRunnerImpl fans page normalization out across a bounded worker
// pool. Results and warnings are reassembled in input order so the pipeline
// stays deterministic regardless of scheduling.
type NormalizeRunnerImpl struct {
	normalizer     domain.Normalizer
	maxConcurrency int
	progress       domain.ProgressManager
}

// NewNormalizeRunner creates a runner with the given concurrency bound.
// jobs <= 0 means one worker per CPU.
func NewNormalizeRunner(normalizer domain.Normalizer, jobs int) *NormalizeRunnerImpl {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &NormalizeRunnerImpl{
		normalizer:     normalizer,
		maxConcurrency: jobs,
		progress:       NewNoOpProgressManager(),
	}
}

// WithProgress attaches a progress manager for interactive runs
func (r *NormalizeRunnerImpl) WithProgress(progress domain.ProgressManager) *NormalizeRunnerImpl {
	if progress != nil {
		r.progress = progress
	}
	return r
}

// Run normalizes all pages concurrently. The only error it can return is
// context cancellation; per-page problems surface as warnings.
func (r *NormalizeRunnerImpl) Run(ctx context.Context, pages []domain.RawPage) ([]domain.PageRecord, []domain.Warning, error) {
	if len(pages) == 0 {
		return nil, nil, nil
	}

	records := make([]domain.PageRecord, len(pages))
	warnings := make([][]domain.Warning, len(pages))

	task := r.progress.StartTask("Normalizing pages", len(pages))
	defer task.Complete()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, raw := range pages {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			records[i], warnings[i] = r.normalizer.Normalize(raw)
			task.Increment(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Flatten per-page warnings in input order
	var flat []domain.Warning
	for _, w := range warnings {
		flat = append(flat, w...)
	}
	return records, flat, nil
}
