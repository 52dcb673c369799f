// Package batch extracts reports for many files concurrently.
package batch

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/logger"
)

// DefaultConcurrency is used when a Runner is built with a non-positive size.
const DefaultConcurrency = 4

// Extractor builds one report. *report.Extractor satisfies it.
type Extractor interface {
	Extract(path string) (*core.Report, error)
}

// Result pairs an input path with its report or error.
type Result struct {
	Path   string
	Report *core.Report
	Err    error
}

// Runner fans extractions out over a bounded pool.
type Runner struct {
	extractor   Extractor
	concurrency int
}

// NewRunner returns a Runner using at most concurrency workers.
func NewRunner(e Extractor, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Runner{extractor: e, concurrency: concurrency}
}

// Run extracts every path and returns results in input order. The returned
// error aggregates every per-file failure; files that succeed still carry
// their report. Paths not yet started when ctx is cancelled fail with the
// context error.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	pool := NewPool(r.concurrency)

	for i, path := range paths {
		i, path := i, path
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		pool.Submit(func() {
			logger.Debug("extracting %s", path)
			results[i].Report, results[i].Err = r.extractor.Extract(path)
		})
	}
	pool.Wait()

	var errs *multierror.Error
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("%s: %v", res.Path, res.Err)
			errs = multierror.Append(errs, res.Err)
		}
	}
	return results, errs.ErrorOrNil()
}
