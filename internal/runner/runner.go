// Package runner executes the vlads of a vladfile, optionally in parallel.
package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vladiate/internal/domain"
	"vladiate/internal/logging"
	"vladiate/internal/vlad"
	"vladiate/internal/vladfile"
)

// Options controls a run.
type Options struct {
	// Processes is the number of vlads validated at once. Values below 2
	// run them one after another.
	Processes int
	Deps      vladfile.Deps
	Logger    *zap.Logger
}

// Summary is the outcome of all selected vlads.
type Summary struct {
	// Results holds one entry per selected vlad, in selection order.
	Results []*vlad.Result
	// Passed is true when every vlad passed.
	Passed bool
}

// Failed returns the names of the vlads that did not pass.
func (s *Summary) Failed() []string {
	var out []string
	for _, res := range s.Results {
		if !res.Passed {
			out = append(out, res.Name)
		}
	}
	return out
}

// Select resolves the requested names against file. No names selects every
// vlad, sorted by name. Duplicates are dropped.
func Select(file *vladfile.File, names []string) ([]string, error) {
	if len(names) == 0 {
		return file.Names(), nil
	}

	var unknown []string
	seen := make(map[string]bool, len(names))
	selected := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := file.Vlads[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownVlad, strings.Join(unknown, ", "))
	}
	return selected, nil
}

// Run validates the selected vlads. An error from any vlad stops the run
// and is returned; failing data is reported through the Summary instead.
func Run(ctx context.Context, file *vladfile.File, names []string, opts Options) (*Summary, error) {
	selected, err := Select(file, names)
	if err != nil {
		return nil, err
	}
	logger := logging.OrNop(opts.Logger)

	results := make([]*vlad.Result, len(selected))
	runOne := func(ctx context.Context, i int) error {
		name := selected[i]
		v, err := file.Vlads[name].Build(opts.Deps)
		if err != nil {
			return err
		}

		logger.Info("vlad started", zap.String("vlad", name), zap.String("source", v.Source()), zap.String("run_id", v.RunID().String()))
		if _, err := v.Validate(ctx); err != nil {
			return fmt.Errorf("vlad %q: %w", name, err)
		}
		res := v.Result()
		logger.Info("vlad finished",
			zap.String("vlad", name),
			zap.String("outcome", string(res.Outcome)),
			zap.Int("lines", res.LineCount),
			zap.Duration("duration", res.Duration))
		results[i] = res
		return nil
	}

	if opts.Processes > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Processes)
		for i := range selected {
			g.Go(func() error { return runOne(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range selected {
			if err := runOne(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	summary := &Summary{Results: results, Passed: true}
	for _, res := range results {
		if !res.Passed {
			summary.Passed = false
		}
	}
	return summary, nil
}
