package anytime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/search"
	"github.com/hupe1980/odtree/tree"
)

// Options represents the options for configuring the restart controller.
type Options struct {
	// Step produces the budget for each restart. Defaults to a monotonic
	// schedule with increment 1.
	Step StepStrategy

	Logger *slog.Logger

	// Progress throttles the per-restart progress log.
	Progress *rate.Sometimes
}

// DefaultOptions is the default configuration.
var DefaultOptions = Options{
	Progress: &rate.Sometimes{First: 1, Interval: time.Second},
}

// Controller drives the solver through restarts with growing discrepancy
// budgets. All restarts share the solver's cache, so a pass never re-proves
// what an earlier pass resolved, and the incumbent error never increases.
// The loop stops on proof of optimality, on the time limit, or after one
// unrestricted pass.
type Controller struct {
	opts     Options
	solver   *search.DL85
	step     StepStrategy
	logger   *slog.Logger
	progress *rate.Sometimes
}

// New creates a controller around a solver.
func New(solver *search.DL85, optFns ...func(o *Options)) *Controller {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Step == nil {
		opts.Step = NewMonotonic(1)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.Progress == nil {
		opts.Progress = &rate.Sometimes{First: 1, Interval: time.Second}
	}

	return &Controller{
		opts:     opts,
		solver:   solver,
		step:     opts.Step,
		logger:   opts.Logger,
		progress: opts.Progress,
	}
}

// Tree returns the incumbent tree.
func (r *Controller) Tree() *tree.Tree { return r.solver.Tree() }

// Statistics returns the solver statistics accumulated across restarts.
func (r *Controller) Statistics() search.Statistics { return r.solver.Statistics() }

// IsOptimal reports whether the incumbent was proven optimal.
func (r *Controller) IsOptimal() bool { return r.solver.IsOptimal() }

// Fit searches with escalating budgets until the result is proven optimal,
// the time budget runs out, or the budget saturates the search space.
func (r *Controller) Fit(ctx context.Context, c *cover.Cover) error {
	limit := saturationBudget(c.NumAttributes(), r.solver.Constraints().MaxDepth)

	for {
		budget := r.step.Next()
		if budget >= limit {
			// A budget this large cannot truncate any path: run unrestricted
			// so the pass doubles as the optimality proof.
			budget = search.Unrestricted
		}

		reason, err := r.solver.Run(ctx, c, budget)
		if err != nil {
			return err
		}

		stats := r.solver.Statistics()
		r.progress.Do(func() {
			r.logger.Info("restart finished",
				slog.Int("restarts", stats.Restarts),
				slog.Int("budget", budget),
				slog.Float64("error", stats.TreeError),
				slog.String("reason", reason.String()),
			)
		})

		if r.solver.IsOptimal() || reason == search.StopTimeLimit || budget == search.Unrestricted {
			return nil
		}
	}
}

// saturationBudget returns a discrepancy budget no path of the given depth
// over the given number of candidates can exceed.
func saturationBudget(numCandidates, maxDepth int) int {
	budget := numCandidates
	for i := 1; i < maxDepth; i++ {
		if numCandidates > i {
			budget += numCandidates - i
		}
	}
	return budget
}
