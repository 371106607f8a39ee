package odtree

import (
	"context"
	"time"

	"github.com/hupe1980/odtree/anytime"
	"github.com/hupe1980/odtree/cache"
	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/dataset"
	"github.com/hupe1980/odtree/depth2"
	"github.com/hupe1980/odtree/heuristic"
	"github.com/hupe1980/odtree/lgdt"
	"github.com/hupe1980/odtree/search"
	"github.com/hupe1980/odtree/tree"
)

// Learner fits optimal and near-optimal binary decision trees on binary
// datasets. It wraps the mode-specific solvers behind one configuration
// surface; see the package documentation for the modes.
type Learner struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector

	tree    *tree.Tree
	stats   search.Statistics
	optimal bool
	fitted  bool
}

// New creates a learner. It returns an error when the configuration is
// invalid for the selected mode.
func New(optFns ...Option) (*Learner, error) {
	opts := options{
		mode:           ModeExact,
		minSupport:     1,
		maxDepth:       2,
		maxError:       core.MaxError,
		timeout:        -1,
		specialization: true,
		stepSize:       1,
		objective:      core.ClassificationError{},
		logger:         NoopLogger(),
		metrics:        NoopMetricsCollector{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.minSupport <= 0 {
		return nil, &ErrInvalidSupport{Support: opts.minSupport}
	}

	switch opts.mode {
	case ModeDepth2:
		if opts.maxDepth < 1 || opts.maxDepth > 2 {
			return nil, &ErrInvalidDepth{Depth: opts.maxDepth, Mode: opts.mode, cause: depth2.ErrInvalidDepth}
		}
	default:
		if opts.maxDepth < 0 {
			return nil, &ErrInvalidDepth{Depth: opts.maxDepth, Mode: opts.mode}
		}
	}

	return &Learner{
		opts:    opts,
		logger:  opts.logger,
		metrics: opts.metrics,
	}, nil
}

// Fit learns a tree on the given dataset. The result is available via Tree,
// Predict and Statistics.
func (l *Learner) Fit(ctx context.Context, ds *dataset.Dataset) error {
	started := time.Now()
	c := cover.New(ds)

	logger := l.logger.WithDataset(ds.Name()).WithDepth(l.opts.maxDepth).WithSupport(l.opts.minSupport)

	var err error

	switch l.opts.mode {
	case ModeDepth2:
		err = l.fitDepth2(c)
	case ModeGreedy:
		err = l.fitGreedy(ctx, c)
	default:
		err = l.fitExact(ctx, c)
	}

	duration := time.Since(started)

	l.metrics.RecordFit(duration, err)

	if err != nil {
		logger.LogFit(ctx, 0, false, duration, err)
		return err
	}

	l.fitted = true

	if l.opts.mode != ModeExact {
		l.stats.Duration = duration
	}

	logger.LogFit(ctx, l.stats.TreeError, l.optimal, duration, nil)

	return nil
}

func (l *Learner) fitExact(ctx context.Context, c *cover.Cover) error {
	solver := search.New(func(o *search.Options) {
		o.Constraints = l.constraints()
		o.Cache = l.newCache(c)
		o.Objective = l.opts.objective
		o.Ranker = l.ranker()
		o.Logger = l.logger.Logger
	})

	var err error

	if l.opts.schedule != ScheduleDisabled {
		ctrl := anytime.New(solver, func(o *anytime.Options) {
			o.Step = l.stepStrategy()
			o.Logger = l.logger.Logger
		})
		err = ctrl.Fit(ctx, c)
	} else {
		err = solver.Fit(ctx, c)
	}
	if err != nil {
		return err
	}

	l.tree = solver.Tree()
	l.stats = solver.Statistics()
	l.optimal = solver.IsOptimal()

	return nil
}

func (l *Learner) fitDepth2(c *cover.Cover) error {
	t, err := l.depth2Solver().Fit(l.opts.minSupport, l.opts.maxDepth, c)
	if err != nil {
		return err
	}

	l.tree = t
	l.stats = l.localStats(c, t)
	// The pairwise solver enumerates its whole space, so the heuristic
	// variant is the only unproven one.
	l.optimal = l.opts.heuristic == HeuristicDisabled
	l.stats.ProvenOptimal = l.optimal

	return nil
}

func (l *Learner) fitGreedy(ctx context.Context, c *cover.Cover) error {
	learner := lgdt.New(func(o *lgdt.Options) {
		o.MinSupport = l.opts.minSupport
		o.MaxDepth = l.opts.maxDepth
		o.Objective = l.opts.objective
		o.Solver = l.depth2Solver()
		o.Logger = l.logger.Logger
	})

	if err := learner.Fit(ctx, c); err != nil {
		return err
	}

	l.tree = learner.Tree()
	l.stats = l.localStats(c, l.tree)
	l.optimal = false
	l.stats.ProvenOptimal = false

	return nil
}

func (l *Learner) constraints() search.Constraints {
	cs := search.Constraints{
		MinSupport: l.opts.minSupport,
		MaxDepth:   l.opts.maxDepth,
		MaxError:   l.opts.maxError,
		Timeout:    l.opts.timeout,
		SortOnce:   l.opts.sortOnce,
		TopK:       l.opts.topK,
	}

	if l.opts.schedule == ScheduleDisabled {
		cs.DiscrepancyBudget = l.opts.discrepancy
	}

	if l.opts.specialization {
		cs.Specialization = search.SpecializationDepth2
	}

	if l.opts.similarityBound {
		cs.LowerBound = search.LowerBoundSimilarity
	}

	if l.opts.dynamicBranching {
		cs.Branching = search.BranchingDynamic
	}

	return cs
}

func (l *Learner) newCache(c *cover.Cover) cache.Caching {
	capacity := 0

	switch l.opts.cacheInit {
	case InitUserAllocation:
		capacity = l.opts.cacheInitSize
	case InitDynamicAllocation:
		capacity = dynamicCacheSize(c.NumAttributes(), l.opts.maxDepth)
	}

	switch l.opts.cacheBackend {
	case CacheHashmap:
		if capacity > 0 {
			return cache.NewHashmapWithCapacity(capacity)
		}
		return cache.NewHashmap()
	default:
		if capacity > 0 {
			return cache.NewTrieWithCapacity(capacity)
		}
		return cache.NewTrie()
	}
}

// dynamicCacheSize estimates the number of distinct itemsets the search will
// touch. The true count is exponential in depth, so the estimate is clamped.
func dynamicCacheSize(numAttributes, maxDepth int) int {
	const limit = 1 << 20

	size := 1
	for d := 0; d < maxDepth; d++ {
		if size > limit/(2*max(numAttributes, 1)) {
			return limit
		}
		size *= 2 * numAttributes
	}

	return size
}

func (l *Learner) ranker() heuristic.Ranker {
	switch l.opts.heuristic {
	case HeuristicInformationGain:
		return heuristic.InformationGain{}
	case HeuristicGainRatio:
		return heuristic.InformationGain{Ratio: true}
	case HeuristicGini:
		return heuristic.GiniIndex{}
	default:
		return heuristic.NoOrder{}
	}
}

func (l *Learner) stepStrategy() anytime.StepStrategy {
	switch l.opts.schedule {
	case ScheduleExponential:
		return anytime.NewExponential(l.opts.stepSize)
	case ScheduleLuby:
		return anytime.NewLuby(l.opts.stepSize)
	default:
		return anytime.NewMonotonic(l.opts.stepSize)
	}
}

func (l *Learner) depth2Solver() depth2.Solver {
	if l.opts.mode == ModeGreedy && l.opts.infoGainLookahead {
		return depth2.NewInfoGainMaximizer(l.opts.objective)
	}
	if l.opts.mode == ModeDepth2 && l.opts.heuristic != HeuristicDisabled {
		return depth2.NewInfoGainMaximizer(l.opts.objective)
	}
	return depth2.NewErrorMinimizer(l.opts.objective)
}

func (l *Learner) localStats(c *cover.Cover, t *tree.Tree) search.Statistics {
	return search.Statistics{
		NumAttributes: c.NumAttributes(),
		NumSamples:    c.Support(),
		TreeError:     t.RootError(),
	}
}

// Tree returns the learned tree.
func (l *Learner) Tree() (*tree.Tree, error) {
	if !l.fitted {
		return nil, ErrNotFitted
	}
	return l.tree, nil
}

// Statistics returns the statistics of the last fit.
func (l *Learner) Statistics() (search.Statistics, error) {
	if !l.fitted {
		return search.Statistics{}, ErrNotFitted
	}
	return l.stats, nil
}

// IsOptimal reports whether the last fit proved its tree optimal.
func (l *Learner) IsOptimal() bool { return l.fitted && l.optimal }

// Duration returns the wall-clock time of the last fit.
func (l *Learner) Duration() time.Duration { return l.stats.Duration }

// Predict classifies one row of binary features.
func (l *Learner) Predict(features []int) (int, error) {
	if !l.fitted {
		return 0, ErrNotFitted
	}

	started := time.Now()

	var mismatch *ErrPredictMismatch

	target := l.tree.Predict(func(attribute int) bool {
		if attribute >= len(features) {
			if mismatch == nil {
				mismatch = &ErrPredictMismatch{Attribute: attribute, Width: len(features)}
			}
			return false
		}
		return features[attribute] == 1
	})

	l.metrics.RecordPredict(1, time.Since(started))

	if mismatch != nil {
		return 0, mismatch
	}

	return target, nil
}

// Evaluate classifies every row of the dataset and returns the accuracy.
func (l *Learner) Evaluate(ds *dataset.Dataset) (float64, error) {
	if !l.fitted {
		return 0, ErrNotFitted
	}

	if ds.Size() == 0 {
		return 0, nil
	}

	started := time.Now()
	correct := 0

	for tid := 0; tid < ds.Size(); tid++ {
		target := l.tree.Predict(func(attribute int) bool {
			return ds.Value(tid, attribute) == 1
		})
		if target == ds.Label(tid) {
			correct++
		}
	}

	l.metrics.RecordPredict(ds.Size(), time.Since(started))

	return float64(correct) / float64(ds.Size()), nil
}
