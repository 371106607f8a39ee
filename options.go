package odtree

import (
	"time"

	"github.com/hupe1980/odtree/core"
)

// Mode selects which learner drives the fit.
type Mode int

const (
	// ModeExact is the full-depth branch-and-bound search.
	ModeExact Mode = iota
	// ModeDepth2 runs the pairwise closed-form solver alone (depth 1 or 2).
	ModeDepth2
	// ModeGreedy is the two-level-lookahead greedy learner.
	ModeGreedy
)

func (m Mode) String() string {
	switch m {
	case ModeDepth2:
		return "depth2"
	case ModeGreedy:
		return "greedy"
	default:
		return "exact"
	}
}

// Heuristic selects the candidate ordering at each node.
type Heuristic int

const (
	HeuristicDisabled Heuristic = iota
	HeuristicInformationGain
	HeuristicGainRatio
	HeuristicGini
)

// CacheBackend selects the bound cache implementation.
type CacheBackend int

const (
	// CacheTrie keys entries by the sorted item path, sharing prefixes.
	CacheTrie CacheBackend = iota
	// CacheHashmap keys entries by a packed form of the sorted itemset.
	CacheHashmap
)

// InitStrategy controls how the bound cache is preallocated.
type InitStrategy int

const (
	// InitDisabled starts the cache empty and lets it grow on demand.
	InitDisabled InitStrategy = iota
	// InitUserAllocation preallocates the size given via WithCacheInitSize.
	InitUserAllocation
	// InitDynamicAllocation estimates the size from the dataset shape.
	InitDynamicAllocation
)

// Schedule selects the restart budget schedule for anytime search.
type Schedule int

const (
	ScheduleDisabled Schedule = iota
	ScheduleMonotonic
	ScheduleExponential
	ScheduleLuby
)

type options struct {
	mode       Mode
	minSupport int
	maxDepth   int
	maxError   float64
	timeout    time.Duration

	heuristic Heuristic
	sortOnce  bool

	specialization   bool
	similarityBound  bool
	dynamicBranching bool

	cacheBackend  CacheBackend
	cacheInit     InitStrategy
	cacheInitSize int

	schedule    Schedule
	stepSize    int
	topK        int
	discrepancy int

	infoGainLookahead bool

	objective core.ErrorFunc
	logger    *Logger
	metrics   MetricsCollector
}

// Option configures a Learner.
type Option func(*options)

// WithMode selects the learner. The default is ModeExact.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithMinSupport sets the minimum number of transactions per leaf.
func WithMinSupport(support int) Option {
	return func(o *options) {
		o.minSupport = support
	}
}

// WithMaxDepth limits the depth of the learned tree.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxError sets the initial upper bound. The search reports no tree
// whose error is not strictly below it.
func WithMaxError(maxError float64) Option {
	return func(o *options) {
		o.maxError = maxError
	}
}

// WithTimeout bounds the wall-clock time of the fit. On expiry the best
// incumbent is returned and IsOptimal reports false.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithHeuristic orders the candidate attributes at each node. Better
// orderings tighten the incumbent earlier and prune more.
func WithHeuristic(h Heuristic) Option {
	return func(o *options) {
		o.heuristic = h
	}
}

// WithSortOnce ranks the candidates once at the root instead of re-ranking
// at every node.
func WithSortOnce(sortOnce bool) Option {
	return func(o *options) {
		o.sortOnce = sortOnce
	}
}

// WithSpecialization toggles the closed-form solver for the last two tree
// levels. Enabled by default.
func WithSpecialization(enabled bool) Option {
	return func(o *options) {
		o.specialization = enabled
	}
}

// WithSimilarityBound derives lower bounds for unexplored nodes from
// previously solved covers.
func WithSimilarityBound(enabled bool) Option {
	return func(o *options) {
		o.similarityBound = enabled
	}
}

// WithDynamicBranching explores the branch with the larger known lower bound
// first.
func WithDynamicBranching(enabled bool) Option {
	return func(o *options) {
		o.dynamicBranching = enabled
	}
}

// WithCache selects the bound cache backend.
func WithCache(backend CacheBackend) Option {
	return func(o *options) {
		o.cacheBackend = backend
	}
}

// WithCacheInitSize preallocates the cache for the given number of entries
// and implies InitUserAllocation. Zero starts empty and grows dynamically.
func WithCacheInitSize(size int) Option {
	return func(o *options) {
		o.cacheInitSize = size
		if size > 0 {
			o.cacheInit = InitUserAllocation
		}
	}
}

// WithCacheInitStrategy selects how the cache is sized up front.
// InitUserAllocation uses the WithCacheInitSize value, InitDynamicAllocation
// derives an estimate from the number of attributes and the depth limit.
func WithCacheInitStrategy(s InitStrategy) Option {
	return func(o *options) {
		o.cacheInit = s
	}
}

// WithSchedule enables anytime restarts with the given budget schedule.
// step is the schedule parameter: the increment for ScheduleMonotonic, the
// base for ScheduleExponential, the multiplier for ScheduleLuby.
func WithSchedule(s Schedule, step int) Option {
	return func(o *options) {
		o.schedule = s
		o.stepSize = step
	}
}

// WithDiscrepancyBudget runs a single bounded pass instead of the full
// search: candidates ranked below the top cost budget units along the path.
// Zero or negative lifts the restriction. Ignored when a schedule is set,
// which manages budgets itself.
func WithDiscrepancyBudget(budget int) Option {
	return func(o *options) {
		o.discrepancy = budget
	}
}

// WithTopK caps the number of candidates considered at each node, trading
// completeness for a bounded branching factor.
func WithTopK(k int) Option {
	return func(o *options) {
		o.topK = k
	}
}

// WithInfoGainLookahead makes the greedy learner pick lookahead splits by
// information gain instead of error.
func WithInfoGainLookahead(enabled bool) Option {
	return func(o *options) {
		o.infoGainLookahead = enabled
	}
}

// WithObjective replaces the leaf error function. The default counts
// misclassified transactions.
func WithObjective(fn core.ErrorFunc) Option {
	return func(o *options) {
		if fn == nil {
			fn = core.ClassificationError{}
		}
		o.objective = fn
	}
}

// WithLogger configures structured logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
