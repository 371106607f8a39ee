package search

import "time"

// Specialization selects how the last levels of the tree are solved.
type Specialization int

const (
	// SpecializationDisabled recurses attribute by attribute all the way down.
	SpecializationDisabled Specialization = iota
	// SpecializationDepth2 switches to the closed-form pairwise solver when
	// at most two levels remain.
	SpecializationDepth2
)

func (s Specialization) String() string {
	if s == SpecializationDepth2 {
		return "depth2"
	}
	return "disabled"
}

// LowerBound selects the strategy deriving lower bounds for unexplored nodes.
type LowerBound int

const (
	LowerBoundDisabled LowerBound = iota
	// LowerBoundSimilarity bounds a node by relating its cover to previously
	// solved covers.
	LowerBoundSimilarity
)

func (l LowerBound) String() string {
	if l == LowerBoundSimilarity {
		return "similarity"
	}
	return "disabled"
}

// Branching selects the order in which the two sides of a split are explored.
type Branching int

const (
	// BranchingDisabled always explores the negative branch first.
	BranchingDisabled Branching = iota
	// BranchingDynamic explores the branch with the larger known lower bound
	// first, so the tighter remaining bound prunes the second branch sooner.
	BranchingDynamic
)

func (b Branching) String() string {
	if b == BranchingDynamic {
		return "dynamic"
	}
	return "disabled"
}

// StopReason records why a recursion frame returned.
type StopReason int

const (
	StopNone StopReason = iota
	// StopDone means the frame resolved its node to proven optimality.
	StopDone
	StopTimeLimit
	StopMaxDepth
	StopNotEnoughSupport
	StopPure
	StopLowerBound
	// StopSpecialized means the node was solved by the depth-2 specializer.
	StopSpecialized
	// StopBudgetExhausted means the discrepancy or top-k budget truncated
	// the candidate list, so the result is an incumbent, not a proof.
	StopBudgetExhausted
)

func (r StopReason) String() string {
	switch r {
	case StopDone:
		return "done"
	case StopTimeLimit:
		return "time limit"
	case StopMaxDepth:
		return "max depth"
	case StopNotEnoughSupport:
		return "not enough support"
	case StopPure:
		return "pure"
	case StopLowerBound:
		return "lower bound"
	case StopSpecialized:
		return "specialized"
	case StopBudgetExhausted:
		return "budget exhausted"
	default:
		return "none"
	}
}

// Constraints bundles the knobs of a single search run.
type Constraints struct {
	// MinSupport is the minimum number of transactions per leaf.
	MinSupport int

	// MaxDepth limits the tree depth; 0 forces a single leaf.
	MaxDepth int

	// MaxError is the initial upper bound. Solutions at or above it are not
	// reported.
	MaxError float64

	// Timeout bounds the wall-clock time of the search. Zero unwinds
	// immediately with the majority-class leaf; negative disables the limit.
	Timeout time.Duration

	// SortOnce ranks the candidates once at the root instead of at every
	// node.
	SortOnce bool

	Specialization Specialization
	LowerBound     LowerBound
	Branching      Branching

	// DiscrepancyBudget limits how far the search may stray from the
	// heuristic ranking: the candidate at ranked position i costs i units
	// along the whole path. Zero or negative means unrestricted.
	DiscrepancyBudget int

	// TopK caps the number of candidates considered at each node. Zero or
	// negative means unrestricted.
	TopK int
}

// Statistics aggregates the outcome of one or more runs over a shared cache.
type Statistics struct {
	NumAttributes   int           `json:"num_attributes"`
	NumSamples      int           `json:"num_samples"`
	SearchSpaceSize int           `json:"search_space_size"`
	CacheSize       int           `json:"cache_size"`
	CacheHits       int           `json:"cache_hits"`
	TreeError       float64       `json:"tree_error"`
	Duration        time.Duration `json:"duration"`
	TimeToBest      time.Duration `json:"time_to_best"`
	Restarts        int           `json:"restarts"`
	ProvenOptimal   bool          `json:"proven_optimal"`
}
