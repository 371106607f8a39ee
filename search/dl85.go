// Package search implements the exact branch-and-bound solver. It explores
// splits in ranked order, memoizes per-itemset bounds in the shared cache and
// prunes with the incumbent upper bound, optional similarity lower bounds and
// the closed-form depth-2 specialization.
package search

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/hupe1980/odtree/cache"
	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/depth2"
	"github.com/hupe1980/odtree/heuristic"
	"github.com/hupe1980/odtree/tree"
)

// Options represents the options for configuring the branch-and-bound solver.
type Options struct {
	Constraints Constraints
	Cache       cache.Caching
	Objective   core.ErrorFunc
	Ranker      heuristic.Ranker
	Logger      *slog.Logger
}

// DefaultOptions is the default configuration: exact search to depth 2 with
// support 1, no heuristic, no extra pruning, no time limit.
var DefaultOptions = Options{
	Constraints: Constraints{
		MinSupport: 1,
		MaxDepth:   2,
		MaxError:   core.MaxError,
		Timeout:    -1,
	},
	Objective: core.ClassificationError{},
	Ranker:    heuristic.NoOrder{},
}

// result carries a frame's outcome back to its caller.
type result struct {
	err    float64
	reason StopReason
}

// DL85 is the cached branch-and-bound solver. It explores binary splits
// depth-first, consults the bound cache before expanding a node, and keeps
// the cache tight as subtrees resolve, so the best tree can be read back out
// of the cache when the search unwinds.
type DL85 struct {
	opts        Options
	conds       stopConditions
	cache       cache.Caching
	objective   core.ErrorFunc
	ranker      heuristic.Ranker
	specialized depth2.Solver
	logger      *slog.Logger

	stats     Statistics
	tree      *tree.Tree
	bestError float64

	ctx      context.Context
	started  time.Time
	deadline time.Time

	rootCandidates []int
	runs           int
}

// New creates a solver. The cache defaults to a trie when none is given.
func New(optFns ...func(o *Options)) *DL85 {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Cache == nil {
		opts.Cache = cache.NewTrie()
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &DL85{
		opts:      opts,
		cache:     opts.Cache,
		objective: opts.Objective,
		ranker:    opts.Ranker,
		logger:    opts.Logger,
		bestError: core.MaxError,
	}

	if opts.Constraints.Specialization == SpecializationDepth2 {
		s.specialized = depth2.NewErrorMinimizer(opts.Objective)
	}

	return s
}

// Constraints returns the active search constraints.
func (s *DL85) Constraints() Constraints { return s.opts.Constraints }

// Tree returns the best tree found by the last run, nil before any run.
func (s *DL85) Tree() *tree.Tree { return s.tree }

// Statistics returns the accumulated run statistics.
func (s *DL85) Statistics() Statistics { return s.stats }

// IsOptimal reports whether the last run proved its result optimal.
func (s *DL85) IsOptimal() bool { return s.stats.ProvenOptimal }

// Fit runs the search to completion on the given cover. The cover must be at
// its root state. On return the best tree found is available via Tree; when
// the run ended on the time limit or a budget the tree is the incumbent and
// IsOptimal reports false.
func (s *DL85) Fit(ctx context.Context, c *cover.Cover) error {
	budget := s.opts.Constraints.DiscrepancyBudget
	if budget <= 0 {
		budget = Unrestricted
	}
	_, err := s.Run(ctx, c, budget)
	return err
}

// Unrestricted disables the discrepancy budget for a search pass.
const Unrestricted = -1

// Run performs one search pass under the given discrepancy budget, sharing
// the cache with previous passes. Restart schedulers call it with growing
// budgets; a budget of zero restricts every node to its top-ranked
// candidate, Unrestricted lifts the limit entirely.
func (s *DL85) Run(ctx context.Context, c *cover.Cover, budget int) (StopReason, error) {
	s.runs++

	root := s.cache.Root()

	if s.runs == 1 {
		s.stats.NumAttributes = c.NumAttributes()
		s.stats.NumSamples = c.Support()

		leafErr, target := s.objective.Compute(c.ClassSupports())
		root.LeafError = leafErr
		root.Target = target
		root.Size = c.Support()

		s.rootCandidates = s.collectCandidates(c)
		s.ranker.Rank(c, s.rootCandidates)

		s.started = time.Now()
	} else {
		s.stats.Restarts++
	}

	bound := math.Min(root.LeafError, s.opts.Constraints.MaxError)
	if root.Error < bound {
		bound = root.Error
	}

	s.ctx = ctx
	s.deadline = runDeadline(ctx, s.started, s.opts.Constraints.Timeout)

	itemset := cache.NewItemset(s.opts.Constraints.MaxDepth)
	sim := &cover.Similarity{}

	res := s.recursion(c, 0, bound, itemset, root, core.NoAttribute, s.rootCandidates, budget, sim)

	// The root error stays MaxError when no split beat the leaf, so the
	// reported error falls back to the leaf error, as the readback does.
	treeError := math.Min(root.Error, root.LeafError)

	s.stats.CacheSize = s.cache.Len()
	s.stats.Duration = time.Since(s.started)
	s.stats.TreeError = treeError
	s.stats.ProvenOptimal = res.reason == StopDone || res.reason == StopSpecialized ||
		(root.Optimal && res.reason != StopTimeLimit && res.reason != StopBudgetExhausted)

	if treeError < s.bestError {
		s.bestError = treeError
		s.stats.TimeToBest = s.stats.Duration
	}

	s.tree = s.solutionTree()

	s.logger.Debug("search pass finished",
		slog.Int("run", s.runs),
		slog.String("reason", res.reason.String()),
		slog.Float64("error", treeError),
		slog.Int("cache_size", s.stats.CacheSize),
		slog.Bool("optimal", s.stats.ProvenOptimal),
	)

	return res.reason, nil
}

// runDeadline resolves the effective deadline from the timeout constraint
// and the context, whichever is sooner.
func runDeadline(ctx context.Context, started time.Time, timeout time.Duration) time.Time {
	var deadline time.Time
	if timeout >= 0 {
		deadline = started.Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return deadline
}

func (s *DL85) timeUp() bool {
	if s.ctx != nil && s.ctx.Err() != nil {
		return true
	}
	return !s.deadline.IsZero() && !time.Now().Before(s.deadline)
}

// collectCandidates returns the attributes that can split the root cover
// without starving either side.
func (s *DL85) collectCandidates(c *cover.Cover) []int {
	num := c.NumAttributes()
	out := make([]int, 0, num)

	if s.opts.Constraints.MinSupport == 1 {
		for a := 0; a < num; a++ {
			out = append(out, a)
		}
		return out
	}

	support := c.Support()
	for a := 0; a < num; a++ {
		left := c.CountIfBranch(core.NewItem(a, 0))
		if left >= s.opts.Constraints.MinSupport && support-left >= s.opts.Constraints.MinSupport {
			out = append(out, a)
		}
	}
	return out
}

// nodeCandidates narrows the inherited candidate list to the attributes
// still splittable on the current cover, skipping the attribute just used.
func (s *DL85) nodeCandidates(c *cover.Cover, last int, inherited []int) []int {
	out := make([]int, 0, len(inherited))
	support := c.Support()
	for _, a := range inherited {
		if a == last {
			continue
		}
		left := c.CountIfBranch(core.NewItem(a, 0))
		if left >= s.opts.Constraints.MinSupport && support-left >= s.opts.Constraints.MinSupport {
			out = append(out, a)
		}
	}
	return out
}

// recursion solves one node. The cover is already positioned on the node's
// itemset, entry is its cache record, freshly filled with leaf data, and
// lastAttribute is the attribute branched to reach it, NoAttribute at the
// root. The frame must leave cover and itemset exactly as it found them.
func (s *DL85) recursion(c *cover.Cover, depth int, upperBound float64, itemset *cache.Itemset, entry *cache.Entry, lastAttribute int, inherited []int, budget int, sim *cover.Similarity) result {
	s.stats.SearchSpaceSize++
	childUpperBound := upperBound

	if stop, reason := s.conds.check(entry, c.Support(), s.opts.Constraints.MinSupport, depth, s.opts.Constraints.MaxDepth, s.timeUp(), childUpperBound); stop {
		if reason == StopDone {
			entry.UpperBound = upperBound
		}
		return result{entry.Error, reason}
	}

	if s.opts.Constraints.LowerBound == LowerBoundSimilarity {
		if b := sim.Bound(c); b > entry.LowerBound {
			entry.LowerBound = b
		}
		if stop, reason := s.conds.checkLowerBound(entry, childUpperBound); stop {
			return result{entry.Error, reason}
		}
	}

	if remaining := s.opts.Constraints.MaxDepth - depth; remaining <= 2 && s.specialized != nil {
		return s.applySpecialized(c, entry, upperBound, itemset, remaining)
	}

	candidates := s.nodeCandidates(c, lastAttribute, inherited)
	if len(candidates) == 0 {
		entry.ToLeaf()
		entry.Optimal = true
		entry.UpperBound = upperBound
		return result{entry.Error, StopDone}
	}

	if !s.opts.Constraints.SortOnce {
		s.ranker.Rank(c, candidates)
	}

	proven := true
	if k := s.opts.Constraints.TopK; k > 0 && len(candidates) > k {
		candidates = candidates[:k]
		proven = false
	}

	childSim := &cover.Similarity{}
	minLowerBound := core.MaxError

	for position, attribute := range candidates {
		childBudget := budget
		if budget >= 0 {
			// Deviating to the candidate at ranked position i costs i units
			// of the remaining budget along the whole path.
			if position > budget {
				proven = false
				entry.Discrepancy = budget
				break
			}
			childBudget = budget - position
		}

		firstValue, firstLB, secondLB := s.branchOrder(c, attribute, itemset, childSim)

		leftRes, leftEntry := s.exploreChild(c, depth, childUpperBound, itemset, candidates, attribute, firstValue, firstLB, childBudget, childSim)
		leftError := leftRes.err
		leftProven := leftRes.reason != StopBudgetExhausted && leftRes.reason != StopTimeLimit
		if !leftProven {
			proven = false
		}

		if leftError >= childUpperBound-secondLB {
			// The sibling's bound already eats the rest of the budget. A
			// truncated child's incumbent is not a proof, so only its stored
			// lower bound may feed the pruning bookkeeping.
			lb := leftEntry.LowerBound
			if leftProven && leftError < core.MaxError {
				lb = leftError
			}
			if lb+secondLB < minLowerBound {
				minLowerBound = lb + secondLB
			}
			if s.timeUp() {
				return result{entry.Error, StopTimeLimit}
			}
			continue
		}

		rightRes, _ := s.exploreChild(c, depth, childUpperBound-leftError, itemset, candidates, attribute, 1-firstValue, secondLB, childBudget, childSim)
		rightError := rightRes.err
		rightProven := rightRes.reason != StopBudgetExhausted && rightRes.reason != StopTimeLimit
		if !rightProven {
			proven = false
		}

		featureError := leftError + rightError

		if featureError < childUpperBound {
			childUpperBound = featureError
			entry.Error = featureError
			entry.Test = attribute

			if depth == 0 {
				s.stats.TimeToBest = time.Since(s.started)
				s.bestError = featureError
			}

			if core.FloatIsNull(entry.LowerBound - childUpperBound) {
				entry.Optimal = true
				entry.UpperBound = upperBound
				return result{entry.Error, StopDone}
			}
		} else if leftProven && rightProven && featureError < minLowerBound {
			minLowerBound = featureError
		}

		if s.timeUp() {
			return result{entry.Error, StopTimeLimit}
		}
	}

	entry.Optimal = proven
	if proven {
		entry.UpperBound = upperBound
	} else {
		entry.UpperBound = core.MaxError
	}

	if entry.Error >= core.MaxError {
		if proven {
			// Nothing beat the bound: remember how high the bar was so
			// future visits under a looser bound can skip this subtree.
			lb := math.Max(minLowerBound, upperBound)
			if lb > entry.LowerBound {
				entry.LowerBound = lb
			}
			return result{entry.Error, StopLowerBound}
		}
		return result{entry.Error, StopBudgetExhausted}
	}

	if !proven {
		return result{entry.Error, StopBudgetExhausted}
	}
	return result{entry.Error, StopDone}
}

// exploreChild branches the cover on one side of a split, resolves the child
// recursively and restores the cover. It returns the child's outcome along
// with its cache entry so the caller can read the bounds left behind.
func (s *DL85) exploreChild(c *cover.Cover, depth int, upperBound float64, itemset *cache.Itemset, candidates []int, attribute, value int, lowerBound float64, budget int, childSim *cover.Similarity) (result, *cache.Entry) {
	it := core.NewItem(attribute, value)

	itemset.Insert(it)
	c.Branch(it)

	entry, created := s.cache.GetOrCreate(itemset.Items())
	if created || !entry.HasLeafInfo() {
		leafErr, target := s.objective.Compute(c.ClassSupports())
		entry.LeafError = leafErr
		entry.Target = target
		entry.Size = c.Support()
	} else {
		s.stats.CacheHits++
	}

	if lowerBound > entry.LowerBound {
		entry.LowerBound = lowerBound
	}

	res := s.recursion(c, depth+1, upperBound, itemset, entry, attribute, candidates, budget, childSim)

	// A snapshot may only carry a proven error: an incumbent from a
	// truncated pass, or MaxError from a nothing-under-the-bound entry,
	// would inflate every bound derived from it.
	if s.opts.Constraints.LowerBound == LowerBoundSimilarity &&
		res.reason != StopLowerBound &&
		res.reason != StopBudgetExhausted && res.reason != StopTimeLimit &&
		entry.Error < core.MaxError {
		childSim.Update(entry.Error, c)
	}

	c.Revert()
	itemset.Remove(it)

	return res, entry
}

// branchOrder decides which side of a split to explore first and with which
// known lower bounds. Under dynamic branching the side with the larger bound
// goes first; exploring the harder side early tightens the budget left for
// its sibling.
func (s *DL85) branchOrder(c *cover.Cover, attribute int, itemset *cache.Itemset, sim *cover.Similarity) (firstValue int, firstLB, secondLB float64) {
	var bounds [2]float64

	if s.opts.Constraints.Branching == BranchingDynamic {
		for value := 0; value < 2; value++ {
			it := core.NewItem(attribute, value)
			itemset.Insert(it)
			if e := s.cache.Find(itemset.Items()); e != nil {
				if e.Error < core.MaxError {
					bounds[value] = e.Error
				} else {
					bounds[value] = e.LowerBound
				}
			}
			itemset.Remove(it)
		}

		if s.opts.Constraints.LowerBound == LowerBoundSimilarity {
			for value := 0; value < 2; value++ {
				c.Branch(core.NewItem(attribute, value))
				if b := sim.Bound(c); b > bounds[value] {
					bounds[value] = b
				}
				c.Revert()
			}
		}
	}

	firstValue = 0
	if bounds[1] > bounds[0] {
		firstValue = 1
	}
	return firstValue, bounds[firstValue], bounds[1-firstValue]
}

// applySpecialized hands the node to the depth-2 solver and replays the
// resulting subtree into the cache so later visits resolve without search.
func (s *DL85) applySpecialized(c *cover.Cover, entry *cache.Entry, upperBound float64, itemset *cache.Itemset, remaining int) result {
	if upperBound < entry.LowerBound {
		return result{entry.Error, StopLowerBound}
	}

	t, err := s.specialized.Fit(s.opts.Constraints.MinSupport, remaining, c)
	if err != nil {
		// Depth cannot be out of range here; treat any failure as a leaf.
		entry.ToLeaf()
		entry.Optimal = true
		return result{entry.Error, StopSpecialized}
	}

	s.cacheSubtree(itemset, entry, t, t.Root())
	return result{t.RootError(), StopSpecialized}
}

// cacheSubtree walks a solved subtree and mirrors it into cache entries so
// the solution tree extraction and future searches can reuse it.
func (s *DL85) cacheSubtree(itemset *cache.Itemset, entry *cache.Entry, t *tree.Tree, idx int) {
	n := t.Node(idx)
	if n == nil {
		return
	}

	entry.Error = n.Error
	entry.LeafError = n.Error
	entry.Optimal = true

	if n.Leaf {
		entry.Leaf = true
		entry.Target = n.Target
		return
	}
	entry.Test = n.Test
	entry.Leaf = false

	test := n.Test
	for value, child := range []int{n.Left, n.Right} {
		if child == 0 {
			continue
		}
		it := core.NewItem(test, value)
		itemset.Insert(it)
		childEntry, _ := s.cache.GetOrCreate(itemset.Items())
		s.cacheSubtree(itemset, childEntry, t, child)
		itemset.Remove(it)
	}
}

// solutionTree reads the best tree back out of the cache by following the
// stored best splits from the root.
func (s *DL85) solutionTree() *tree.Tree {
	t := tree.New()
	root := s.cache.Root()

	if root.Error >= core.MaxError || root.Leaf {
		t.AddRoot(tree.NewLeaf(root.Target, math.Min(root.Error, root.LeafError)))
		return t
	}

	idx := t.AddRoot(tree.NewInternal(root.Test, root.Error))
	path := cache.NewItemset(s.opts.Constraints.MaxDepth)
	s.solutionSubtree(path, t, idx, root.Test)
	return t
}

func (s *DL85) solutionSubtree(path *cache.Itemset, t *tree.Tree, parent, test int) {
	for value := 0; value < 2; value++ {
		it := core.NewItem(test, value)
		path.Insert(it)
		if e := s.cache.Find(path.Items()); e != nil {
			if e.Leaf || e.Test == core.NoAttribute {
				t.AddNode(parent, value == 0, tree.NewLeaf(e.Target, math.Min(e.Error, e.LeafError)))
			} else {
				idx := t.AddNode(parent, value == 0, tree.NewInternal(e.Test, e.Error))
				s.solutionSubtree(path, t, idx, e.Test)
			}
		}
		path.Remove(it)
	}
}
