// Package lgdt implements a greedy learner with two-level lookahead: at each
// node it solves the next two levels optimally with the pairwise specializer,
// commits only the root split of that local solution and recurses. Deeper
// trees are built level by level this way, trading global optimality for
// near-linear runtime.
package lgdt

import (
	"context"
	"io"
	"log/slog"

	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/depth2"
	"github.com/hupe1980/odtree/tree"
)

// Options represents the options for configuring the greedy learner.
type Options struct {
	MinSupport int
	MaxDepth   int
	Objective  core.ErrorFunc

	// Solver resolves the two-level lookahead. Defaults to the error
	// minimizer; the info-gain maximizer is the purity-driven alternative.
	Solver depth2.Solver

	Logger *slog.Logger
}

// DefaultOptions is the default configuration.
var DefaultOptions = Options{
	MinSupport: 1,
	MaxDepth:   2,
	Objective:  core.ClassificationError{},
}

// LGDT is the less-greedy decision tree learner.
type LGDT struct {
	opts   Options
	solver depth2.Solver
	logger *slog.Logger
	tree   *tree.Tree
}

// New creates a learner.
func New(optFns ...func(o *Options)) *LGDT {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Solver == nil {
		opts.Solver = depth2.NewErrorMinimizer(opts.Objective)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &LGDT{opts: opts, solver: opts.Solver, logger: opts.Logger}
}

// Tree returns the learned tree, nil before Fit.
func (l *LGDT) Tree() *tree.Tree { return l.tree }

// Fit learns a tree on the given root cover.
func (l *LGDT) Fit(ctx context.Context, c *cover.Cover) error {
	if l.opts.MaxDepth <= 2 {
		t, err := l.solver.Fit(l.opts.MinSupport, l.opts.MaxDepth, c)
		if err != nil {
			return err
		}
		l.tree = t
		return nil
	}

	local, err := l.solver.Fit(l.opts.MinSupport, 2, c)
	if err != nil {
		return err
	}

	root := local.Node(local.Root())
	if root.Leaf {
		l.tree = local
		return nil
	}

	solution := tree.New()
	idx := solution.AddRoot(tree.NewInternal(root.Test, root.Error))

	if _, err := l.recursion(ctx, l.opts.MaxDepth-1, c, solution, idx, root.Test); err != nil {
		return err
	}

	l.tree = solution

	l.logger.Debug("greedy fit finished",
		slog.Float64("error", solution.RootError()),
		slog.Int("size", solution.Size()),
	)

	return nil
}

// recursion expands both branches of the committed split, re-solving the
// lookahead on each child cover. It returns the subtree error so parents can
// aggregate theirs bottom-up.
func (l *LGDT) recursion(ctx context.Context, depth int, c *cover.Cover, t *tree.Tree, parent, attribute int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	parentError := 0.0

	for value := 0; value < 2; value++ {
		isLeft := value == 0
		support := c.Branch(core.NewItem(attribute, value))

		if support < l.opts.MinSupport {
			parentError += l.addLeaf(t, parent, isLeft, c)
			c.Revert()
			continue
		}

		lookahead := 2
		if depth < 2 {
			lookahead = depth
		}

		local, err := l.solver.Fit(l.opts.MinSupport, lookahead, c)
		if err != nil {
			c.Revert()
			return 0, err
		}

		root := local.Node(local.Root())

		switch {
		case depth <= 1, root.Leaf, core.FloatIsNull(local.RootError()):
			// Nothing left to refine below the lookahead: keep it whole.
			idx := t.AddNode(parent, isLeft, tree.Node{})
			t.Graft(idx, local, local.Root())
			parentError += local.RootError()
		default:
			idx := t.AddNode(parent, isLeft, tree.NewInternal(root.Test, root.Error))
			childError, err := l.recursion(ctx, depth-1, c, t, idx, root.Test)
			if err != nil {
				c.Revert()
				return 0, err
			}
			parentError += childError
		}

		c.Revert()
	}

	t.Node(parent).Error = parentError
	return parentError, nil
}

func (l *LGDT) addLeaf(t *tree.Tree, parent int, isLeft bool, c *cover.Cover) float64 {
	err, target := l.opts.Objective.Compute(c.ClassSupports())
	t.AddNode(parent, isLeft, tree.NewLeaf(target, err))
	return err
}
