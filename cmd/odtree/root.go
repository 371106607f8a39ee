package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/odtree"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odtree",
		Short: "Learn optimal decision trees on binary datasets",
		Long: `odtree learns decision trees on binarized classification data.

The dl85 subcommand runs the exact branch-and-bound search, d2-odt solves
depth-limited trees (1 or 2) in closed form, and lgdt builds deeper trees
greedily with a two-level lookahead.

Inputs are whitespace-delimited text files: the first column is the class
label, the remaining columns are binary features. Files ending in .gz or
.lz4 are decompressed transparently, and inputs may be s3:// or minio://
object URIs.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newDL85Cmd())
	cmd.AddCommand(newD2Cmd())
	cmd.AddCommand(newLGDTCmd())

	return cmd
}

// commonOptions are the flags shared by every learner subcommand.
type commonOptions struct {
	inputs     []string
	support    int
	depth      int
	timeout    time.Duration
	maxError   float64
	shuffle    int64
	split      float64
	printStats bool
	printTree  bool
	dot        bool
	verbose    bool
}

func addCommonFlags(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringSliceVarP(&opts.inputs, "input", "i", nil, "dataset file or object URI (repeatable)")
	cmd.Flags().IntVarP(&opts.support, "support", "s", 1, "minimum number of transactions per leaf")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 2, "maximum tree depth")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", -1, "time limit per dataset (-1 for none)")
	cmd.Flags().Float64Var(&opts.maxError, "max-error", 0, "initial upper bound, 0 for none")
	cmd.Flags().Int64Var(&opts.shuffle, "shuffle", -1, "shuffle rows with the given seed before splitting")
	cmd.Flags().Float64Var(&opts.split, "split", 0, "fraction of rows reserved as a test set")
	cmd.Flags().BoolVar(&opts.printStats, "print-stats", false, "print search statistics as JSON")
	cmd.Flags().BoolVar(&opts.printTree, "print-tree", false, "print the learned tree as JSON")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the learned tree in Graphviz DOT format")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	_ = cmd.MarkFlagRequired("input")
}

func (o *commonOptions) learnerOptions() []odtree.Option {
	opts := []odtree.Option{
		odtree.WithMinSupport(o.support),
		odtree.WithMaxDepth(o.depth),
		odtree.WithTimeout(o.timeout),
	}
	if o.maxError > 0 {
		opts = append(opts, odtree.WithMaxError(o.maxError))
	}
	if o.verbose {
		opts = append(opts, odtree.WithLogger(odtree.NewTextLogger(slog.LevelDebug)))
	}
	return opts
}

func parseHeuristic(name string) (odtree.Heuristic, error) {
	switch name {
	case "", "none":
		return odtree.HeuristicDisabled, nil
	case "info-gain":
		return odtree.HeuristicInformationGain, nil
	case "gain-ratio":
		return odtree.HeuristicGainRatio, nil
	case "gini":
		return odtree.HeuristicGini, nil
	default:
		return 0, fmt.Errorf("unknown heuristic %q (none, info-gain, gain-ratio, gini)", name)
	}
}

func parseCache(name string) (odtree.CacheBackend, error) {
	switch name {
	case "", "trie":
		return odtree.CacheTrie, nil
	case "hashmap":
		return odtree.CacheHashmap, nil
	default:
		return 0, fmt.Errorf("unknown cache backend %q (trie, hashmap)", name)
	}
}

func parseSpecialization(name string) (bool, error) {
	switch name {
	case "murtree":
		return true, nil
	case "", "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("unknown specialization %q (murtree, disabled)", name)
	}
}

func parseLowerBound(name string) (bool, error) {
	switch name {
	case "similarity":
		return true, nil
	case "", "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("unknown lower-bound strategy %q (similarity, disabled)", name)
	}
}

func parseBranching(name string) (bool, error) {
	switch name {
	case "dynamic":
		return true, nil
	case "", "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("unknown branching %q (dynamic, disabled)", name)
	}
}

func parseInitStrategy(name string) (odtree.InitStrategy, error) {
	switch name {
	case "", "none":
		return odtree.InitDisabled, nil
	case "user-allocation":
		return odtree.InitUserAllocation, nil
	case "dynamic-allocation":
		return odtree.InitDynamicAllocation, nil
	default:
		return 0, fmt.Errorf("unknown init strategy %q (none, user-allocation, dynamic-allocation)", name)
	}
}

func parseSchedule(name string) (odtree.Schedule, error) {
	switch name {
	case "", "none":
		return odtree.ScheduleDisabled, nil
	case "monotonic":
		return odtree.ScheduleMonotonic, nil
	case "exponential":
		return odtree.ScheduleExponential, nil
	case "luby":
		return odtree.ScheduleLuby, nil
	default:
		return 0, fmt.Errorf("unknown schedule %q (none, monotonic, exponential, luby)", name)
	}
}
