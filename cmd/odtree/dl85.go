package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/odtree"
)

func newDL85Cmd() *cobra.Command {
	var (
		common         commonOptions
		heuristic      string
		cacheBackend   string
		cacheInitSize  int
		initStrategy   string
		schedule       string
		step           int
		discrepancy    int
		topK           int
		sortOnce       bool
		specialization string
		lowerBound     string
		branching      string
	)

	cmd := &cobra.Command{
		Use:   "dl85",
		Short: "Exact branch-and-bound search for the optimal tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := parseHeuristic(heuristic)
			if err != nil {
				return err
			}
			backend, err := parseCache(cacheBackend)
			if err != nil {
				return err
			}
			sched, err := parseSchedule(schedule)
			if err != nil {
				return err
			}
			strategy, err := parseInitStrategy(initStrategy)
			if err != nil {
				return err
			}
			specialized, err := parseSpecialization(specialization)
			if err != nil {
				return err
			}
			similarityLB, err := parseLowerBound(lowerBound)
			if err != nil {
				return err
			}
			dynamicBranch, err := parseBranching(branching)
			if err != nil {
				return err
			}

			build := func() (*odtree.Learner, error) {
				opts := append(common.learnerOptions(),
					odtree.WithMode(odtree.ModeExact),
					odtree.WithHeuristic(h),
					odtree.WithCache(backend),
					odtree.WithCacheInitSize(cacheInitSize),
					odtree.WithSortOnce(sortOnce),
					odtree.WithSpecialization(specialized),
					odtree.WithSimilarityBound(similarityLB),
					odtree.WithDynamicBranching(dynamicBranch),
					odtree.WithTopK(topK),
				)
				if strategy != odtree.InitDisabled {
					opts = append(opts, odtree.WithCacheInitStrategy(strategy))
				}
				if sched != odtree.ScheduleDisabled {
					opts = append(opts, odtree.WithSchedule(sched, step))
				} else if discrepancy > 0 {
					opts = append(opts, odtree.WithDiscrepancyBudget(discrepancy))
				}
				return odtree.New(opts...)
			}

			return runAll(cmd.Context(), cmd.OutOrStdout(), &common, build)
		},
	}

	addCommonFlags(cmd, &common)
	cmd.Flags().StringVar(&heuristic, "heuristic", "none", "candidate ordering: none, info-gain, gain-ratio, gini")
	cmd.Flags().StringVar(&cacheBackend, "cache", "trie", "bound cache backend: trie, hashmap")
	cmd.Flags().IntVar(&cacheInitSize, "cache-init-size", 0, "preallocate the cache for this many entries")
	cmd.Flags().StringVar(&initStrategy, "init-strategy", "none", "cache preallocation: none, user-allocation, dynamic-allocation")
	cmd.Flags().StringVar(&schedule, "schedule", "none", "anytime restart schedule: none, monotonic, exponential, luby")
	cmd.Flags().IntVar(&step, "step", 1, "schedule step parameter")
	cmd.Flags().IntVar(&discrepancy, "discrepancy", 0, "single-pass discrepancy budget, 0 for unrestricted")
	cmd.Flags().IntVar(&topK, "top-k", 0, "consider only the k best-ranked candidates per node, 0 for all")
	cmd.Flags().BoolVar(&sortOnce, "sorting-once", false, "rank candidates only at the root")
	cmd.Flags().StringVar(&specialization, "specialization", "murtree", "last-two-levels solver: murtree, disabled")
	cmd.Flags().StringVar(&lowerBound, "lb", "disabled", "lower-bound strategy: similarity, disabled")
	cmd.Flags().StringVar(&branching, "branching", "disabled", "branch exploration order: dynamic, disabled")

	return cmd
}
