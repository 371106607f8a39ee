package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/odtree"
)

func newD2Cmd() *cobra.Command {
	var (
		common    commonOptions
		objective string
	)

	cmd := &cobra.Command{
		Use:   "d2-odt",
		Short: "Closed-form solver for trees of depth 1 or 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func() (*odtree.Learner, error) {
				opts := append(common.learnerOptions(), odtree.WithMode(odtree.ModeDepth2))
				switch objective {
				case "", "error":
				case "info-gain":
					opts = append(opts, odtree.WithHeuristic(odtree.HeuristicInformationGain))
				default:
					return nil, fmt.Errorf("unknown objective %q (error, info-gain)", objective)
				}
				return odtree.New(opts...)
			}

			return runAll(cmd.Context(), cmd.OutOrStdout(), &common, build)
		},
	}

	addCommonFlags(cmd, &common)
	cmd.Flags().StringVar(&objective, "objective", "error", "split selection: error, info-gain")

	return cmd
}
