package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/odtree"
)

func newLGDTCmd() *cobra.Command {
	var (
		common    commonOptions
		objective string
	)

	cmd := &cobra.Command{
		Use:   "lgdt",
		Short: "Greedy deep trees with an optimal two-level lookahead",
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func() (*odtree.Learner, error) {
				opts := append(common.learnerOptions(), odtree.WithMode(odtree.ModeGreedy))
				switch objective {
				case "", "error":
				case "info-gain":
					opts = append(opts, odtree.WithInfoGainLookahead(true))
				default:
					return nil, fmt.Errorf("unknown objective %q (error, info-gain)", objective)
				}
				return odtree.New(opts...)
			}

			return runAll(cmd.Context(), cmd.OutOrStdout(), &common, build)
		},
	}

	addCommonFlags(cmd, &common)
	cmd.Flags().StringVar(&objective, "objective", "error", "lookahead selection: error, info-gain")

	return cmd
}
