package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/odtree"
	"github.com/hupe1980/odtree/dataset"
	"github.com/hupe1980/odtree/datasource"
)

// runAll fits one learner per input, concurrently, and reports the results
// in input order under a shared writer lock. Each search itself stays
// single-threaded.
func runAll(ctx context.Context, out io.Writer, opts *commonOptions, build func() (*odtree.Learner, error)) error {
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, input := range opts.inputs {
		input := input
		g.Go(func() error {
			report, err := runOne(ctx, opts, input, build)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			mu.Lock()
			defer mu.Unlock()
			return report(out)
		})
	}
	return g.Wait()
}

func runOne(ctx context.Context, opts *commonOptions, input string, build func() (*odtree.Learner, error)) (func(io.Writer) error, error) {
	rc, name, err := datasource.Open(ctx, input)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var readOpts []dataset.ReadOption
	if opts.shuffle >= 0 {
		readOpts = append(readOpts, dataset.WithShuffle(opts.shuffle))
	}
	if opts.split > 0 {
		readOpts = append(readOpts, dataset.WithSplit(opts.split))
	}

	train, test, err := dataset.ReadSource(rc, name, readOpts...)
	if err != nil {
		return nil, err
	}

	learner, err := build()
	if err != nil {
		return nil, err
	}

	if err := learner.Fit(ctx, train); err != nil {
		return nil, err
	}

	tree, err := learner.Tree()
	if err != nil {
		return nil, err
	}
	stats, err := learner.Statistics()
	if err != nil {
		return nil, err
	}

	trainAcc, err := learner.Evaluate(train)
	if err != nil {
		return nil, err
	}
	testAcc := -1.0
	if test != nil {
		if testAcc, err = learner.Evaluate(test); err != nil {
			return nil, err
		}
	}

	return func(w io.Writer) error {
		fmt.Fprintf(w, "%s: error=%.0f optimal=%t depth=%d size=%d duration=%s train-accuracy=%.4f",
			name, tree.RootError(), learner.IsOptimal(), tree.Depth(), tree.Size(), stats.Duration, trainAcc)
		if test != nil {
			fmt.Fprintf(w, " test-accuracy=%.4f", testAcc)
		}
		fmt.Fprintln(w)

		if opts.printStats {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(data))
		}

		if opts.printTree {
			data, err := json.Marshal(tree)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(data))
		}

		if opts.dot {
			if err := tree.WriteDOT(w); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
