package anytime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/heuristic"
	"github.com/hupe1980/odtree/search"
	"github.com/hupe1980/odtree/testutil"
)

func TestControllerConvergesToOptimal(t *testing.T) {
	rng := testutil.NewRNG(606)

	schedules := []struct {
		name string
		step func() StepStrategy
	}{
		{"Monotonic", func() StepStrategy { return NewMonotonic(1) }},
		{"Exponential", func() StepStrategy { return NewExponential(2) }},
		{"Luby", func() StepStrategy { return NewLuby(1) }},
	}

	for trial := 0; trial < 3; trial++ {
		ds := testutil.RandomDataset(rng, 50, 5, 2)
		want := testutil.BruteForceError(ds, 2, 1)

		for _, schedule := range schedules {
			solver := search.New(func(o *search.Options) {
				o.Constraints.MaxDepth = 2
				o.Ranker = heuristic.InformationGain{}
			})
			ctrl := New(solver, func(o *Options) {
				o.Step = schedule.step()
			})

			require.NoError(t, ctrl.Fit(context.Background(), cover.New(ds)))

			assert.True(t, ctrl.IsOptimal(), "%s trial %d", schedule.name, trial)
			assert.Equal(t, want, ctrl.Statistics().TreeError, "%s trial %d", schedule.name, trial)
			assert.Equal(t, want, ctrl.Tree().RootError(), "%s trial %d", schedule.name, trial)
		}
	}
}

func TestControllerRestarts(t *testing.T) {
	rng := testutil.NewRNG(700)
	ds := testutil.RandomDataset(rng, 80, 6, 2)

	solver := search.New(func(o *search.Options) {
		o.Constraints.MaxDepth = 3
		o.Ranker = heuristic.InformationGain{}
	})
	ctrl := New(solver, func(o *Options) {
		o.Step = NewMonotonic(1)
	})

	require.NoError(t, ctrl.Fit(context.Background(), cover.New(ds)))

	// The monotonic schedule needs several passes before the optimality
	// proof lands.
	assert.True(t, ctrl.IsOptimal())
	assert.GreaterOrEqual(t, ctrl.Statistics().Restarts, 1)
}

func TestControllerHonorsContext(t *testing.T) {
	rng := testutil.NewRNG(701)
	ds := testutil.RandomDataset(rng, 100, 8, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	solver := search.New(func(o *search.Options) {
		o.Constraints.MaxDepth = 4
	})
	ctrl := New(solver)

	require.NoError(t, ctrl.Fit(ctx, cover.New(ds)))
	assert.False(t, ctrl.IsOptimal())
}
