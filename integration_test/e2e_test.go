package integration_test

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/odtree"
	"github.com/hupe1980/odtree/dataset"
	"github.com/hupe1980/odtree/datasource"
	"github.com/hupe1980/odtree/testutil"
)

// writeDatasetFile renders a dataset in label-first text form.
func writeDatasetFile(t *testing.T, dir, name string, features [][]int, labels []int) string {
	t.Helper()

	var buf []byte
	for i, row := range features {
		buf = append(buf, byte('0'+labels[i]))
		for _, v := range row {
			buf = append(buf, ' ', byte('0'+v))
		}
		buf = append(buf, '\n')
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf, 0o600))

	return path
}

func randomProblem(t *testing.T, seed int64, rows, attributes int) ([][]int, []int) {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))

	features := make([][]int, rows)
	labels := make([]int, rows)

	for i := range features {
		row := make([]int, attributes)
		for j := range row {
			row[j] = rng.Intn(2)
		}

		features[i] = row
		labels[i] = row[0] ^ row[2]

		if rng.Intn(10) == 0 {
			labels[i] = 1 - labels[i]
		}
	}

	return features, labels
}

func TestFileToPrediction(t *testing.T) {
	features, labels := randomProblem(t, 1, 120, 6)
	path := writeDatasetFile(t, t.TempDir(), "noisy-xor.txt", features, labels)

	train, test, err := dataset.ReadFile(path)
	require.NoError(t, err)
	require.Nil(t, test)
	require.Equal(t, 120, train.Size())
	require.Equal(t, 6, train.NumAttributes())

	learner, err := odtree.New(odtree.WithMaxDepth(2), odtree.WithMinSupport(1))
	require.NoError(t, err)
	require.NoError(t, learner.Fit(context.Background(), train))

	assert.True(t, learner.IsOptimal())

	tree, err := learner.Tree()
	require.NoError(t, err)
	assert.InDelta(t, testutil.BruteForceError(train, 2, 1), tree.RootError(), 1e-9)

	accuracy, err := learner.Evaluate(train)
	require.NoError(t, err)
	assert.InDelta(t, 1-tree.RootError()/float64(train.Size()), accuracy, 1e-9)
}

func TestTrainTestSplitGeneralization(t *testing.T) {
	features, labels := randomProblem(t, 2, 200, 6)
	path := writeDatasetFile(t, t.TempDir(), "split.txt", features, labels)

	train, test, err := dataset.ReadFile(path, dataset.WithShuffle(42), dataset.WithSplit(0.25))
	require.NoError(t, err)
	require.NotNil(t, test)
	require.Equal(t, 150, train.Size())
	require.Equal(t, 50, test.Size())

	learner, err := odtree.New(odtree.WithMaxDepth(2), odtree.WithMinSupport(2))
	require.NoError(t, err)
	require.NoError(t, learner.Fit(context.Background(), train))

	// The concept is a noisy xor over two attributes, so the learned
	// stump forest should transfer well past chance level.
	accuracy, err := learner.Evaluate(test)
	require.NoError(t, err)
	assert.Greater(t, accuracy, 0.7)
}

func TestGzipSourceRoundTrip(t *testing.T) {
	features, labels := randomProblem(t, 3, 80, 5)

	dir := t.TempDir()
	plain := writeDatasetFile(t, dir, "plain.txt", features, labels)

	raw, err := os.ReadFile(plain)
	require.NoError(t, err)

	packed := filepath.Join(dir, "packed.txt.gz")
	f, err := os.Create(packed)
	require.NoError(t, err)

	zw := gzip.NewWriter(f)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	rc, name, err := datasource.Open(context.Background(), packed)
	require.NoError(t, err)
	defer rc.Close()

	train, _, err := dataset.ReadSource(rc, name)
	require.NoError(t, err)
	assert.Equal(t, 80, train.Size())
	assert.Equal(t, "packed.txt", train.Name())
}

func TestModesAgreeOnShallowTrees(t *testing.T) {
	features, labels := randomProblem(t, 4, 90, 5)

	ds, err := dataset.FromMatrix(features, labels)
	require.NoError(t, err)

	want := testutil.BruteForceError(ds, 2, 1)

	for _, mode := range []odtree.Mode{odtree.ModeExact, odtree.ModeDepth2, odtree.ModeGreedy} {
		t.Run(mode.String(), func(t *testing.T) {
			learner, err := odtree.New(odtree.WithMode(mode), odtree.WithMaxDepth(2), odtree.WithMinSupport(1))
			require.NoError(t, err)
			require.NoError(t, learner.Fit(context.Background(), ds))

			tree, err := learner.Tree()
			require.NoError(t, err)
			assert.InDelta(t, want, tree.RootError(), 1e-9)
		})
	}
}

func TestAnytimeMatchesExactWhenRunToCompletion(t *testing.T) {
	features, labels := randomProblem(t, 5, 100, 7)

	ds, err := dataset.FromMatrix(features, labels)
	require.NoError(t, err)

	exact, err := odtree.New(odtree.WithMaxDepth(3), odtree.WithMinSupport(2))
	require.NoError(t, err)
	require.NoError(t, exact.Fit(context.Background(), ds))

	exactTree, err := exact.Tree()
	require.NoError(t, err)

	anytime, err := odtree.New(
		odtree.WithMaxDepth(3),
		odtree.WithMinSupport(2),
		odtree.WithHeuristic(odtree.HeuristicInformationGain),
		odtree.WithSchedule(odtree.ScheduleLuby, 1),
	)
	require.NoError(t, err)
	require.NoError(t, anytime.Fit(context.Background(), ds))

	assert.True(t, anytime.IsOptimal())

	anytimeTree, err := anytime.Tree()
	require.NoError(t, err)
	assert.InDelta(t, exactTree.RootError(), anytimeTree.RootError(), 1e-9)
}

func TestTimeoutProducesUsableModel(t *testing.T) {
	features, labels := randomProblem(t, 6, 150, 8)

	ds, err := dataset.FromMatrix(features, labels)
	require.NoError(t, err)

	learner, err := odtree.New(
		odtree.WithMaxDepth(4),
		odtree.WithMinSupport(1),
		odtree.WithTimeout(time.Nanosecond),
	)
	require.NoError(t, err)
	require.NoError(t, learner.Fit(context.Background(), ds))

	assert.False(t, learner.IsOptimal())

	// Even a degenerate timeout yields a majority-class model that
	// can classify.
	_, err = learner.Predict(features[0])
	assert.NoError(t, err)
}
