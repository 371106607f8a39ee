package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/odtree/dataset"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// RandomMatrix generates a rows x attributes binary feature matrix and a
// label vector over the given number of classes.
func (r *RNG) RandomMatrix(rows, attributes, classes int) ([][]int, []int) {
	features := make([][]int, rows)
	labels := make([]int, rows)
	for i := range features {
		row := make([]int, attributes)
		for a := range row {
			row[a] = r.Intn(2)
		}
		features[i] = row
		labels[i] = r.Intn(classes)
	}
	return features, labels
}

// RandomDataset builds a random binary dataset. It panics on an invalid
// shape, which indicates a broken test.
func RandomDataset(rng *RNG, rows, attributes, classes int) *dataset.Dataset {
	features, labels := rng.RandomMatrix(rows, attributes, classes)
	// A random label vector may miss the last class; pin one row so the
	// class count is deterministic.
	if rows > 0 {
		labels[0] = classes - 1
	}
	ds, err := dataset.FromMatrix(features, labels)
	if err != nil {
		panic(err)
	}
	return ds
}

// BruteForceError computes the optimal misclassification error over all
// trees of at most the given depth by exhaustive enumeration. It is the
// ground truth the solvers are checked against; keep the shapes small.
func BruteForceError(ds *dataset.Dataset, maxDepth, minSupport int) float64 {
	tids := make([]int, ds.Size())
	for i := range tids {
		tids[i] = i
	}
	return bruteForce(ds, tids, maxDepth, minSupport)
}

func bruteForce(ds *dataset.Dataset, tids []int, depth, minSupport int) float64 {
	best := leafError(ds, tids)
	if depth == 0 || len(tids) < 2*minSupport {
		return best
	}

	for a := 0; a < ds.NumAttributes(); a++ {
		var left, right []int
		for _, tid := range tids {
			if ds.Value(tid, a) == 1 {
				right = append(right, tid)
			} else {
				left = append(left, tid)
			}
		}
		if len(left) < minSupport || len(right) < minSupport {
			continue
		}
		if err := bruteForce(ds, left, depth-1, minSupport) + bruteForce(ds, right, depth-1, minSupport); err < best {
			best = err
		}
	}

	return best
}

func leafError(ds *dataset.Dataset, tids []int) float64 {
	counts := make([]int, ds.NumClasses())
	for _, tid := range tids {
		counts[ds.Label(tid)]++
	}
	majority := 0
	for _, c := range counts {
		if c > majority {
			majority = c
		}
	}
	return float64(len(tids) - majority)
}
