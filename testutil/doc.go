// Package testutil provides testing utilities for odtree.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random binary datasets and a
// brute-force reference solver used to verify the optimal learners.
//
// # Random Dataset Generation
//
//	rng := testutil.NewRNG(seed)
//	ds := testutil.RandomDataset(rng, 64, 6, 2)
//
// # Ground Truth
//
//	err := testutil.BruteForceError(ds, maxDepth, minSupport)
package testutil
