// Package testutil provides testing utilities for pagesearch.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, goroutine-safe random source and helpers for
// generating key streams.
//
// # Key Streams
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.Ints(1000, 50)   // uniform [0, 50), many duplicates
//	order := rng.Perm(1000)      // removal order
//	skewed := rng.ZipfInts(1000, 100, 1.5)
package testutil
