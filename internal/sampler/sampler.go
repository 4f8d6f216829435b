// Package sampler keeps a bounded, score-stratified random sample of an unbounded stream.
//
// Each bucket owns a half-open score interval [Low, High) and a reservoir of fixed capacity.
// Items are routed to the first bucket whose interval contains their score and then kept
// or discarded with Algorithm R, so after k items a bucket of capacity m holds every one of
// them with probability m/k. Memory use is bounded by the total capacity.
package sampler

import (
	"math"
)

// RandomSource is satisfied by *math/rand.Rand.
type RandomSource interface {
	Intn(n int) int
}

// NoUpperBound as a bucket's High makes the interval include every larger score.
const NoUpperBound = math.MaxInt

// Bucket describes one stratum.
type Bucket struct {
	Low      int
	High     int
	Capacity int
}

func (b Bucket) Contains(score int) bool {
	return b.Low <= score && (score < b.High || b.High == NoUpperBound)
}

// BucketStats is a per-bucket summary for logging.
type BucketStats struct {
	Bucket
	Observed int
	Sampled  int
}

type reservoir[T any] struct {
	Bucket
	items    []T
	observed int
}

// Sampler is not safe for concurrent use; one goroutine must own it for a whole pass.
type Sampler[T any] struct {
	rnd          RandomSource
	buckets      []reservoir[T]
	unclassified int
	finalized    bool
}

// New creates a sampler over the buckets in their given order. Buckets are expected to be
// validated by the caller; an item matching several buckets goes to the first one.
func New[T any](buckets []Bucket, rnd RandomSource) *Sampler[T] {
	var s = &Sampler[T]{
		rnd:     rnd,
		buckets: make([]reservoir[T], len(buckets)),
	}
	for i, b := range buckets {
		s.buckets[i] = reservoir[T]{
			Bucket: b,
			items:  make([]T, 0, min(b.Capacity, initialReservoirSize)),
		}
	}
	return s
}

// Reservoirs grow on demand so a large configured budget over a short stream stays cheap.
const initialReservoirSize = 1 << 12

// Add routes the item to its bucket. It returns false if no bucket accepts the score.
func (s *Sampler[T]) Add(score int, item T) bool {
	if s.finalized {
		panic("sampler: Add after Finalize")
	}
	var b = s.find(score)
	if b == nil {
		s.unclassified++
		return false
	}
	b.observed++
	if len(b.items) < b.Capacity {
		b.items = append(b.items, item)
		return true
	}
	var j = s.rnd.Intn(b.observed)
	if j < b.Capacity {
		b.items[j] = item
	}
	return true
}

func (s *Sampler[T]) find(score int) *reservoir[T] {
	for i := range s.buckets {
		if s.buckets[i].Contains(score) {
			return &s.buckets[i]
		}
	}
	return nil
}

// Unclassified returns the number of items whose score matched no bucket.
func (s *Sampler[T]) Unclassified() int {
	return s.unclassified
}

func (s *Sampler[T]) Stats() []BucketStats {
	var result = make([]BucketStats, len(s.buckets))
	for i := range s.buckets {
		var b = &s.buckets[i]
		result[i] = BucketStats{
			Bucket:   b.Bucket,
			Observed: b.observed,
			Sampled:  min(b.observed, b.Capacity),
		}
	}
	return result
}

// Finalize concatenates the reservoirs in bucket order and releases them.
// The order of the result is not random; callers shuffle it.
func (s *Sampler[T]) Finalize() []T {
	var size int
	for i := range s.buckets {
		size += len(s.buckets[i].items)
	}
	var result = make([]T, 0, size)
	for i := range s.buckets {
		result = append(result, s.buckets[i].items...)
		s.buckets[i].items = nil
	}
	s.finalized = true
	return result
}
