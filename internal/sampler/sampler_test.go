package sampler

import (
	"math"
	"math/rand"
	"testing"
)

func TestReservoirKeepsCapacity(t *testing.T) {
	var s = New[int]([]Bucket{{Low: math.MinInt, High: NoUpperBound, Capacity: 100}}, rand.New(rand.NewSource(0)))
	for i := 0; i < 10_000; i++ {
		s.Add(i%7-3, i)
	}
	var stats = s.Stats()
	if stats[0].Observed != 10_000 || stats[0].Sampled != 100 {
		t.Fatalf("stats %+v", stats[0])
	}
	var items = s.Finalize()
	if len(items) != 100 {
		t.Fatalf("sampled %v", len(items))
	}
	var seen = make(map[int]struct{})
	for _, x := range items {
		if _, found := seen[x]; found {
			t.Fatalf("item %v sampled twice", x)
		}
		seen[x] = struct{}{}
	}
}

func TestReservoirBelowCapacityKeepsEverything(t *testing.T) {
	var s = New[int]([]Bucket{{Low: 0, High: 10, Capacity: 50}}, rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		s.Add(5, i)
	}
	var items = s.Finalize()
	if len(items) != 20 {
		t.Fatalf("sampled %v", len(items))
	}
	for i, x := range items {
		if x != i {
			t.Errorf("items[%v] = %v", i, x)
		}
	}
}

// scriptedSource replays a fixed sequence of choices.
type scriptedSource struct {
	values []int
	pos    int
}

func (s *scriptedSource) Intn(n int) int {
	var v = s.values[s.pos]
	s.pos++
	if v >= n {
		panic("scripted value out of range")
	}
	return v
}

// Enumerates every random decision sequence for a small stream: each of k items
// must be kept in exactly m/k of the equally likely outcomes.
func TestReservoirExactEnumeration(t *testing.T) {
	const k, m = 6, 2
	var ranges []int
	for count := m + 1; count <= k; count++ {
		ranges = append(ranges, count)
	}
	var inclusion [k]int
	var outcomes int
	var choice = make([]int, len(ranges))
	for {
		var s = New[int]([]Bucket{{Low: 0, High: 1, Capacity: m}}, &scriptedSource{values: choice})
		for i := 0; i < k; i++ {
			s.Add(0, i)
		}
		for _, x := range s.Finalize() {
			inclusion[x]++
		}
		outcomes++

		// next mixed-radix combination
		var i = 0
		for ; i < len(choice); i++ {
			choice[i]++
			if choice[i] < ranges[i] {
				break
			}
			choice[i] = 0
		}
		if i == len(choice) {
			break
		}
	}
	for item, n := range inclusion {
		if n*k != outcomes*m {
			t.Errorf("item %v kept in %v of %v outcomes, want fraction %v/%v", item, n, outcomes, m, k)
		}
	}
}

func TestReservoirInclusionFrequency(t *testing.T) {
	const k, m, trials = 10, 3, 20_000
	var rnd = rand.New(rand.NewSource(42))
	var counts [k]int
	for trial := 0; trial < trials; trial++ {
		var s = New[int]([]Bucket{{Low: 0, High: 1, Capacity: m}}, rnd)
		for i := 0; i < k; i++ {
			s.Add(0, i)
		}
		var items = s.Finalize()
		if len(items) != m {
			t.Fatalf("sampled %v", len(items))
		}
		for _, x := range items {
			counts[x]++
		}
	}
	var expected = float64(trials) * m / k
	var chi2 float64
	for _, n := range counts {
		var d = float64(n) - expected
		chi2 += d * d / expected
	}
	// 9 degrees of freedom, p < 0.001
	if chi2 > 27.88 {
		t.Errorf("chi-square %v, counts %v", chi2, counts)
	}
}

func TestBucketBoundaries(t *testing.T) {
	var buckets = []Bucket{
		{Low: -200, High: -50, Capacity: 10},
		{Low: -50, High: 50, Capacity: 10},
		{Low: 50, High: 200, Capacity: 10},
	}
	tests := []struct {
		score  int
		bucket int
	}{
		{-200, 0},
		{-51, 0},
		{-50, 1},
		{0, 1},
		{49, 1},
		{50, 2},
		{199, 2},
		{200, -1},
		{-201, -1},
	}
	for _, tt := range tests {
		var s = New[int](buckets, rand.New(rand.NewSource(0)))
		var accepted = s.Add(tt.score, tt.score)
		var stats = s.Stats()
		for i, st := range stats {
			var want = 0
			if i == tt.bucket {
				want = 1
			}
			if st.Observed != want {
				t.Errorf("score %v: bucket %v observed %v, want %v", tt.score, i, st.Observed, want)
			}
		}
		if accepted != (tt.bucket >= 0) {
			t.Errorf("score %v: accepted = %v", tt.score, accepted)
		}
		if tt.bucket < 0 && s.Unclassified() != 1 {
			t.Errorf("score %v: unclassified = %v", tt.score, s.Unclassified())
		}
	}
}

func TestFirstMatchingBucketWins(t *testing.T) {
	var s = New[int]([]Bucket{
		{Low: 0, High: 100, Capacity: 5},
		{Low: 50, High: 150, Capacity: 5},
	}, rand.New(rand.NewSource(0)))
	s.Add(75, 1)
	var stats = s.Stats()
	if stats[0].Observed != 1 || stats[1].Observed != 0 {
		t.Errorf("stats %+v", stats)
	}
}

func TestStratifiedCapacities(t *testing.T) {
	var buckets = []Bucket{
		{Low: math.MinInt, High: 0, Capacity: 30},
		{Low: 0, High: NoUpperBound, Capacity: 70},
	}
	var s = New[int](buckets, rand.New(rand.NewSource(7)))
	for i := 0; i < 5000; i++ {
		s.Add(i%2-1, i)
	}
	s.Add(math.MaxInt, -1)
	var stats = s.Stats()
	if stats[0].Sampled != 30 || stats[1].Sampled != 70 {
		t.Errorf("stats %+v", stats)
	}
	if stats[0].Observed != 2500 || stats[1].Observed != 2501 {
		t.Errorf("stats %+v", stats)
	}
	if s.Unclassified() != 0 {
		t.Errorf("unclassified %v", s.Unclassified())
	}
	if n := len(s.Finalize()); n != 100 {
		t.Errorf("sampled %v", n)
	}
}

func TestZeroCapacityBucketDiscards(t *testing.T) {
	var s = New[int]([]Bucket{{Low: 0, High: 10, Capacity: 0}}, rand.New(rand.NewSource(0)))
	for i := 0; i < 10; i++ {
		s.Add(1, i)
	}
	if n := len(s.Finalize()); n != 0 {
		t.Errorf("sampled %v", n)
	}
}
