package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"

	"github.com/ChizhovVadim/nnuedata/internal/nnue"
	"github.com/ChizhovVadim/nnuedata/internal/sampler"
	"github.com/ChizhovVadim/nnuedata/internal/score"
)

var ErrCapacity = errors.New("bad sampling capacity configuration")

// Bucket is a score interval [Low, High) with its share of the sample budget.
type Bucket struct {
	Low      int     `json:"low"`
	High     int     `json:"high"`
	Fraction float64 `json:"fraction"`
}

type Config struct {
	SampleBudget       int      `json:"sample_budget"`
	Unstratified       bool     `json:"unstratified"`
	Buckets            []Bucket `json:"buckets"`
	ClampScore         int      `json:"clamp_score"`
	ScaleFactor        float64  `json:"scale_factor"`
	MateScore          int      `json:"mate_score"`
	ValidationFraction float64  `json:"validation_fraction"`
	Precision          int      `json:"precision"`
	Threads            int      `json:"threads"`
	Seed               int64    `json:"seed"`
}

// DefaultBuckets spread samples over evaluation ranges so that balanced and
// decisive positions are both well represented.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{-10000, -500, 0.15},
		{-500, -200, 0.15},
		{-200, -50, 0.10},
		{-50, 50, 0.20},
		{50, 200, 0.10},
		{200, 500, 0.15},
		{500, 10000, 0.15},
	}
}

func Default() Config {
	return Config{
		SampleBudget:       2_000_000,
		Buckets:            DefaultBuckets(),
		ClampScore:         score.DefaultClampScore,
		ScaleFactor:        score.DefaultScaleFactor,
		MateScore:          score.DefaultMateScore,
		ValidationFraction: 0.1,
		Precision:          8,
		Threads:            runtime.NumCPU(),
		Seed:               42,
	}
}

func (c Config) Normalizer() score.Normalizer {
	return score.Normalizer{
		ScaleFactor: c.ScaleFactor,
		ClampScore:  c.ClampScore,
		MateScore:   c.MateScore,
	}
}

func (c Config) Validate() error {
	if c.SampleBudget <= 0 {
		return fmt.Errorf("%w: sample budget %v", ErrCapacity, c.SampleBudget)
	}
	if !c.Unstratified {
		if err := validateBuckets(c.Buckets); err != nil {
			return err
		}
	}
	if !(c.ScaleFactor > 0) || math.IsInf(c.ScaleFactor, 0) {
		return fmt.Errorf("bad scale factor %v", c.ScaleFactor)
	}
	if c.ClampScore <= 0 {
		return fmt.Errorf("bad clamp score %v", c.ClampScore)
	}
	if c.MateScore <= 0 {
		return fmt.Errorf("bad mate score %v", c.MateScore)
	}
	if !(c.ValidationFraction >= 0 && c.ValidationFraction < 1) {
		return fmt.Errorf("bad validation fraction %v", c.ValidationFraction)
	}
	if err := nnue.CheckPrecision(c.Precision); err != nil {
		return err
	}
	if c.Threads < 1 {
		return fmt.Errorf("bad threads %v", c.Threads)
	}
	return nil
}

// Buckets must be non-empty, contiguous and non-overlapping once ordered by Low,
// and their fractions must not exceed the whole budget.
func validateBuckets(buckets []Bucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("%w: no buckets", ErrCapacity)
	}
	var sorted = make([]Bucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Low < sorted[j].Low
	})
	var total float64
	for i, b := range sorted {
		if b.Low >= b.High {
			return fmt.Errorf("%w: empty interval [%v, %v)", ErrCapacity, b.Low, b.High)
		}
		if !(b.Fraction > 0) || b.Fraction > 1 {
			return fmt.Errorf("%w: fraction %v of [%v, %v)", ErrCapacity, b.Fraction, b.Low, b.High)
		}
		if i > 0 {
			var prev = sorted[i-1]
			if b.Low < prev.High {
				return fmt.Errorf("%w: [%v, %v) overlaps [%v, %v)", ErrCapacity, prev.Low, prev.High, b.Low, b.High)
			}
			if b.Low > prev.High {
				return fmt.Errorf("%w: gap between %v and %v", ErrCapacity, prev.High, b.Low)
			}
		}
		total += b.Fraction
	}
	const eps = 1e-9
	if total > 1+eps {
		return fmt.Errorf("%w: fractions sum to %v", ErrCapacity, total)
	}
	return nil
}

// SamplerBuckets resolves the configuration into the sampler's bucket list.
// Unstratified sampling is a single bucket over all scores with the whole budget.
func (c Config) SamplerBuckets() []sampler.Bucket {
	if c.Unstratified {
		return []sampler.Bucket{{
			Low:      math.MinInt,
			High:     sampler.NoUpperBound,
			Capacity: c.SampleBudget,
		}}
	}
	var result = make([]sampler.Bucket, len(c.Buckets))
	for i, b := range c.Buckets {
		result[i] = sampler.Bucket{
			Low:      b.Low,
			High:     b.High,
			Capacity: int(float64(c.SampleBudget) * b.Fraction),
		}
	}
	return result
}

// LoadBuckets reads a JSON array of {"low","high","fraction"} objects.
func LoadBuckets(path string) ([]Bucket, error) {
	var data, err = os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var buckets []Bucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, fmt.Errorf("parse buckets %v: %w", path, err)
	}
	return buckets, nil
}

// Covers reports whether a raw score falls into some bucket.
// Scores outside every bucket are dropped during sampling.
func (c Config) Covers(score int) bool {
	for _, b := range c.SamplerBuckets() {
		if b.Contains(score) {
			return true
		}
	}
	return false
}
