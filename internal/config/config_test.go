package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	var c = Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	var total int
	for _, b := range c.SamplerBuckets() {
		total += b.Capacity
	}
	if total != c.SampleBudget {
		t.Errorf("capacities sum to %v, want %v", total, c.SampleBudget)
	}
}

func TestValidateBuckets(t *testing.T) {
	tests := []struct {
		name    string
		buckets []Bucket
		wantErr bool
	}{
		{"default", DefaultBuckets(), false},
		{"single", []Bucket{{-100, 100, 1}}, false},
		{"partial budget", []Bucket{{-100, 0, 0.3}, {0, 100, 0.3}}, false},
		{"unordered", []Bucket{{0, 100, 0.5}, {-100, 0, 0.5}}, false},
		{"empty", nil, true},
		{"over budget", []Bucket{{-100, 0, 0.6}, {0, 100, 0.6}}, true},
		{"overlap", []Bucket{{-100, 10, 0.5}, {0, 100, 0.5}}, true},
		{"gap", []Bucket{{-100, -10, 0.5}, {0, 100, 0.5}}, true},
		{"inverted", []Bucket{{100, -100, 1}}, true},
		{"zero fraction", []Bucket{{-100, 0, 0}, {0, 100, 0.5}}, true},
		{"negative fraction", []Bucket{{-100, 0, -0.1}, {0, 100, 0.5}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c = Default()
			c.Buckets = tt.buckets
			var err = c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrCapacity) {
				t.Errorf("error %v is not ErrCapacity", err)
			}
		})
	}
}

func TestValidateScalars(t *testing.T) {
	var cases = []func(c *Config){
		func(c *Config) { c.SampleBudget = 0 },
		func(c *Config) { c.ScaleFactor = 0 },
		func(c *Config) { c.ScaleFactor = math.NaN() },
		func(c *Config) { c.ClampScore = -1 },
		func(c *Config) { c.MateScore = 0 },
		func(c *Config) { c.ValidationFraction = 1 },
		func(c *Config) { c.ValidationFraction = -0.1 },
		func(c *Config) { c.Precision = 0 },
		func(c *Config) { c.Precision = 18 },
		func(c *Config) { c.Threads = 0 },
	}
	for i, modify := range cases {
		var c = Default()
		modify(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("case %v: expected error", i)
		}
	}
}

func TestUnstratifiedIgnoresBuckets(t *testing.T) {
	var c = Default()
	c.Unstratified = true
	c.Buckets = []Bucket{{100, -100, 5}}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	var buckets = c.SamplerBuckets()
	if len(buckets) != 1 || buckets[0].Capacity != c.SampleBudget {
		t.Fatalf("buckets %+v", buckets)
	}
	for _, s := range []int{math.MinInt, -c.MateScore, 0, c.MateScore, math.MaxInt} {
		if !c.Covers(s) {
			t.Errorf("score %v not covered", s)
		}
	}
}

func TestDefaultBucketsCoverage(t *testing.T) {
	var c = Default()
	if !c.Covers(-c.MateScore) || !c.Covers(0) || !c.Covers(9999) {
		t.Error("expected coverage")
	}
	if c.Covers(c.MateScore) {
		t.Error("upper bound must be exclusive")
	}
}

func TestLoadBuckets(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "buckets.json")
	var text = `[{"low":-1000,"high":0,"fraction":0.4},{"low":0,"high":1000,"fraction":0.6}]`
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	var buckets, err = LoadBuckets(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 2 || buckets[1] != (Bucket{0, 1000, 0.6}) {
		t.Errorf("buckets %+v", buckets)
	}
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBuckets(path); err == nil {
		t.Error("expected parse error")
	}
}
