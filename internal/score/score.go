package score

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

const (
	DefaultScaleFactor = 600
	DefaultClampScore  = 4000
	DefaultMateScore   = 10000
)

const mateMarker = "#"

var ErrScoreParse = errors.New("bad score")

// Normalizer turns engine evaluation text into a training target in (-1, 1).
type Normalizer struct {
	ScaleFactor float64
	ClampScore  int
	MateScore   int
}

func DefaultNormalizer() Normalizer {
	return Normalizer{
		ScaleFactor: DefaultScaleFactor,
		ClampScore:  DefaultClampScore,
		MateScore:   DefaultMateScore,
	}
}

// Parse reads "+56", "-10", "0" as centipawns and "#5", "#-3" as mate scores.
// The result is not clamped.
func (n Normalizer) Parse(s string) (int, error) {
	var text = strings.TrimSpace(s)
	if strings.HasPrefix(text, mateMarker) {
		var mateIn, err = parseInt(strings.TrimPrefix(text, mateMarker))
		if err != nil {
			return 0, fmt.Errorf("%w %q", ErrScoreParse, s)
		}
		if mateIn > 0 {
			return n.MateScore, nil
		}
		return -n.MateScore, nil
	}
	var centipawns, err = parseInt(text)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrScoreParse, s)
	}
	return centipawns, nil
}

// Target maps a raw score to tanh(clamp(score)/scale).
func (n Normalizer) Target(score int) float64 {
	var clamped = Clamp(score, -n.ClampScore, n.ClampScore)
	return math.Tanh(float64(clamped) / n.ScaleFactor)
}

// Normalize parses a score text and returns the raw score with its target.
func (n Normalizer) Normalize(s string) (int, float64, error) {
	var score, err = n.Parse(s)
	if err != nil {
		return 0, 0, err
	}
	return score, n.Target(score), nil
}

// parseInt accepts an optional sign followed by decimal digits only.
func parseInt(s string) (int, error) {
	var digits = s
	if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, ErrScoreParse
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, ErrScoreParse
		}
	}
	return strconv.Atoi(s)
}

func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
