package quality

import (
	"math"
	"strings"
	"testing"

	"github.com/ChizhovVadim/nnuedata/internal/features"
	"github.com/ChizhovVadim/nnuedata/internal/score"
)

const startPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestMeasure(t *testing.T) {
	var input = "FEN,Evaluation\n" +
		startPos + ",0\n" +
		startPos + ",+600\n" +
		"garbage\n"
	var zero = EvaluatorFunc(func(features.Input) float64 { return 0 })

	result, err := Measure(zero, strings.NewReader(input), score.DefaultNormalizer())
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 2 || result.Skipped != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}
	var target = math.Tanh(1)
	if math.Abs(result.AbsCost-target/2) > 1e-6 {
		t.Errorf("abs cost %v", result.AbsCost)
	}
	if math.Abs(result.MSECost-target*target/2) > 1e-6 {
		t.Errorf("mse cost %v", result.MSECost)
	}
}

func TestMeasureEmpty(t *testing.T) {
	var zero = EvaluatorFunc(func(features.Input) float64 { return 0 })
	if _, err := Measure(zero, strings.NewReader("FEN,Evaluation\n"), score.DefaultNormalizer()); err == nil {
		t.Fatal("expected error")
	}
}
