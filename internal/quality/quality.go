package quality

import (
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"github.com/ChizhovVadim/nnuedata/internal/dataset"
	"github.com/ChizhovVadim/nnuedata/internal/features"
	"github.com/ChizhovVadim/nnuedata/internal/score"
)

type IEvaluator interface {
	// Evaluate returns a prediction in (-1, 1) from white's point of view.
	Evaluate(input features.Input) float64
}

type EvaluatorFunc func(input features.Input) float64

func (f EvaluatorFunc) Evaluate(input features.Input) float64 {
	return f(input)
}

type Result struct {
	Count   int
	Skipped int
	AbsCost float64
	MSECost float64
}

// Measure compares predictions with normalized targets of a labeled split.
// Lines that do not parse are counted and skipped.
func Measure(evaluator IEvaluator, r io.Reader, normalizer score.Normalizer) (Result, error) {
	var result Result
	var sum, sumSq float64

	var reader = dataset.NewLineReader(r)
	for lineNo := 0; ; lineNo++ {
		line, tooLong, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, err
		}
		if tooLong {
			result.Skipped++
			continue
		}
		var s = strings.TrimSpace(line)
		if s == "" || lineNo == 0 && strings.HasPrefix(s, dataset.Header) {
			continue
		}
		example, err := dataset.ParseRecord(s, normalizer)
		if err != nil {
			result.Skipped++
			continue
		}
		var x = evaluator.Evaluate(example.Input) - float64(example.Target)
		sum += math.Abs(x)
		sumSq += x * x
		result.Count++
	}
	if result.Count == 0 {
		return result, fmt.Errorf("no positions")
	}
	result.AbsCost = sum / float64(result.Count)
	result.MSECost = sumSq / float64(result.Count)
	return result, nil
}

func RunQuality(evaluator IEvaluator, validationPath string, normalizer score.Normalizer) error {
	stream, err := dataset.OpenStream(validationPath)
	if err != nil {
		return err
	}
	defer stream.Close()

	result, err := Measure(evaluator, stream, normalizer)
	if err != nil {
		return fmt.Errorf("quality %v: %w", validationPath, err)
	}
	log.Println("quality",
		"path", validationPath,
		"positions", result.Count,
		"skipped", result.Skipped)
	log.Printf("abs cost: %f", result.AbsCost)
	log.Printf("mse cost: %f", result.MSECost)
	return nil
}
