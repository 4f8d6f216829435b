package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/ChizhovVadim/nnuedata/internal/dataset"
	"github.com/ChizhovVadim/nnuedata/internal/features"
	"github.com/ChizhovVadim/nnuedata/internal/nnue"
	"github.com/ChizhovVadim/nnuedata/internal/quality"
	"github.com/ChizhovVadim/nnuedata/internal/score"
)

func runEval(params *CommandArgs) error {
	var weightsPath = mapPath(params.GetString("weights", "weights.txt"))
	var fen = params.GetString("fen", "")
	var input = mapPath(params.GetString("input", ""))
	var manifestPath = mapPath(params.GetString("manifest", ""))
	scale, err := params.GetFloat("scale", score.DefaultScaleFactor)
	if err != nil {
		return err
	}
	t, err := parseTopology(params)
	if err != nil {
		return err
	}

	p, err := nnue.LoadText(weightsPath, t)
	if err != nil {
		return fmt.Errorf("load %v: %w", weightsPath, err)
	}

	if fen != "" {
		encoded, err := features.Encode(fen)
		if err != nil {
			return err
		}
		log.Println("eval",
			"fen", fen,
			"score", nnue.Centipawns(p, encoded, features.WhiteToMove(fen), scale))
		return nil
	}
	var normalizer = score.Normalizer{
		ScaleFactor: scale,
		ClampScore:  score.DefaultClampScore,
		MateScore:   score.DefaultMateScore,
	}
	if manifestPath != "" {
		manifest, err := dataset.LoadManifest(manifestPath)
		if err != nil {
			return fmt.Errorf("load %v: %w", manifestPath, err)
		}
		log.Println("manifest", "path", manifestPath, "runId", manifest.RunID)
		normalizer = manifest.Config.Normalizer()
		if input == "" {
			input = manifest.ValidationPath
		}
	}
	if input == "" {
		return errors.New("eval: fen, input or manifest required")
	}
	var evaluator = quality.EvaluatorFunc(func(input features.Input) float64 {
		return nnue.Evaluate(p, input)
	})
	return quality.RunQuality(evaluator, input, normalizer)
}
