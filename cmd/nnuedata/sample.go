package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ChizhovVadim/nnuedata/internal/config"
	"github.com/ChizhovVadim/nnuedata/internal/dataset"
)

func loadConfig(params *CommandArgs) (config.Config, error) {
	var cfg = config.Default()
	var err error
	if cfg.SampleBudget, err = params.GetInt("budget", cfg.SampleBudget); err != nil {
		return cfg, err
	}
	if cfg.Unstratified, err = params.GetBool("unstratified", cfg.Unstratified); err != nil {
		return cfg, err
	}
	if path := params.GetString("buckets", ""); path != "" {
		if cfg.Buckets, err = config.LoadBuckets(mapPath(path)); err != nil {
			return cfg, err
		}
	}
	if cfg.ClampScore, err = params.GetInt("clamp", cfg.ClampScore); err != nil {
		return cfg, err
	}
	if cfg.ScaleFactor, err = params.GetFloat("scale", cfg.ScaleFactor); err != nil {
		return cfg, err
	}
	if cfg.MateScore, err = params.GetInt("mate", cfg.MateScore); err != nil {
		return cfg, err
	}
	if cfg.ValidationFraction, err = params.GetFloat("vf", cfg.ValidationFraction); err != nil {
		return cfg, err
	}
	if cfg.Precision, err = params.GetInt("precision", cfg.Precision); err != nil {
		return cfg, err
	}
	if cfg.Threads, err = params.GetInt("threads", cfg.Threads); err != nil {
		return cfg, err
	}
	var seed int
	if seed, err = params.GetInt("seed", int(cfg.Seed)); err != nil {
		return cfg, err
	}
	cfg.Seed = int64(seed)
	return cfg, cfg.Validate()
}

func runSample(params *CommandArgs) error {
	var input = mapPath(params.GetString("input", "positions.csv"))
	var trainingPath = mapPath(params.GetString("train", "train.csv"))
	var validationPath = mapPath(params.GetString("validation", "validation.csv"))
	var manifestPath = mapPath(params.GetString("manifest", ""))

	cfg, err := loadConfig(params)
	if err != nil {
		return err
	}
	log.Printf("%+v", cfg)
	if !cfg.Covers(cfg.MateScore) || !cfg.Covers(-cfg.MateScore) {
		log.Println("warning: mate scores are outside the buckets and will be dropped",
			"mateScore", cfg.MateScore)
	}

	assembler, err := dataset.NewAssembler(cfg)
	if err != nil {
		return err
	}

	stream, err := dataset.OpenStream(input)
	if err != nil {
		return err
	}
	defer stream.Close()

	var ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Println("load dataset started", "path", input)
	ds, report, err := assembler.Assemble(ctx, stream)
	if err != nil {
		return fmt.Errorf("assemble %v: %w", input, err)
	}
	dataset.LogReport(report)

	if err := dataset.SaveExamples(trainingPath, ds.Training); err != nil {
		return err
	}
	if err := dataset.SaveExamples(validationPath, ds.Validation); err != nil {
		return err
	}
	log.Println("saved dataset",
		"training", trainingPath,
		"validation", validationPath)

	if manifestPath != "" {
		var manifest = dataset.NewManifest(input, cfg, report)
		manifest.TrainingPath = trainingPath
		manifest.ValidationPath = validationPath
		if err := dataset.SaveManifest(manifestPath, manifest); err != nil {
			return err
		}
		log.Println("saved manifest", "path", manifestPath, "runId", manifest.RunID)
	}
	return nil
}
