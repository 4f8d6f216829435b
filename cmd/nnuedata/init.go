package main

import (
	"log"
	"math/rand"

	"github.com/ChizhovVadim/nnuedata/internal/nnue"
	"github.com/ChizhovVadim/nnuedata/internal/score"
)

func runInit(params *CommandArgs) error {
	var output = mapPath(params.GetString("output", "params.json"))
	seed, err := params.GetInt("seed", 42)
	if err != nil {
		return err
	}
	scale, err := params.GetFloat("scale", score.DefaultScaleFactor)
	if err != nil {
		return err
	}
	t, err := parseTopology(params)
	if err != nil {
		return err
	}

	var p = nnue.NewParameterSet(t)
	nnue.InitWeights(p, rand.New(rand.NewSource(int64(seed))))
	nnue.InitSkipFromPieceValues(p, scale)
	if err := nnue.SaveJSON(output, p, t); err != nil {
		return err
	}
	log.Println("saved initial parameters",
		"path", output,
		"topology", t.Version,
		"values", t.ParameterCount())
	return nil
}
