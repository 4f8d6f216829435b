package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ChizhovVadim/nnuedata/internal/config"
	"github.com/ChizhovVadim/nnuedata/internal/nnue"
)

// parseTopology builds the engine topology from "-hidden 256,32" and "-skip".
func parseTopology(params *CommandArgs) (nnue.Topology, error) {
	var t = nnue.DefaultTopology()
	skip, err := params.GetBool("skip", t.HasSkip())
	if err != nil {
		return t, err
	}
	if !skip {
		t.SkipOutputs = 0
	}
	if hidden := params.GetString("hidden", ""); hidden != "" {
		var layers []nnue.LayerShape
		var inputs = t.Inputs
		for _, field := range strings.Split(hidden, ",") {
			size, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return t, fmt.Errorf("hidden %q: %w", hidden, err)
			}
			layers = append(layers, nnue.LayerShape{Inputs: inputs, Outputs: size})
			inputs = size
		}
		t.Layers = append(layers, nnue.LayerShape{Inputs: inputs, Outputs: 1})
	}
	return t, t.Validate()
}

func loadParams(path string, t nnue.Topology) (*nnue.ParameterSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return nnue.LoadJSON(path, t)
	case ".nn":
		p, fileTopology, err := nnue.LoadNetwork(path)
		if err != nil {
			return nil, err
		}
		log.Println("loaded network", "path", path, "topology", fileTopology)
		return p, p.Check(t)
	default:
		return nnue.LoadText(path, t)
	}
}

func runExport(params *CommandArgs) error {
	var paramsPath = mapPath(params.GetString("params", "params.json"))
	var output = mapPath(params.GetString("output", "weights.txt"))
	precision, err := params.GetInt("precision", config.Default().Precision)
	if err != nil {
		return err
	}
	t, err := parseTopology(params)
	if err != nil {
		return err
	}

	p, err := loadParams(paramsPath, t)
	if err != nil {
		return fmt.Errorf("load %v: %w", paramsPath, err)
	}
	var format = params.GetString("format", strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), "."))
	if format == "nn" {
		id, err := params.GetInt("id", 1)
		if err != nil {
			return err
		}
		if err := nnue.SaveNetwork(output, uint32(id), p, t); err != nil {
			return fmt.Errorf("export %v: %w", output, err)
		}
		log.Println("exported network",
			"path", output,
			"id", id,
			"values", t.ParameterCount())
		return nil
	}
	written, err := nnue.SaveText(output, p, t, precision)
	if err != nil {
		return fmt.Errorf("export %v: %w", output, err)
	}
	log.Println("exported weights",
		"path", output,
		"values", written,
		"expected", t.ParameterCount())
	return nil
}
