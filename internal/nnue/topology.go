package nnue

import (
	"errors"
	"fmt"

	"github.com/ChizhovVadim/nnuedata/pkg/common"
)

var ErrTopologyMismatch = errors.New("topology mismatch")

type LayerShape struct {
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`
}

// Topology is the contract shared with the engine that reads the weight file.
// The engine knows the same shapes at compile time and reads exactly ParameterCount values.
type Topology struct {
	Version     string       `json:"version"`
	Inputs      int          `json:"inputs"`
	SkipOutputs int          `json:"skip_outputs"`
	Layers      []LayerShape `json:"layers"`
}

// DefaultTopology is 768 -> 256 -> 32 -> 1 with a 768 -> 1 linear skip path.
func DefaultTopology() Topology {
	return Topology{
		Version:     "v1",
		Inputs:      common.InputSize,
		SkipOutputs: 1,
		Layers: []LayerShape{
			{common.InputSize, 256},
			{256, 32},
			{32, 1},
		},
	}
}

func (t Topology) HasSkip() bool {
	return t.SkipOutputs != 0
}

func (t Topology) Outputs() int {
	if len(t.Layers) == 0 {
		return 0
	}
	return t.Layers[len(t.Layers)-1].Outputs
}

func (t Topology) Validate() error {
	if t.Inputs <= 0 || len(t.Layers) == 0 {
		return fmt.Errorf("%w: empty topology", ErrTopologyMismatch)
	}
	var inputs = t.Inputs
	for i, l := range t.Layers {
		if l.Inputs != inputs || l.Outputs <= 0 {
			return fmt.Errorf("%w: layer %v is %vx%v after %v outputs",
				ErrTopologyMismatch, i, l.Inputs, l.Outputs, inputs)
		}
		inputs = l.Outputs
	}
	if t.HasSkip() && t.SkipOutputs != t.Outputs() {
		return fmt.Errorf("%w: skip path has %v outputs, network has %v",
			ErrTopologyMismatch, t.SkipOutputs, t.Outputs())
	}
	return nil
}

// Block is one contiguous run of values in the weight file.
type Block struct {
	Name       string
	Rows       int
	Cols       int
	Transposed bool
}

func (b Block) Size() int {
	return b.Rows * b.Cols
}

// each visits the block's (row, col) cells in file order.
func (b Block) each(fn func(row, col int)) {
	if b.Transposed {
		for col := 0; col < b.Cols; col++ {
			for row := 0; row < b.Rows; row++ {
				fn(row, col)
			}
		}
		return
	}
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			fn(row, col)
		}
	}
}

// Layout lists the blocks in file order. Weight matrices are held as outputs x inputs
// and written transposed, so the engine finds weight (in, out) at in*outputs+out.
func (t Topology) Layout() []Block {
	var result []Block
	if t.HasSkip() {
		result = append(result, Block{Name: "skip.weight", Rows: t.SkipOutputs, Cols: t.Inputs, Transposed: true})
	}
	for i, l := range t.Layers {
		result = append(result,
			Block{Name: fmt.Sprintf("fc%v.weight", i+1), Rows: l.Outputs, Cols: l.Inputs, Transposed: true},
			Block{Name: fmt.Sprintf("fc%v.bias", i+1), Rows: l.Outputs, Cols: 1})
	}
	return result
}

func (t Topology) ParameterCount() int {
	var count int
	for _, b := range t.Layout() {
		count += b.Size()
	}
	return count
}
