package nnue

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type Layer struct {
	Weights *mat.Dense // outputs x inputs
	Bias    *mat.VecDense
}

// ParameterSet is a trained network. Skip is nil when the network has no linear skip path.
type ParameterSet struct {
	Skip   *mat.Dense // outputs x inputs, no bias
	Layers []Layer
}

// NewParameterSet allocates zero parameters for the topology.
func NewParameterSet(t Topology) *ParameterSet {
	var p = &ParameterSet{
		Layers: make([]Layer, len(t.Layers)),
	}
	if t.HasSkip() {
		p.Skip = mat.NewDense(t.SkipOutputs, t.Inputs, nil)
	}
	for i, l := range t.Layers {
		p.Layers[i] = Layer{
			Weights: mat.NewDense(l.Outputs, l.Inputs, nil),
			Bias:    mat.NewVecDense(l.Outputs, nil),
		}
	}
	return p
}

// Check reports ErrTopologyMismatch if any matrix disagrees with the topology.
func (p *ParameterSet) Check(t Topology) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.HasSkip() != (p.Skip != nil) {
		return fmt.Errorf("%w: skip path present %v, expected %v", ErrTopologyMismatch, p.Skip != nil, t.HasSkip())
	}
	if p.Skip != nil {
		if r, c := p.Skip.Dims(); r != t.SkipOutputs || c != t.Inputs {
			return fmt.Errorf("%w: skip is %vx%v, expected %vx%v", ErrTopologyMismatch, r, c, t.SkipOutputs, t.Inputs)
		}
	}
	if len(p.Layers) != len(t.Layers) {
		return fmt.Errorf("%w: %v layers, expected %v", ErrTopologyMismatch, len(p.Layers), len(t.Layers))
	}
	for i, l := range t.Layers {
		var layer = p.Layers[i]
		if layer.Weights == nil || layer.Bias == nil {
			return fmt.Errorf("%w: layer %v is incomplete", ErrTopologyMismatch, i)
		}
		if r, c := layer.Weights.Dims(); r != l.Outputs || c != l.Inputs {
			return fmt.Errorf("%w: layer %v weights are %vx%v, expected %vx%v", ErrTopologyMismatch, i, r, c, l.Outputs, l.Inputs)
		}
		if n := layer.Bias.Len(); n != l.Outputs {
			return fmt.Errorf("%w: layer %v bias has %v values, expected %v", ErrTopologyMismatch, i, n, l.Outputs)
		}
	}
	return nil
}

type matrixAccess struct {
	at  func(row, col int) float64
	set func(row, col int, v float64)
}

func denseAccess(m *mat.Dense) matrixAccess {
	return matrixAccess{at: m.At, set: m.Set}
}

func vecAccess(v *mat.VecDense) matrixAccess {
	return matrixAccess{
		at:  func(row, _ int) float64 { return v.AtVec(row) },
		set: func(row, _ int, x float64) { v.SetVec(row, x) },
	}
}

// access returns the matrices in file order, matching Topology.Layout.
func (p *ParameterSet) access() []matrixAccess {
	var result []matrixAccess
	if p.Skip != nil {
		result = append(result, denseAccess(p.Skip))
	}
	for _, l := range p.Layers {
		result = append(result, denseAccess(l.Weights), vecAccess(l.Bias))
	}
	return result
}
