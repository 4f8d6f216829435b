package nnue

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ChizhovVadim/nnuedata/internal/features"
)

// Evaluate runs the network the way the engine does: the skip path and the ReLU
// layers are summed and squashed with tanh. The result is from white's point of view.
func Evaluate(p *ParameterSet, input features.Input) float64 {
	var psqt float64
	if p.Skip != nil {
		for i := 0; i < input.Len(); i++ {
			psqt += p.Skip.At(0, input.Index(i))
		}
	}

	// first layer is sparse: only columns of occupied squares contribute
	var first = p.Layers[0]
	var hidden = mat.VecDenseCopyOf(first.Bias)
	for i := 0; i < input.Len(); i++ {
		hidden.AddVec(hidden, first.Weights.ColView(input.Index(i)))
	}

	for _, l := range p.Layers[1:] {
		relu(hidden)
		var next = mat.NewVecDense(l.Bias.Len(), nil)
		next.MulVec(l.Weights, hidden)
		next.AddVec(next, l.Bias)
		hidden = next
	}
	return math.Tanh(psqt + hidden.AtVec(0))
}

func relu(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < 0 {
			v.SetVec(i, 0)
		}
	}
}

// Centipawns converts the network output to a side-to-move score.
func Centipawns(p *ParameterSet, input features.Input, whiteMove bool, scale float64) int {
	var score = int(Evaluate(p, input) * scale)
	if !whiteMove {
		return -score
	}
	return score
}
