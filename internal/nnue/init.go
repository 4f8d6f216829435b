package nnue

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/ChizhovVadim/nnuedata/pkg/common"
)

// InitWeights fills layer weights with uniform noise sized for ReLU inputs and zeroes biases.
func InitWeights(p *ParameterSet, rnd *rand.Rand) {
	for _, l := range p.Layers {
		var _, inputSize = l.Weights.Dims()
		initUniform(rnd, l.Weights, 2.0/float64(inputSize))
		l.Bias.Zero()
	}
}

func initUniform(rnd *rand.Rand, m *mat.Dense, variance float64) {
	var uniformVariance = 1.0 / 12
	var scale = math.Sqrt(variance / uniformVariance)
	m.Apply(func(_, _ int, _ float64) float64 {
		return (rnd.Float64() - 0.5) * scale
	}, m)
}

// InitSkipFromPieceValues fills the skip path with material values so that an
// untrained network already evaluates material: value/scale for every square of a plane.
func InitSkipFromPieceValues(p *ParameterSet, scale float64) {
	if p.Skip == nil {
		return
	}
	for plane, value := range common.PieceValues {
		for sq := 0; sq < common.SquareCount; sq++ {
			p.Skip.Set(0, plane*common.SquareCount+sq, float64(value)/scale)
		}
	}
}
