package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChizhovVadim/nnuedata/internal/features"
	"github.com/ChizhovVadim/nnuedata/internal/score"
)

var ErrMalformedRecord = errors.New("malformed record")

// Example is one training position with its target.
type Example struct {
	Position string
	Score    int
	Target   float32
	Input    features.Input
}

// splitRecord splits "<position>,<score>" at the last comma.
func splitRecord(line string) (position, scoreText string, err error) {
	var index = strings.LastIndexByte(line, ',')
	if index < 0 {
		return "", "", fmt.Errorf("%w: no score field", ErrMalformedRecord)
	}
	return strings.TrimSpace(line[:index]), line[index+1:], nil
}

// ParseRecord parses one "<position>,<score>" line into an example.
func ParseRecord(line string, normalizer score.Normalizer) (Example, error) {
	position, scoreText, err := splitRecord(line)
	if err != nil {
		return Example{}, err
	}
	rawScore, target, err := normalizer.Normalize(scoreText)
	if err != nil {
		return Example{}, err
	}
	input, err := features.Encode(position)
	if err != nil {
		return Example{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return Example{
		Position: position,
		Score:    rawScore,
		Target:   float32(target),
		Input:    input,
	}, nil
}
