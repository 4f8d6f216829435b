package nnue

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Parameters dumped by an optimizer: weight rows are outputs, columns are inputs.
type layerJSON struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

type paramsJSON struct {
	Version string      `json:"version"`
	Skip    [][]float64 `json:"skip,omitempty"`
	Layers  []layerJSON `json:"layers"`
}

func ReadJSON(r io.Reader, t Topology) (*ParameterSet, error) {
	var payload paramsJSON
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Version != "" && payload.Version != t.Version {
		return nil, fmt.Errorf("%w: version %q, expected %q", ErrTopologyMismatch, payload.Version, t.Version)
	}
	var p = &ParameterSet{}
	var err error
	if payload.Skip != nil {
		if p.Skip, err = denseFromRows(payload.Skip); err != nil {
			return nil, fmt.Errorf("skip: %w", err)
		}
	}
	for i, l := range payload.Layers {
		weights, err := denseFromRows(l.Weights)
		if err != nil {
			return nil, fmt.Errorf("layer %v: %w", i, err)
		}
		if len(l.Bias) == 0 {
			return nil, fmt.Errorf("%w: layer %v has no bias", ErrTopologyMismatch, i)
		}
		p.Layers = append(p.Layers, Layer{
			Weights: weights,
			Bias:    mat.NewVecDense(len(l.Bias), l.Bias),
		})
	}
	if err := p.Check(t); err != nil {
		return nil, err
	}
	return p, nil
}

func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrTopologyMismatch)
	}
	var cols = len(rows[0])
	var data = make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %v has %v columns, expected %v", ErrTopologyMismatch, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

func WriteJSON(w io.Writer, p *ParameterSet, t Topology) error {
	if err := p.Check(t); err != nil {
		return err
	}
	var payload = paramsJSON{Version: t.Version}
	if p.Skip != nil {
		payload.Skip = rowsFromDense(p.Skip)
	}
	for _, l := range p.Layers {
		payload.Layers = append(payload.Layers, layerJSON{
			Weights: rowsFromDense(l.Weights),
			Bias:    mat.Col(nil, 0, l.Bias),
		})
	}
	return json.NewEncoder(w).Encode(payload)
}

func rowsFromDense(m *mat.Dense) [][]float64 {
	var r, _ = m.Dims()
	var result = make([][]float64, r)
	for i := range result {
		result[i] = mat.Row(nil, i, m)
	}
	return result
}

func LoadJSON(path string, t Topology) (*ParameterSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f, t)
}

func SaveJSON(path string, p *ParameterSet, t Topology) error {
	var tmp = path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = WriteJSON(f, p, t)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
