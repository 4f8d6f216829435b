package nnue

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrNetworkFormat = errors.New("unsupported network file")

// Binary network files produced by the trainer:
// - All the data is stored in little-endian layout
// - All the matrices are written in column-major
// - The magic number/version consists of 4 bytes:
//   - 66 (which is the ASCII code for B), uint8
//   - 90 (which is the ASCII code for Z), uint8
//   - 2 The major part of the current version number, uint8
//   - 0 The minor part of the current version number, uint8
//
// - 4 bytes (uint32) to denote the network ID
// - 4 bytes (uint32) to denote input size
// - 4 bytes (uint32) to denote output size
// - 4 bytes (uint32) number of hidden layers
// - 4 bytes (uint32) for the size of each hidden layer
// - All weights (float32) for a layer, followed by all the biases of the same layer
// - Other layers follow just like the above point
//
// The format has no skip path.
var networkMagic = [4]byte{66, 90, 2, 0}

// ReadNetwork reads a binary network and returns its parameters and topology.
func ReadNetwork(r io.Reader) (*ParameterSet, Topology, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, Topology{}, err
	}
	if header[0] != networkMagic[0] || header[1] != networkMagic[1] {
		return nil, Topology{}, fmt.Errorf("%w: magic word does not match", ErrNetworkFormat)
	}
	if header[2] != networkMagic[2] || header[3] != networkMagic[3] {
		return nil, Topology{}, fmt.Errorf("%w: version %v.%v", ErrNetworkFormat, header[2], header[3])
	}

	var head [4]uint32 // id, inputs, outputs, hidden layers
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return nil, Topology{}, err
	}
	var inputs, outputs, layers = head[1], head[2], head[3]
	if layers > 64 {
		return nil, Topology{}, fmt.Errorf("%w: %v hidden layers", ErrNetworkFormat, layers)
	}
	var neurons = make([]uint32, layers)
	if err := binary.Read(r, binary.LittleEndian, neurons); err != nil {
		return nil, Topology{}, err
	}

	var t = Topology{
		Version: fmt.Sprintf("bz%v.%v", header[2], header[3]),
		Inputs:  int(inputs),
	}
	var inputSize = int(inputs)
	for i := 0; i <= len(neurons); i++ {
		var outputSize = int(outputs)
		if i < len(neurons) {
			outputSize = int(neurons[i])
		}
		t.Layers = append(t.Layers, LayerShape{Inputs: inputSize, Outputs: outputSize})
		inputSize = outputSize
	}
	if err := t.Validate(); err != nil {
		return nil, Topology{}, err
	}

	var p = NewParameterSet(t)
	var buf = make([]float32, 0)
	for _, l := range p.Layers {
		var rows, cols = l.Weights.Dims()
		buf = resize(buf, rows*cols)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, Topology{}, err
		}
		for col := 0; col < cols; col++ {
			for row := 0; row < rows; row++ {
				l.Weights.Set(row, col, float64(buf[col*rows+row]))
			}
		}
		buf = resize(buf, rows)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, Topology{}, err
		}
		for i, v := range buf {
			l.Bias.SetVec(i, float64(v))
		}
	}
	return p, t, nil
}

func resize(buf []float32, size int) []float32 {
	if cap(buf) < size {
		return make([]float32, size)
	}
	return buf[:size]
}

func LoadNetwork(path string) (*ParameterSet, Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Topology{}, err
	}
	defer f.Close()
	return ReadNetwork(bufio.NewReader(f))
}

// WriteNetwork writes parameters in the binary network format.
func WriteNetwork(w io.Writer, id uint32, p *ParameterSet, t Topology) error {
	if t.HasSkip() {
		return fmt.Errorf("%w: skip path cannot be stored", ErrNetworkFormat)
	}
	if err := p.Check(t); err != nil {
		return err
	}
	var bw = bufio.NewWriter(w)
	if _, err := bw.Write(networkMagic[:]); err != nil {
		return err
	}
	var head = []uint32{id, uint32(t.Inputs), uint32(t.Outputs()), uint32(len(t.Layers) - 1)}
	for _, l := range t.Layers[:len(t.Layers)-1] {
		head = append(head, uint32(l.Outputs))
	}
	if err := binary.Write(bw, binary.LittleEndian, head); err != nil {
		return err
	}
	for _, l := range p.Layers {
		var rows, cols = l.Weights.Dims()
		var data = make([]float32, 0, rows*cols)
		for col := 0; col < cols; col++ {
			for row := 0; row < rows; row++ {
				data = append(data, float32(l.Weights.At(row, col)))
			}
		}
		if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
			return err
		}
		var bias = make([]float32, l.Bias.Len())
		for i := range bias {
			bias[i] = float32(l.Bias.AtVec(i))
		}
		if err := binary.Write(bw, binary.LittleEndian, bias); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func SaveNetwork(path string, id uint32, p *ParameterSet, t Topology) error {
	var tmp = path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = WriteNetwork(f, id, p, t)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
