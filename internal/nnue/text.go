package nnue

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

const (
	DefaultPrecision = 8
	MinPrecision     = 1
	MaxPrecision     = 17
)

var ErrPrecision = errors.New("unsupported precision")

// CheckPrecision rejects digit counts that would round weights away or exceed float64 resolution.
func CheckPrecision(precision int) error {
	if precision < MinPrecision || precision > MaxPrecision {
		return fmt.Errorf("%w: %v digits, expected %v..%v", ErrPrecision, precision, MinPrecision, MaxPrecision)
	}
	return nil
}

// WriteText writes the parameters one value per line in the engine's load order:
// the skip weights, then for every layer its transposed weights followed by its bias.
// Shapes are checked before anything is written. It returns the number of values written.
func WriteText(w io.Writer, p *ParameterSet, t Topology, precision int) (int, error) {
	if err := CheckPrecision(precision); err != nil {
		return 0, err
	}
	if err := p.Check(t); err != nil {
		return 0, err
	}
	var bw = bufio.NewWriter(w)
	var buf []byte
	var count int
	var err error
	var layout = t.Layout()
	for i, m := range p.access() {
		layout[i].each(func(row, col int) {
			if err != nil {
				return
			}
			buf = strconv.AppendFloat(buf[:0], m.at(row, col), 'f', precision, 64)
			buf = append(buf, '\n')
			_, err = bw.Write(buf)
			count++
		})
		if err != nil {
			return count, err
		}
	}
	if err := bw.Flush(); err != nil {
		return count, err
	}
	if expected := t.ParameterCount(); count != expected {
		return count, fmt.Errorf("%w: wrote %v values, expected %v", ErrTopologyMismatch, count, expected)
	}
	return count, nil
}

// SaveText writes the weight file through a temporary file so a failed export
// never leaves a truncated file at path.
func SaveText(path string, p *ParameterSet, t Topology, precision int) (int, error) {
	if err := CheckPrecision(precision); err != nil {
		return 0, err
	}
	if err := p.Check(t); err != nil {
		return 0, err
	}
	var tmp = path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	count, err := WriteText(f, p, t, precision)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return count, err
	}
	return count, os.Rename(tmp, path)
}

var ErrShortWeights = errors.New("weight file is too short")

// ReadText reads a weight file the way the engine does: whitespace separated
// numbers in layout order. Values after the last expected one are ignored.
func ReadText(r io.Reader, t Topology) (*ParameterSet, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	var p = NewParameterSet(t)
	var scanner = bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var count int
	var err error
	var layout = t.Layout()
	for i, m := range p.access() {
		layout[i].each(func(row, col int) {
			if err != nil {
				return
			}
			if !scanner.Scan() {
				err = scanner.Err()
				if err == nil {
					err = fmt.Errorf("%w: %v of %v values", ErrShortWeights, count, t.ParameterCount())
				}
				return
			}
			var v float64
			v, err = strconv.ParseFloat(scanner.Text(), 64)
			if err != nil {
				err = fmt.Errorf("value %v: %w", count, err)
				return
			}
			m.set(row, col, v)
			count++
		})
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func LoadText(path string, t Topology) (*ParameterSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadText(f, t)
}
