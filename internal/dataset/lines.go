package dataset

import (
	"bufio"
	"io"
)

const (
	maxLineSize    = 1 << 20
	readBufferSize = 64 * 1024
)

// LineReader reads text lines of any length. Lines longer than maxLineSize are
// consumed to their end and reported as too long instead of failing the stream.
type LineReader struct {
	br  *bufio.Reader
	buf []byte
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{br: bufio.NewReaderSize(r, readBufferSize)}
}

// Next returns the next line without its line ending. At the end of input it returns io.EOF.
func (lr *LineReader) Next() (line string, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	for {
		chunk, isPrefix, err := lr.br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(lr.buf)+len(chunk) > maxLineSize {
				tooLong = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", true, nil
	}
	return string(lr.buf), false, nil
}
