package dataset

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const zstdExt = ".zst"

type readCloser struct {
	io.Reader
	close func() error
}

func (rc *readCloser) Close() error { return rc.close() }

// OpenStream opens a dataset file; files ending in .zst are decompressed on the fly.
func OpenStream(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != zstdExt {
		return file, nil
	}
	decoder, err := zstd.NewReader(bufio.NewReader(file))
	if err != nil {
		file.Close()
		return nil, err
	}
	return &readCloser{
		Reader: decoder,
		close: func() error {
			decoder.Close()
			return file.Close()
		},
	}, nil
}

type writeCloser struct {
	io.Writer
	close func() error
}

func (wc *writeCloser) Close() error { return wc.close() }

// CreateStream creates a buffered output file, zstd compressed when the path ends in .zst.
// Close flushes and reports the first error.
func CreateStream(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	var buffered = bufio.NewWriter(file)
	if filepath.Ext(path) != zstdExt {
		return &writeCloser{
			Writer: buffered,
			close: func() error {
				return closeAll(buffered.Flush, file.Close)
			},
		}, nil
	}
	encoder, err := zstd.NewWriter(buffered, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		file.Close()
		return nil, err
	}
	return &writeCloser{
		Writer: encoder,
		close: func() error {
			return closeAll(encoder.Close, buffered.Flush, file.Close)
		},
	}, nil
}

func closeAll(fns ...func() error) error {
	var first error
	for _, fn := range fns {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
