package writers

import (
	"io"
	"os"
)

// StdoutName is the output path that selects standard output.
const StdoutName = "-"

// Delays initialization until the writer is written to
type LazyWriteCloser struct {
	init   func() (io.WriteCloser, error)
	writer io.WriteCloser
}

// Creates a new `LazyWriteCloser`. An initialization function is passed and is
// called once when the `LazyWriteCloser` is written to.
func NewLazyWriteCloser(init func() (io.WriteCloser, error)) *LazyWriteCloser {
	return &LazyWriteCloser{init: init, writer: nil}
}

// OpenOutput returns stdout for "-", otherwise a file at path that is only
// created (and truncated) once something is written, so a run that fails
// before producing output leaves an existing file alone.
func OpenOutput(path string) io.WriteCloser {
	if path == StdoutName {
		return nopCloser{os.Stdout}
	}
	return NewLazyWriteCloser(func() (io.WriteCloser, error) {
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	})
}

func (f *LazyWriteCloser) Write(p []byte) (int, error) {
	if f.writer == nil {
		var err error
		f.writer, err = f.init()
		if err != nil {
			return 0, err
		}
	}

	return f.writer.Write(p)
}

func (f *LazyWriteCloser) Close() error {
	if f.writer != nil {
		return f.writer.Close()
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
