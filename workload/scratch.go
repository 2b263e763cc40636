package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Scratch is an append-only file used as an I/O latency target. It must be
// removed before the process exits.
type Scratch struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

// CreateScratch opens path for append, creating it if needed.
func CreateScratch(path string) (*Scratch, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return &Scratch{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Path of the scratch file.
func (s *Scratch) Path() string { return s.path }

// Put appends c and flushes it to the file.
func (s *Scratch) Put(c byte) error {
	if err := s.w.WriteByte(c); err != nil {
		return err
	}
	return s.w.Flush()
}

// Close flushes and closes the append handle.
func (s *Scratch) Close() error {
	ferr := s.w.Flush()
	if err := s.f.Close(); err != nil {
		return err
	}
	return ferr
}

// ReopenError reports that the scratch file could not be opened for reading.
type ReopenError struct {
	Err error
}

func (e *ReopenError) Error() string {
	return "Error reopening file for reading: " + e.Err.Error()
}

func (e *ReopenError) Unwrap() error { return e.Err }

// Echo reopens the file for reading and copies it to w byte by byte.
// A failure to open is returned as a *ReopenError.
func (s *Scratch) Echo(w io.Writer) error {
	f, err := os.Open(s.path)
	if err != nil {
		return &ReopenError{Err: err}
	}
	defer f.Close()

	r := bufio.NewReader(f)
	bw := bufio.NewWriter(w)
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", s.path, err)
		}
		if err := bw.WriteByte(c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Remove deletes the scratch file.
func (s *Scratch) Remove() error {
	return os.Remove(s.path)
}
