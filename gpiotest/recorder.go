// Package gpiotest provides a recording fake of a probe line.
package gpiotest

import (
	"github.com/stianeikeland/go-rpio-probe"
)

// Operations recorded by a Recorder.
const (
	OpOutput  = "output"
	OpHigh    = "high"
	OpLow     = "low"
	OpRelease = "release"
)

// Recorder records every call made to it, in order. Callers may interleave
// their own markers with Mark to check ordering against the line calls.
type Recorder struct {
	Ops []string

	// Fail, if set, makes the named operation return the error.
	Fail map[string]error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Output() error {
	return r.record(OpOutput)
}

func (r *Recorder) Write(state rpio.State) error {
	if state == rpio.High {
		return r.record(OpHigh)
	}
	return r.record(OpLow)
}

func (r *Recorder) Release() error {
	return r.record(OpRelease)
}

// Mark appends a caller defined entry.
func (r *Recorder) Mark(s string) {
	r.Ops = append(r.Ops, s)
}

// Writes returns the recorded level writes only.
func (r *Recorder) Writes() []string {
	var w []string
	for _, op := range r.Ops {
		if op == OpHigh || op == OpLow {
			w = append(w, op)
		}
	}
	return w
}

func (r *Recorder) record(op string) error {
	if err := r.Fail[op]; err != nil {
		return err
	}
	r.Ops = append(r.Ops, op)
	return nil
}
