// Package probe brackets synthetic workloads with edges on a GPIO line so an
// oscilloscope or logic analyzer can time them.
//
// A probe owns exactly one line for its whole life. HIGH is written strictly
// before the work starts and LOW strictly after it ends; the final counters
// are printed to the output as "i j k count".
package probe

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/stianeikeland/go-rpio-probe"
	"github.com/stianeikeland/go-rpio-probe/workload"
)

const (
	// TriggerPin is the BCM number of the trigger line (physical pin 12).
	TriggerPin rpio.Pin = 18

	// ScratchFile is created in the working directory by the I/O probe.
	ScratchFile = "output.txt"

	// BurstDelay separates the two pulse bursts of the multi-trigger probe.
	BurstDelay = 50 * time.Microsecond
)

// Line is a claimed GPIO output line.
type Line interface {
	Output() error
	Write(state rpio.State) error
	Release() error
}

// Probe drives a trigger line around workloads and reports their counters.
type Probe struct {
	line  Line
	out   io.Writer
	log   *slog.Logger
	count int64
}

// New returns a probe for a line that is already configured as an output.
func New(line Line, out io.Writer, log *slog.Logger) *Probe {
	return &Probe{line: line, out: out, log: log}
}

// High marks the start of work.
func (p *Probe) High() error {
	return p.write(rpio.High)
}

// Low marks the end of work.
func (p *Probe) Low() error {
	return p.write(rpio.Low)
}

func (p *Probe) write(state rpio.State) error {
	if err := p.line.Write(state); err != nil {
		return fmt.Errorf("drive trigger %s: %w", state, err)
	}
	return nil
}

// Bracket drives the line HIGH, runs work, then drives it LOW.
// The line is left HIGH if work fails.
func (p *Probe) Bracket(work func() error) error {
	if err := p.High(); err != nil {
		return err
	}
	if err := work(); err != nil {
		return err
	}
	return p.Low()
}

// Burst emits the LOW HIGH LOW HIGH LOW pulse signature.
func (p *Probe) Burst() error {
	for _, s := range [...]rpio.State{rpio.Low, rpio.High, rpio.Low, rpio.High, rpio.Low} {
		if err := p.write(s); err != nil {
			return err
		}
	}
	return nil
}

// Report prints the counters and the number of previous reports.
func (p *Probe) Report(c workload.Counters) error {
	_, err := fmt.Fprintf(p.out, "%d %d %d %d\n", c.I, c.J, c.K, p.count)
	p.count++
	return err
}

// Release returns the line to the platform.
func (p *Probe) Release() error {
	return p.line.Release()
}

// Close releases the line, logging instead of returning a failure.
func (p *Probe) Close() {
	if err := p.Release(); err != nil {
		p.log.Warn("release trigger line", "error", err)
	}
}
