//go:build linux

// Package cdev drives a probe line through the Linux GPIO character device.
package cdev

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/stianeikeland/go-rpio-probe"
)

// request is the part of a gpiocdev line request a probe line uses.
type request interface {
	SetValue(value int) error
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	Close() error
}

// Line is a single output line requested from a GPIO chip.
type Line struct {
	chip   string
	offset int
	l      request
}

// Open requests offset on chip (e.g. "gpiochip0") as an output driven low.
// The chip must be a Raspberry Pi header controller.
func Open(chip string, offset int) (*Line, error) {
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("cdev: open %s: %w", chip, err)
	}
	defer c.Close()

	if !SupportedLabel(c.Label) {
		return nil, fmt.Errorf("%w: %s is %q", ErrUnsupportedChip, chip, c.Label)
	}

	l, err := c.RequestLine(offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("cdev: request %s:%d: %w", chip, offset, err)
	}
	return &Line{chip: chip, offset: offset, l: l}, nil
}

// Output reconfigures the line as an output driven low.
func (l *Line) Output() error {
	if err := l.l.Reconfigure(gpiocdev.AsOutput(0)); err != nil {
		return fmt.Errorf("cdev: output %s:%d: %w", l.chip, l.offset, err)
	}
	return nil
}

func (l *Line) Write(state rpio.State) error {
	v := 0
	if state == rpio.High {
		v = 1
	}
	if err := l.l.SetValue(v); err != nil {
		return fmt.Errorf("cdev: set %s:%d %s: %w", l.chip, l.offset, state, err)
	}
	return nil
}

// Release reverts the line to input and returns it to the kernel. The
// request is closed even if the revert fails; a close failure takes
// precedence in the returned error.
func (l *Line) Release() error {
	rerr := l.l.Reconfigure(gpiocdev.AsInput)
	if err := l.l.Close(); err != nil {
		return fmt.Errorf("cdev: close %s:%d: %w", l.chip, l.offset, err)
	}
	if rerr != nil {
		return fmt.Errorf("cdev: revert %s:%d to input: %w", l.chip, l.offset, rerr)
	}
	return nil
}
