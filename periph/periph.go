// Package periph drives a probe line through the periph.io host drivers,
// covering boards the other drivers do not know about.
package periph

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/stianeikeland/go-rpio-probe"
)

// ErrPinNotFound is returned when the host has no pin with the requested number.
var ErrPinNotFound = errors.New("periph: pin not found")

// Line is a single GPIO pin resolved through the periph.io registry.
type Line struct {
	pin gpio.PinIO
}

// Open initializes the periph.io host drivers and resolves GPIO<pin>.
func Open(pin rpio.Pin) (*Line, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}
	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	return &Line{pin: p}, nil
}

// Output drives the pin low, which also switches it to output.
func (l *Line) Output() error {
	if err := l.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("periph: output %s: %w", l.pin.Name(), err)
	}
	return nil
}

func (l *Line) Write(state rpio.State) error {
	if err := l.pin.Out(level(state)); err != nil {
		return fmt.Errorf("periph: set %s %s: %w", l.pin.Name(), state, err)
	}
	return nil
}

// Release puts the pin back in input mode.
func (l *Line) Release() error {
	if err := l.pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("periph: release %s: %w", l.pin.Name(), err)
	}
	return nil
}

func level(state rpio.State) gpio.Level {
	if state == rpio.High {
		return gpio.High
	}
	return gpio.Low
}
