package probe

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/stianeikeland/go-rpio-probe"
	"github.com/stianeikeland/go-rpio-probe/cdev"
	"github.com/stianeikeland/go-rpio-probe/periph"
)

// Chip is the GPIO character device holding the header pins.
const Chip = "gpiochip0"

// ErrNoGPIO is returned when no driver could claim the trigger line.
var ErrNoGPIO = errors.New("no gpio driver could claim the trigger line (missing permissions or unsupported board?)")

// Driver claims a pin through one platform GPIO mechanism.
type Driver struct {
	Name string
	Open func(pin rpio.Pin) (Line, error)
}

// Drivers lists the platform drivers in the order Claim tries them.
func Drivers() []Driver {
	return []Driver{
		{Name: "gpiocdev", Open: openCdev},
		{Name: "rpio", Open: openRpio},
		{Name: "periph", Open: openPeriph},
	}
}

func openCdev(pin rpio.Pin) (Line, error) {
	l, err := cdev.Open(Chip, int(pin))
	if err != nil {
		return nil, err
	}
	return l, nil
}

func openRpio(pin rpio.Pin) (Line, error) {
	g, err := rpio.Open()
	if err != nil {
		return nil, err
	}
	return g.Line(pin), nil
}

func openPeriph(pin rpio.Pin) (Line, error) {
	l, err := periph.Open(pin)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Claim takes pin through the first driver that grants it, sets it as an
// output and drives it LOW. Each driver is tried once.
func Claim(drivers []Driver, pin rpio.Pin, out io.Writer, log *slog.Logger) (*Probe, error) {
	var errs []error
	for _, d := range drivers {
		line, err := claim(d, pin)
		if err != nil {
			log.Debug("gpio driver unavailable", "driver", d.Name, "pin", pin, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
			continue
		}
		log.Info("claimed trigger line", "driver", d.Name, "pin", pin)
		return New(line, out, log), nil
	}
	return nil, fmt.Errorf("%w: %w", ErrNoGPIO, errors.Join(errs...))
}

func claim(d Driver, pin rpio.Pin) (Line, error) {
	line, err := d.Open(pin)
	if err != nil {
		return nil, err
	}
	if err := line.Output(); err != nil {
		line.Release()
		return nil, err
	}
	if err := line.Write(rpio.Low); err != nil {
		line.Release()
		return nil, err
	}
	return line, nil
}
