//go:build !linux

package cdev

import (
	"errors"

	"github.com/stianeikeland/go-rpio-probe"
)

var errUnsupported = errors.New("cdev: gpio character device requires linux")

// Line is unavailable off linux.
type Line struct{}

func Open(chip string, offset int) (*Line, error) {
	return nil, errUnsupported
}

func (l *Line) Output() error                { return errUnsupported }
func (l *Line) Write(state rpio.State) error { return errUnsupported }
func (l *Line) Release() error               { return errUnsupported }
