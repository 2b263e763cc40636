//go:build linux

package cdev

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocdev"

	"github.com/stianeikeland/go-rpio-probe"
)

type fakeRequest struct {
	values      []int
	reconfigs   int
	closed      bool
	setErr      error
	reconfigErr error
	closeErr    error
}

func (f *fakeRequest) SetValue(v int) error {
	f.values = append(f.values, v)
	return f.setErr
}

func (f *fakeRequest) Reconfigure(options ...gpiocdev.LineConfigOption) error {
	f.reconfigs++
	return f.reconfigErr
}

func (f *fakeRequest) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWrite(t *testing.T) {
	f := &fakeRequest{}
	l := &Line{chip: "gpiochip0", offset: 18, l: f}

	require.NoError(t, l.Write(rpio.High))
	require.NoError(t, l.Write(rpio.Low))
	assert.Equal(t, []int{1, 0}, f.values)

	f.setErr = errors.New("busy")
	err := l.Write(rpio.High)
	assert.ErrorIs(t, err, f.setErr)
	assert.Contains(t, err.Error(), "gpiochip0:18")
}

func TestOutput(t *testing.T) {
	f := &fakeRequest{reconfigErr: errors.New("einval")}
	l := &Line{chip: "gpiochip0", offset: 18, l: f}

	assert.ErrorIs(t, l.Output(), f.reconfigErr)
	assert.Equal(t, 1, f.reconfigs)
}

func TestRelease(t *testing.T) {
	revertErr := errors.New("revert failed")
	closeErr := errors.New("close failed")

	tests := []struct {
		name        string
		reconfigErr error
		closeErr    error
		want        error
		msg         string
	}{
		{name: "ok"},
		{name: "revert", reconfigErr: revertErr, want: revertErr, msg: "revert gpiochip0:18 to input"},
		{name: "close", closeErr: closeErr, want: closeErr, msg: "close gpiochip0:18"},
		{name: "both", reconfigErr: revertErr, closeErr: closeErr, want: closeErr, msg: "close gpiochip0:18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequest{reconfigErr: tt.reconfigErr, closeErr: tt.closeErr}
			l := &Line{chip: "gpiochip0", offset: 18, l: f}

			err := l.Release()
			assert.True(t, f.closed, "request must be closed")
			assert.Equal(t, 1, f.reconfigs)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
