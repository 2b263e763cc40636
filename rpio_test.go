package rpio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGPIO() (*GPIO, []uint32) {
	mem := make([]uint32, memLength/4)
	return newGPIO(mem), mem
}

func TestPinMode(t *testing.T) {
	g, mem := newTestGPIO()

	// Pin 18 lives in fsel register 1 at bit 24
	mem[1] = 0xffffffff
	require.NoError(t, g.PinMode(18, Output))
	assert.Equal(t, uint32(0xffffffff&^(7<<24)|1<<24), mem[1])

	require.NoError(t, g.PinMode(18, Input))
	assert.Equal(t, uint32(0xffffffff&^(7<<24)), mem[1])
	assert.Equal(t, uint32(0), mem[0], "other banks untouched")
}

func TestWritePin(t *testing.T) {
	tests := []struct {
		pin   Pin
		state State
		reg   int
		bit   uint32
	}{
		{18, High, 7, 1 << 18},
		{18, Low, 10, 1 << 18},
		{40, High, 8, 1 << 8},
		{40, Low, 11, 1 << 8},
	}
	for _, tt := range tests {
		g, mem := newTestGPIO()
		require.NoError(t, g.WritePin(tt.pin, tt.state))
		assert.Equal(t, tt.bit, mem[tt.reg], "pin %d %s", tt.pin, tt.state)
	}
}

func TestReadPin(t *testing.T) {
	g, mem := newTestGPIO()

	state, err := g.ReadPin(18)
	require.NoError(t, err)
	assert.Equal(t, Low, state)

	mem[13] = 1 << 18
	state, err = g.ReadPin(18)
	require.NoError(t, err)
	assert.Equal(t, High, state)
}

func TestClosed(t *testing.T) {
	g, _ := newTestGPIO()
	require.NoError(t, g.Close())
	require.NoError(t, g.Close())

	assert.ErrorIs(t, g.PinMode(18, Output), ErrClosed)
	assert.ErrorIs(t, g.WritePin(18, High), ErrClosed)
	_, err := g.ReadPin(18)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLine(t *testing.T) {
	g, mem := newTestGPIO()
	line := g.Line(18)

	require.NoError(t, line.Output())
	assert.Equal(t, uint32(1<<24), mem[1])

	require.NoError(t, line.Write(High))
	assert.Equal(t, uint32(1<<18), mem[7])

	require.NoError(t, line.Release())
	assert.Equal(t, uint32(0), mem[1], "released pin is back in input mode")
	assert.ErrorIs(t, line.Write(Low), ErrClosed)
}

func TestParseRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []byte
		base   int64
		ok     bool
	}{
		{
			name:   "pi3",
			ranges: []byte{0x7e, 0, 0, 0, 0x3f, 0, 0, 0, 0x01, 0, 0, 0},
			base:   0x3f000000,
			ok:     true,
		},
		{
			name:   "pi4",
			ranges: []byte{0x7e, 0, 0, 0, 0, 0, 0, 0, 0xfe, 0, 0, 0, 0x01, 0x80, 0, 0},
			base:   0xfe000000,
			ok:     true,
		},
		{name: "short", ranges: []byte{0x7e, 0, 0}},
		{name: "zero", ranges: make([]byte, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ok := parseRanges(tt.ranges)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.base, base)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "high", High.String())
	assert.Equal(t, "low", Low.String())
}
