/*

Package rpio provides GPIO output on the Raspberry Pi without any need
for external c libraries (ex: WiringPI or BCM2835), and the level and pin
types shared by the probe drivers.

Supports the operations a timing probe needs:
- Pin mode/direction (input/output)
- Pin write (high/low)
- Pin read (high/low)

Example of use:

	gpio, err := rpio.Open()
	if err != nil {
		return err
	}
	defer gpio.Close()

	line := gpio.Line(18)
	line.Output()
	line.Write(rpio.High)

The library use the raw BCM2835 pinouts, not the ports as they are mapped
on the output pins for the raspberry pi. GPIO 18 is physical pin 12.

See the datasheet for full details of the BCM2835 controller:
http://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf

*/

package rpio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

type Direction uint8
type Pin uint8
type State uint8

// Memory offsets for gpio, see the datasheet for more details
const (
	bcm2835Base = 0x20000000
	pi1GPIOBase = bcm2835Base + 0x200000
	gpioOffset  = 0x200000
	memLength   = 4096

	pinMask uint32 = 7 // 0b111 - pinmode is 3 bits
)

// Pin direction, a pin can be set in Input or Output mode
const (
	Input Direction = iota
	Output
)

// State of pin, High / Low
const (
	Low State = iota
	High
)

var (
	// ErrClosed is returned by operations on a GPIO block that has been unmapped.
	ErrClosed = errors.New("rpio: gpio memory not mapped")

	// ErrNotPi is returned by Open on machines that cannot be a Raspberry Pi.
	ErrNotPi = errors.New("rpio: not an arm machine, refusing to map /dev/mem")
)

func (s State) String() string {
	if s == High {
		return "high"
	}
	return "low"
}

// GPIO is a mapped GPIO register block. The zero value is closed.
type GPIO struct {
	mu   sync.Mutex
	mem  []uint32
	mem8 []byte
}

// newGPIO wraps an already mapped register block.
func newGPIO(mem []uint32) *GPIO {
	return &GPIO{mem: mem}
}

// PinMode sets the direction of a given pin (Input or Output)
func (g *GPIO) PinMode(pin Pin, direction Direction) error {
	// Pin fsel register, 0 - 5 depending on bank
	fsel := uint8(pin) / 10
	shift := (uint8(pin) % 10) * 3

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mem == nil {
		return ErrClosed
	}

	if direction == Input {
		g.mem[fsel] = g.mem[fsel] &^ (pinMask << shift)
	} else {
		g.mem[fsel] = (g.mem[fsel] &^ (pinMask << shift)) | (1 << shift)
	}
	return nil
}

// WritePin sets a given pin High or Low
// by setting the clear or set registers respectively
func (g *GPIO) WritePin(pin Pin, state State) error {
	p := uint8(pin)

	// Clear register, 10 / 11 depending on bank
	// Set register, 7 / 8 depending on bank
	clearReg := p/32 + 10
	setReg := p/32 + 7

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mem == nil {
		return ErrClosed
	}

	if state == Low {
		g.mem[clearReg] = 1 << (p & 31)
	} else {
		g.mem[setReg] = 1 << (p & 31)
	}
	return nil
}

// ReadPin reads the level of a pin
func (g *GPIO) ReadPin(pin Pin) (State, error) {
	// Input level register offset (13 / 14 depending on bank)
	levelReg := uint8(pin)/32 + 13

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mem == nil {
		return Low, ErrClosed
	}

	if (g.mem[levelReg] & (1 << (uint8(pin) & 31))) != 0 {
		return High, nil
	}
	return Low, nil
}

// Open and memory map GPIO memory range from /dev/gpiomem, falling back
// to /dev/mem at the SoC peripheral base.
func Open() (*GPIO, error) {
	var base int64

	if runtime.GOARCH != "arm" && runtime.GOARCH != "arm64" {
		return nil, ErrNotPi
	}

	// Open fd for rw mem access; try gpiomem first
	file, err := os.OpenFile("/dev/gpiomem", os.O_RDWR|os.O_SYNC, 0)
	if os.IsNotExist(err) {
		file, err = os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
		base = gpioBase()
	}
	if err != nil {
		return nil, fmt.Errorf("rpio: open gpio memory: %w", err)
	}

	// FD can be closed after memory mapping
	defer file.Close()

	mem8, err := unix.Mmap(
		int(file.Fd()),
		base,
		memLength,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("rpio: mmap gpio registers: %w", err)
	}

	// View the mapped bytes as 32 bit registers
	mem := unsafe.Slice((*uint32)(unsafe.Pointer(&mem8[0])), len(mem8)/4)

	return &GPIO{mem: mem, mem8: mem8}, nil
}

// Close unmaps GPIO memory. Closing twice is a no-op.
func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	mem8 := g.mem8
	g.mem, g.mem8 = nil, nil
	if mem8 == nil {
		return nil
	}
	return unix.Munmap(mem8)
}

// Read /proc/device-tree/soc/ranges and determine the base address.
// Use the default Raspberry Pi 1 base address if this fails.
func gpioBase() int64 {
	ranges, err := os.ReadFile("/proc/device-tree/soc/ranges")
	if err != nil {
		return pi1GPIOBase
	}
	base, ok := parseRanges(ranges)
	if !ok {
		return pi1GPIOBase
	}
	return base + gpioOffset
}

// parseRanges returns the CPU physical address of the peripheral window.
// The Pi 1 - 3 use a two cell layout (child, parent, size); the Pi 4 uses a
// 64 bit parent address, in which case the cell at offset 4 is zero.
func parseRanges(ranges []byte) (int64, bool) {
	if len(ranges) < 8 {
		return 0, false
	}
	if base := binary.BigEndian.Uint32(ranges[4:8]); base != 0 {
		return int64(base), true
	}
	if len(ranges) < 12 {
		return 0, false
	}
	base := binary.BigEndian.Uint32(ranges[8:12])
	return int64(base), base != 0
}
