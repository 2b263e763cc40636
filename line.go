package rpio

// Line is a single pin of a mapped GPIO block, owned by one caller.
type Line struct {
	gpio *GPIO
	pin  Pin
}

// Line returns the line for pin. Releasing the line unmaps the block.
func (g *GPIO) Line(pin Pin) *Line {
	return &Line{gpio: g, pin: pin}
}

// Set pin as Output
func (l *Line) Output() error {
	return l.gpio.PinMode(l.pin, Output)
}

// Set pin state (high/low)
func (l *Line) Write(state State) error {
	return l.gpio.WritePin(l.pin, state)
}

// Release puts the pin back in Input mode and unmaps GPIO memory.
func (l *Line) Release() error {
	if err := l.gpio.PinMode(l.pin, Input); err != nil {
		return err
	}
	return l.gpio.Close()
}
