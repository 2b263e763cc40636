package cdev

import (
	"errors"
	"strings"
)

// Consumer is the label the kernel reports for lines requested by a probe.
const Consumer = "gpioprobe"

// ErrUnsupportedChip is returned when the chip is not a Raspberry Pi header
// GPIO controller, so its offsets do not map to BCM pin numbers.
var ErrUnsupportedChip = errors.New("cdev: gpio chip is not a raspberry pi header controller")

// Labels of the pinctrl drivers whose line offsets are BCM pin numbers.
var supportedLabels = []string{
	"pinctrl-bcm2835", // Pi 1 - 3, Zero
	"pinctrl-bcm2711", // Pi 4, 400, CM4
	"pinctrl-bcm2712", // Pi 5 SoC side
	"pinctrl-rp1",     // Pi 5 header
}

// SupportedLabel reports whether a chip label belongs to a Raspberry Pi
// header controller.
func SupportedLabel(label string) bool {
	label = strings.TrimSpace(label)
	for _, l := range supportedLabels {
		if label == l {
			return true
		}
	}
	return false
}
