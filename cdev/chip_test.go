package cdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"pinctrl-bcm2835", true},
		{"pinctrl-bcm2711", true},
		{"pinctrl-bcm2712", true},
		{"pinctrl-rp1", true},
		{"pinctrl-bcm2711\n", true},
		{"raspberrypi-exp-gpio", false},
		{"gpio-mockup-A", false},
		{"INT34C6:00", false},
		{"pinctrl-bcm", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SupportedLabel(tt.label), "%q", tt.label)
	}
}
