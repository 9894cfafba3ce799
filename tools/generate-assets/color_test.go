// color_test.go covers both hex color forms and malformed input.

package main

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.NRGBA
	}{
		{"#FDB813", color.NRGBA{R: 0xFD, G: 0xB8, B: 0x13, A: 255}},
		{"#ffffff", color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 255}},
		{"#000000", color.NRGBA{A: 255}},
		{"1F4E79", color.NRGBA{R: 0x1F, G: 0x4E, B: 0x79, A: 255}}, // no # prefix
		{"#1AF", color.NRGBA{R: 0x11, G: 0xAA, B: 0xFF, A: 255}},   // shorthand
		{"08c", color.NRGBA{G: 0x88, B: 0xCC, A: 255}},
	}

	for _, tt := range tests {
		c, err := ParseHexColor(tt.input)
		if err != nil {
			t.Errorf("ParseHexColor(%q) error: %v", tt.input, err)
			continue
		}
		if c != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.input, c, tt.want)
		}
	}
}

func TestParseHexColorInvalid(t *testing.T) {
	invalid := []string{"#GGGGGG", "#GGG", "", "#", "12345", "#1234567"}
	for _, s := range invalid {
		if _, err := ParseHexColor(s); err == nil {
			t.Errorf("ParseHexColor(%q) expected error, got nil", s)
		}
	}
}
