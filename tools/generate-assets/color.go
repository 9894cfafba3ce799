// color.go parses the hex color notation used in icons.json.

package main

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// ParseHexColor parses a CSS-style hex color ("#RRGGBB" or the "#RGB"
// shorthand, leading "#" optional) into an opaque color.NRGBA.
func ParseHexColor(s string) (color.NRGBA, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) == 3 {
		// Expand shorthand: each digit doubles, #1AF -> #11AAFF.
		var b strings.Builder
		for _, d := range digits {
			b.WriteRune(d)
			b.WriteRune(d)
		}
		digits = b.String()
	}
	if len(digits) != 6 {
		return color.NRGBA{}, fmt.Errorf("hex color %q: want 3 or 6 hex digits", s)
	}
	rgb, err := hex.DecodeString(digits)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("hex color %q: %w", s, err)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
