// Package render builds the daily forecast image: background gradient,
// header band, per-city rows and the final JPEG encode.
package render

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	// ErrAssetMissing means a required font, icon or logo file could not
	// be loaded. Fatal for the render in progress.
	ErrAssetMissing = errors.New("required asset missing")

	// ErrEncodingFailure means the finished canvas could not be encoded.
	ErrEncodingFailure = errors.New("image encoding failed")
)

// ///////////////////////////////////////////////
// Render Specification
// ///////////////////////////////////////////////

// Role holds the typography settings for one text role on the image.
type Role struct {
	SizePx int
	Weight float64
	Width  float64
}

// Spec is the immutable geometry and styling of one composition. It is
// built once from configuration and never mutated during rendering, so
// renders of distinct dates can share it freely.
type Spec struct {
	Width  int
	Height int

	HeaderHeight   int
	RowHeight      int
	RowPadding     int // left/right margin shared by header and rows
	ElementSpacing int
	LogoHeight     int
	LogoMarginTop  int
	IconSize       int

	FontPath string
	CityFont Role
	TempFont Role
	DateFont Role

	HeaderColor    color.NRGBA
	TextColor      color.NRGBA
	DateColor      color.NRGBA
	SeparatorColor color.NRGBA

	Palettes    []Palette
	JPEGQuality int
}

// DefaultSpec returns the production composition: a 1080x1920 portrait
// story with a 180px white header and 105px city rows.
func DefaultSpec(fontPath string) Spec {
	return Spec{
		Width:  1080,
		Height: 1920,

		HeaderHeight:   180,
		RowHeight:      105,
		RowPadding:     160,
		ElementSpacing: 40,
		LogoHeight:     120,
		LogoMarginTop:  30,
		IconSize:       65,

		FontPath: fontPath,
		CityFont: Role{SizePx: 40, Weight: 600, Width: 100},
		TempFont: Role{SizePx: 35, Weight: 500, Width: 100},
		DateFont: Role{SizePx: 50, Weight: 400, Width: 100},

		HeaderColor:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		TextColor:      color.NRGBA{A: 255},
		DateColor:      color.NRGBA{R: 100, G: 100, B: 100, A: 255},
		SeparatorColor: color.NRGBA{R: 255, G: 255, B: 255, A: 50},

		Palettes:    DefaultPalettes(),
		JPEGQuality: 95,
	}
}

// Validate checks the spec for geometry that cannot compose.
func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("canvas %dx%d invalid", s.Width, s.Height)
	}
	if s.HeaderHeight <= 0 || s.HeaderHeight >= s.Height {
		return fmt.Errorf("header height %d outside canvas", s.HeaderHeight)
	}
	if s.RowHeight <= 0 {
		return fmt.Errorf("row height %d invalid", s.RowHeight)
	}
	if s.RowPadding < 0 || 2*s.RowPadding >= s.Width {
		return fmt.Errorf("row padding %d leaves no content width", s.RowPadding)
	}
	if s.IconSize <= 0 || s.IconSize > s.RowHeight {
		return fmt.Errorf("icon size %d does not fit row height %d", s.IconSize, s.RowHeight)
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d outside [1, 100]", s.JPEGQuality)
	}
	if len(s.Palettes) == 0 {
		return fmt.Errorf("no gradient palettes configured")
	}
	for _, p := range s.Palettes {
		if len(p.Stops) < 2 {
			return fmt.Errorf("palette %q has %d stops, need at least 2", p.Name, len(p.Stops))
		}
	}
	if s.FontPath == "" {
		return fmt.Errorf("font path not set")
	}
	return nil
}
