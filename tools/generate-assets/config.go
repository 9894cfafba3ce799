// config.go defines asset configuration types and JSON loading for the
// gen-assets tool. [AssetData] is the top-level structure deserialized from
// data/icons.json; [IconStyle] holds per-icon visual styling fields.

package main

import (
	"encoding/json"
	"os"
)

// IconStyle holds the visual styling for a single placeholder asset.
type IconStyle struct {
	// Label is the text drawn on the asset. Defaults to the capitalized
	// first letter of the icon id.
	Label string `json:"label,omitempty"`
	// BgColor is the background hex color (e.g. "#FDB813").
	BgColor string `json:"bg_color,omitempty"`
	// FgColor is the foreground (label) hex color (e.g. "#FFFFFF").
	FgColor string `json:"fg_color,omitempty"`
	// Size is the square image dimension in pixels.
	Size int `json:"size,omitempty"`
	// FontSize is the font size in points at 72 DPI.
	FontSize int `json:"font_size,omitempty"`
}

// AssetData holds the asset configuration read from data/icons.json.
type AssetData struct {
	// Font is the Google Fonts spec for the variable font the renderer
	// downloads, e.g. "google:Open Sans:wdth,wght@75..100,300..800".
	Font string `json:"font"`
	// FontFile is the file name the downloaded font is stored under in the
	// data directory's fonts folder.
	FontFile string `json:"font_file"`
	// Defaults provides base styling inherited by all icons.
	Defaults IconStyle `json:"defaults"`
	// Icons maps icon ids (e.g. "sunny") to their styling overrides.
	Icons map[string]IconStyle `json:"icons"`
	// Logo styles the placeholder logo asset.
	Logo IconStyle `json:"logo"`
}

// ResolvedIcon returns the effective style for an icon with the defaults
// applied under any per-icon overrides.
func (d *AssetData) ResolvedIcon(id string) IconStyle {
	style := d.Defaults
	if s, ok := d.Icons[id]; ok {
		mergeStyle(&style, s)
	}
	return style
}

// ResolvedLogo returns the effective logo style.
func (d *AssetData) ResolvedLogo() IconStyle {
	style := d.Defaults
	mergeStyle(&style, d.Logo)
	return style
}

// mergeStyle applies non-zero fields from src onto dst.
func mergeStyle(dst *IconStyle, src IconStyle) {
	if src.Label != "" {
		dst.Label = src.Label
	}
	if src.BgColor != "" {
		dst.BgColor = src.BgColor
	}
	if src.FgColor != "" {
		dst.FgColor = src.FgColor
	}
	if src.Size != 0 {
		dst.Size = src.Size
	}
	if src.FontSize != 0 {
		dst.FontSize = src.FontSize
	}
}

// LoadAssetData reads and parses an icons.json file.
func LoadAssetData(path string) (*AssetData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ad AssetData
	if err := json.Unmarshal(data, &ad); err != nil {
		return nil, err
	}
	return &ad, nil
}
