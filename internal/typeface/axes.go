package typeface

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnsupportedAxis means a requested semantic axis is not registered in
// the font's fvar table. Fatal at font-load time.
var ErrUnsupportedAxis = errors.New("variable axis not supported by font")

// ErrAssetMissing means a required font or image asset could not be read.
// The pipeline never writes a partial image over a missing asset.
var ErrAssetMissing = errors.New("required asset missing")

// ///////////////////////////////////////////////
// Axis Model
// ///////////////////////////////////////////////

// Axis is one registered variation axis of a font, in the order the font's
// fvar table declares it. Axis order differs between font families (Open
// Sans registers wdth before wght, Fredoka the opposite), so the order is
// always discovered, never assumed.
type Axis struct {
	// Tag is the four-character OpenType axis tag, e.g. "wght".
	Tag string
	// Index is the axis position within the fvar table.
	Index int
	// Min, Default and Max bound the axis value range.
	Min     float64
	Default float64
	Max     float64
}

// Request asks for a semantic axis to be set to a value. Semantic names
// ("weight", "width") are resolved against registered tags so configuration
// stays readable.
type Request struct {
	Name  string
	Value float64
}

// semanticTags maps the semantic axis names accepted in configuration to
// their registered OpenType tags.
var semanticTags = map[string]string{
	"weight":       "wght",
	"width":        "wdth",
	"slant":        "slnt",
	"italic":       "ital",
	"optical-size": "opsz",
}

// resolveTag turns a semantic name or literal four-character tag into an
// OpenType tag string.
func resolveTag(name string) string {
	if tag, ok := semanticTags[name]; ok {
		return tag
	}
	return name
}

// ///////////////////////////////////////////////
// fvar Parsing
// ///////////////////////////////////////////////

// sfnt magic values accepted in the table directory header.
var sfntVersions = map[uint32]bool{
	0x00010000: true, // TrueType
	0x4F54544F: true, // "OTTO", CFF outlines
	0x74727565: true, // "true", legacy Apple
}

// parseAxes reads the fvar table out of raw SFNT font data and returns the
// registered axes in table order. Fonts without an fvar table return an
// empty slice; they are simply not variable.
func parseAxes(data []byte) ([]Axis, error) {
	fvar, err := findTable(data, "fvar")
	if err != nil {
		return nil, err
	}
	if fvar == nil {
		return nil, nil
	}
	if len(fvar) < 16 {
		return nil, fmt.Errorf("fvar table truncated: %d bytes", len(fvar))
	}

	axesOffset := binary.BigEndian.Uint16(fvar[4:6])
	axisCount := int(binary.BigEndian.Uint16(fvar[8:10]))
	axisSize := int(binary.BigEndian.Uint16(fvar[10:12]))
	if axisSize < 20 {
		return nil, fmt.Errorf("fvar axis record size %d too small", axisSize)
	}
	need := int(axesOffset) + axisCount*axisSize
	if need > len(fvar) {
		return nil, fmt.Errorf("fvar table truncated: need %d bytes, have %d", need, len(fvar))
	}

	axes := make([]Axis, 0, axisCount)
	for i := range axisCount {
		rec := fvar[int(axesOffset)+i*axisSize:]
		axes = append(axes, Axis{
			Tag:     string(rec[0:4]),
			Index:   i,
			Min:     fixed16dot16(rec[4:8]),
			Default: fixed16dot16(rec[8:12]),
			Max:     fixed16dot16(rec[12:16]),
		})
	}
	return axes, nil
}

// findTable locates a table in the SFNT directory. Returns nil without an
// error when the table is absent.
func findTable(data []byte, tag string) ([]byte, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("font data too short for sfnt header")
	}
	version := binary.BigEndian.Uint32(data[0:4])
	if !sfntVersions[version] {
		return nil, fmt.Errorf("unrecognized sfnt version 0x%08X", version)
	}
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if 12+numTables*16 > len(data) {
		return nil, fmt.Errorf("sfnt table directory truncated")
	}

	for i := range numTables {
		rec := data[12+i*16:]
		if string(rec[0:4]) != tag {
			continue
		}
		offset := binary.BigEndian.Uint32(rec[8:12])
		length := binary.BigEndian.Uint32(rec[12:16])
		end := uint64(offset) + uint64(length)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("table %q extends past end of font", tag)
		}
		return data[offset:end], nil
	}
	return nil, nil
}

// fixed16dot16 decodes an OpenType 16.16 fixed-point value.
func fixed16dot16(b []byte) float64 {
	return float64(int32(binary.BigEndian.Uint32(b[0:4]))) / 65536.0
}
