// Package typeface loads variable fonts, discovers their axis layout and
// shapes Hebrew text for rendering.
package typeface

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"sync"

	gofont "github.com/go-text/typesetting/font"
	"github.com/tdewolff/font"
)

// ///////////////////////////////////////////////
// Font Loading
// ///////////////////////////////////////////////

// Font is a loaded font file with its discovered variation axes. Axis
// discovery runs once per distinct file; faces derived from the same Font
// share the parsed axis layout.
type Font struct {
	path string
	data []byte // raw SFNT bytes, WOFF2 already unwrapped
	axes []Axis
}

var (
	fontMu    sync.Mutex
	fontCache = map[string]*Font{}
)

// Load reads a font file, converting WOFF2 containers to raw SFNT, and
// discovers its variation axes. Results are cached per path.
func Load(path string) (*Font, error) {
	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontCache[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w: %v", path, ErrAssetMissing, err)
	}
	data, err = maybeConvertWOFF2(data)
	if err != nil {
		return nil, fmt.Errorf("convert font %s: %w", path, err)
	}
	axes, err := parseAxes(data)
	if err != nil {
		return nil, fmt.Errorf("discover axes of %s: %w", path, err)
	}
	// Parse once up front so a corrupt file fails at load time, not at
	// first shaping call.
	if _, err := gofont.ParseTTF(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}

	f := &Font{path: path, data: data, axes: axes}
	fontCache[path] = f
	return f, nil
}

// maybeConvertWOFF2 unwraps a WOFF2 container into raw SFNT bytes. Data
// that is not WOFF2 passes through unchanged.
func maybeConvertWOFF2(data []byte) ([]byte, error) {
	if len(data) < 4 || string(data[:4]) != "wOF2" {
		return data, nil
	}
	sfnt, err := font.ToSFNT(data)
	if err != nil {
		return nil, fmt.Errorf("convert woff2 to sfnt: %w", err)
	}
	return sfnt, nil
}

// Path returns the file the font was loaded from.
func (f *Font) Path() string { return f.path }

// Axes returns the discovered variation axes in fvar order. Empty for
// non-variable fonts.
func (f *Font) Axes() []Axis {
	out := make([]Axis, len(f.axes))
	copy(out, f.axes)
	return out
}

// Variable reports whether the font registers any variation axes.
func (f *Font) Variable() bool { return len(f.axes) > 0 }

// ///////////////////////////////////////////////
// Axis Application
// ///////////////////////////////////////////////

// Variations resolves semantic axis requests against the discovered axes
// and returns them as font variations ordered by fvar axis index. A request
// naming an axis the font does not register fails with
// [ErrUnsupportedAxis]; a value outside the registered range is rejected.
func (f *Font) Variations(reqs []Request) ([]gofont.Variation, error) {
	type slot struct {
		axis Axis
		val  float64
	}
	slots := make([]slot, 0, len(reqs))
	for _, req := range reqs {
		tag := resolveTag(req.Name)
		axis, ok := f.axisByTag(tag)
		if !ok {
			return nil, fmt.Errorf("%w: %q (%s) in %s", ErrUnsupportedAxis, req.Name, tag, f.path)
		}
		if req.Value < axis.Min || req.Value > axis.Max {
			return nil, fmt.Errorf("axis %s value %g outside [%g, %g] in %s",
				tag, req.Value, axis.Min, axis.Max, f.path)
		}
		slots = append(slots, slot{axis: axis, val: req.Value})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].axis.Index < slots[j].axis.Index })

	vars := make([]gofont.Variation, len(slots))
	for i, s := range slots {
		vars[i] = gofont.Variation{Tag: tagValue(s.axis.Tag), Value: float32(s.val)}
	}
	return vars, nil
}

// NewFace builds a fresh face with the given axis requests applied. Each
// face carries its own axis coordinates, so distinct text roles can hold
// different weights of the same font file concurrently.
func (f *Font) NewFace(reqs ...Request) (*gofont.Face, error) {
	vars, err := f.Variations(reqs)
	if err != nil {
		return nil, err
	}
	face, err := gofont.ParseTTF(bytes.NewReader(f.data))
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", f.path, err)
	}
	if len(vars) > 0 {
		face.SetVariations(vars)
	}
	return face, nil
}

func (f *Font) axisByTag(tag string) (Axis, bool) {
	for _, a := range f.axes {
		if a.Tag == tag {
			return a, true
		}
	}
	return Axis{}, false
}

// tagValue packs a four-character tag string into its OpenType numeric form.
func tagValue(tag string) gofont.Tag {
	b := []byte(tag)
	for len(b) < 4 {
		b = append(b, ' ')
	}
	return gofont.Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}
