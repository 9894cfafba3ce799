package typeface

import (
	"strings"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// ///////////////////////////////////////////////
// Shaping Strategies
// ///////////////////////////////////////////////

// Strategy turns a logical-order string into positioned glyphs. Two
// implementations exist: one hands right-to-left runs to the shaping engine
// directly, the other reorders the text to visual order first and shapes it
// left to right. Both produce visually identical output for plain Hebrew
// and digits; the pre-shaped path exists as a fallback for environments
// where engine-level RTL cannot be trusted.
type Strategy interface {
	Name() string
	Shape(face *gofont.Face, text string, size fixed.Int26_6, rtl bool) shaping.Output
}

// nativeStrategy lets the shaping engine handle bidirectional layout.
type nativeStrategy struct {
	shaper shaping.HarfbuzzShaper
}

func (s *nativeStrategy) Name() string { return "native" }

func (s *nativeStrategy) Shape(face *gofont.Face, text string, size fixed.Int26_6, rtl bool) shaping.Output {
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	return s.shaper.Shape(shapingInput(face, text, size, dir))
}

// preShapedStrategy reorders text to visual order with the Unicode bidi
// algorithm and reverses right-to-left runs itself, then shapes the result
// as plain left-to-right text.
type preShapedStrategy struct {
	shaper shaping.HarfbuzzShaper
}

func (s *preShapedStrategy) Name() string { return "preshaped" }

func (s *preShapedStrategy) Shape(face *gofont.Face, text string, size fixed.Int26_6, rtl bool) shaping.Output {
	if rtl {
		text = VisualOrder(text)
	}
	return s.shaper.Shape(shapingInput(face, text, size, di.DirectionLTR))
}

func shapingInput(face *gofont.Face, text string, size fixed.Int26_6, dir di.Direction) shaping.Input {
	runes := []rune(text)
	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Face:      face,
		Size:      size,
		Direction: dir,
		Language:  language.NewLanguage("he"),
	}
	if len(runes) > 0 {
		in.Script = language.LookupScript(runes[0])
	}
	return in
}

// VisualOrder resolves a logical-order string to visual order: runs are
// arranged per the Unicode bidi algorithm and right-to-left runs are
// reversed rune by rune. Digits and Latin fragments embedded in Hebrew text
// keep their internal left-to-right order.
func VisualOrder(text string) string {
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return text
	}
	order, err := p.Order()
	if err != nil || order.NumRuns() == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		if run.Direction() == bidi.RightToLeft {
			b.WriteString(bidi.ReverseString(run.String()))
		} else {
			b.WriteString(run.String())
		}
	}
	return b.String()
}

// ///////////////////////////////////////////////
// Strategy Selection
// ///////////////////////////////////////////////

// SelectStrategy binds a shaping strategy by name. "native" and
// "preshaped" force one path; "auto" probes the engine with a short Hebrew
// sample against the given face and picks native when the engine reverses
// it correctly. The probe face may be nil, which forces the pre-shaped
// path in auto mode.
func SelectStrategy(mode string, probe *gofont.Face) Strategy {
	switch mode {
	case "native":
		return &nativeStrategy{}
	case "preshaped":
		return &preShapedStrategy{}
	}
	if probe != nil && probeNativeRTL(probe) {
		return &nativeStrategy{}
	}
	return &preShapedStrategy{}
}

// probeNativeRTL checks that engine-level RTL actually reverses glyph
// order: the same two-letter sample is shaped in both directions and the
// results must be mirror images.
func probeNativeRTL(face *gofont.Face) bool {
	const sample = "אב"
	size := fixed.I(16)
	var shaper shaping.HarfbuzzShaper
	ltr := shaper.Shape(shapingInput(face, sample, size, di.DirectionLTR))
	rtl := shaper.Shape(shapingInput(face, sample, size, di.DirectionRTL))
	n := len(rtl.Glyphs)
	if n < 2 || n != len(ltr.Glyphs) {
		return false
	}
	for i := range n {
		if rtl.Glyphs[i].GlyphID != ltr.Glyphs[n-1-i].GlyphID {
			return false
		}
	}
	return true
}
