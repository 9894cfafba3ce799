package typeface

import (
	"image/color"
	"image/draw"

	"github.com/go-text/render"
	gofont "github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"
)

// ///////////////////////////////////////////////
// Text Painting
// ///////////////////////////////////////////////

// Metrics describes a shaped line of text in pixels.
type Metrics struct {
	Width   int
	Ascent  int
	Descent int
}

// Height returns the full line height.
func (m Metrics) Height() int { return m.Ascent + m.Descent }

// Painter measures and rasterizes text through one shaping strategy. The
// same painter is reused for every line of a composition so all text on an
// image goes through the same path.
type Painter struct {
	strategy Strategy
}

// NewPainter builds a painter over the given strategy.
func NewPainter(strategy Strategy) *Painter {
	return &Painter{strategy: strategy}
}

// StrategyName returns the name of the bound shaping strategy.
func (p *Painter) StrategyName() string { return p.strategy.Name() }

// Measure shapes text at the given pixel size and reports its advance
// width and line extents without drawing.
func (p *Painter) Measure(face *gofont.Face, text string, sizePx int, rtl bool) Metrics {
	out := p.strategy.Shape(face, text, fixed.I(sizePx), rtl)
	w := out.Advance
	if w < 0 {
		w = -w
	}
	return Metrics{
		Width:   w.Ceil(),
		Ascent:  out.LineBounds.Ascent.Ceil(),
		Descent: (-out.LineBounds.Descent).Ceil(),
	}
}

// Draw shapes and rasterizes text with its left edge at x and baseline at
// y, returning the advance width in pixels.
func (p *Painter) Draw(img draw.Image, face *gofont.Face, text string, sizePx int, col color.Color, x, y int, rtl bool) int {
	out := p.strategy.Shape(face, text, fixed.I(sizePx), rtl)
	r := render.Renderer{
		FontSize: float32(sizePx),
		PixScale: 1,
		Color:    col,
	}
	adv := r.DrawShapedRunAt(out, img, x, y)
	if adv < 0 {
		adv = -adv
	}
	return adv
}

// DrawCentered draws text horizontally centered on centerX with baseline
// at y.
func (p *Painter) DrawCentered(img draw.Image, face *gofont.Face, text string, sizePx int, col color.Color, centerX, y int, rtl bool) int {
	m := p.Measure(face, text, sizePx, rtl)
	return p.Draw(img, face, text, sizePx, col, centerX-m.Width/2, y, rtl)
}
