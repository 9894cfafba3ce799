// render.go implements PNG asset rendering for the gen-assets tool.
// [RenderAsset] produces a square PNG image with a short centered label
// drawn on a solid background, sized according to [IconStyle].

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// RenderAsset renders a single placeholder asset: a centered label on a
// colored background. Returns the PNG bytes.
func RenderAsset(style IconStyle, id string, otFont *opentype.Font) ([]byte, error) {
	label := style.Label
	if label == "" {
		label = strings.ToUpper(id[:1])
	}

	bgColor, err := ParseHexColor(style.BgColor)
	if err != nil {
		return nil, fmt.Errorf("parse bg_color: %w", err)
	}
	fgColor, err := ParseHexColor(style.FgColor)
	if err != nil {
		return nil, fmt.Errorf("parse fg_color: %w", err)
	}

	size := style.Size
	fontSize := style.FontSize

	// Create face at the requested size
	face, err := opentype.NewFace(otFont, &opentype.FaceOptions{
		Size:    float64(fontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	// Measure the label bounding box for visual centering.
	// BoundString gives the actual pixel bounds of the rendered glyphs.
	bounds, _ := font.BoundString(face, label)

	labelW := (bounds.Max.X - bounds.Min.X).Ceil()
	labelH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	// Center the label on the canvas
	originX := (size-labelW)/2 - bounds.Min.X.Floor()
	originY := (size-labelH)/2 - bounds.Min.Y.Floor()

	// Create canvas and fill background
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	// Draw the label
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fgColor),
		Face: face,
		Dot:  fixed.P(originX, originY),
	}
	d.DrawString(label)

	// Encode to PNG
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
