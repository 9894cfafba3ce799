package render

import "fmt"

// ///////////////////////////////////////////////
// Layout Engine
// ///////////////////////////////////////////////

// Row is the computed geometry of one city row. The temperature label has
// no fixed X here: it is centered at draw time in the zone between
// TempZoneLeft and the measured left edge of the city name.
type Row struct {
	Y       int // top edge
	CenterY int
	IconX   int
	IconY   int

	TempZoneLeft int
	NameRightX   int

	// SeparatorY is the Y of the line drawn above this row, -1 for the
	// first row which has none.
	SeparatorY int
}

// Layout is the full geometry of one composition for a fixed row count.
type Layout struct {
	TopPad    int
	BottomPad int
	Rows      []Row

	LogoX int
	LogoY int

	// DateRightX is the right alignment edge for the header date text;
	// vertical centering happens at draw time against the shaped metrics.
	DateRightX    int
	HeaderCenterY int
}

// Compute lays out n rows under the header. The vertical leftover after
// header and rows splits into equal top and bottom padding, with the
// bottom edge absorbing an odd remainder so the total always sums to the
// canvas height exactly.
func Compute(spec Spec, n int) (Layout, error) {
	if n < 1 {
		return Layout{}, fmt.Errorf("row count %d invalid", n)
	}
	leftover := spec.Height - spec.HeaderHeight - n*spec.RowHeight
	if leftover < 0 {
		return Layout{}, fmt.Errorf("%d rows of %dpx overflow canvas height %d",
			n, spec.RowHeight, spec.Height)
	}
	top := leftover / 2
	bottom := leftover - top

	l := Layout{
		TopPad:    top,
		BottomPad: bottom,
		Rows:      make([]Row, n),

		LogoX:         spec.RowPadding,
		LogoY:         spec.LogoMarginTop,
		DateRightX:    spec.Width - spec.RowPadding,
		HeaderCenterY: spec.HeaderHeight / 2,
	}

	contentTop := spec.HeaderHeight + top
	for i := range l.Rows {
		y := contentTop + i*spec.RowHeight
		centerY := y + spec.RowHeight/2
		r := Row{
			Y:            y,
			CenterY:      centerY,
			IconX:        spec.RowPadding,
			IconY:        centerY - spec.IconSize/2,
			TempZoneLeft: spec.RowPadding + spec.IconSize + spec.ElementSpacing,
			NameRightX:   spec.Width - spec.RowPadding,
			SeparatorY:   y,
		}
		if i == 0 {
			r.SeparatorY = -1
		}
		l.Rows[i] = r
	}
	return l, nil
}

// TotalHeight re-derives the canvas height from the layout parts. Always
// equals spec.Height for a layout produced by Compute.
func (l Layout) TotalHeight(spec Spec) int {
	return spec.HeaderHeight + len(l.Rows)*spec.RowHeight + l.TopPad + l.BottomPad
}
