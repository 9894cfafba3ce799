package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/fogleman/gg"
	gofont "github.com/go-text/typesetting/font"

	"skystory/internal/atomicfile"
	"skystory/internal/forecast"
	"skystory/internal/typeface"
)

// ///////////////////////////////////////////////
// Image Assembler
// ///////////////////////////////////////////////

// Assembler composes forecast sets into finished images. Faces, icons and
// the logo load once at construction; a missing asset fails here, before
// any render starts.
type Assembler struct {
	log     *slog.Logger
	spec    Spec
	painter *typeface.Painter
	icons   *IconSet
	logo    image.Image

	cityFace *gofont.Face
	tempFace *gofont.Face
	dateFace *gofont.Face
}

// NewAssembler wires the composition pipeline. The font must be loaded
// already; each text role gets its own face with that role's axis values
// applied.
func NewAssembler(log *slog.Logger, spec Spec, painter *typeface.Painter, fnt *typeface.Font, icons *IconSet, logoPath string) (*Assembler, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("render spec: %w", err)
	}

	a := &Assembler{
		log:     log,
		spec:    spec,
		painter: painter,
		icons:   icons,
	}

	var err error
	if a.cityFace, err = roleFace(fnt, spec.CityFont); err != nil {
		return nil, fmt.Errorf("city face: %w", err)
	}
	if a.tempFace, err = roleFace(fnt, spec.TempFont); err != nil {
		return nil, fmt.Errorf("temperature face: %w", err)
	}
	if a.dateFace, err = roleFace(fnt, spec.DateFont); err != nil {
		return nil, fmt.Errorf("date face: %w", err)
	}

	if a.logo, err = loadLogo(logoPath, spec.LogoHeight); err != nil {
		return nil, err
	}
	if err := icons.Preload(); err != nil {
		return nil, err
	}
	return a, nil
}

func roleFace(fnt *typeface.Font, role Role) (*gofont.Face, error) {
	var reqs []typeface.Request
	if role.Weight != 0 {
		reqs = append(reqs, typeface.Request{Name: "weight", Value: role.Weight})
	}
	if role.Width != 0 {
		reqs = append(reqs, typeface.Request{Name: "width", Value: role.Width})
	}
	return fnt.NewFace(reqs...)
}

// Render composes one image for a sorted forecast set. The random source
// picks the gradient palette; pass a date-seeded source for reproducible
// daily output or a free one for variety.
func (a *Assembler) Render(set forecast.Set, rng *rand.Rand) (image.Image, error) {
	layout, err := Compute(a.spec, len(set.Records))
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(a.spec.Width, a.spec.Height)
	canvas, ok := dc.Image().(draw.Image)
	if !ok {
		return nil, fmt.Errorf("canvas is not drawable")
	}

	pal := PickPalette(a.spec.Palettes, rng)
	DrawBackground(dc, a.spec, pal)
	a.log.Debug("background painted", "palette", pal.Name)

	a.drawHeader(dc, canvas, layout, set.EffectiveDate)

	for i, rec := range set.Records {
		if err := a.drawRow(dc, canvas, layout.Rows[i], rec); err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+1, rec.NameEng, err)
		}
	}

	a.log.Info("image composed",
		"date", set.EffectiveDate,
		"cities", len(set.Records),
		"palette", pal.Name)
	return dc.Image(), nil
}

func (a *Assembler) drawHeader(dc *gg.Context, canvas draw.Image, layout Layout, date string) {
	dc.DrawImage(a.logo, layout.LogoX, layout.LogoY)

	text := headerDate(date)
	m := a.painter.Measure(a.dateFace, text, a.spec.DateFont.SizePx, false)
	baseline := layout.HeaderCenterY + (m.Ascent-m.Descent)/2
	a.painter.Draw(canvas, a.dateFace, text, a.spec.DateFont.SizePx,
		a.spec.DateColor, layout.DateRightX-m.Width, baseline, false)
}

func (a *Assembler) drawRow(dc *gg.Context, canvas draw.Image, row Row, rec forecast.Record) error {
	if row.SeparatorY >= 0 {
		dc.SetColor(a.spec.SeparatorColor)
		dc.SetLineWidth(2)
		dc.DrawLine(float64(a.spec.RowPadding), float64(row.SeparatorY),
			float64(a.spec.Width-a.spec.RowPadding), float64(row.SeparatorY))
		dc.Stroke()
	}

	icon, err := a.icons.ForCode(rec.WeatherCode)
	if err != nil {
		return err
	}
	dc.DrawImage(icon, row.IconX, row.IconY)

	// City name, right aligned against the shared padding edge.
	name := rec.NameHeb
	nm := a.painter.Measure(a.cityFace, name, a.spec.CityFont.SizePx, true)
	nameLeft := row.NameRightX - nm.Width
	nameBaseline := row.CenterY + (nm.Ascent-nm.Descent)/2
	a.painter.Draw(canvas, a.cityFace, name, a.spec.CityFont.SizePx,
		a.spec.TextColor, nameLeft, nameBaseline, true)

	// Temperature, centered in the zone between icon and name.
	temp := rec.TempRange()
	tm := a.painter.Measure(a.tempFace, temp, a.spec.TempFont.SizePx, false)
	tempX := (row.TempZoneLeft + nameLeft - tm.Width) / 2
	if tempX < row.TempZoneLeft {
		tempX = row.TempZoneLeft
	}
	tempBaseline := row.CenterY + (tm.Ascent-tm.Descent)/2
	a.painter.Draw(canvas, a.tempFace, temp, a.spec.TempFont.SizePx,
		a.spec.TextColor, tempX, tempBaseline, false)
	return nil
}

// headerDate reformats an ISO date as DD/MM/YYYY for the header band.
// Unparseable input passes through unchanged.
func headerDate(date string) string {
	t, err := time.Parse(forecast.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// ///////////////////////////////////////////////
// Encoding
// ///////////////////////////////////////////////

// Encode writes the finished canvas as a JPEG at the configured quality.
func (a *Assembler) Encode(img image.Image, w io.Writer) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: a.spec.JPEGQuality}); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	return nil
}

// Save encodes the image to path via a temp file and rename, so a failed
// encode never leaves a partial image behind.
func (a *Assembler) Save(img image.Image, path string) error {
	return atomicfile.WriteFrom(path, func(w io.Writer) error {
		return a.Encode(img, w)
	}, 0o644)
}
