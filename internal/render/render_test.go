package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/gofont/goregular"

	"skystory/internal/forecast"
	"skystory/internal/typeface"
)

func testSpec() Spec {
	return DefaultSpec("fonts/OpenSans-Variable.ttf")
}

// ///////////////////////////////////////////////
// Layout Engine
// ///////////////////////////////////////////////

func TestLayoutInvariantHolds(t *testing.T) {
	spec := testSpec()
	for n := 1; n <= 16; n++ {
		l, err := Compute(spec, n)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got := l.TotalHeight(spec); got != spec.Height {
			t.Errorf("n=%d: header+rows+padding = %d, want %d", n, got, spec.Height)
		}
		if l.TopPad < 0 || l.BottomPad < 0 {
			t.Errorf("n=%d: negative padding top=%d bottom=%d", n, l.TopPad, l.BottomPad)
		}
		if diff := l.BottomPad - l.TopPad; diff < 0 || diff > 1 {
			t.Errorf("n=%d: padding split top=%d bottom=%d", n, l.TopPad, l.BottomPad)
		}
	}
}

func TestLayoutOddRemainderGoesToBottom(t *testing.T) {
	spec := testSpec()
	spec.Height = 1921 // leftover becomes odd
	l, err := Compute(spec, 15)
	if err != nil {
		t.Fatal(err)
	}
	if l.BottomPad != l.TopPad+1 {
		t.Errorf("top=%d bottom=%d, want bottom = top+1", l.TopPad, l.BottomPad)
	}
	if got := l.TotalHeight(spec); got != spec.Height {
		t.Errorf("total = %d, want %d", got, spec.Height)
	}
}

func TestLayoutRejectsOverflow(t *testing.T) {
	spec := testSpec()
	if _, err := Compute(spec, 100); err == nil {
		t.Error("expected error for 100 rows")
	}
	if _, err := Compute(spec, 0); err == nil {
		t.Error("expected error for zero rows")
	}
}

func TestLayoutRowGeometry(t *testing.T) {
	spec := testSpec()
	l, err := Compute(spec, 15)
	if err != nil {
		t.Fatal(err)
	}
	first := l.Rows[0]
	if first.SeparatorY != -1 {
		t.Errorf("first row has separator at %d", first.SeparatorY)
	}
	if first.IconX != spec.RowPadding {
		t.Errorf("icon x = %d, want %d", first.IconX, spec.RowPadding)
	}
	if first.NameRightX != spec.Width-spec.RowPadding {
		t.Errorf("name right edge = %d, want %d", first.NameRightX, spec.Width-spec.RowPadding)
	}
	for i := 1; i < len(l.Rows); i++ {
		if l.Rows[i].SeparatorY != l.Rows[i].Y {
			t.Errorf("row %d separator at %d, want top edge %d", i, l.Rows[i].SeparatorY, l.Rows[i].Y)
		}
		if l.Rows[i].Y-l.Rows[i-1].Y != spec.RowHeight {
			t.Errorf("row %d pitch = %d, want %d", i, l.Rows[i].Y-l.Rows[i-1].Y, spec.RowHeight)
		}
	}
	// Header anchors share the row padding boundary.
	if l.LogoX != spec.RowPadding || l.DateRightX != spec.Width-spec.RowPadding {
		t.Errorf("header anchors logo=%d dateRight=%d do not align with rows", l.LogoX, l.DateRightX)
	}
}

// ///////////////////////////////////////////////
// Spec Validation
// ///////////////////////////////////////////////

func TestSpecValidate(t *testing.T) {
	if err := testSpec().Validate(); err != nil {
		t.Fatalf("default spec invalid: %v", err)
	}

	break1 := func(f func(*Spec)) Spec {
		s := testSpec()
		f(&s)
		return s
	}
	cases := map[string]Spec{
		"zero width":       break1(func(s *Spec) { s.Width = 0 }),
		"header too tall":  break1(func(s *Spec) { s.HeaderHeight = 2000 }),
		"zero row height":  break1(func(s *Spec) { s.RowHeight = 0 }),
		"padding too wide": break1(func(s *Spec) { s.RowPadding = 600 }),
		"icon overflow":    break1(func(s *Spec) { s.IconSize = 500 }),
		"bad quality":      break1(func(s *Spec) { s.JPEGQuality = 0 }),
		"no palettes":      break1(func(s *Spec) { s.Palettes = nil }),
		"one-stop palette": break1(func(s *Spec) { s.Palettes = []Palette{{Name: "x", Stops: []color.NRGBA{{}}}} }),
		"no font":          break1(func(s *Spec) { s.FontPath = "" }),
	}
	for name, spec := range cases {
		if err := spec.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestDefaultPalettesHaveStops(t *testing.T) {
	for _, p := range DefaultPalettes() {
		if len(p.Stops) < 2 {
			t.Errorf("palette %q has %d stops", p.Name, len(p.Stops))
		}
	}
}

// ///////////////////////////////////////////////
// Gradient
// ///////////////////////////////////////////////

func TestSeedForDate(t *testing.T) {
	if got := SeedForDate("2026-08-30"); got != 20260830 {
		t.Errorf("SeedForDate = %d, want 20260830", got)
	}
	// Non-ISO input still yields a stable seed.
	a, b := SeedForDate("garbage"), SeedForDate("garbage")
	if a != b {
		t.Error("seed for same input differs")
	}
	if a < 0 {
		t.Errorf("seed negative: %d", a)
	}
}

func TestPickPaletteDeterministicPerSeed(t *testing.T) {
	palettes := DefaultPalettes()
	seed := SeedForDate("2026-08-30")
	first := PickPalette(palettes, rand.New(rand.NewSource(seed)))
	second := PickPalette(palettes, rand.New(rand.NewSource(seed)))
	if first.Name != second.Name {
		t.Errorf("same seed picked %q then %q", first.Name, second.Name)
	}
}

func TestDrawBackgroundDeterministic(t *testing.T) {
	spec := testSpec()
	spec.Width, spec.Height, spec.HeaderHeight = 60, 120, 20

	renderOnce := func() []byte {
		dc := gg.NewContext(spec.Width, spec.Height)
		pal := PickPalette(spec.Palettes, rand.New(rand.NewSource(42)))
		DrawBackground(dc, spec, pal)
		img := dc.Image().(*image.RGBA)
		out := make([]byte, len(img.Pix))
		copy(out, img.Pix)
		return out
	}

	if !bytes.Equal(renderOnce(), renderOnce()) {
		t.Error("fixed seed produced different background bytes")
	}
}

func TestDrawBackgroundHeaderIsSolid(t *testing.T) {
	spec := testSpec()
	spec.Width, spec.Height, spec.HeaderHeight = 40, 80, 20

	dc := gg.NewContext(spec.Width, spec.Height)
	DrawBackground(dc, spec, spec.Palettes[0])
	img := dc.Image().(*image.RGBA)

	r, g, b, _ := img.At(10, 10).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("header pixel = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
	// Just below the header the first gradient stop shows through.
	r, _, _, _ = img.At(10, spec.HeaderHeight).RGBA()
	if r>>8 == 255 {
		t.Error("gradient region is white at its top stop")
	}
}

// ///////////////////////////////////////////////
// Icons
// ///////////////////////////////////////////////

func writeTestPNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func testMapping(t *testing.T) forecast.CodeMapping {
	t.Helper()
	m, err := forecast.NewCodeMapping(map[int]string{
		1250: "sunny",
		1220: "partly_cloudy",
	}, "mostly_clear")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestIconSetResolvesAndResizes(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "sunny.png"), color.NRGBA{R: 255, G: 200, A: 255})
	writeTestPNG(t, filepath.Join(dir, "partly_cloudy.png"), color.NRGBA{R: 180, G: 180, B: 180, A: 255})
	writeTestPNG(t, filepath.Join(dir, "mostly_clear.png"), color.NRGBA{B: 255, A: 255})

	set := NewIconSet(dir, testMapping(t), 65)
	if err := set.Preload(); err != nil {
		t.Fatalf("Preload: %v", err)
	}

	icon, err := set.ForCode(1250)
	if err != nil {
		t.Fatalf("ForCode(1250): %v", err)
	}
	bounds := icon.Bounds()
	if bounds.Dx() != 65 || bounds.Dy() != 65 {
		t.Errorf("icon size = %dx%d, want 65x65", bounds.Dx(), bounds.Dy())
	}
}

func TestIconSetFallsBackForUnmappedCode(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "sunny.png"), color.NRGBA{A: 255})
	writeTestPNG(t, filepath.Join(dir, "partly_cloudy.png"), color.NRGBA{A: 255})
	writeTestPNG(t, filepath.Join(dir, "mostly_clear.png"), color.NRGBA{B: 255, A: 255})

	set := NewIconSet(dir, testMapping(t), 32)
	if _, err := set.ForCode(9999); err != nil {
		t.Fatalf("unmapped code should fall back, got %v", err)
	}
}

func TestIconSetMissingAsset(t *testing.T) {
	set := NewIconSet(t.TempDir(), testMapping(t), 32)
	_, err := set.ForCode(1250)
	if !errors.Is(err, ErrAssetMissing) {
		t.Errorf("err = %v, want ErrAssetMissing", err)
	}
}

// ///////////////////////////////////////////////
// Header Date
// ///////////////////////////////////////////////

func TestHeaderDate(t *testing.T) {
	if got := headerDate("2026-08-30"); got != "30/08/2026" {
		t.Errorf("headerDate = %q, want 30/08/2026", got)
	}
	if got := headerDate("not-a-date"); got != "not-a-date" {
		t.Errorf("headerDate passthrough = %q", got)
	}
}

// ///////////////////////////////////////////////
// Full Composition
// ///////////////////////////////////////////////

// testAssembler wires a complete assembler over throwaway assets: a real
// parseable font on disk, solid-color icon and logo PNGs, and the shaping
// stack the production path uses. The font fixture is static, so the
// role requests stay at their zero values.
func testAssembler(t *testing.T) *Assembler {
	t.Helper()

	dir := t.TempDir()
	fontPath := filepath.Join(dir, "test.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(dir, "sunny.png"), color.NRGBA{R: 255, G: 200, A: 255})
	writeTestPNG(t, filepath.Join(dir, "partly_cloudy.png"), color.NRGBA{R: 180, G: 180, B: 180, A: 255})
	writeTestPNG(t, filepath.Join(dir, "mostly_clear.png"), color.NRGBA{B: 255, A: 255})
	logoPath := filepath.Join(dir, "logo.png")
	writeTestPNG(t, logoPath, color.NRGBA{R: 31, G: 78, B: 121, A: 255})

	fnt, err := typeface.Load(fontPath)
	if err != nil {
		t.Fatalf("load font: %v", err)
	}
	painter := typeface.NewPainter(typeface.SelectStrategy("preshaped", nil))

	spec := testSpec()
	spec.FontPath = fontPath
	spec.CityFont = Role{SizePx: 40}
	spec.TempFont = Role{SizePx: 35}
	spec.DateFont = Role{SizePx: 50}

	icons := NewIconSet(dir, testMapping(t), spec.IconSize)
	a, err := NewAssembler(slog.New(slog.NewTextHandler(io.Discard, nil)), spec, painter, fnt, icons, logoPath)
	if err != nil {
		t.Fatalf("new assembler: %v", err)
	}
	return a
}

func testSet() forecast.Set {
	return forecast.Set{
		EffectiveDate: "2026-08-30",
		Records: []forecast.Record{
			{CityID: 5, NameEng: "Haifa", NameHeb: "חיפה", Latitude: 32.8, Date: "2026-08-30", MinTemp: 24, MaxTemp: 30, WeatherCode: 1250},
			{CityID: 1, NameEng: "Jerusalem", NameHeb: "ירושלים", Latitude: 31.7, Date: "2026-08-30", MinTemp: 19, MaxTemp: 29, WeatherCode: 1220},
			{CityID: 7, NameEng: "Beer Sheva", NameHeb: "באר שבע", Latitude: 31.2, Date: "2026-08-30", MinTemp: 21, MaxTemp: 34, WeatherCode: 9999},
		},
	}
}

// The same seed must yield byte-identical JPEG output across independent
// render passes: palette pick, gradient, shaping, and encoding all have to
// be free of hidden nondeterminism for re-runs to be reproducible.
func TestRenderSameSeedIsByteIdentical(t *testing.T) {
	a := testAssembler(t)
	set := testSet()

	encode := func(seed int64) []byte {
		img, err := a.Render(set, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		var buf bytes.Buffer
		if err := a.Encode(img, &buf); err != nil {
			t.Fatalf("encode: %v", err)
		}
		return buf.Bytes()
	}

	first := encode(42)
	second := encode(42)
	if !bytes.Equal(first, second) {
		t.Fatalf("same seed produced different bytes: %d vs %d", len(first), len(second))
	}
	if len(first) == 0 {
		t.Fatal("encoded image is empty")
	}
}
