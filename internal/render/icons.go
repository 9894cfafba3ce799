package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"skystory/internal/forecast"
)

// ///////////////////////////////////////////////
// Icon Compositor
// ///////////////////////////////////////////////

// IconSet resolves weather codes to pre-scaled icon images. Icons decode
// and resize once per asset id; repeated codes in one composition hit the
// cache.
type IconSet struct {
	dir     string
	mapping forecast.CodeMapping
	size    int
	cache   map[string]image.Image
}

// NewIconSet builds an icon set over a directory of alpha-channel PNGs
// named <icon-id>.png.
func NewIconSet(dir string, mapping forecast.CodeMapping, size int) *IconSet {
	return &IconSet{
		dir:     dir,
		mapping: mapping,
		size:    size,
		cache:   make(map[string]image.Image),
	}
}

// ForCode loads the icon for a weather code, falling back to the default
// icon for unmapped codes. The image comes back Lanczos-resized to the
// configured icon size.
func (s *IconSet) ForCode(code int) (image.Image, error) {
	return s.load(s.mapping.Icon(code))
}

func (s *IconSet) load(id string) (image.Image, error) {
	if img, ok := s.cache[id]; ok {
		return img, nil
	}
	path := filepath.Join(s.dir, id+".png")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("icon %s: %w: %v", id, ErrAssetMissing, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("icon %s: decode: %w", id, err)
	}
	img = imaging.Resize(img, s.size, s.size, imaging.Lanczos)
	s.cache[id] = img
	return img, nil
}

// Preload resolves and loads every mapped icon plus the fallback, so a
// missing asset fails the run before any pixel is drawn.
func (s *IconSet) Preload() error {
	if _, err := s.load(s.mapping.Fallback()); err != nil {
		return err
	}
	for _, code := range s.mapping.Codes() {
		if _, err := s.load(s.mapping.Icon(code)); err != nil {
			return err
		}
	}
	return nil
}

// loadLogo reads the header logo and scales it to the given height,
// preserving aspect ratio.
func loadLogo(path string, height int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("logo: %w: %v", ErrAssetMissing, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("logo %s: decode: %w", path, err)
	}
	return imaging.Resize(img, 0, height, imaging.Lanczos), nil
}
