// config_test.go tests asset configuration loading and style inheritance.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvedIconInheritsDefaults(t *testing.T) {
	ad := AssetData{
		Defaults: IconStyle{FgColor: "#FFFFFF", Size: 128, FontSize: 84},
		Icons: map[string]IconStyle{
			"sunny":   {BgColor: "#FDB813"},
			"special": {BgColor: "#112233", Size: 64},
		},
	}

	got := ad.ResolvedIcon("sunny")
	if got.BgColor != "#FDB813" || got.FgColor != "#FFFFFF" || got.Size != 128 {
		t.Errorf("sunny style = %+v, want defaults with bg override", got)
	}

	got = ad.ResolvedIcon("special")
	if got.Size != 64 {
		t.Errorf("special size = %d, want per-icon override 64", got.Size)
	}

	got = ad.ResolvedIcon("unknown")
	if got != ad.Defaults {
		t.Errorf("unknown icon style = %+v, want bare defaults", got)
	}
}

func TestResolvedLogoOverridesLabel(t *testing.T) {
	ad := AssetData{
		Defaults: IconStyle{FgColor: "#FFFFFF", Size: 128, FontSize: 84},
		Logo:     IconStyle{Label: "IMS", BgColor: "#1F4E79", Size: 240},
	}

	got := ad.ResolvedLogo()
	if got.Label != "IMS" || got.Size != 240 || got.FgColor != "#FFFFFF" {
		t.Errorf("logo style = %+v", got)
	}
}

func TestLoadAssetData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.json")
	content := `{
		"font": "google:Open Sans:wght@300..800",
		"font_file": "OpenSans-Variable.ttf",
		"defaults": {"fg_color": "#FFFFFF", "size": 128, "font_size": 84},
		"icons": {"sunny": {"bg_color": "#FDB813"}},
		"logo": {"label": "IMS", "bg_color": "#1F4E79"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ad, err := LoadAssetData(path)
	if err != nil {
		t.Fatalf("LoadAssetData: %v", err)
	}
	if ad.FontFile != "OpenSans-Variable.ttf" {
		t.Errorf("font_file = %q", ad.FontFile)
	}
	if len(ad.Icons) != 1 {
		t.Errorf("icons = %d, want 1", len(ad.Icons))
	}
}

func TestLoadAssetDataMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAssetData(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestParseFontSpec(t *testing.T) {
	family, axes, ok := ParseFontSpec("google:Open Sans:wdth,wght@75..100,300..800")
	if !ok || family != "Open Sans" || axes != "wdth,wght@75..100,300..800" {
		t.Errorf("ParseFontSpec = %q, %q, %v", family, axes, ok)
	}

	for _, bad := range []string{"Open Sans", "google:OpenSans", "local:x:y"} {
		if _, _, ok := ParseFontSpec(bad); ok {
			t.Errorf("ParseFontSpec(%q) accepted invalid spec", bad)
		}
	}
}
