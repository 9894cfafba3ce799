// gen-assets bootstraps a skystory data directory with the variable font
// and placeholder image assets.
//
// Reads the asset list and styling from data/icons.json, downloads the
// variable font from Google Fonts, and renders a labeled placeholder PNG
// for each weather icon plus the logo. Real icon and logo artwork dropped
// into the same paths replaces the placeholders.
//
// Usage:
//
//	cd tools/generate-assets && go run .
//	cd tools/generate-assets && go run . -icons ../../data/icons.json -out ~/.skystory
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font/opentype"
)

func main() {
	// Default paths assume running from tools/generate-assets/
	iconsFile := flag.String("icons", "../../data/icons.json", "Path to icons.json")
	outDir := flag.String("out", defaultDataDir(), "Data directory to populate")
	flag.Parse()

	assetData, err := LoadAssetData(*iconsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load icons: %v\n", err)
		os.Exit(1)
	}
	if len(assetData.Icons) == 0 {
		fmt.Fprintln(os.Stderr, "error: no icons defined in icons.json")
		os.Exit(1)
	}

	fontsDir := filepath.Join(*outDir, "fonts")
	iconsDir := filepath.Join(*outDir, "assets", "weather_icons")
	logosDir := filepath.Join(*outDir, "assets", "logos")
	for _, d := range []string{fontsDir, iconsDir, logosDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error: create %s: %v\n", d, err)
			os.Exit(1)
		}
	}

	// Download the variable font and install it where the renderer looks.
	fmt.Printf("font: %s\n", assetData.Font)
	fontBytes, err := FetchFont(assetData.Font, filepath.Join(fontsDir, ".cache"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: fetch font: %v\n", err)
		os.Exit(1)
	}
	fontPath := filepath.Join(fontsDir, assetData.FontFile)
	if err := os.WriteFile(fontPath, fontBytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: write %s: %v\n", fontPath, err)
		os.Exit(1)
	}
	fmt.Printf("  installed %s\n", fontPath)

	otFont, err := opentype.Parse(fontBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: parse font: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for id := range assetData.Icons {
		pngData, err := RenderAsset(assetData.ResolvedIcon(id), id, otFont)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: render %s: %v\n", id, err)
			os.Exit(1)
		}
		outPath := filepath.Join(iconsDir, id+".png")
		if err := os.WriteFile(outPath, pngData, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "error: write %s: %v\n", outPath, err)
			os.Exit(1)
		}
		fmt.Printf("  %s.png\n", id)
		total++
	}

	logoData, err := RenderAsset(assetData.ResolvedLogo(), "logo", otFont)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: render logo: %v\n", err)
		os.Exit(1)
	}
	logoPath := filepath.Join(logosDir, "ims_logo.png")
	if err := os.WriteFile(logoPath, logoData, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: write %s: %v\n", logoPath, err)
		os.Exit(1)
	}
	total++

	fmt.Printf("Done. Generated %d assets in %s.\n", total, *outDir)
}

// defaultDataDir mirrors the skystory command's default data directory.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".skystory")
	}
	return filepath.Join(home, ".skystory")
}
