package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// solid builds a w×h image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

var red = color.NRGBA{R: 255, A: 255}

func TestFitContainDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		size int
	}{
		{"square", 40, 40, 26},
		{"very wide", 100, 50, 26},
		{"very tall", 10, 90, 26},
		{"smaller than canvas", 8, 8, 52},
		{"one pixel", 1, 1, 26},
		{"high density", 100, 50, 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitContain(solid(tt.w, tt.h, red), tt.size)
			b := got.Bounds()
			if b.Dx() != tt.size || b.Dy() != tt.size {
				t.Errorf("FitContain dims = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.size, tt.size)
			}
		})
	}
}

func TestFitContainPadsWithTransparency(t *testing.T) {
	// 100×50 source scales to 26×13; the top and bottom bands must stay
	// fully transparent and the middle must hold the source color.
	got := FitContain(solid(100, 50, red), 26)

	if _, _, _, a := got.At(13, 0).RGBA(); a != 0 {
		t.Error("top padding should be fully transparent")
	}
	if _, _, _, a := got.At(13, 25).RGBA(); a != 0 {
		t.Error("bottom padding should be fully transparent")
	}
	if r, _, _, a := got.At(13, 13).RGBA(); a == 0 || r == 0 {
		t.Error("image center should hold the scaled source pixels")
	}
}

func TestFitContainCentersNarrowSource(t *testing.T) {
	got := FitContain(solid(10, 90, red), 26)

	// 10×90 scales to 3×26 (rounded): columns at both edges stay transparent.
	if _, _, _, a := got.At(0, 13).RGBA(); a != 0 {
		t.Error("left padding should be fully transparent")
	}
	if _, _, _, a := got.At(25, 13).RGBA(); a != 0 {
		t.Error("right padding should be fully transparent")
	}
	if _, _, _, a := got.At(13, 13).RGBA(); a == 0 {
		t.Error("center column should hold the scaled source")
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	src := solid(4, 4, red)

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("decoded dims = %dx%d, want 4x4", b.Dx(), b.Dy())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Decode should fail on malformed bytes")
	}
}
