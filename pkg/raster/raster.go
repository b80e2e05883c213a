// Package raster provides the image primitives used by the atlas pipeline:
// decode, fit-inside resize, and PNG encode. The functions are pure (bytes
// and images in, images and bytes out) so the packing core can be tested
// against synthetic images without touching codecs beyond this package.
package raster

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Decode decodes encoded image bytes into an image.Image.
// Any format registered with image.Decode works; sources are PNG in practice.
func Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data))
}

// FitContain scales img uniformly so its longer dimension becomes size, then
// centers it on a fully transparent size×size canvas. The result always has
// exactly size×size dimensions regardless of the source aspect ratio; a
// non-square source gets transparent bars along its shorter dimension.
func FitContain(img image.Image, size int) *image.NRGBA {
	bounds := img.Bounds()
	var scaled image.Image
	switch {
	case bounds.Dx() >= bounds.Dy():
		scaled = imaging.Resize(img, size, 0, imaging.Lanczos)
	default:
		scaled = imaging.Resize(img, 0, size, imaging.Lanczos)
	}

	canvas := imaging.New(size, size, color.NRGBA{})
	return imaging.PasteCenter(canvas, scaled)
}

// EncodePNG encodes img as lossless PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
