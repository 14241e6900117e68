// Package imageio loads and saves the raster formats spec.md §6 names:
// PNG (8-bit sRGB, via the stdlib image/png decoder and encoder) and a
// minimal uncompressed-scanline OpenEXR reader
// for linear float input, following the teacher's loader idiom of a
// hand-rolled reader for formats no library in the retrieval pack covers.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// LoadPNG decodes an 8-bit PNG texture file for use by texture.NewImageMap,
// which applies the sRGB-to-linear conversion itself.
func LoadPNG(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", filename, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", filename, err)
	}
	return img, nil
}

// SavePNG writes an already gamma-encoded 8-bit image (as produced by
// film.Film.ToImage, which applies spectrum.ToSRGB8 per channel) to
// filename as PNG, without changing its pixel values.
func SavePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", filename, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("imageio: encode %s: %w", filename, err)
	}
	return f.Close()
}
