// Package film implements the spectral pixel grid and tiled accumulation
// of spec.md §4.12: Film owns the full-resolution buffer; FilmTile
// accumulates samples independently per tile so worker goroutines never
// contend on the shared buffer except during the brief final merge.
package film

import (
	"image"
	"image/color"
	"sync"

	"goray/pkg/spectrum"
)

const TileSize = 16

type pixel struct {
	sum   spectrum.Spectrum
	count int
}

// Film is the full-resolution accumulation buffer, safe for concurrent
// MergeTile calls from multiple worker goroutines.
type Film struct {
	Width, Height int

	mu     sync.Mutex
	pixels []pixel
}

func NewFilm(width, height int) *Film {
	return &Film{Width: width, Height: height, pixels: make([]pixel, width*height)}
}

// Tile is a half-open pixel rectangle [MinX,MaxX) x [MinY,MaxY).
type Tile struct {
	MinX, MinY, MaxX, MaxY int
}

// GenTiles yields disjoint TileSize x TileSize rectangles covering the
// film, clipped at the border, per spec.md §4.12.
func (f *Film) GenTiles() []Tile {
	var tiles []Tile
	for y := 0; y < f.Height; y += TileSize {
		for x := 0; x < f.Width; x += TileSize {
			maxX := x + TileSize
			if maxX > f.Width {
				maxX = f.Width
			}
			maxY := y + TileSize
			if maxY > f.Height {
				maxY = f.Height
			}
			tiles = append(tiles, Tile{MinX: x, MinY: y, MaxX: maxX, MaxY: maxY})
		}
	}
	return tiles
}

// FilmTile accumulates samples for one Tile in a private grid, so a
// worker never touches the shared Film buffer until MergeTile.
type FilmTile struct {
	Bounds Tile
	pixels []pixel
}

func (f *Film) NewFilmTile(t Tile) *FilmTile {
	w := t.MaxX - t.MinX
	h := t.MaxY - t.MinY
	return &FilmTile{Bounds: t, pixels: make([]pixel, w*h)}
}

// AddSample accumulates a radiance sample at pixel (x,y), which must lie
// within the tile's bounds.
func (t *FilmTile) AddSample(x, y int, s spectrum.Spectrum) {
	w := t.Bounds.MaxX - t.Bounds.MinX
	idx := (y-t.Bounds.MinY)*w + (x - t.Bounds.MinX)
	t.pixels[idx].sum = t.pixels[idx].sum.Add(s)
	t.pixels[idx].count++
}

// DiscardSample counts a sample towards the pixel's total without adding
// its (degenerate) radiance, keeping the eventual average's divisor
// consistent with the number of samples actually taken.
func (t *FilmTile) DiscardSample(x, y int) {
	w := t.Bounds.MaxX - t.Bounds.MinX
	idx := (y-t.Bounds.MinY)*w + (x - t.Bounds.MinX)
	t.pixels[idx].count++
}

// MergeTile transfers a tile's accumulated spectra into the shared film,
// the render loop's sole blocking point (spec.md §5).
func (f *Film) MergeTile(t *FilmTile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := t.Bounds.MaxX - t.Bounds.MinX
	for y := t.Bounds.MinY; y < t.Bounds.MaxY; y++ {
		for x := t.Bounds.MinX; x < t.Bounds.MaxX; x++ {
			idx := (y-t.Bounds.MinY)*w + (x - t.Bounds.MinX)
			fidx := y*f.Width + x
			f.pixels[fidx].sum = f.pixels[fidx].sum.Add(t.pixels[idx].sum)
			f.pixels[fidx].count += t.pixels[idx].count
		}
	}
}

// ToImage applies gamma correction and writes an 8-bit RGB image, per
// spec.md §4.12's writeout contract.
func (f *Film) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.pixels[y*f.Width+x]
			var c spectrum.Spectrum
			if p.count > 0 {
				c = p.sum.DivScalar(float64(p.count))
			}
			img.Set(x, y, color.RGBA{
				R: spectrum.ToSRGB8(c.R),
				G: spectrum.ToSRGB8(c.G),
				B: spectrum.ToSRGB8(c.B),
				A: 255,
			})
		}
	}
	return img
}
