package texture

import (
	"image"

	"golang.org/x/image/draw"

	"goray/pkg/geometry"
	"goray/pkg/spectrum"
)

// ImageMap is a texture backed by a decoded raster image, addressed by UV
// with repeat wrapping and nearest-texel lookup (no mipmap filtering,
// matching the teacher's single-resolution texture lookups). Texels are
// stored linear: NewImageMap decodes 8-bit sRGB input itself, and
// NewImageMapLinear takes already-linear data.
type ImageMap struct {
	width, height int
	texels        []spectrum.Spectrum
	scale         float64
}

// NewImageMap builds an ImageMap from a decoded image, downsampling with
// x/image/draw's bilinear scaler to maxDim on the long axis when the source
// exceeds it, so a shading ray's footprint is never sub-texel.
func NewImageMap(img image.Image, maxDim int, scale float64) *ImageMap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		nw, nh := w, h
		if w > h {
			nh = h * maxDim / w
			nw = maxDim
		} else {
			nw = w * maxDim / h
			nh = maxDim
		}
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
		w, h = nw, nh
		b = dst.Bounds()
	}

	texels := make([]spectrum.Spectrum, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bch, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			texels[y*w+x] = spectrum.New(
				spectrum.FromSRGB8(uint8(r>>8)),
				spectrum.FromSRGB8(uint8(g>>8)),
				spectrum.FromSRGB8(uint8(bch>>8)),
			)
		}
	}
	return &ImageMap{width: w, height: h, texels: texels, scale: scale}
}

// NewImageMapLinear builds an ImageMap directly from already-linear texel
// data (an OpenEXR load, where no sRGB inverse-gamma step applies), bypassing
// NewImageMap's PNG-oriented sRGB decode.
func NewImageMapLinear(width, height int, texels []spectrum.Spectrum, scale float64) *ImageMap {
	return &ImageMap{width: width, height: height, texels: texels, scale: scale}
}

func (im *ImageMap) Evaluate(uv geometry.Vec2, p geometry.Point3) spectrum.Spectrum {
	u := wrap01(uv.X)
	v := wrap01(uv.Y)
	x := int(u * float64(im.width))
	y := int((1 - v) * float64(im.height))
	x = clampInt(x, 0, im.width-1)
	y = clampInt(y, 0, im.height-1)
	return im.texels[y*im.width+x].Scale(im.scale)
}

func wrap01(v float64) float64 {
	v -= float64(int(v))
	if v < 0 {
		v += 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
