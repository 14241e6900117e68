package imageio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"goray/pkg/spectrum"
)

// exrChannel describes one channel entry from the "channels" header
// attribute: name and pixel type (0=uint, 1=half, 2=float). The x/y
// sampling rates are neither stored nor checked; every channel is read as
// if both were 1.
type exrChannel struct {
	name      string
	pixelType int32
}

const (
	exrPixelUint  = 0
	exrPixelHalf  = 1
	exrPixelFloat = 2
)

// FloatImage is a decoded linear-float raster, the OpenEXR analogue of
// image.Image for the 8-bit PNG path.
type FloatImage struct {
	Width, Height int
	Texels        []spectrum.Spectrum
}

// LoadEXR reads an uncompressed single-part scanline OpenEXR file with
// half or float R/G/B (or Y) channels, the subset of the format spec.md §6
// requires: "OpenEXR (linear float RGB channels)". Tiled, deep, and
// compressed (anything but NO_COMPRESSION) files are rejected rather than
// silently misread.
func LoadEXR(filename string) (*FloatImage, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", filename, err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	if err := checkEXRMagic(r); err != nil {
		return nil, fmt.Errorf("imageio: %s: %w", filename, err)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("imageio: %s: reading version: %w", filename, err)
	}
	if version&0x200 != 0 || version&0x800 != 0 || version&0x1000 != 0 {
		return nil, fmt.Errorf("imageio: %s: tiled/deep/multi-part EXR not supported", filename)
	}

	attrs, err := readEXRHeader(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: %s: header: %w", filename, err)
	}

	channels, ok := attrs["channels"]
	if !ok {
		return nil, fmt.Errorf("imageio: %s: missing channels attribute", filename)
	}
	chans, err := parseEXRChannelList(channels)
	if err != nil {
		return nil, fmt.Errorf("imageio: %s: channels: %w", filename, err)
	}

	compAttr, ok := attrs["compression"]
	if !ok || len(compAttr) != 1 || compAttr[0] != 0 {
		return nil, fmt.Errorf("imageio: %s: only NO_COMPRESSION scanline EXR is supported", filename)
	}

	dataWindow, ok := attrs["dataWindow"]
	if !ok || len(dataWindow) != 16 {
		return nil, fmt.Errorf("imageio: %s: missing/malformed dataWindow", filename)
	}
	xMin := int32(binary.LittleEndian.Uint32(dataWindow[0:4]))
	yMin := int32(binary.LittleEndian.Uint32(dataWindow[4:8]))
	xMax := int32(binary.LittleEndian.Uint32(dataWindow[8:12]))
	yMax := int32(binary.LittleEndian.Uint32(dataWindow[12:16]))
	width := int(xMax-xMin) + 1
	height := int(yMax-yMin) + 1
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imageio: %s: empty dataWindow", filename)
	}

	// Scanline offset table: one int64 per row, which this reader does not
	// need to index into since rows are read sequentially in order.
	offsetTable := make([]byte, 8*height)
	if _, err := io.ReadFull(r, offsetTable); err != nil {
		return nil, fmt.Errorf("imageio: %s: reading offset table: %w", filename, err)
	}

	sort.Slice(chans, func(i, j int) bool { return chans[i].name < chans[j].name })
	idx := map[string]int{}
	for i, c := range chans {
		idx[c.name] = i
	}

	texels := make([]spectrum.Spectrum, width*height)
	for row := 0; row < height; row++ {
		var y int32
		if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
			return nil, fmt.Errorf("imageio: %s: row %d: reading y: %w", filename, row, err)
		}
		var dataSize int32
		if err := binary.Read(r, binary.LittleEndian, &dataSize); err != nil {
			return nil, fmt.Errorf("imageio: %s: row %d: reading size: %w", filename, row, err)
		}
		rowData := make([]byte, dataSize)
		if _, err := io.ReadFull(r, rowData); err != nil {
			return nil, fmt.Errorf("imageio: %s: row %d: reading pixels: %w", filename, row, err)
		}

		rowVals := make([][]float64, len(chans))
		offset := 0
		for i, c := range chans {
			vals := make([]float64, width)
			for x := 0; x < width; x++ {
				switch c.pixelType {
				case exrPixelHalf:
					bits := binary.LittleEndian.Uint16(rowData[offset : offset+2])
					vals[x] = float64(halfToFloat32(bits))
					offset += 2
				case exrPixelFloat:
					bits := binary.LittleEndian.Uint32(rowData[offset : offset+4])
					vals[x] = float64(math.Float32frombits(bits))
					offset += 4
				default:
					return nil, fmt.Errorf("imageio: %s: channel %q: unsupported pixel type %d", filename, c.name, c.pixelType)
				}
			}
			rowVals[i] = vals
		}

		destRow := (int(y) - int(yMin)) * width
		rIdx, hasR := idx["R"], containsChannel(chans, "R")
		gIdx, hasG := idx["G"], containsChannel(chans, "G")
		bIdx, hasB := idx["B"], containsChannel(chans, "B")
		yIdx, hasY := idx["Y"], containsChannel(chans, "Y")
		for x := 0; x < width; x++ {
			var rgb spectrum.Spectrum
			switch {
			case hasR && hasG && hasB:
				rgb = spectrum.New(rowVals[rIdx][x], rowVals[gIdx][x], rowVals[bIdx][x])
			case hasY:
				rgb = spectrum.Gray(rowVals[yIdx][x])
			default:
				return nil, fmt.Errorf("imageio: %s: no usable R/G/B or Y channel set", filename)
			}
			texels[destRow+x] = rgb
		}
	}

	return &FloatImage{Width: width, Height: height, Texels: texels}, nil
}

func containsChannel(chans []exrChannel, name string) bool {
	for _, c := range chans {
		if c.name == name {
			return true
		}
	}
	return false
}

func checkEXRMagic(r io.Reader) error {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("reading magic: %w", err)
	}
	if magic != [4]byte{0x76, 0x2f, 0x31, 0x01} {
		return fmt.Errorf("not an OpenEXR file")
	}
	return nil
}

// readEXRHeader reads the null-terminated sequence of (name, type, size,
// data) attribute entries ending with an empty name.
func readEXRHeader(r *bufio.Reader) (map[string][]byte, error) {
	attrs := map[string][]byte{}
	for {
		name, err := readEXRCString(r)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return attrs, nil
		}
		if _, err := readEXRCString(r); err != nil { // type, unused by name below
			return nil, err
		}
		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, err
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
		attrs[name] = data
	}
}

func readEXRCString(r *bufio.Reader) (string, error) {
	b, err := r.ReadBytes(0)
	if err != nil {
		return "", err
	}
	return string(b[:len(b)-1]), nil
}

// parseEXRChannelList decodes a "chlist" attribute: repeated (name,
// pixelType int32, pLinear+3 reserved bytes, xSampling int32, ySampling
// int32) entries terminated by an empty name.
func parseEXRChannelList(data []byte) ([]exrChannel, error) {
	var chans []exrChannel
	pos := 0
	for pos < len(data) {
		end := pos
		for end < len(data) && data[end] != 0 {
			end++
		}
		if end >= len(data) {
			return nil, fmt.Errorf("truncated channel list")
		}
		name := string(data[pos:end])
		pos = end + 1
		if name == "" {
			break
		}
		if pos+16 > len(data) {
			return nil, fmt.Errorf("truncated channel entry for %q", name)
		}
		pixelType := int32(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 16 // pixelType(4) + pLinear&reserved(4) + xSampling(4) + ySampling(4)
		chans = append(chans, exrChannel{name: name, pixelType: pixelType})
	}
	return chans, nil
}

// halfToFloat32 converts an IEEE 754 half-precision (binary16) value to
// float32, the bit-twiddling every EXR reader needs since Go has no native
// half type.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h&0x7c00) >> 10
	mant := uint32(h & 0x03ff)

	var bits uint32
	switch {
	case exp == 0:
		if mant == 0 {
			bits = sign
		} else {
			// subnormal half -> normalize into a float32
			exp32 := uint32(127 - 15 + 1)
			for mant&0x0400 == 0 {
				mant <<= 1
				exp32--
			}
			mant &= 0x03ff
			bits = sign | (exp32 << 23) | (mant << 13)
		}
	case exp == 0x1f:
		bits = sign | 0x7f800000 | (mant << 13)
	default:
		bits = sign | ((exp - 15 + 127) << 23) | (mant << 13)
	}
	return math.Float32frombits(bits)
}
