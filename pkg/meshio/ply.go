// Package meshio reads triangle mesh files from disk into shape.TriangleMesh
// buffers, the way the teacher's pkg/loaders package fed its scene builder.
package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"goray/pkg/geometry"
	"goray/pkg/shape"
)

// plyProperty is a single "property ..." header line.
type plyProperty struct {
	name     string
	typ      string
	isList   bool
	listType string
	dataType string
}

type plyHeader struct {
	format      string
	vertexCount int
	faceCount   int
	vertexProps []plyProperty
	faceProps   []plyProperty

	hasNormals   bool
	hasTexCoords bool
	normalIdx    [3]int
	texIdx       [2]int
}

// LoadPLY reads a binary little-endian PLY file and returns a TriangleMesh
// transformed into world space by o2w. Only triangular faces are supported;
// ASCII and big-endian PLY are rejected, matching the scope the teacher's
// loader settled on.
func LoadPLY(filename string, o2w geometry.Transform) (*shape.TriangleMesh, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", filename, err)
	}
	defer f.Close()

	header, headerSize, err := parsePLYHeader(f)
	if err != nil {
		return nil, fmt.Errorf("meshio: parse header of %s: %w", filename, err)
	}
	if _, err := f.Seek(int64(headerSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("meshio: seek past header of %s: %w", filename, err)
	}

	switch header.format {
	case "binary_little_endian":
	case "binary_big_endian":
		return nil, fmt.Errorf("meshio: %s: big-endian PLY not supported", filename)
	case "ascii":
		return nil, fmt.Errorf("meshio: %s: ASCII PLY not supported", filename)
	default:
		return nil, fmt.Errorf("meshio: %s: unknown PLY format %q", filename, header.format)
	}

	p, n, uv, indices, err := readPLYBody(f, header)
	if err != nil {
		return nil, fmt.Errorf("meshio: read %s: %w", filename, err)
	}

	return shape.NewTriangleMesh(o2w, indices, p, n, uv), nil
}

func parsePLYHeader(f *os.File) (*plyHeader, int, error) {
	h := &plyHeader{}
	scanner := bufio.NewScanner(f)
	bytesRead := 0
	currentElement := ""

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		bytesRead += len(scanner.Bytes()) + 1

		if line == "end_header" {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 2 {
				h.format = parts[1]
			}
		case "element":
			if len(parts) >= 3 {
				currentElement = parts[1]
				count, err := strconv.Atoi(parts[2])
				if err != nil {
					return nil, 0, fmt.Errorf("bad element count %q", parts[2])
				}
				switch currentElement {
				case "vertex":
					h.vertexCount = count
				case "face":
					h.faceCount = count
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, 0, err
			}
			switch currentElement {
			case "vertex":
				h.vertexProps = append(h.vertexProps, prop)
				idx := len(h.vertexProps) - 1
				switch prop.name {
				case "nx":
					h.hasNormals, h.normalIdx[0] = true, idx
				case "ny":
					h.hasNormals, h.normalIdx[1] = true, idx
				case "nz":
					h.hasNormals, h.normalIdx[2] = true, idx
				case "u", "s", "texture_u":
					h.hasTexCoords, h.texIdx[0] = true, idx
				case "v", "t", "texture_v":
					h.hasTexCoords, h.texIdx[1] = true, idx
				}
			case "face":
				h.faceProps = append(h.faceProps, prop)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return h, bytesRead, nil
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("bad property line")
	}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("bad list property line")
		}
		return plyProperty{isList: true, listType: parts[1], dataType: parts[2], name: parts[3]}, nil
	}
	return plyProperty{typ: parts[0], name: parts[1]}, nil
}

func plyTypeSize(t string) int {
	switch t {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 4
	}
}

func readPLYField(data []byte, offset int, typ string) (float64, int) {
	size := plyTypeSize(typ)
	chunk := data[offset : offset+size]
	switch typ {
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(chunk))), size
	case "double", "float64":
		return math.Float64frombits(binary.LittleEndian.Uint64(chunk)), size
	case "uchar", "uint8":
		return float64(chunk[0]), size
	case "char", "int8":
		return float64(int8(chunk[0])), size
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(chunk)), size
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(chunk))), size
	case "uint", "uint32":
		return float64(binary.LittleEndian.Uint32(chunk)), size
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(chunk))), size
	default:
		return 0, size
	}
}

func readPLYBody(f *os.File, h *plyHeader) (p []geometry.Point3, n []geometry.Normal3, uv []geometry.Vec2, indices []int, err error) {
	vertexSize := 0
	for _, prop := range h.vertexProps {
		if !prop.isList {
			vertexSize += plyTypeSize(prop.typ)
		}
	}

	vertexData := make([]byte, vertexSize*h.vertexCount)
	if _, err = io.ReadFull(f, vertexData); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("reading vertex block: %w", err)
	}

	p = make([]geometry.Point3, h.vertexCount)
	if h.hasNormals {
		n = make([]geometry.Normal3, h.vertexCount)
	}
	if h.hasTexCoords {
		uv = make([]geometry.Vec2, h.vertexCount)
	}

	for i := 0; i < h.vertexCount; i++ {
		base := i * vertexSize
		offset := base
		var x, y, z float64
		var nx, ny, nz float64
		var u, v float64
		for propIdx, prop := range h.vertexProps {
			val, sz := readPLYField(vertexData, offset, prop.typ)
			switch propIdx {
			case 0:
				x = val
			case 1:
				y = val
			case 2:
				z = val
			}
			if h.hasNormals {
				if propIdx == h.normalIdx[0] {
					nx = val
				}
				if propIdx == h.normalIdx[1] {
					ny = val
				}
				if propIdx == h.normalIdx[2] {
					nz = val
				}
			}
			if h.hasTexCoords {
				if propIdx == h.texIdx[0] {
					u = val
				}
				if propIdx == h.texIdx[1] {
					v = val
				}
			}
			offset += sz
		}
		p[i] = geometry.Point3{X: x, Y: y, Z: z}
		if h.hasNormals {
			n[i] = geometry.Normal3{X: nx, Y: ny, Z: nz}
		}
		if h.hasTexCoords {
			uv[i] = geometry.Vec2{X: u, Y: v}
		}
	}

	buf := bufio.NewReaderSize(f, 1<<20)
	indices = make([]int, 0, h.faceCount*3)
	for i := 0; i < h.faceCount; i++ {
		for _, prop := range h.faceProps {
			if prop.isList && prop.name == "vertex_indices" {
				count, err := readPLYListCount(buf, prop.listType)
				if err != nil {
					return nil, nil, nil, nil, fmt.Errorf("face %d count: %w", i, err)
				}
				if count != 3 {
					return nil, nil, nil, nil, fmt.Errorf("face %d: only triangles supported, got %d verts", i, count)
				}
				for j := 0; j < 3; j++ {
					idx, err := readPLYIndex(buf, prop.dataType)
					if err != nil {
						return nil, nil, nil, nil, fmt.Errorf("face %d index %d: %w", i, j, err)
					}
					indices = append(indices, idx)
				}
			} else if err := skipPLYProperty(buf, prop); err != nil {
				return nil, nil, nil, nil, fmt.Errorf("face %d: skipping %s: %w", i, prop.name, err)
			}
		}
	}

	return p, n, uv, indices, nil
}

func readPLYListCount(r *bufio.Reader, listType string) (int, error) {
	switch listType {
	case "uchar", "uint8":
		b, err := r.ReadByte()
		return int(b), err
	case "int", "int32":
		var v int32
		err := binary.Read(r, binary.LittleEndian, &v)
		return int(v), err
	default:
		return 0, fmt.Errorf("unsupported list count type %q", listType)
	}
}

func readPLYIndex(r *bufio.Reader, dataType string) (int, error) {
	switch dataType {
	case "int", "int32":
		var v int32
		err := binary.Read(r, binary.LittleEndian, &v)
		return int(v), err
	case "uint", "uint32":
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		return int(v), err
	default:
		return 0, fmt.Errorf("unsupported index type %q", dataType)
	}
}

func skipPLYProperty(r *bufio.Reader, prop plyProperty) error {
	if !prop.isList {
		_, err := io.CopyN(io.Discard, r, int64(plyTypeSize(prop.typ)))
		return err
	}
	count, err := readPLYListCount(r, prop.listType)
	if err != nil {
		return err
	}
	_, err = io.CopyN(io.Discard, r, int64(count*plyTypeSize(prop.dataType)))
	return err
}
