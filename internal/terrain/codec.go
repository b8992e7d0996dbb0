package terrain

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes m into the .hmap binary format.
// Floats are stored as float64. Rows with a single repeated height are written as flat rows.
func Encode(m *MapDefinition) []byte {
	data := make([]byte, 0, headerSize+m.depth*(1+8*m.width))
	data = append(data, HeightmapMagic...)
	data = append(data, HeightmapVersion)
	data = binary.LittleEndian.AppendUint16(data, uint16(m.width))
	data = binary.LittleEndian.AppendUint16(data, uint16(m.depth))
	for _, f := range [...]float64{m.tileSize, m.origin.X, m.origin.Y, m.origin.Z} {
		data = binary.LittleEndian.AppendUint64(data, math.Float64bits(f))
	}

	for y := range m.depth {
		row := m.heights[y*m.width : (y+1)*m.width]
		if isFlat(row) {
			data = append(data, RowTypeFlat)
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(row[0]))
			continue
		}
		data = append(data, RowTypeDetailed)
		for _, h := range row {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(h))
		}
	}
	return data
}

// Decode parses a .hmap file's raw bytes into a map named name.
func Decode(name string, data []byte) (*MapDefinition, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("decode %q: header needs %d bytes, got %d: %w", name, headerSize, len(data), ErrBadFormat)
	}
	if string(data[:4]) != HeightmapMagic {
		return nil, fmt.Errorf("decode %q: magic %q: %w", name, data[:4], ErrBadFormat)
	}
	if data[4] != HeightmapVersion {
		return nil, fmt.Errorf("decode %q: unsupported version %d: %w", name, data[4], ErrBadFormat)
	}

	width := int(binary.LittleEndian.Uint16(data[5:]))
	depth := int(binary.LittleEndian.Uint16(data[7:]))
	tileSize := readFloat64(data, 9)
	origin := Vec3{X: readFloat64(data, 17), Y: readFloat64(data, 25), Z: readFloat64(data, 33)}

	// Dimensions come from untrusted input: size them against the payload before allocating.
	if err := checkDimensions(name, width, depth); err != nil {
		return nil, err
	}
	if body := len(data) - headerSize; body < depth*minRowSize {
		return nil, fmt.Errorf("decode %q: %d rows need at least %d bytes, got %d: %w",
			name, depth, depth*minRowSize, body, ErrBadFormat)
	}

	heights := make([]float64, width*depth)
	offset := headerSize
	for y := range depth {
		consumed, err := parseRow(data, offset, heights[y*width:(y+1)*width])
		if err != nil {
			return nil, fmt.Errorf("decode %q row %d: %w", name, y, err)
		}
		offset += consumed
	}
	if offset != len(data) {
		return nil, fmt.Errorf("decode %q: %d trailing bytes: %w", name, len(data)-offset, ErrBadFormat)
	}

	return NewMapDefinition(name, width, depth, tileSize, origin, heights)
}

// parseRow reads one row record at offset into dst.
// Returns the number of bytes consumed.
func parseRow(data []byte, offset int, dst []float64) (int, error) {
	if offset >= len(data) {
		return 0, fmt.Errorf("offset %d beyond data length %d: %w", offset, len(data), ErrBadFormat)
	}

	rowType := data[offset]
	offset++

	switch rowType {
	case RowTypeFlat:
		if offset+8 > len(data) {
			return 0, fmt.Errorf("flat row: insufficient data at offset %d: %w", offset, ErrBadFormat)
		}
		h := readFloat64(data, offset)
		for i := range dst {
			dst[i] = h
		}
		return 1 + 8, nil

	case RowTypeDetailed:
		need := len(dst) * 8
		if offset+need > len(data) {
			return 0, fmt.Errorf("detailed row: insufficient data at offset %d: %w", offset, ErrBadFormat)
		}
		for i := range dst {
			dst[i] = readFloat64(data, offset)
			offset += 8
		}
		return 1 + need, nil

	default:
		return 0, fmt.Errorf("unknown row type 0x%02X at offset %d: %w", rowType, offset-1, ErrBadFormat)
	}
}

func readFloat64(data []byte, offset int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))
}

func isFlat(row []float64) bool {
	for _, h := range row[1:] {
		if h != row[0] {
			return false
		}
	}
	return true
}
