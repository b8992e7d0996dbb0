package terrain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/crypto/blake2b"
)

var (
	// ErrInvalidMap indicates a map definition with impossible dimensions or samples.
	ErrInvalidMap = errors.New("terrain: invalid map definition")
	// ErrBadFormat indicates a heightmap file that cannot be decoded.
	ErrBadFormat = errors.New("terrain: bad heightmap format")
)

// MapDefinition is an immutable height-annotated tile map.
// Safe for concurrent use.
type MapDefinition struct {
	name     string
	width    int
	depth    int
	tileSize float64
	origin   Vec3
	heights  []float64 // row-major: heights[y*width+x]
}

// NewMapDefinition validates and builds a map. heights is copied.
func NewMapDefinition(name string, width, depth int, tileSize float64, origin Vec3, heights []float64) (*MapDefinition, error) {
	if err := checkDimensions(name, width, depth); err != nil {
		return nil, err
	}
	if !(tileSize > 0) || math.IsInf(tileSize, 1) {
		return nil, fmt.Errorf("map %q: tile size %v: %w", name, tileSize, ErrInvalidMap)
	}
	if len(heights) != width*depth {
		return nil, fmt.Errorf("map %q: %d height samples for %dx%d tiles: %w",
			name, len(heights), width, depth, ErrInvalidMap)
	}
	for i, h := range heights {
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return nil, fmt.Errorf("map %q: sample %d is %v: %w", name, i, h, ErrInvalidMap)
		}
	}

	m := &MapDefinition{
		name:     name,
		width:    width,
		depth:    depth,
		tileSize: tileSize,
		origin:   origin,
		heights:  make([]float64, len(heights)),
	}
	copy(m.heights, heights)
	return m, nil
}

// NewFlatMap builds a map where every tile has the same height.
func NewFlatMap(name string, width, depth int, tileSize, height float64) (*MapDefinition, error) {
	if err := checkDimensions(name, width, depth); err != nil {
		return nil, err
	}
	heights := make([]float64, width*depth)
	for i := range heights {
		heights[i] = height
	}
	return NewMapDefinition(name, width, depth, tileSize, Vec3{}, heights)
}

// checkDimensions must pass before anything is sized from width×depth.
func checkDimensions(name string, width, depth int) error {
	if width <= 0 || depth <= 0 || width > MaxDimension || depth > MaxDimension || width*depth > MaxTiles {
		return fmt.Errorf("map %q: dimensions %dx%d: %w", name, width, depth, ErrInvalidMap)
	}
	return nil
}

func (m *MapDefinition) Name() string      { return m.name }
func (m *MapDefinition) Width() int        { return m.width }
func (m *MapDefinition) Depth() int        { return m.depth }
func (m *MapDefinition) TileSize() float64 { return m.tileSize }
func (m *MapDefinition) Origin() Vec3      { return m.origin }

// Dimensions returns (width, depth) in tiles.
func (m *MapDefinition) Dimensions() (int, int) {
	return m.width, m.depth
}

// InBounds reports whether t lies inside the map.
func (m *MapDefinition) InBounds(t Tile) bool {
	return t.X >= 0 && t.X < m.width && t.Y >= 0 && t.Y < m.depth
}

// TileOf snaps a world position to the tile containing it. World Y is ignored.
func (m *MapDefinition) TileOf(pos Vec3) Tile {
	return Tile{
		X: snap(pos.X, m.origin.X, m.tileSize, m.width),
		Y: snap(pos.Z, m.origin.Z, m.tileSize, m.depth),
	}
}

// WorldCenterOf returns the centre of t in world space at the tile's height.
func (m *MapDefinition) WorldCenterOf(t Tile) Vec3 {
	return Vec3{
		X: center(t.X, m.origin.X, m.tileSize),
		Y: m.origin.Y + m.HeightOf(t),
		Z: center(t.Y, m.origin.Z, m.tileSize),
	}
}

// HeightOf returns the height sample of t. Out-of-range tiles are clamped.
func (m *MapDefinition) HeightOf(t Tile) float64 {
	return m.HeightAt(t.X, t.Y)
}

// HeightAt is HeightOf for raw lattice coordinates.
func (m *MapDefinition) HeightAt(x, y int) float64 {
	x = clampIndex(x, m.width)
	y = clampIndex(y, m.depth)
	return m.heights[y*m.width+x]
}

// Heights returns a copy of the row-major height samples.
func (m *MapDefinition) Heights() []float64 {
	out := make([]float64, len(m.heights))
	copy(out, m.heights)
	return out
}

// WithName returns a copy of m registered under another name.
func (m *MapDefinition) WithName(name string) *MapDefinition {
	c := *m
	c.name = name
	return &c
}

// Digest fingerprints the terrain content (name excluded).
// Two maps with equal digests produce identical graphs.
func (m *MapDefinition) Digest() [blake2b.Size256]byte {
	buf := make([]byte, 0, 8*(6+len(m.heights)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.width))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.depth))
	for _, f := range [...]float64{m.tileSize, m.origin.X, m.origin.Y, m.origin.Z} {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	for _, h := range m.heights {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(h))
	}
	return blake2b.Sum256(buf)
}
