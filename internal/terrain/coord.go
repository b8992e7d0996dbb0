package terrain

import (
	"fmt"
	"math"
)

// Vec3 is a position in world space. X and Z span the ground plane, Y is elevation.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Tile indexes one lattice cell. Tile.Y runs along the world Z axis.
type Tile struct {
	X, Y int
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// Sampler is the terrain contract consumed by graph construction.
type Sampler interface {
	// TileOf snaps a world position to the tile containing it, clamping at map edges.
	TileOf(pos Vec3) Tile
	// WorldCenterOf returns the world-space centre of a tile, Y set to its height.
	WorldCenterOf(t Tile) Vec3
	// HeightOf returns the elevation sample of a tile.
	HeightOf(t Tile) float64
	// Dimensions returns the lattice size.
	Dimensions() (width, depth int)
}

// snap converts one world axis to a tile index in [0, limit).
func snap(world, origin, tileSize float64, limit int) int {
	v := math.Floor((world - origin) / tileSize)
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v >= float64(limit):
		return limit - 1
	}
	return int(v)
}

// center converts a tile index back to the world coordinate of the tile centre.
func center(index int, origin, tileSize float64) float64 {
	return origin + (float64(index)+0.5)*tileSize
}

func clampIndex(i, limit int) int {
	if i < 0 {
		return 0
	}
	if i >= limit {
		return limit - 1
	}
	return i
}
