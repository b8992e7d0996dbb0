package terrain

// Heightmap (.hmap) binary format.
// Version 2 stores every float as f64 so heights survive a round trip bit for bit.
const (
	HeightmapMagic        = "HMAP"
	HeightmapVersion byte = 2
	HeightmapExt          = ".hmap"

	// magic + version + width(u16) + depth(u16) + tileSize(f64) + origin xyz (3×f64)
	headerSize = 4 + 1 + 2 + 2 + 8 + 3*8

	// smallest row record: type byte + one f64
	minRowSize = 1 + 8
)

// Row record types in .hmap files.
const (
	RowTypeFlat     byte = 0x00 // one f64 shared by the whole row
	RowTypeDetailed byte = 0x01 // width × f64
)

// Map limits.
const (
	MaxDimension = 1<<16 - 1
	// MaxTiles caps width×depth so a map stays within a few hundred MB of samples.
	MaxTiles        = 1 << 24
	DefaultTileSize = 1.0
)
