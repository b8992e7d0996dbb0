package terrain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlMap is the hand-editable map format.
//
//	name: ridge
//	tile_size: 2
//	origin: {x: 0, y: 0, z: 0}
//	heights:
//	  - [0, 0, 0]
//	  - [0, 5, 0]
//
// width and depth may be omitted when heights is given. With heights omitted the map is flat at 0.
type yamlMap struct {
	Name     string      `yaml:"name"`
	Width    int         `yaml:"width"`
	Depth    int         `yaml:"depth"`
	TileSize float64     `yaml:"tile_size"`
	Origin   Vec3        `yaml:"origin"`
	Heights  [][]float64 `yaml:"heights"`
}

// ParseYAML parses a YAML map. A non-empty name field overrides fallbackName.
func ParseYAML(fallbackName string, data []byte) (*MapDefinition, error) {
	var raw yamlMap
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing map %q: %w", fallbackName, err)
	}

	name := fallbackName
	if raw.Name != "" {
		name = raw.Name
	}
	if raw.TileSize == 0 {
		raw.TileSize = DefaultTileSize
	}
	if len(raw.Heights) > 0 {
		if raw.Depth == 0 {
			raw.Depth = len(raw.Heights)
		}
		if raw.Width == 0 {
			raw.Width = len(raw.Heights[0])
		}
	}
	if err := checkDimensions(name, raw.Width, raw.Depth); err != nil {
		return nil, err
	}

	heights := make([]float64, raw.Width*raw.Depth)
	if len(raw.Heights) > 0 {
		if len(raw.Heights) != raw.Depth {
			return nil, fmt.Errorf("map %q: %d rows, depth %d: %w", name, len(raw.Heights), raw.Depth, ErrInvalidMap)
		}
		for y, row := range raw.Heights {
			if len(row) != raw.Width {
				return nil, fmt.Errorf("map %q: row %d has %d samples, width %d: %w",
					name, y, len(row), raw.Width, ErrInvalidMap)
			}
			copy(heights[y*raw.Width:], row)
		}
	}

	return NewMapDefinition(name, raw.Width, raw.Depth, raw.TileSize, raw.Origin, heights)
}

// MarshalYAML renders m in the ParseYAML format.
func MarshalYAML(m *MapDefinition) ([]byte, error) {
	raw := yamlMap{
		Name:     m.name,
		Width:    m.width,
		Depth:    m.depth,
		TileSize: m.tileSize,
		Origin:   m.origin,
		Heights:  make([][]float64, m.depth),
	}
	for y := range m.depth {
		raw.Heights[y] = append([]float64(nil), m.heights[y*m.width:(y+1)*m.width]...)
	}
	return yaml.Marshal(raw)
}
