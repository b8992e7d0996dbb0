package terrain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
)

// Catalog is the set of maps available to planners.
// Thread-safe: readers see an immutable snapshot, writers swap in a new one.
type Catalog struct {
	maps atomic.Pointer[map[string]*MapDefinition]
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	c := &Catalog{}
	empty := make(map[string]*MapDefinition)
	c.maps.Store(&empty)
	return c
}

// LoadDir loads every .hmap and .yaml/.yml file from dir.
// The map name is the file name without extension unless a YAML file sets one.
func (c *Catalog) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading map dir %s: %w", dir, err)
	}

	var loaded []*MapDefinition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		base := name[:len(name)-len(ext)]

		var parse func(string, []byte) (*MapDefinition, error)
		switch ext {
		case HeightmapExt:
			parse = Decode
		case ".yaml", ".yml":
			parse = ParseYAML
		default:
			slog.Debug("skip map file (unknown extension)", "file", name)
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, fmt.Errorf("reading map %s: %w", name, err)
		}
		m, err := parse(base, data)
		if err != nil {
			return 0, fmt.Errorf("loading map %s: %w", name, err)
		}
		loaded = append(loaded, m)
	}

	c.Put(loaded...)
	slog.Info("maps loaded", "maps", len(loaded), "dir", dir)
	return len(loaded), nil
}

// Put registers maps, replacing any with the same name.
func (c *Catalog) Put(maps ...*MapDefinition) {
	if len(maps) == 0 {
		return
	}
	for {
		old := c.maps.Load()
		next := make(map[string]*MapDefinition, len(*old)+len(maps))
		for k, v := range *old {
			next[k] = v
		}
		for _, m := range maps {
			next[m.Name()] = m
		}
		if c.maps.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Get returns the map registered under name.
func (c *Catalog) Get(name string) (*MapDefinition, bool) {
	m, ok := (*c.maps.Load())[name]
	return m, ok
}

// Names returns registered map names in sorted order.
func (c *Catalog) Names() []string {
	snapshot := *c.maps.Load()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered maps.
func (c *Catalog) Len() int {
	return len(*c.maps.Load())
}
