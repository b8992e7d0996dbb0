package planner

import (
	"sync"

	"github.com/udisondev/terrainpath/internal/nav"
)

type digest = [32]byte

// graphCache keeps built graphs keyed by terrain digest.
// Graphs are read-only after Build, so one instance serves any number of searches.
// Eviction is FIFO once size entries are held.
type graphCache struct {
	mu     sync.Mutex
	size   int
	graphs map[digest]*nav.Graph
	order  []digest
}

func newGraphCache(size int) *graphCache {
	return &graphCache{
		size:   size,
		graphs: make(map[digest]*nav.Graph, size),
	}
}

func (c *graphCache) get(key digest) (*nav.Graph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.graphs[key]
	return g, ok
}

func (c *graphCache) put(key digest, g *nav.Graph) {
	if c.size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.graphs[key]; ok {
		c.graphs[key] = g
		return
	}
	for len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.graphs, oldest)
	}
	c.graphs[key] = g
	c.order = append(c.order, key)
}

func (c *graphCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.graphs)
}
