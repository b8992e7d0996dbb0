package nav

import (
	"fmt"

	"github.com/udisondev/terrainpath/internal/terrain"
)

// HeightFunc samples the elevation of lattice cell (x, y).
type HeightFunc func(x, y int) float64

// Graph is an 8-connected lattice of terrain nodes.
// Immutable after Build: safe for concurrent read-only use.
type Graph struct {
	width, depth int
	nodes        []Node // row-major: nodes[y*width+x]
}

// Build creates a width×depth graph with heights from height and links every
// node to its in-bounds 8-neighbourhood.
func Build(width, depth int, height HeightFunc) (*Graph, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("building %dx%d graph: %w", width, depth, ErrEmptyGraph)
	}
	if height == nil {
		return nil, ErrNilHeightFunc
	}

	g := &Graph{
		width: width,
		depth: depth,
		nodes: make([]Node, width*depth),
	}
	for y := range depth {
		for x := range width {
			i := y*width + x
			g.nodes[i] = Node{
				tile:   terrain.Tile{X: x, Y: y},
				height: height(x, y),
				index:  i,
			}
		}
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		n.neighbors = make([]*Node, 0, len(directions))
		for _, d := range directions {
			if nb := g.node(n.tile.X+d.dx, n.tile.Y+d.dy); nb != nil {
				n.neighbors = append(n.neighbors, nb)
			}
		}
	}

	return g, nil
}

// FromSampler builds a graph covering the sampler's full extent.
func FromSampler(s terrain.Sampler) (*Graph, error) {
	width, depth := s.Dimensions()
	return Build(width, depth, func(x, y int) float64 {
		return s.HeightOf(terrain.Tile{X: x, Y: y})
	})
}

func (g *Graph) Width() int { return g.width }
func (g *Graph) Depth() int { return g.depth }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// NodeAt returns the node at (x, y).
func (g *Graph) NodeAt(x, y int) (*Node, error) {
	n := g.node(x, y)
	if n == nil {
		return nil, fmt.Errorf("node (%d,%d) in %dx%d graph: %w", x, y, g.width, g.depth, ErrOutOfBounds)
	}
	return n, nil
}

// Contains reports whether n is a node of g (pointer identity).
func (g *Graph) Contains(n *Node) bool {
	return n != nil && n.index >= 0 && n.index < len(g.nodes) && &g.nodes[n.index] == n
}

// node returns the node at (x, y) or nil when out of bounds.
func (g *Graph) node(x, y int) *Node {
	if x < 0 || x >= g.width || y < 0 || y >= g.depth {
		return nil
	}
	return &g.nodes[y*g.width+x]
}
