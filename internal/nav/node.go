package nav

import (
	"fmt"

	"github.com/udisondev/terrainpath/internal/terrain"
)

// Node is one tile of a Graph. It holds only static data; search state lives
// in the per-call tables of the Pathfinder, so a Graph can be searched concurrently.
type Node struct {
	tile      terrain.Tile
	height    float64
	index     int // position in Graph.nodes
	neighbors []*Node
}

func (n *Node) X() int             { return n.tile.X }
func (n *Node) Y() int             { return n.tile.Y }
func (n *Node) Tile() terrain.Tile { return n.tile }
func (n *Node) Height() float64    { return n.height }

// Neighbors returns adjacent nodes in N, NE, E, SE, S, SW, W, NW order,
// skipping directions outside the graph. The slice must not be modified.
func (n *Node) Neighbors() []*Node {
	return n.neighbors
}

// IsNeighbor reports whether other is adjacent to n.
func (n *Node) IsNeighbor(other *Node) bool {
	for _, nb := range n.neighbors {
		if nb == other {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	return fmt.Sprintf("node%v h=%g", n.tile, n.height)
}

func (n *Node) isDiagonalTo(other *Node) bool {
	return n.tile.X != other.tile.X && n.tile.Y != other.tile.Y
}
