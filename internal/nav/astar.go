package nav

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/udisondev/terrainpath/internal/terrain"
)

// SearchProfiler receives instrumentation hooks from FindPath.
// Implementations must be safe for concurrent use.
type SearchProfiler interface {
	RecordNodeExpanded()
	RecordNeighborGeneration(count int)
}

// Option configures a Pathfinder.
type Option func(*Pathfinder)

// WithCostModel replaces DefaultCostModel.
func WithCostModel(cm CostModel) Option {
	return func(p *Pathfinder) { p.cost = cm }
}

// WithProfiler attaches search instrumentation.
func WithProfiler(prof SearchProfiler) Option {
	return func(p *Pathfinder) { p.profiler = prof }
}

// Pathfinder runs A* over a Graph. It holds configuration only; every
// FindPath call owns its frontier and score tables, so one Pathfinder may
// serve concurrent searches over the same Graph.
type Pathfinder struct {
	cost     CostModel
	profiler SearchProfiler
}

// NewPathfinder creates a Pathfinder with DefaultCostModel unless overridden.
func NewPathfinder(opts ...Option) *Pathfinder {
	p := &Pathfinder{cost: DefaultCostModel()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPathfinder = NewPathfinder()

// FindPath runs FindPath with the default cost model.
func FindPath(g *Graph, start, goal *Node) ([]*Node, error) {
	return defaultPathfinder.FindPath(g, start, goal)
}

// CostModel returns the model used for searching.
func (p *Pathfinder) CostModel() CostModel {
	return p.cost
}

// PathCost returns the total cost of path under the Pathfinder's model.
func (p *Pathfinder) PathCost(path []*Node) float64 {
	return p.cost.PathCost(path)
}

// FindTilePath resolves tiles to nodes of g and runs FindPath.
// Tiles outside g fail with ErrOutOfBounds.
func (p *Pathfinder) FindTilePath(g *Graph, from, to terrain.Tile) ([]*Node, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	start, err := g.NodeAt(from.X, from.Y)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	goal, err := g.NodeAt(to.X, to.Y)
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	return p.FindPath(g, start, goal)
}

// FindPath returns the cheapest path from start to goal, both inclusive.
// An empty result with a nil error means no route exists under the current
// obstacle configuration. start == goal yields [start].
func (p *Pathfinder) FindPath(g *Graph, start, goal *Node) ([]*Node, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if !g.Contains(start) {
		return nil, fmt.Errorf("start %v: %w", start, ErrForeignNode)
	}
	if !g.Contains(goal) {
		return nil, fmt.Errorf("goal %v: %w", goal, ErrForeignNode)
	}
	if start == goal {
		return []*Node{start}, nil
	}

	s := newSearch(g, p.cost, goal)
	return s.run(start, p.profiler), nil
}

// search is the per-call state of one A* run, keyed by tile.
type search struct {
	graph *Graph
	cost  CostModel
	goal  *Node

	open     openList
	seq      uint64
	gScore   map[terrain.Tile]float64
	cameFrom map[terrain.Tile]*Node
	closed   map[terrain.Tile]struct{}
	near     map[terrain.Tile]bool // memoised NearObstacle
}

func newSearch(g *Graph, cm CostModel, goal *Node) *search {
	return &search{
		graph:    g,
		cost:     cm,
		goal:     goal,
		gScore:   make(map[terrain.Tile]float64, 256),
		cameFrom: make(map[terrain.Tile]*Node, 256),
		closed:   make(map[terrain.Tile]struct{}, 256),
		near:     make(map[terrain.Tile]bool, 256),
	}
}

func (s *search) run(start *Node, prof SearchProfiler) []*Node {
	heap.Init(&s.open)
	s.gScore[start.tile] = 0
	s.push(start, 0)

	for s.open.Len() > 0 {
		current := heap.Pop(&s.open).(*openEntry).node

		if current == s.goal {
			return s.reconstruct(current)
		}

		if _, done := s.closed[current.tile]; done {
			continue
		}
		s.closed[current.tile] = struct{}{}
		if prof != nil {
			prof.RecordNodeExpanded()
		}

		generated := s.expand(current)
		if prof != nil {
			prof.RecordNeighborGeneration(generated)
		}
	}

	return nil
}

// expand relaxes every admissible neighbour of current.
// Returns the number of frontier entries pushed.
func (s *search) expand(current *Node) int {
	pushed := 0
	currentCost := s.costSoFar(current)

	for _, nb := range current.neighbors {
		if _, done := s.closed[nb.tile]; done {
			continue
		}
		if !s.graph.passable(s.cost, current, nb) {
			continue
		}

		penalize := s.nearObstacle(current) || s.nearObstacle(nb)
		tentative := currentCost + s.cost.stepCost(current, nb, penalize)
		if tentative >= s.costSoFar(nb) {
			continue
		}

		s.gScore[nb.tile] = tentative
		s.cameFrom[nb.tile] = current
		s.push(nb, tentative)
		pushed++
	}
	return pushed
}

func (s *search) push(n *Node, g float64) {
	heap.Push(&s.open, &openEntry{
		node: n,
		f:    g + manhattan(n, s.goal),
		g:    g,
		seq:  s.seq,
	})
	s.seq++
}

// costSoFar returns the best known cost to n, +Inf when unvisited.
func (s *search) costSoFar(n *Node) float64 {
	if v, ok := s.gScore[n.tile]; ok {
		return v
	}
	return math.Inf(1)
}

func (s *search) nearObstacle(n *Node) bool {
	if v, ok := s.near[n.tile]; ok {
		return v
	}
	v := s.cost.NearObstacle(n)
	s.near[n.tile] = v
	return v
}

// reconstruct follows parent links from goal back to the start and reverses them.
func (s *search) reconstruct(goal *Node) []*Node {
	path := make([]*Node, 0, 32)
	for n := goal; n != nil; n = s.cameFrom[n.tile] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
