package nav

import (
	"fmt"
	"math"
)

// CostModel holds the terrain rules shared by search, cost evaluation and smoothing.
type CostModel struct {
	// ObstacleThreshold: a node whose height differs from the reference node by
	// more than this is an obstacle relative to that reference.
	ObstacleThreshold float64 `yaml:"obstacle_threshold"`
	// HeightWeight multiplies |Δheight| of a step.
	HeightWeight float64 `yaml:"height_weight"`
	// CornerBuffer × ObstaclePenaltyFactor is added to steps touching a node next to an obstacle.
	CornerBuffer          float64 `yaml:"corner_buffer"`
	ObstaclePenaltyFactor float64 `yaml:"obstacle_penalty_factor"`
}

// DefaultCostModel returns threshold 0.2, height weight 2, obstacle surcharge 10×1.
func DefaultCostModel() CostModel {
	return CostModel{
		ObstacleThreshold:     ObstacleThreshold,
		HeightWeight:          HeightWeight,
		CornerBuffer:          CornerBuffer,
		ObstaclePenaltyFactor: ObstaclePenaltyFactor,
	}
}

// Validate rejects negative or non-finite parameters.
func (cm CostModel) Validate() error {
	fields := [...]struct {
		name  string
		value float64
	}{
		{"obstacle_threshold", cm.ObstacleThreshold},
		{"height_weight", cm.HeightWeight},
		{"corner_buffer", cm.CornerBuffer},
		{"obstacle_penalty_factor", cm.ObstaclePenaltyFactor},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s = %v: %w", f.name, f.value, ErrInvalidCostModel)
		}
	}
	return nil
}

// IsObstacle reports whether n is an obstacle relative to ref.
// Obstacle-ness is relative: a plateau rim blocks from below but not from the plateau.
func (cm CostModel) IsObstacle(n, ref *Node) bool {
	return n.height > ref.height+cm.ObstacleThreshold ||
		n.height < ref.height-cm.ObstacleThreshold
}

// NearObstacle reports whether any neighbour of n is an obstacle relative to n.
func (cm CostModel) NearObstacle(n *Node) bool {
	for _, nb := range n.neighbors {
		if cm.IsObstacle(nb, n) {
			return true
		}
	}
	return false
}

// StepCost is the cost of moving between adjacent nodes a and b.
func (cm CostModel) StepCost(a, b *Node) float64 {
	return cm.stepCost(a, b, cm.NearObstacle(a) || cm.NearObstacle(b))
}

// stepCost = tile distance + |Δh|·HeightWeight + surcharge when either end borders an obstacle.
func (cm CostModel) stepCost(a, b *Node, nearObstacle bool) float64 {
	cost := tileDistance(a, b) + math.Abs(a.height-b.height)*cm.HeightWeight
	if nearObstacle {
		cost += cm.ObstaclePenaltyFactor * cm.CornerBuffer
	}
	return cost
}

// PathCost sums StepCost over consecutive nodes of path.
func (cm CostModel) PathCost(path []*Node) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += cm.StepCost(path[i-1], path[i])
	}
	return total
}

// cornerBlocked reports whether the diagonal step current→neighbor cuts a corner:
// either orthogonal cell shared by both is an obstacle relative to current.
func (g *Graph) cornerBlocked(cm CostModel, current, neighbor *Node) bool {
	for _, c := range [2]*Node{
		g.node(current.tile.X, neighbor.tile.Y),
		g.node(neighbor.tile.X, current.tile.Y),
	} {
		if c != nil && cm.IsObstacle(c, current) {
			return true
		}
	}
	return false
}

// passable reports whether one step from → to obeys the obstacle and corner rules.
func (g *Graph) passable(cm CostModel, from, to *Node) bool {
	if cm.IsObstacle(to, from) {
		return false
	}
	return !from.isDiagonalTo(to) || !g.cornerBlocked(cm, from, to)
}

// tileDistance is the Euclidean distance between tile coordinates: 1 orthogonal, √2 diagonal.
func tileDistance(a, b *Node) float64 {
	dx := float64(a.tile.X - b.tile.X)
	dy := float64(a.tile.Y - b.tile.Y)
	return math.Hypot(dx, dy)
}

// manhattan is the search heuristic. It is intentionally coarse: it is not
// tightened for diagonal moves and may overestimate diagonal-heavy routes.
func manhattan(a, b *Node) float64 {
	return float64(abs(a.tile.X-b.tile.X) + abs(a.tile.Y-b.tile.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
