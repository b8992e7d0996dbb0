package nav

// lineIterator steps through lattice cells along a 2D Bresenham line.
type lineIterator struct {
	currentX, currentY int
	targetX, targetY   int
	deltaX, deltaY     int
	stepX, stepY       int
	err                int
	xDominant          bool
	started            bool
}

func newLineIterator(sx, sy, ex, ey int) *lineIterator {
	it := &lineIterator{
		currentX: sx, currentY: sy,
		targetX: ex, targetY: ey,
		deltaX: abs(ex - sx),
		deltaY: abs(ey - sy),
		stepX:  1,
		stepY:  1,
	}
	if ex < sx {
		it.stepX = -1
	}
	if ey < sy {
		it.stepY = -1
	}

	it.xDominant = it.deltaX >= it.deltaY
	if it.xDominant {
		it.err = it.deltaX / 2
	} else {
		it.err = it.deltaY / 2
	}
	return it
}

// Next advances to the next cell. The first call yields the start cell.
// Returns false once the target has been yielded.
func (it *lineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	if it.xDominant {
		it.currentX += it.stepX
		it.err += it.deltaY
		if it.err >= it.deltaX {
			it.currentY += it.stepY
			it.err -= it.deltaX
		}
	} else {
		it.currentY += it.stepY
		it.err += it.deltaX
		if it.err >= it.deltaY {
			it.currentX += it.stepX
			it.err -= it.deltaY
		}
	}
	return true
}

func (it *lineIterator) X() int { return it.currentX }
func (it *lineIterator) Y() int { return it.currentY }

// CanWalk reports whether a straight walk from → to crosses only cells that
// obey the obstacle and corner rules step by step.
func (g *Graph) CanWalk(cm CostModel, from, to *Node) bool {
	if !g.Contains(from) || !g.Contains(to) {
		return false
	}

	it := newLineIterator(from.tile.X, from.tile.Y, to.tile.X, to.tile.Y)
	it.Next() // skip start

	prev := from
	for it.Next() {
		cur := g.node(it.X(), it.Y())
		if cur == nil || !g.passable(cm, prev, cur) {
			return false
		}
		prev = cur
	}
	return true
}

// Smooth removes intermediate waypoints that can be skipped by a straight walk.
// If node N is walkable from the last kept node, node N-1 is dropped.
// Runs up to SmoothPasses passes. The input is not modified.
//
// Smoothed paths are no longer adjacency-valid; FindPath output is never smoothed implicitly.
func Smooth(g *Graph, cm CostModel, path []*Node) []*Node {
	for range SmoothPasses {
		if len(path) <= 2 {
			return path
		}

		changed := false
		smoothed := make([]*Node, 0, len(path))
		smoothed = append(smoothed, path[0])

		for i := 1; i < len(path)-1; i++ {
			prev := smoothed[len(smoothed)-1]
			next := path[i+1]
			if g.CanWalk(cm, prev, next) {
				changed = true
				continue
			}
			smoothed = append(smoothed, path[i])
		}
		smoothed = append(smoothed, path[len(path)-1])
		path = smoothed

		if !changed {
			break
		}
	}
	return path
}
