package nav

// openEntry is one frontier record. A node may have several entries
// (lazy decrease-key); stale ones are skipped on pop via the closed set.
type openEntry struct {
	node  *Node
	f     float64 // estimated total cost
	g     float64 // cost-so-far when pushed
	seq   uint64  // push order
	index int     // heap index
}

// openList implements container/heap for the A* frontier.
// Order: lowest f, then lowest g, then earliest push.
type openList []*openEntry

func (h openList) Len() int { return len(h) }

func (h openList) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g < b.g
	}
	return a.seq < b.seq
}

func (h openList) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *openList) Push(x any) {
	e := x.(*openEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *openList) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil // GC
	e.index = -1
	*h = old[:n-1]
	return e
}
