package planner

import "sync/atomic"

// Metrics collects planner counters. Safe for concurrent use.
// It also receives search hooks as a nav.SearchProfiler.
type Metrics struct {
	requests           atomic.Uint64
	unreachable        atomic.Uint64
	graphBuilds        atomic.Uint64
	cacheHits          atomic.Uint64
	nodesExpanded      atomic.Uint64
	neighborsGenerated atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Requests           uint64
	Unreachable        uint64
	GraphBuilds        uint64
	CacheHits          uint64
	NodesExpanded      uint64
	NeighborsGenerated uint64
}

// AvgNodesPerRequest returns expanded nodes divided by requests.
func (s MetricsSnapshot) AvgNodesPerRequest() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.NodesExpanded) / float64(s.Requests)
}

func (m *Metrics) RecordNodeExpanded() {
	m.nodesExpanded.Add(1)
}

func (m *Metrics) RecordNeighborGeneration(count int) {
	if count > 0 {
		m.neighborsGenerated.Add(uint64(count))
	}
}

func (m *Metrics) recordRequest()     { m.requests.Add(1) }
func (m *Metrics) recordUnreachable() { m.unreachable.Add(1) }
func (m *Metrics) recordGraphBuild()  { m.graphBuilds.Add(1) }
func (m *Metrics) recordCacheHit()    { m.cacheHits.Add(1) }

// Snapshot returns current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:           m.requests.Load(),
		Unreachable:        m.unreachable.Load(),
		GraphBuilds:        m.graphBuilds.Load(),
		CacheHits:          m.cacheHits.Load(),
		NodesExpanded:      m.nodesExpanded.Load(),
		NeighborsGenerated: m.neighborsGenerated.Load(),
	}
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.requests.Store(0)
	m.unreachable.Store(0)
	m.graphBuilds.Store(0)
	m.cacheHits.Store(0)
	m.nodesExpanded.Store(0)
	m.neighborsGenerated.Store(0)
}
