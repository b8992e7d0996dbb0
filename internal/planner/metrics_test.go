package planner

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/terrainpath/internal/nav"
)

var _ nav.SearchProfiler = (*Metrics)(nil)

func TestMetricsSnapshotReset(t *testing.T) {
	m := &Metrics{}
	m.recordRequest()
	m.recordRequest()
	m.recordUnreachable()
	m.recordGraphBuild()
	m.recordCacheHit()
	m.RecordNodeExpanded()
	m.RecordNodeExpanded()
	m.RecordNodeExpanded()
	m.RecordNeighborGeneration(5)
	m.RecordNeighborGeneration(0)

	s := m.Snapshot()
	assert.Equal(t, MetricsSnapshot{
		Requests:           2,
		Unreachable:        1,
		GraphBuilds:        1,
		CacheHits:          1,
		NodesExpanded:      3,
		NeighborsGenerated: 5,
	}, s)
	assert.InDelta(t, 1.5, s.AvgNodesPerRequest(), 1e-9)

	m.Reset()
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
	assert.Zero(t, m.Snapshot().AvgNodesPerRequest())
}

func TestMetricsConcurrent(t *testing.T) {
	m := &Metrics{}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				m.RecordNodeExpanded()
				m.RecordNeighborGeneration(2)
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	assert.Equal(t, uint64(8000), s.NodesExpanded)
	assert.Equal(t, uint64(16000), s.NeighborsGenerated)
}

func TestDebugFlag(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	assert.False(t, IsDebugEnabled())
	EnableDebugLogging(true)
	assert.True(t, IsDebugEnabled())
	EnableDebugLogging(false)
	assert.False(t, IsDebugEnabled())
}
