package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/udisondev/terrainpath/internal/nav"
	"github.com/udisondev/terrainpath/internal/terrain"
)

// ErrUnknownMap is returned when a request names a map the source does not have.
var ErrUnknownMap = errors.New("planner: unknown map")

// MapSource resolves map names. *terrain.Catalog satisfies it.
type MapSource interface {
	Get(name string) (*terrain.MapDefinition, bool)
}

// Options configures a Planner.
type Options struct {
	// Workers bounds concurrent searches in PlanBatch.
	Workers int
	// GraphCacheSize is the number of built graphs kept. 0 builds a graph per request.
	GraphCacheSize int
	// Smooth enables waypoint smoothing.
	Smooth bool
	Cost   nav.CostModel
}

// DefaultOptions returns GOMAXPROCS workers, a 16-graph cache and no smoothing.
func DefaultOptions() Options {
	return Options{
		Workers:        runtime.GOMAXPROCS(0),
		GraphCacheSize: 16,
		Cost:           nav.DefaultCostModel(),
	}
}

// Request asks for a route between two world positions on a map.
type Request struct {
	AgentID string       `yaml:"agent"`
	Map     string       `yaml:"map"`
	From    terrain.Vec3 `yaml:"from"`
	To      terrain.Vec3 `yaml:"to"`
}

// Route is a planned path.
// Tiles is the lattice path as found by the search; Waypoints are world-space
// tile centres to walk through (smoothed when enabled). An unreachable goal
// yields Reachable == false and empty Tiles and Waypoints.
type Route struct {
	AgentID   string
	Map       string
	Tiles     []terrain.Tile
	Waypoints []terrain.Vec3
	Cost      float64
	Reachable bool
}

// Next returns the waypoint the agent should head to: the first one after its
// current tile. ok is false when the agent already stands on the goal or the
// route is unreachable.
func (r Route) Next() (terrain.Vec3, bool) {
	if len(r.Waypoints) < 2 {
		return terrain.Vec3{}, false
	}
	return r.Waypoints[1], true
}

// Planner answers route requests against a set of maps.
// Safe for concurrent use.
type Planner struct {
	maps    MapSource
	opts    Options
	finder  *nav.Pathfinder
	cache   *graphCache
	builds  singleflight.Group
	metrics *Metrics
}

// New creates a Planner over maps.
func New(maps MapSource, opts Options) (*Planner, error) {
	if maps == nil {
		return nil, errors.New("planner: nil map source")
	}
	if err := opts.Cost.Validate(); err != nil {
		return nil, fmt.Errorf("planner cost model: %w", err)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.GraphCacheSize < 0 {
		opts.GraphCacheSize = 0
	}

	metrics := &Metrics{}
	return &Planner{
		maps:    maps,
		opts:    opts,
		finder:  nav.NewPathfinder(nav.WithCostModel(opts.Cost), nav.WithProfiler(metrics)),
		cache:   newGraphCache(opts.GraphCacheSize),
		metrics: metrics,
	}, nil
}

// Metrics returns the planner's counters.
func (p *Planner) Metrics() *Metrics {
	return p.metrics
}

// Plan finds a route for one request.
// Positions outside the map are clamped to the nearest edge tile.
func (p *Planner) Plan(ctx context.Context, req Request) (Route, error) {
	if err := ctx.Err(); err != nil {
		return Route{}, err
	}
	p.metrics.recordRequest()

	m, ok := p.maps.Get(req.Map)
	if !ok {
		return Route{}, fmt.Errorf("map %q: %w", req.Map, ErrUnknownMap)
	}

	g, err := p.graphFor(m)
	if err != nil {
		return Route{}, err
	}

	from := m.TileOf(req.From)
	to := m.TileOf(req.To)
	path, err := p.finder.FindTilePath(g, from, to)
	if err != nil {
		return Route{}, fmt.Errorf("planning %s to %s on %q: %w", from, to, req.Map, err)
	}

	route := Route{AgentID: req.AgentID, Map: req.Map}
	if len(path) == 0 {
		p.metrics.recordUnreachable()
		if IsDebugEnabled() {
			slog.Debug("goal unreachable", "agent", req.AgentID, "map", req.Map, "from", from, "to", to)
		}
		return route, nil
	}

	route.Reachable = true
	route.Cost = p.finder.PathCost(path)
	route.Tiles = make([]terrain.Tile, len(path))
	for i, n := range path {
		route.Tiles[i] = n.Tile()
	}

	walk := path
	if p.opts.Smooth {
		walk = nav.Smooth(g, p.opts.Cost, path)
	}
	route.Waypoints = make([]terrain.Vec3, len(walk))
	for i, n := range walk {
		route.Waypoints[i] = m.WorldCenterOf(n.Tile())
	}

	if IsDebugEnabled() {
		slog.Debug("route planned",
			"agent", req.AgentID,
			"map", req.Map,
			"tiles", len(route.Tiles),
			"waypoints", len(route.Waypoints),
			"cost", route.Cost)
	}
	return route, nil
}

// PlanBatch plans every request with at most Options.Workers searches in flight.
// Routes are returned in request order. The first failing request cancels the rest.
func (p *Planner) PlanBatch(ctx context.Context, reqs []Request) ([]Route, error) {
	routes := make([]Route, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, req := range reqs {
		g.Go(func() error {
			route, err := p.Plan(gctx, req)
			if err != nil {
				return fmt.Errorf("request %d (agent %q): %w", i, req.AgentID, err)
			}
			routes[i] = route
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return routes, nil
}

// graphFor returns a cached graph for m or builds one.
// Concurrent requests for the same terrain share a single build.
func (p *Planner) graphFor(m *terrain.MapDefinition) (*nav.Graph, error) {
	key := m.Digest()
	if g, ok := p.cache.get(key); ok {
		p.metrics.recordCacheHit()
		return g, nil
	}

	v, err, _ := p.builds.Do(string(key[:]), func() (any, error) {
		// A build that finished between get and Do already filled the cache.
		if g, ok := p.cache.get(key); ok {
			return g, nil
		}
		g, err := nav.FromSampler(m)
		if err != nil {
			return nil, fmt.Errorf("building graph for %q: %w", m.Name(), err)
		}
		p.metrics.recordGraphBuild()
		p.cache.put(key, g)
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*nav.Graph), nil
}
