// pathplan plans routes over terrain maps and prints the waypoints.
//
// Usage:
//
//	go run ./cmd/pathplan -map ridge -from 1,2 -to 40,17
//	go run ./cmd/pathplan -batch requests.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/terrainpath/internal/config"
	"github.com/udisondev/terrainpath/internal/db"
	"github.com/udisondev/terrainpath/internal/planner"
	"github.com/udisondev/terrainpath/internal/terrain"
)

const ConfigPath = "config/planner.yaml"

type flags struct {
	config  string
	mapName string
	from    string
	to      string
	agent   string
	batch   string
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "config file (default $TERRAINPATH_CONFIG or "+ConfigPath+")")
	flag.StringVar(&f.mapName, "map", "", "map name for a single request")
	flag.StringVar(&f.from, "from", "", "start position as x,z or x,y,z")
	flag.StringVar(&f.to, "to", "", "goal position as x,z or x,y,z")
	flag.StringVar(&f.agent, "agent", "cli", "agent id for a single request")
	flag.StringVar(&f.batch, "batch", "", "YAML file with a list of requests")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f, os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, out io.Writer) error {
	cfgPath := f.config
	if cfgPath == "" {
		cfgPath = ConfigPath
		if p := os.Getenv("TERRAINPATH_CONFIG"); p != "" {
			cfgPath = p
		}
	}
	cfg, err := config.LoadPlanner(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))
	planner.EnableDebugLogging(config.ParseLogLevel(cfg.LogLevel) == slog.LevelDebug)

	reqs, err := buildRequests(f)
	if err != nil {
		return err
	}

	catalog, err := loadMaps(ctx, cfg)
	if err != nil {
		return err
	}

	p, err := planner.New(catalog, cfg.PlannerOptions())
	if err != nil {
		return fmt.Errorf("creating planner: %w", err)
	}

	routes, err := p.PlanBatch(ctx, reqs)
	if err != nil {
		return fmt.Errorf("planning: %w", err)
	}
	if err := writeRoutes(out, routes); err != nil {
		return fmt.Errorf("writing routes: %w", err)
	}

	s := p.Metrics().Snapshot()
	slog.Info("planning done",
		"requests", s.Requests,
		"unreachable", s.Unreachable,
		"graph_builds", s.GraphBuilds,
		"cache_hits", s.CacheHits,
		"avg_nodes", fmt.Sprintf("%.1f", s.AvgNodesPerRequest()))
	return nil
}

// loadMaps fills a catalog from the configured map source.
func loadMaps(ctx context.Context, cfg config.Planner) (*terrain.Catalog, error) {
	catalog := terrain.NewCatalog()

	switch cfg.MapSource {
	case config.MapSourceDatabase:
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		n, err := database.Maps().LoadInto(ctx, catalog)
		if err != nil {
			return nil, fmt.Errorf("loading maps from database: %w", err)
		}
		slog.Info("maps loaded", "maps", n, "source", cfg.MapSource)
	default:
		if _, err := catalog.LoadDir(cfg.MapDir); err != nil {
			return nil, fmt.Errorf("loading maps: %w", err)
		}
	}
	return catalog, nil
}

// batchFile is the -batch input.
//
//	map: ridge            # default for requests without one
//	requests:
//	  - agent: tank-1
//	    from: {x: 1, z: 2}
//	    to: {x: 40, z: 17}
type batchFile struct {
	Map      string            `yaml:"map"`
	Requests []planner.Request `yaml:"requests"`
}

func buildRequests(f flags) ([]planner.Request, error) {
	if f.batch != "" {
		return loadBatch(f.batch)
	}

	if f.mapName == "" || f.from == "" || f.to == "" {
		return nil, errors.New("either -batch or all of -map, -from, -to are required")
	}
	from, err := parsePoint(f.from)
	if err != nil {
		return nil, fmt.Errorf("-from: %w", err)
	}
	to, err := parsePoint(f.to)
	if err != nil {
		return nil, fmt.Errorf("-to: %w", err)
	}
	return []planner.Request{{AgentID: f.agent, Map: f.mapName, From: from, To: to}}, nil
}

func loadBatch(path string) ([]planner.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", path, err)
	}

	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing batch %s: %w", path, err)
	}
	for i := range batch.Requests {
		r := &batch.Requests[i]
		if r.Map == "" {
			r.Map = batch.Map
		}
		if r.AgentID == "" {
			r.AgentID = strconv.Itoa(i)
		}
	}
	return batch.Requests, nil
}

// parsePoint parses "x,z" (ground position) or "x,y,z".
func parsePoint(s string) (terrain.Vec3, error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return terrain.Vec3{}, fmt.Errorf("parsing %q: %w", s, err)
		}
		vals[i] = v
	}

	switch len(vals) {
	case 2:
		return terrain.Vec3{X: vals[0], Z: vals[1]}, nil
	case 3:
		return terrain.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
	default:
		return terrain.Vec3{}, fmt.Errorf("parsing %q: want x,z or x,y,z", s)
	}
}

func writeRoutes(w io.Writer, routes []planner.Route) error {
	for _, r := range routes {
		if !r.Reachable {
			if _, err := fmt.Fprintf(w, "%s\t%s\tunreachable\n", r.AgentID, r.Map); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\ttiles=%d\tcost=%.2f\n", r.AgentID, r.Map, len(r.Tiles), r.Cost); err != nil {
			return err
		}
		for _, wp := range r.Waypoints {
			if _, err := fmt.Fprintf(w, "\t%.2f,%.2f,%.2f\n", wp.X, wp.Y, wp.Z); err != nil {
				return err
			}
		}
	}
	return nil
}
