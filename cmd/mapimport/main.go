// mapimport loads a directory of terrain maps (.hmap, .yaml) and stores them in PostgreSQL.
//
// Usage:
//
//	go run ./cmd/mapimport -dir data/maps
//	go run ./cmd/mapimport -dir data/maps -export out/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/udisondev/terrainpath/internal/config"
	"github.com/udisondev/terrainpath/internal/db"
	"github.com/udisondev/terrainpath/internal/terrain"
)

const ConfigPath = "config/planner.yaml"

func main() {
	cfgFlag := flag.String("config", "", "config file (default $TERRAINPATH_CONFIG or "+ConfigPath+")")
	dir := flag.String("dir", "", "map directory (default map_dir from config)")
	export := flag.String("export", "", "also write every loaded map as .hmap into this directory")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *cfgFlag, *dir, *export); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, dir, export string) error {
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

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	if dir == "" {
		dir = cfg.MapDir
	}
	catalog := terrain.NewCatalog()
	if _, err := catalog.LoadDir(dir); err != nil {
		return fmt.Errorf("loading maps: %w", err)
	}

	if export != "" {
		if err := exportMaps(catalog, export); err != nil {
			return err
		}
	}

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	repo := database.Maps()
	var updated int
	for _, name := range catalog.Names() {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, _ := catalog.Get(name)
		changed, err := repo.Save(ctx, m)
		if err != nil {
			return err
		}
		if changed {
			updated++
		}
		slog.Debug("map stored", "map", name, "width", m.Width(), "depth", m.Depth(), "changed", changed)
	}

	slog.Info("import done", "maps", catalog.Len(), "updated", updated)
	return nil
}

// exportMaps writes every catalog map into dir in the binary format.
func exportMaps(catalog *terrain.Catalog, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	for _, name := range catalog.Names() {
		m, _ := catalog.Get(name)
		path := filepath.Join(dir, name+terrain.HeightmapExt)
		if err := os.WriteFile(path, terrain.Encode(m), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	slog.Info("maps exported", "maps", catalog.Len(), "dir", dir)
	return nil
}
