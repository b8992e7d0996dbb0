package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/terrainpath/internal/terrain"
)

// ErrMapNotFound is returned when no map is stored under the requested name.
var ErrMapNotFound = errors.New("db: map not found")

// MapInfo describes a stored map without its height samples.
type MapInfo struct {
	Name     string
	Width    int
	Depth    int
	TileSize float64
	// Digest equals Digest() of both the saved map and the one Load returns.
	Digest    []byte
	UpdatedAt time.Time
}

// MapRepository stores terrain maps. Heights are kept in the .hmap encoding.
type MapRepository struct {
	pool *pgxpool.Pool
}

// NewMapRepository creates a new map repository.
func NewMapRepository(pool *pgxpool.Pool) *MapRepository {
	return &MapRepository{pool: pool}
}

// Save inserts or replaces m.
// Returns true if the stored terrain changed.
func (r *MapRepository) Save(ctx context.Context, m *terrain.MapDefinition) (bool, error) {
	digest := m.Digest()
	origin := m.Origin()

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO terrain_maps (name, width, depth, tile_size, origin_x, origin_y, origin_z, digest, heightmap, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (name) DO UPDATE SET
			width = EXCLUDED.width,
			depth = EXCLUDED.depth,
			tile_size = EXCLUDED.tile_size,
			origin_x = EXCLUDED.origin_x,
			origin_y = EXCLUDED.origin_y,
			origin_z = EXCLUDED.origin_z,
			digest = EXCLUDED.digest,
			heightmap = EXCLUDED.heightmap,
			updated_at = now()
		WHERE terrain_maps.digest <> EXCLUDED.digest`,
		m.Name(), m.Width(), m.Depth(), m.TileSize(), origin.X, origin.Y, origin.Z,
		digest[:], terrain.Encode(m),
	)
	if err != nil {
		return false, fmt.Errorf("saving map %q: %w", m.Name(), err)
	}
	return tag.RowsAffected() > 0, nil
}

// Load returns the map stored under name.
func (r *MapRepository) Load(ctx context.Context, name string) (*terrain.MapDefinition, error) {
	var blob []byte
	err := r.pool.QueryRow(ctx,
		`SELECT heightmap FROM terrain_maps WHERE name = $1`, name,
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("map %q: %w", name, ErrMapNotFound)
		}
		return nil, fmt.Errorf("loading map %q: %w", name, err)
	}

	m, err := terrain.Decode(name, blob)
	if err != nil {
		return nil, fmt.Errorf("decoding map %q: %w", name, err)
	}
	return m, nil
}

// LoadAll loads all stored maps ordered by name.
func (r *MapRepository) LoadAll(ctx context.Context) ([]*terrain.MapDefinition, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, heightmap FROM terrain_maps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("loading all maps: %w", err)
	}
	defer rows.Close()

	var maps []*terrain.MapDefinition
	for rows.Next() {
		var (
			name string
			blob []byte
		)
		if err := rows.Scan(&name, &blob); err != nil {
			return nil, fmt.Errorf("scanning map row: %w", err)
		}
		m, err := terrain.Decode(name, blob)
		if err != nil {
			return nil, fmt.Errorf("decoding map %q: %w", name, err)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating map rows: %w", err)
	}
	return maps, nil
}

// List returns metadata of all stored maps ordered by name.
func (r *MapRepository) List(ctx context.Context) ([]MapInfo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, width, depth, tile_size, digest, updated_at
		FROM terrain_maps
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing maps: %w", err)
	}
	defer rows.Close()

	infos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MapInfo, error) {
		var info MapInfo
		err := row.Scan(&info.Name, &info.Width, &info.Depth, &info.TileSize, &info.Digest, &info.UpdatedAt)
		return info, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning map info: %w", err)
	}
	return infos, nil
}

// Delete removes the map stored under name.
func (r *MapRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM terrain_maps WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting map %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("map %q: %w", name, ErrMapNotFound)
	}
	return nil
}

// LoadInto loads every stored map into c. Returns the number loaded.
func (r *MapRepository) LoadInto(ctx context.Context, c *terrain.Catalog) (int, error) {
	maps, err := r.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	c.Put(maps...)
	return len(maps), nil
}
