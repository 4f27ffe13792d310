package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// Reader queries an index written by SQLiteIndex.
type Reader struct {
	db *sql.DB
}

func OpenReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error { return r.db.Close() }

type ExplosionRow struct {
	ID               string
	Time             string
	World            string
	Dimension        string
	Origin           [3]float64
	Radius           float64
	Cancelled        bool
	SourceType       string
	Blocks           int
	Entities         int
	OriginalBlocks   int
	OriginalEntities int
}

// Explosions lists the most recent explosions, newest first. An empty world
// matches every world.
func (r *Reader) Explosions(ctx context.Context, world string, limit int) ([]ExplosionRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id,time,world,dimension,ox,oy,oz,radius,cancelled,COALESCE(source_type,''),blocks,entities,original_blocks,original_entities
		FROM explosions WHERE (? = '' OR world = ?) ORDER BY time DESC, id LIMIT ?`, world, world, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExplosionRow
	for rows.Next() {
		var e ExplosionRow
		var cancelled int
		if err := rows.Scan(&e.ID, &e.Time, &e.World, &e.Dimension, &e.Origin[0], &e.Origin[1], &e.Origin[2], &e.Radius,
			&cancelled, &e.SourceType, &e.Blocks, &e.Entities, &e.OriginalBlocks, &e.OriginalEntities); err != nil {
			return nil, err
		}
		e.Cancelled = cancelled != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// BlockHistory returns the ids of the non-cancelled explosions that
// affected the block at (x, y, z) in world, oldest first.
func (r *Reader) BlockHistory(ctx context.Context, world string, x, y, z int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT e.id FROM explosion_blocks b
		JOIN explosions e ON e.id = b.explosion_id
		WHERE e.world = ? AND e.cancelled = 0 AND b.x = ? AND b.y = ? AND b.z = ?
		ORDER BY e.time, e.id`, world, x, y, z)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CatalogDigest returns the digest stored for a catalog name.
func (r *Reader) CatalogDigest(ctx context.Context, name string) (string, error) {
	var digest string
	err := r.db.QueryRowContext(ctx, `SELECT digest FROM catalogs WHERE name = ?`, name).Scan(&digest)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("catalog %q not indexed", name)
	}
	return digest, err
}
