// Package indexdb keeps a queryable SQLite index of recorded explosions.
// The journal files remain the source of truth; the index may drop entries
// when it falls behind.
package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelapi.dev/internal/catalogs"
	"voxelapi.dev/internal/protocol"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan protocol.ExplosionEvent
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTotal    atomic.Uint64
	writtenTotal atomic.Uint64
	failTotal    atomic.Uint64
}

type Stats struct {
	QueueDepth    int
	QueueCapacity int
	DropTotal     uint64
	WrittenTotal  uint64
	FailTotal     uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	return openSQLite(path, 65536)
}

func openSQLite(path string, queue int) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan protocol.ExplosionEvent, queue),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS explosions (
			id TEXT PRIMARY KEY,
			time TEXT NOT NULL,
			world TEXT NOT NULL,
			dimension TEXT NOT NULL,
			ox REAL NOT NULL,
			oy REAL NOT NULL,
			oz REAL NOT NULL,
			radius REAL NOT NULL,
			can_cause_fire INTEGER NOT NULL,
			breaks_blocks INTEGER NOT NULL,
			cancelled INTEGER NOT NULL,
			source_type TEXT,
			blocks INTEGER NOT NULL,
			entities INTEGER NOT NULL,
			original_blocks INTEGER NOT NULL,
			original_entities INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_explosions_world_time ON explosions(world, time);`,
		`CREATE TABLE IF NOT EXISTS explosion_blocks (
			explosion_id TEXT NOT NULL REFERENCES explosions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			PRIMARY KEY (explosion_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_explosion_blocks_pos ON explosion_blocks(x, z, y);`,
		`CREATE TABLE IF NOT EXISTS explosion_entities (
			explosion_id TEXT NOT NULL REFERENCES explosions(id) ON DELETE CASCADE,
			entity_id TEXT NOT NULL,
			type TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			PRIMARY KEY (explosion_id, entity_id)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// WriteExplosion queues e for indexing. It never blocks.
func (s *SQLiteIndex) WriteExplosion(e protocol.ExplosionEvent) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- e:
	default:
		s.dropTotal.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:    len(s.ch),
		QueueCapacity: cap(s.ch),
		DropTotal:     s.dropTotal.Load(),
		WrittenTotal:  s.writtenTotal.Load(),
		FailTotal:     s.failTotal.Load(),
	}
}

// UpsertCatalogs stores the raw catalog files and palettes the host runs with.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if b, err := os.ReadFile(filepath.Join(configDir, "blocks.json")); err == nil {
		rows = append(rows, kv{name: "blocks_defs", digest: cats.Blocks.DefsDigest, json: b})
	}
	if b, err := os.ReadFile(filepath.Join(configDir, "items.json")); err == nil {
		rows = append(rows, kv{name: "items_defs", digest: cats.Items.DefsDigest, json: b})
	}
	if b, _ := json.Marshal(cats.Blocks.Registry.Palette()); len(b) > 0 {
		rows = append(rows, kv{name: "blocks_palette", digest: cats.Blocks.Registry.Digest(), json: b})
	}
	if b, _ := json.Marshal(cats.Items.Registry.Palette()); len(b) > 0 {
		rows = append(rows, kv{name: "items_palette", digest: cats.Items.Registry.Digest(), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertExplosion, _ := s.db.Prepare(`INSERT OR REPLACE INTO explosions(id,time,world,dimension,ox,oy,oz,radius,can_cause_fire,breaks_blocks,cancelled,source_type,blocks,entities,original_blocks,original_entities,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	insertBlock, _ := s.db.Prepare(`INSERT OR REPLACE INTO explosion_blocks(explosion_id,seq,x,y,z) VALUES(?,?,?,?,?)`)
	insertEntity, _ := s.db.Prepare(`INSERT OR REPLACE INTO explosion_entities(explosion_id,entity_id,type,x,y,z) VALUES(?,?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertExplosion, insertBlock, insertEntity} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	write := func(e protocol.ExplosionEvent) error {
		if insertExplosion == nil || insertBlock == nil || insertEntity == nil {
			return fmt.Errorf("statements not prepared")
		}
		raw, _ := json.Marshal(e)
		var sourceType any
		if e.Source != nil {
			sourceType = e.Source.Type
		}
		if _, err := tx.Stmt(insertExplosion).Exec(
			e.ID, e.Time, e.World, e.Dimension,
			e.Origin[0], e.Origin[1], e.Origin[2],
			e.Radius,
			boolInt(e.CanCauseFire), boolInt(e.BreaksBlocks), boolInt(e.Cancelled),
			sourceType,
			len(e.Blocks), len(e.Entities),
			e.OriginalBlocks, e.OriginalEntities,
			string(raw),
		); err != nil {
			return err
		}
		opCount++
		for i, b := range e.Blocks {
			if _, err := tx.Stmt(insertBlock).Exec(e.ID, i, b[0], b[1], b[2]); err != nil {
				return err
			}
			opCount++
		}
		for _, en := range e.Entities {
			if _, err := tx.Stmt(insertEntity).Exec(e.ID, en.ID, en.Type, en.Pos[0], en.Pos[1], en.Pos[2]); err != nil {
				return err
			}
			opCount++
		}
		return nil
	}

	flush := time.NewTicker(commitMaxWait)
	defer flush.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				commit()
				return
			}
			begin()
			if tx == nil {
				s.failTotal.Add(1)
				continue
			}
			if err := write(e); err != nil {
				s.failTotal.Add(1)
				rollback()
				continue
			}
			s.writtenTotal.Add(1)
			if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
				commit()
			}
		case <-flush.C:
			// Idle hosts still make entries visible to readers.
			commit()
		}
	}
}
