// Package persistence provides SQLite-based storage for generated worlds.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/worldforge/internal/social"
	"github.com/talgya/worldforge/internal/world"
)

// ErrNotFound is returned when no world has the requested id.
var ErrNotFound = errors.New("world not found")

// DB wraps a SQLite connection for world storage.
type DB struct {
	conn *sqlx.DB
}

// WorldSummary is one row of ListWorlds.
type WorldSummary struct {
	ID        string `db:"id"`
	Owner     string `db:"owner"`
	Seed      int64  `db:"seed"`
	GameOver  bool   `db:"game_over"`
	Provinces int    `db:"provinces"`
	Land      int    `db:"land"`
	Factions  int    `db:"factions"`
	CreatedAt int64  `db:"created_at"` // unix seconds
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		seed INTEGER NOT NULL,
		game_over INTEGER NOT NULL,
		provinces INTEGER NOT NULL,
		land INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		snapshot_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS factions (
		world_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		available INTEGER NOT NULL,
		defeated INTEGER NOT NULL,
		turn_ended INTEGER NOT NULL,
		PRIMARY KEY (world_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_worlds_owner ON worlds(owner);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveWorld writes the world snapshot and its faction flags (full replace).
func (db *DB) SaveWorld(w *world.World) error {
	snapshot, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal world %s: %w", w.ID, err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO worlds
		(id, owner, seed, game_over, provinces, land, created_at, snapshot_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Owner, w.Seed, w.GameOver, len(w.Provinces), w.LandCount(),
		time.Now().Unix(), string(snapshot),
	)
	if err != nil {
		return fmt.Errorf("insert world %s: %w", w.ID, err)
	}

	if _, err := tx.Exec("DELETE FROM factions WHERE world_id = ?", w.ID); err != nil {
		return err
	}
	for _, f := range w.Factions {
		_, err := tx.Exec(`INSERT INTO factions
			(world_id, id, name, available, defeated, turn_ended)
			VALUES (?, ?, ?, ?, ?, ?)`,
			w.ID, f.ID, f.Name, f.Available, f.Defeated, f.TurnEnded,
		)
		if err != nil {
			return fmt.Errorf("insert faction %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("world saved", "id", w.ID, "bytes", len(snapshot), "factions", len(w.Factions))
	return nil
}

// LoadWorld reads a world. Faction flags come from the factions table, which
// the session layer updates independently of the snapshot.
func (db *DB) LoadWorld(id string) (*world.World, error) {
	var snapshot string
	err := db.conn.Get(&snapshot, "SELECT snapshot_json FROM worlds WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load world %s: %w", id, err)
	}

	var w world.World
	if err := json.Unmarshal([]byte(snapshot), &w); err != nil {
		return nil, fmt.Errorf("decode world %s: %w", id, err)
	}

	factions, err := db.Factions(id)
	if err != nil {
		return nil, err
	}
	if len(factions) > 0 {
		w.Factions = factions
	}
	return &w, nil
}

type factionRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Available bool   `db:"available"`
	Defeated  bool   `db:"defeated"`
	TurnEnded bool   `db:"turn_ended"`
}

// Factions returns the stored factions of a world in id order.
func (db *DB) Factions(worldID string) ([]*social.Faction, error) {
	var rows []factionRow
	err := db.conn.Select(&rows,
		"SELECT id, name, available, defeated, turn_ended FROM factions WHERE world_id = ? ORDER BY rowid",
		worldID,
	)
	if err != nil {
		return nil, fmt.Errorf("load factions %s: %w", worldID, err)
	}
	out := make([]*social.Faction, len(rows))
	for i, r := range rows {
		out[i] = &social.Faction{
			ID:        r.ID,
			Name:      r.Name,
			Available: r.Available,
			Defeated:  r.Defeated,
			TurnEnded: r.TurnEnded,
		}
	}
	return out, nil
}

// UpdateFaction stores the mutable flags of one faction.
func (db *DB) UpdateFaction(worldID string, f *social.Faction) error {
	res, err := db.conn.Exec(`UPDATE factions
		SET available = ?, defeated = ?, turn_ended = ?
		WHERE world_id = ? AND id = ?`,
		f.Available, f.Defeated, f.TurnEnded, worldID, f.ID,
	)
	if err != nil {
		return fmt.Errorf("update faction %s: %w", f.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("faction %s in world %s: %w", f.ID, worldID, ErrNotFound)
	}
	return nil
}

// ListWorlds returns the worlds of an owner, newest first. An empty owner
// lists every world.
func (db *DB) ListWorlds(owner string) ([]WorldSummary, error) {
	var out []WorldSummary
	query := `SELECT w.id, w.owner, w.seed, w.game_over, w.provinces, w.land, w.created_at,
			(SELECT COUNT(*) FROM factions f WHERE f.world_id = w.id) AS factions
		FROM worlds w`
	var err error
	if owner == "" {
		err = db.conn.Select(&out, query+" ORDER BY w.created_at DESC, w.rowid DESC")
	} else {
		err = db.conn.Select(&out, query+" WHERE w.owner = ? ORDER BY w.created_at DESC, w.rowid DESC", owner)
	}
	return out, err
}

// DeleteWorld removes a world and its factions.
func (db *DB) DeleteWorld(id string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM factions WHERE world_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM worlds WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
