// Package store persists fetched snapshots so a timeline can be
// rendered offline from the most recent data.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/fetch"
)

// ErrNoSnapshot is returned when the cache is empty.
var ErrNoSnapshot = errors.New("no cached snapshot")

// DB handles snapshot persistence
type DB struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at the given path
func Open(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sdb := &DB{db: db}
	if err := sdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_hash ON snapshots(data_hash);
	`

	_, err := d.db.Exec(schema)
	return err
}

// SaveSnapshot inserts a snapshot unless the newest cached one already
// carries the same data hash.
func (d *DB) SaveSnapshot(snap fetch.Snapshot, dataHash string) error {
	var latest string
	err := d.db.QueryRow(`SELECT data_hash FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&latest)
	if err == nil && latest == dataHash {
		return nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("query latest snapshot: %w", err)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = d.db.Exec(`
		INSERT INTO snapshots (data_hash, created_at, payload)
		VALUES (?, ?, ?)
	`, dataHash, time.Now().UTC(), string(payload))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently cached snapshot and its
// data hash.
func (d *DB) LatestSnapshot() (fetch.Snapshot, string, error) {
	var (
		payload  string
		dataHash string
	)
	err := d.db.QueryRow(`
		SELECT payload, data_hash FROM snapshots ORDER BY id DESC LIMIT 1
	`).Scan(&payload, &dataHash)
	if errors.Is(err, sql.ErrNoRows) {
		return fetch.Snapshot{}, "", ErrNoSnapshot
	}
	if err != nil {
		return fetch.Snapshot{}, "", fmt.Errorf("query snapshot: %w", err)
	}

	var snap fetch.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return fetch.Snapshot{}, "", fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, dataHash, nil
}

// Prune keeps only the newest n snapshots.
func (d *DB) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := d.db.Exec(`
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
