// Package formid resolves Form IDs caught in a call stack to record
// descriptions from the community-built SQLite databases.
package formid

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "modernc.org/sqlite"
)

// DB answers (formid, plugin) lookups over one or more database files,
// typically the Main and Local databases for a game. Lookups are cached;
// the databases never change while a scan runs.
type DB struct {
	table string
	conns []*sql.DB

	mu    sync.RWMutex
	cache map[cacheKey]string
}

type cacheKey struct {
	formID string
	plugin string
}

// Open opens every database file that exists. Missing files are skipped
// so that a setup without downloaded databases still works, with lookups
// simply finding nothing. The table name matches the game name.
func Open(game string, paths ...string) (*DB, error) {
	db := &DB{
		table: game,
		cache: make(map[cacheKey]string),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		conn, err := sql.Open("sqlite", path)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("opening formid database %s: %w", path, err)
		}
		db.conns = append(db.conns, conn)
	}
	return db, nil
}

// Available reports whether at least one database file was found.
func (db *DB) Available() bool {
	return db != nil && len(db.conns) > 0
}

// Lookup returns the record description for a Form ID within a plugin.
// The plugin match is case-insensitive. Only hits are cached.
func (db *DB) Lookup(formID, plugin string) (string, bool) {
	if !db.Available() {
		return "", false
	}

	key := cacheKey{formID: formID, plugin: plugin}
	db.mu.RLock()
	entry, ok := db.cache[key]
	db.mu.RUnlock()
	if ok {
		return entry, true
	}

	query := fmt.Sprintf("SELECT entry FROM %s WHERE formid=? AND plugin=? COLLATE nocase", db.table)
	for _, conn := range db.conns {
		var entry string
		err := conn.QueryRow(query, formID, plugin).Scan(&entry)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", false
		}
		db.mu.Lock()
		db.cache[key] = entry
		db.mu.Unlock()
		return entry, true
	}
	return "", false
}

// Close closes all underlying database connections.
func (db *DB) Close() error {
	var firstErr error
	for _, conn := range db.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	db.conns = nil
	return firstErr
}
