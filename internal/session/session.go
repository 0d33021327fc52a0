// Package session owns the cross-call state of one run of the tool: the
// session-wide lifting cache and its persistence. Library code receives the
// cache; only this package touches the store behind it.
package session

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/ornlift/internal/lift"
	"github.com/funvibe/ornlift/internal/term"
)

// Session is created at startup and closed at exit. The global cache is
// loaded from the store on open and flushed on close; entries are only ever
// added, matching the cache's append-only discipline.
type Session struct {
	ID     uuid.UUID
	Global *lift.GlobalCache

	db *sql.DB
	// loaded tracks keys present in the store at open time, so the flush
	// inserts only entries this session added.
	loaded map[lift.GlobalKey]bool
}

const schema = `
CREATE TABLE IF NOT EXISTS lift_cache (
	direction INTEGER NOT NULL,
	source    TEXT NOT NULL,
	target    TEXT NOT NULL,
	term_key  TEXT NOT NULL,
	lifted    TEXT NOT NULL,
	PRIMARY KEY (direction, source, target, term_key)
);`

// Open starts a session backed by the SQLite store at path. An empty path
// gives an in-memory session that persists nothing.
func Open(path string) (*Session, error) {
	s := &Session{
		ID:     uuid.New(),
		Global: lift.NewGlobalCache(),
		loaded: make(map[lift.GlobalKey]bool),
	}
	if path == "" {
		return s, nil
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing cache store: %w", err)
	}
	s.db = db
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) load() error {
	rows, err := s.db.Query(`SELECT direction, source, target, term_key, lifted FROM lift_cache`)
	if err != nil {
		return fmt.Errorf("reading cache store: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dir int
		var key lift.GlobalKey
		var lifted string
		if err := rows.Scan(&dir, &key.Source, &key.Target, &key.Term, &lifted); err != nil {
			return fmt.Errorf("reading cache row: %w", err)
		}
		key.Dir = lift.Direction(dir)
		t, err := term.UnmarshalTerm([]byte(lifted))
		if err != nil {
			// A corrupt row is dropped rather than failing the session.
			continue
		}
		s.Global.Put(key, t)
		s.loaded[key] = true
	}
	return rows.Err()
}

// Flush writes entries added since open into the store. Existing rows are
// never updated.
func (s *Session) Flush() error {
	if s.db == nil {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache flush: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO lift_cache (direction, source, target, term_key, lifted) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing cache flush: %w", err)
	}
	defer stmt.Close()

	var flushErr error
	s.Global.Range(func(key lift.GlobalKey, lifted term.Term) bool {
		if s.loaded[key] {
			return true
		}
		data, err := term.MarshalTerm(lifted)
		if err != nil {
			flushErr = fmt.Errorf("encoding cached term: %w", err)
			return false
		}
		if _, err := stmt.Exec(int(key.Dir), key.Source, key.Target, key.Term, string(data)); err != nil {
			flushErr = fmt.Errorf("writing cache row: %w", err)
			return false
		}
		s.loaded[key] = true
		return true
	})
	if flushErr != nil {
		tx.Rollback()
		return flushErr
	}
	return tx.Commit()
}

// Close flushes and releases the store.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	flushErr := s.Flush()
	closeErr := s.db.Close()
	s.db = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
