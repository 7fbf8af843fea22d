// Package autosave persists document snapshots to SQLite. Saves are
// debounced per document: a burst of edits collapses into one write
// once the state settles. A single writer goroutine owns the database;
// callers never block on disk.
package autosave

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// Snapshot is one pending document state.
type Snapshot struct {
	DocID   string
	Module  string // "frame" | "truss" | "takedown"
	Rev     uint64
	Digest  string
	Payload []byte
}

// Record is a stored document row.
type Record struct {
	DocID   string
	Module  string
	Rev     uint64
	Digest  string
	SavedAt string
	Payload []byte
}

type Store struct {
	db       *sql.DB
	debounce time.Duration

	ch   chan Snapshot
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

const defaultDebounce = 400 * time.Millisecond

// Open creates or opens the autosave database. A non-positive debounce
// uses the default.
func Open(path string, debounce time.Duration) (*Store, error) {
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

	if debounce <= 0 {
		debounce = defaultDebounce
	}
	s := &Store{
		db:       db,
		debounce: debounce,
		ch:       make(chan Snapshot, 1024),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-heavy autosave workload.
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
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT PRIMARY KEY,
			module TEXT NOT NULL,
			rev INTEGER NOT NULL,
			digest TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			payload TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS revisions (
			doc_id TEXT NOT NULL,
			rev INTEGER NOT NULL,
			digest TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (doc_id, rev)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_revisions_doc ON revisions(doc_id, rev DESC);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Queue schedules a snapshot. Later snapshots of the same document
// replace earlier unsaved ones; the write lands once the document has
// been quiet for the debounce window.
func (s *Store) Queue(snap Snapshot) {
	if s == nil || s.closed.Load() || snap.DocID == "" {
		return
	}
	select {
	case s.ch <- snap:
	default:
		// Writer is far behind; drop. The next edit re-queues a newer
		// snapshot anyway.
	}
}

// Close flushes every pending snapshot and closes the database.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *Store) loop() {
	type pendingSave struct {
		snap Snapshot
		due  time.Time
	}
	pending := map[string]pendingSave{}

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	flushDue := func(now time.Time, force bool) {
		for id, p := range pending {
			if !force && now.Before(p.due) {
				continue
			}
			s.write(p.snap)
			delete(pending, id)
		}
	}

	for {
		select {
		case snap, ok := <-s.ch:
			if !ok {
				flushDue(time.Now(), true)
				return
			}
			pending[snap.DocID] = pendingSave{snap: snap, due: time.Now().Add(s.debounce)}
		case now := <-tick.C:
			flushDue(now, false)
		}
	}
}

func (s *Store) write(snap Snapshot) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := s.db.Begin()
	if err != nil {
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO documents(doc_id,module,rev,digest,saved_at,payload) VALUES(?,?,?,?,?,?)`,
		snap.DocID, snap.Module, int64(snap.Rev), snap.Digest, now, string(snap.Payload),
	); err != nil {
		return
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO revisions(doc_id,rev,digest,saved_at,payload) VALUES(?,?,?,?,?)`,
		snap.DocID, int64(snap.Rev), snap.Digest, now, string(snap.Payload),
	); err != nil {
		return
	}
	_ = tx.Commit()
}

// Load returns the latest saved row for a document, or sql.ErrNoRows.
func (s *Store) Load(docID string) (Record, error) {
	var r Record
	var rev int64
	var payload string
	err := s.db.QueryRow(
		`SELECT doc_id, module, rev, digest, saved_at, payload FROM documents WHERE doc_id = ?`,
		docID,
	).Scan(&r.DocID, &r.Module, &rev, &r.Digest, &r.SavedAt, &payload)
	if err != nil {
		return Record{}, err
	}
	r.Rev = uint64(rev)
	r.Payload = []byte(payload)
	return r, nil
}

// List returns every saved document, newest first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT doc_id, module, rev, digest, saved_at, payload FROM documents ORDER BY saved_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var rev int64
		var payload string
		if err := rows.Scan(&r.DocID, &r.Module, &rev, &r.Digest, &r.SavedAt, &payload); err != nil {
			return nil, err
		}
		r.Rev = uint64(rev)
		r.Payload = []byte(payload)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Revisions returns a document's saved history, newest first, capped.
func (s *Store) Revisions(docID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT doc_id, rev, digest, saved_at, payload FROM revisions WHERE doc_id = ? ORDER BY rev DESC LIMIT ?`,
		docID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var rev int64
		var payload string
		if err := rows.Scan(&r.DocID, &rev, &r.Digest, &r.SavedAt, &payload); err != nil {
			return nil, err
		}
		r.Rev = uint64(rev)
		r.Payload = []byte(payload)
		out = append(out, r)
	}
	return out, rows.Err()
}
