package heap

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// ---------------------------------------------------------------------------
// Recorder: SQLite log of collection passes
// ---------------------------------------------------------------------------

// Recorder appends one row per collection pass to a SQLite database, so
// reclamation behavior in long-running hosts (servers, REPLs) can be
// analyzed offline.
//
// Record failures never fail the pass itself; the heap logs and continues.
type Recorder struct {
	db     *sql.DB
	dbPath string
}

// NewRecorder opens (creating if needed) the pass log at dbPath.
func NewRecorder(dbPath string) (*Recorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening pass log: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS passes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		heap_id TEXT NOT NULL,
		depth INTEGER NOT NULL,
		scanned INTEGER NOT NULL,
		reclaimed INTEGER NOT NULL,
		promoted INTEGER NOT NULL,
		floating INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating passes table: %w", err)
	}

	return &Recorder{db: db, dbPath: dbPath}, nil
}

// Record appends one pass to the log.
func (rec *Recorder) Record(heapID string, stats *CollectStats) error {
	_, err := rec.db.Exec(
		`INSERT INTO passes
			(heap_id, depth, scanned, reclaimed, promoted, floating, remaining, duration_ns, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		heapID, stats.Depth, stats.Scanned, stats.Reclaimed, stats.Promoted,
		stats.Floating, stats.Remaining, stats.Duration.Nanoseconds(), stats.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("recording pass: %w", err)
	}
	return nil
}

// PassCount returns the number of recorded passes for a heap, or for all
// heaps when heapID is empty.
func (rec *Recorder) PassCount(heapID string) (int, error) {
	var n int
	var err error
	if heapID == "" {
		err = rec.db.QueryRow(`SELECT COUNT(*) FROM passes`).Scan(&n)
	} else {
		err = rec.db.QueryRow(`SELECT COUNT(*) FROM passes WHERE heap_id = ?`, heapID).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting passes: %w", err)
	}
	return n, nil
}

// TotalReclaimed returns the sum of reclaimed objects across all recorded
// passes for a heap.
func (rec *Recorder) TotalReclaimed(heapID string) (int, error) {
	var n int
	err := rec.db.QueryRow(
		`SELECT COALESCE(SUM(reclaimed), 0) FROM passes WHERE heap_id = ?`, heapID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("summing reclaimed: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (rec *Recorder) Close() error {
	if rec.db != nil {
		return rec.db.Close()
	}
	return nil
}
