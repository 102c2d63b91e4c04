// Package recent keeps the bounded, ordered log of recently visited
// navigation targets. The log survives restarts; writes go straight through to
// sqlite and reads are served from an in-memory copy loaded at startup.
package recent

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultCap is the recency log size.
const DefaultCap = 10

// Item is one recently chosen navigation target. Execution-kind selections are
// never recorded; re-running a script is not "visiting" something.
type Item struct {
	ID        string
	Label     string
	Icon      string
	Href      string
	Timestamp time.Time
}

// Store is the persisted recency log, most-recent-first, capped.
type Store struct {
	db    *sql.DB
	cap   int
	items []Item
}

// NewStore loads the persisted log. cap <= 0 falls back to DefaultCap.
func NewStore(ctx context.Context, db *sql.DB, cap int) (*Store, error) {
	if cap <= 0 {
		cap = DefaultCap
	}
	s := &Store{db: db, cap: cap}
	if err := s.load(ctx); err != nil {
		return nil, fmt.Errorf("load recent items: %w", err)
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, label, icon, href, chosen_at FROM recent_items
	ORDER BY chosen_at DESC, rowid DESC LIMIT ?`, s.cap)
	if err != nil {
		return err
	}
	defer rows.Close()
	s.items = s.items[:0]
	for rows.Next() {
		var it Item
		var ts int64
		if err := rows.Scan(&it.ID, &it.Label, &it.Icon, &it.Href, &ts); err != nil {
			return err
		}
		it.Timestamp = time.Unix(0, ts).UTC()
		s.items = append(s.items, it)
	}
	return rows.Err()
}

// Record inserts an item at the front. An existing id moves to the front with
// a fresh timestamp instead of duplicating; the tail is evicted past the cap.
func (s *Store) Record(ctx context.Context, it Item) error {
	it.Timestamp = time.Now().UTC()

	kept := make([]Item, 0, len(s.items)+1)
	kept = append(kept, it)
	for _, old := range s.items {
		if old.ID == it.ID {
			continue
		}
		kept = append(kept, old)
	}
	if len(kept) > s.cap {
		kept = kept[:s.cap]
	}
	s.items = kept

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO recent_items(id, label, icon, href, chosen_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET label=excluded.label, icon=excluded.icon,
		href=excluded.href, chosen_at=excluded.chosen_at;
	`, it.ID, it.Label, it.Icon, it.Href, it.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("record recent item %q: %w", it.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
	DELETE FROM recent_items WHERE id NOT IN (
		SELECT id FROM recent_items ORDER BY chosen_at DESC, rowid DESC LIMIT ?
	)`, s.cap)
	if err != nil {
		return fmt.Errorf("trim recent items: %w", err)
	}
	return nil
}

// List returns the log most-recent-first. The returned slice is a copy.
func (s *Store) List() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
