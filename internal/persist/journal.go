package persist

import (
	"context"
	"fmt"
)

// JournalEntry is one simulation event as stored in sim_journal.
type JournalEntry struct {
	MapID    int
	Tick     uint64
	Kind     string // "spawn", "destroy", "trigger", "collide", "fluid"
	EntityID uint64
	Class    string
	Name     string
	X, Y     float64
	Detail   string
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// WriteBatch writes entries in a single transaction; either all land or
// none do.
func (r *JournalRepo) WriteBatch(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO sim_journal (map_id, tick, kind, entity_id, class, name, x, y, detail)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.MapID, int64(e.Tick), e.Kind, int64(e.EntityID), e.Class, e.Name, e.X, e.Y, e.Detail,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("journal commit: %w", err)
	}
	return nil
}

// CountByKind returns how many entries of each kind a map has journaled.
func (r *JournalRepo) CountByKind(ctx context.Context, mapID int) (map[string]int64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT kind, COUNT(*) FROM sim_journal WHERE map_id = $1 GROUP BY kind`, mapID)
	if err != nil {
		return nil, fmt.Errorf("journal count: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		out[kind] = n
	}
	return out, rows.Err()
}
