// Package history persists the append-only search audit trail in Postgres.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/geosnap-io/geosnap/internal/domain/search"
)

// Repo is a Postgres-backed search history store.
type Repo struct {
	db *sqlx.DB
}

// New creates a history repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates the search_history table.
func Migrate(db *sqlx.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS search_history(
  id UUID PRIMARY KEY,
  owner_id TEXT NOT NULL,
  query_type TEXT NOT NULL,
  params JSONB NOT NULL,
  results_count INT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_search_history_owner ON search_history(owner_id, created_at);
`
	if _, err := db.Exec(initSQL); err != nil {
		return fmt.Errorf("migrate search_history: %w", err)
	}
	return nil
}

type row struct {
	ID           string    `db:"id"`
	OwnerID      string    `db:"owner_id"`
	QueryType    string    `db:"query_type"`
	Params       []byte    `db:"params"`
	ResultsCount int       `db:"results_count"`
	CreatedAt    time.Time `db:"created_at"`
}

// Append writes one entry. Entries are write-once; there is no update path.
func (r *Repo) Append(ctx context.Context, e *search.HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	params, err := json.Marshal(e.Params)
	if err != nil {
		return fmt.Errorf("encode history params: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO search_history (id, owner_id, query_type, params, results_count, created_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6)`,
		e.ID, e.OwnerID, e.QueryType, params, e.ResultCount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// List returns an owner's entries, newest first.
func (r *Repo) List(ctx context.Context, ownerID string) ([]search.HistoryEntry, error) {
	var rows []row
	err := r.db.SelectContext(ctx, &rows, `
SELECT * FROM search_history WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]search.HistoryEntry, len(rows))
	for i, rw := range rows {
		entry := search.HistoryEntry{
			ID:          rw.ID,
			OwnerID:     rw.OwnerID,
			QueryType:   rw.QueryType,
			ResultCount: rw.ResultsCount,
			CreatedAt:   rw.CreatedAt,
		}
		if err := json.Unmarshal(rw.Params, &entry.Params); err != nil {
			return nil, fmt.Errorf("decode history params for %s: %w", rw.ID, err)
		}
		out[i] = entry
	}
	return out, nil
}
