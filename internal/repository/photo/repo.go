// Package photo persists photo records in Postgres.
package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/geosnap-io/geosnap/internal/domain"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
)

// Repo is a Postgres-backed photo record store.
type Repo struct {
	db *sqlx.DB
}

// New creates a photo repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates the photos table and its indexes.
func Migrate(db *sqlx.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS photos(
  id UUID PRIMARY KEY,
  owner_id TEXT NOT NULL,
  filename TEXT NOT NULL,
  original_filename TEXT NOT NULL,
  storage_key TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  latitude DOUBLE PRECISION,
  longitude DOUBLE PRECISION,
  location_source TEXT,
  address TEXT,
  source TEXT NOT NULL,
  confidence DOUBLE PRECISION,
  resolution TEXT,
  metadata JSONB,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  processed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_photos_owner ON photos(owner_id);
CREATE INDEX IF NOT EXISTS idx_photos_status ON photos(status);
CREATE INDEX IF NOT EXISTS idx_photos_source ON photos(source);
CREATE INDEX IF NOT EXISTS idx_photos_created ON photos(created_at);
`
	if _, err := db.Exec(initSQL); err != nil {
		return fmt.Errorf("migrate photos: %w", err)
	}
	return nil
}

const insertSQL = `
INSERT INTO photos (id, owner_id, filename, original_filename, storage_key, status,
  latitude, longitude, location_source, address, source, confidence, resolution,
  metadata, created_at, processed_at)
VALUES (:id, :owner_id, :filename, :original_filename, :storage_key, :status,
  :latitude, :longitude, :location_source, :address, :source, :confidence, :resolution,
  :metadata, :created_at, :processed_at)`

// Create inserts a new record.
func (r *Repo) Create(ctx context.Context, p *domphoto.Photo) error {
	rw, err := fromDomain(p)
	if err != nil {
		return fmt.Errorf("encode photo %s: %w", p.ID, err)
	}
	if _, err := r.db.NamedExecContext(ctx, insertSQL, rw); err != nil {
		return fmt.Errorf("insert photo %s: %w", p.ID, err)
	}
	return nil
}

// Get returns one record scoped to its owner.
func (r *Repo) Get(ctx context.Context, ownerID, id string) (domphoto.Photo, error) {
	var rw row
	err := r.db.GetContext(ctx, &rw,
		`SELECT * FROM photos WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domphoto.Photo{}, domain.ErrPhotoNotFound
	}
	if err != nil {
		return domphoto.Photo{}, fmt.Errorf("get photo %s: %w", id, err)
	}
	return rw.toDomain(), nil
}

// List returns all of an owner's records, newest first.
func (r *Repo) List(ctx context.Context, ownerID string) ([]domphoto.Photo, error) {
	var rows []row
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM photos WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return toDomainSlice(rows), nil
}

// Delete removes a record. Returns domain.ErrPhotoNotFound when nothing matched.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM photos WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete photo %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPhotoNotFound
	}
	return nil
}

// FindFiltered returns the owner's records matching the pushed-down filter.
// Distance computation and policy ranking happen in the search service.
func (r *Repo) FindFiltered(ctx context.Context, ownerID string, f domphoto.Filter) ([]domphoto.Photo, error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if !f.CreatedAfter.IsZero() {
		args = append(args, f.CreatedAfter)
		where = append(where, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		where = append(where, "source = $"+strconv.Itoa(len(args)))
	}
	if f.MinConfidence != nil {
		args = append(args, *f.MinConfidence)
		// Records without a confidence value are not excluded by the threshold.
		where = append(where, "(confidence IS NULL OR confidence >= $"+strconv.Itoa(len(args))+")")
	}
	if f.RequireLocation {
		where = append(where, "latitude IS NOT NULL AND longitude IS NOT NULL")
	}

	query := `SELECT * FROM photos WHERE ` + strings.Join(where, " AND ")

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find photos: %w", err)
	}
	return toDomainSlice(rows), nil
}

func toDomainSlice(rows []row) []domphoto.Photo {
	out := make([]domphoto.Photo, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}
