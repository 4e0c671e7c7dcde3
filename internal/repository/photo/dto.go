package photo

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/geosnap-io/geosnap/internal/domain/geo"
	"github.com/geosnap-io/geosnap/internal/domain/location"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
)

// row mirrors the photos table.
type row struct {
	ID               string          `db:"id"`
	OwnerID          string          `db:"owner_id"`
	Filename         string          `db:"filename"`
	OriginalFilename string          `db:"original_filename"`
	StorageKey       string          `db:"storage_key"`
	Status           string          `db:"status"`
	Latitude         sql.NullFloat64 `db:"latitude"`
	Longitude        sql.NullFloat64 `db:"longitude"`
	LocationSource   sql.NullString  `db:"location_source"`
	Address          sql.NullString  `db:"address"`
	Source           string          `db:"source"`
	Confidence       sql.NullFloat64 `db:"confidence"`
	Resolution       sql.NullString  `db:"resolution"`
	Metadata         []byte          `db:"metadata"`
	CreatedAt        time.Time       `db:"created_at"`
	ProcessedAt      sql.NullTime    `db:"processed_at"`
}

func fromDomain(p *domphoto.Photo) (row, error) {
	r := row{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		Filename:         p.Filename,
		OriginalFilename: p.OriginalFilename,
		StorageKey:       p.StorageKey,
		Status:           p.Status,
		Source:           p.Source,
	}
	if p.Location != nil {
		r.Latitude = sql.NullFloat64{Float64: p.Location.Lat, Valid: true}
		r.Longitude = sql.NullFloat64{Float64: p.Location.Lon, Valid: true}
	}
	if p.LocationSource != "" {
		r.LocationSource = sql.NullString{String: string(p.LocationSource), Valid: true}
	}
	if p.Address != "" {
		r.Address = sql.NullString{String: p.Address, Valid: true}
	}
	if p.Confidence != nil {
		r.Confidence = sql.NullFloat64{Float64: *p.Confidence, Valid: true}
	}
	if p.Resolution != "" {
		r.Resolution = sql.NullString{String: p.Resolution, Valid: true}
	}
	if p.ProcessedAt != nil {
		r.ProcessedAt = sql.NullTime{Time: *p.ProcessedAt, Valid: true}
	}
	r.CreatedAt = p.CreatedAt

	meta := p.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return row{}, err
	}
	r.Metadata = data
	return r, nil
}

func (r *row) toDomain() domphoto.Photo {
	p := domphoto.Photo{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Filename:         r.Filename,
		OriginalFilename: r.OriginalFilename,
		StorageKey:       r.StorageKey,
		Status:           r.Status,
		Source:           r.Source,
		Address:          r.Address.String,
		Resolution:       r.Resolution.String,
		CreatedAt:        r.CreatedAt,
	}
	if r.Latitude.Valid && r.Longitude.Valid {
		p.Location = &geo.Point{Lat: r.Latitude.Float64, Lon: r.Longitude.Float64}
	}
	if r.LocationSource.Valid {
		p.LocationSource = location.Source(r.LocationSource.String)
	}
	if r.Confidence.Valid {
		v := r.Confidence.Float64
		p.Confidence = &v
	}
	if r.ProcessedAt.Valid {
		t := r.ProcessedAt.Time
		p.ProcessedAt = &t
	}
	if len(r.Metadata) > 0 {
		var meta map[string]string
		if err := json.Unmarshal(r.Metadata, &meta); err == nil {
			p.Metadata = meta
		}
	}
	return p
}
