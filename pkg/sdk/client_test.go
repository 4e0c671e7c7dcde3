package geosnap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geosnap-io/geosnap/internal/domain"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
	domsearch "github.com/geosnap-io/geosnap/internal/domain/search"
	photouc "github.com/geosnap-io/geosnap/internal/usecase/photo"
	searchuc "github.com/geosnap-io/geosnap/internal/usecase/search"
)

// --- Mocks ---

type mockPhotoUseCase struct {
	photo   domphoto.Photo
	detail  photouc.Detail
	details []photouc.Detail
	err     error
	deleted []string
}

func (m *mockPhotoUseCase) Upload(_ context.Context, _, _ string, _ []byte, _ string) (domphoto.Photo, error) {
	return m.photo, m.err
}

func (m *mockPhotoUseCase) Get(_ context.Context, _, _ string) (photouc.Detail, error) {
	return m.detail, m.err
}

func (m *mockPhotoUseCase) List(_ context.Context, _ string) ([]photouc.Detail, error) {
	return m.details, m.err
}

func (m *mockPhotoUseCase) Delete(_ context.Context, _, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

type mockSearchUseCase struct {
	resp    searchuc.Response
	results []domsearch.Result
	entries []domsearch.HistoryEntry
	err     error
	lastQ   domsearch.Query
}

func (m *mockSearchUseCase) Search(_ context.Context, _ string, q domsearch.Query) (searchuc.Response, error) {
	m.lastQ = q
	return m.resp, m.err
}

func (m *mockSearchUseCase) SearchByCoordinates(_ context.Context, _ string, _ geo.Point, _ float64) ([]domsearch.Result, error) {
	return m.results, m.err
}

func (m *mockSearchUseCase) History(_ context.Context, _ string) ([]domsearch.HistoryEntry, error) {
	return m.entries, m.err
}

// --- Tests ---

func TestNew_RequiresPostgres(t *testing.T) {
	_, err := New(context.Background(), WithStorage("localhost:9000", "k", "s", "bucket", false))
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestNew_RequiresStorage(t *testing.T) {
	_, err := New(context.Background(), WithPostgres("postgres://localhost/geosnap"))
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestPhoto_ConvertsDomainRecord(t *testing.T) {
	loc := geo.Point{Lat: 55.7558, Lon: 37.6173}
	conf := 0.95
	processed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockPhotoUseCase{detail: photouc.Detail{
		Photo: domphoto.Photo{
			ID:             "p1",
			Filename:       "p1.jpg",
			Status:         domphoto.StatusCompleted,
			Location:       &loc,
			LocationSource: "exif",
			Address:        "Moscow, Arbat St, 1",
			Confidence:     &conf,
			ProcessedAt:    &processed,
		},
		DownloadURL: "https://storage/photos/p1.jpg",
	}}
	c := &Client{photoSvc: svc}

	p, err := c.Photo(context.Background(), "owner", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "p1" || p.Status != "completed" {
		t.Errorf("unexpected record: %+v", p)
	}
	if p.Latitude == nil || *p.Latitude != 55.7558 {
		t.Errorf("unexpected latitude: %v", p.Latitude)
	}
	if p.DownloadURL != "https://storage/photos/p1.jpg" {
		t.Errorf("unexpected download URL: %q", p.DownloadURL)
	}
}

func TestPhoto_NoLocationLeavesNilCoordinates(t *testing.T) {
	svc := &mockPhotoUseCase{detail: photouc.Detail{
		Photo: domphoto.Photo{ID: "p1", Status: domphoto.StatusPending},
	}}
	c := &Client{photoSvc: svc}

	p, err := c.Photo(context.Background(), "owner", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Latitude != nil || p.Longitude != nil {
		t.Errorf("expected nil coordinates, got %v, %v", p.Latitude, p.Longitude)
	}
}

func TestPhoto_ErrorPassThrough(t *testing.T) {
	c := &Client{photoSvc: &mockPhotoUseCase{err: domain.ErrPhotoNotFound}}

	_, err := c.Photo(context.Background(), "owner", "missing")
	if !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("expected ErrPhotoNotFound, got %v", err)
	}
}

func TestSearch_BuildsQueryFromRequest(t *testing.T) {
	svc := &mockSearchUseCase{resp: searchuc.Response{
		Origin: geo.Point{Lat: 55.7558, Lon: 37.6173},
	}}
	c := &Client{searchSvc: svc}

	lat, lon := 55.7558, 37.6173
	_, err := c.Search(context.Background(), "owner", SearchRequest{
		Latitude:  &lat,
		Longitude: &lon,
		RadiusKm:  2.5,
		Principle: "nearest",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := svc.lastQ
	if q.Origin() == nil || q.Origin().Lat != lat {
		t.Errorf("unexpected origin: %v", q.Origin())
	}
	if q.RadiusKm() != 2.5 {
		t.Errorf("expected radius 2.5, got %f", q.RadiusKm())
	}
	if q.SearchPolicy() != domsearch.PolicyNearest {
		t.Errorf("expected nearest policy, got %q", q.SearchPolicy())
	}
	if q.MinConfidence() != domsearch.DefaultMinConfidence {
		t.Errorf("expected default min score, got %f", q.MinConfidence())
	}
	if q.MaxResults() != domsearch.DefaultMaxResults {
		t.Errorf("expected default max results, got %d", q.MaxResults())
	}
}

func TestSearch_InvalidRequest(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUseCase{}}

	_, err := c.Search(context.Background(), "owner", SearchRequest{Address: "Moscow", RadiusKm: -1})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestSearch_ConvertsResults(t *testing.T) {
	loc := geo.Point{Lat: 55.7558, Lon: 37.6173}
	svc := &mockSearchUseCase{resp: searchuc.Response{
		Origin:        loc,
		OriginAddress: "Moscow, Arbat St",
		Results: []domsearch.Result{
			{
				Photo:          domphoto.Photo{ID: "p1", Location: &loc},
				DistanceMeters: 1234.4,
				DownloadURL:    "https://storage/p1",
			},
		},
	}}
	c := &Client{searchSvc: svc}

	resp, err := c.Search(context.Background(), "owner", SearchRequest{Address: "Moscow, Arbat St"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Address != "Moscow, Arbat St" {
		t.Errorf("unexpected address: %q", resp.Address)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].DistanceKm != 1.23 {
		t.Errorf("expected distance 1.23, got %f", resp.Results[0].DistanceKm)
	}
	if resp.Results[0].Photo.DownloadURL != "https://storage/p1" {
		t.Errorf("unexpected download URL: %q", resp.Results[0].Photo.DownloadURL)
	}
}

func TestSearch_ErrorPassThrough(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUseCase{err: domain.ErrNoResults}}

	_, err := c.Search(context.Background(), "owner", SearchRequest{Address: "Moscow"})
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestHistory_FlattensParams(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockSearchUseCase{entries: []domsearch.HistoryEntry{
		{
			ID:        "h1",
			QueryType: domsearch.QueryTypeCoords,
			Params: domsearch.Params{
				Latitude:  55.7558,
				Longitude: 37.6173,
				RadiusKm:  2,
				Principle: "radius",
			},
			ResultCount: 3,
			CreatedAt:   created,
		},
	}}
	c := &Client{searchSvc: svc}

	entries, err := c.History(context.Background(), "owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.QueryType != domsearch.QueryTypeCoords || e.Latitude != 55.7558 || e.ResultsCount != 3 {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestDeletePhoto_Delegates(t *testing.T) {
	svc := &mockPhotoUseCase{}
	c := &Client{photoSvc: svc}

	if err := c.DeletePhoto(context.Background(), "owner", "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "p1" {
		t.Errorf("expected delete delegation, got %v", svc.deleted)
	}
}
