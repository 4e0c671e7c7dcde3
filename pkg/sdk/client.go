package geosnap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	dbRedis "github.com/geosnap-io/geosnap/internal/db/redis"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
	domsearch "github.com/geosnap-io/geosnap/internal/domain/search"
	"github.com/geosnap-io/geosnap/internal/exif"
	"github.com/geosnap-io/geosnap/internal/objstore"
	"github.com/geosnap-io/geosnap/internal/repository/geocache"
	historyrepo "github.com/geosnap-io/geosnap/internal/repository/history"
	photorepo "github.com/geosnap-io/geosnap/internal/repository/photo"
	openaiOCR "github.com/geosnap-io/geosnap/internal/transport/openai"
	"github.com/geosnap-io/geosnap/internal/transport/yandex"
	photouc "github.com/geosnap-io/geosnap/internal/usecase/photo"
	"github.com/geosnap-io/geosnap/internal/usecase/resolve"
	searchuc "github.com/geosnap-io/geosnap/internal/usecase/search"
)

const defaultCacheTTL = 24 * time.Hour

// Internal interfaces for substitution in tests.
type photoUseCase interface {
	Upload(ctx context.Context, ownerID, originalFilename string, data []byte, contentType string) (domphoto.Photo, error)
	Get(ctx context.Context, ownerID, id string) (photouc.Detail, error)
	List(ctx context.Context, ownerID string) ([]photouc.Detail, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type searchUseCase interface {
	Search(ctx context.Context, ownerID string, q domsearch.Query) (searchuc.Response, error)
	SearchByCoordinates(ctx context.Context, ownerID string, origin geo.Point, radiusKm float64) ([]domsearch.Result, error)
	History(ctx context.Context, ownerID string) ([]domsearch.HistoryEntry, error)
}

// Client is the geosnap SDK entry point.
type Client struct {
	db        *sqlx.DB
	cache     *dbRedis.Store
	photoSvc  photoUseCase
	searchSvc searchUseCase
}

// New creates a geosnap Client: connects to Postgres and the object store,
// runs migrations, and assembles the resolution pipeline.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("geosnap: postgres dsn required (use WithPostgres)")
	}
	if cfg.storageEndpoint == "" || cfg.storageBucket == "" {
		return nil, errors.New("geosnap: object storage required (use WithStorage)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	pg, err := sqlx.ConnectContext(ctx, "postgres", cfg.dsn)
	if err != nil {
		return nil, fmt.Errorf("geosnap: connect to database: %w", err)
	}
	if err := photorepo.Migrate(pg); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("geosnap: %w", err)
	}
	if err := historyrepo.Migrate(pg); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("geosnap: %w", err)
	}

	blobs, err := objstore.New(objstore.Config{
		Endpoint:  cfg.storageEndpoint,
		AccessKey: cfg.storageAccessKey,
		SecretKey: cfg.storageSecretKey,
		Bucket:    cfg.storageBucket,
		UseSSL:    cfg.storageUseSSL,
	})
	if err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("geosnap: create object storage client: %w", err)
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("geosnap: %w", err)
	}

	var cache *dbRedis.Store
	if len(cfg.cacheAddrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
			DB:       cfg.cacheDB,
		})
		if err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("geosnap: create cache store: %w", err)
		}
	}

	var geocoder geocache.Geocoder
	if cfg.geocoderAPIKey != "" {
		geocoder = yandex.NewGeocoder(yandex.GeocoderConfig{APIKey: cfg.geocoderAPIKey})
		if cache != nil {
			geocoder = geocache.New(geocoder, cache, defaultCacheTTL, cfg.logger)
		}
	}

	var detector resolve.TextDetector
	switch cfg.visionProvider {
	case "yandex":
		detector = yandex.NewVision(yandex.VisionConfig{APIKey: cfg.visionAPIKey})
	case "openai":
		detector = openaiOCR.NewOCR(openaiOCR.Config{APIKey: cfg.visionAPIKey, Model: cfg.visionModel})
	}

	resCfg := resolve.DefaultConfig()
	if cfg.locality != "" {
		resCfg.DefaultLocality = cfg.locality
	}

	var resolveGeocoder resolve.Geocoder
	if geocoder != nil {
		resolveGeocoder = geocoder
	}
	chain := resolve.NewChain(resCfg, detector, resolveGeocoder)
	addresses := resolve.NewAddressResolver(resolveGeocoder, resCfg.DefaultLocality)

	photoRepo := photorepo.New(pg)
	historyRepo := historyrepo.New(pg)

	var searchGeocoder searchuc.Geocoder
	if geocoder != nil {
		searchGeocoder = geocoder
	}

	return &Client{
		db:        pg,
		cache:     cache,
		photoSvc:  photouc.New(photoRepo, exif.NewExtractor(), chain, addresses, blobs),
		searchSvc: searchuc.New(photoRepo, historyRepo, searchGeocoder, addresses, blobs),
	}, nil
}

// Close releases the database and cache connections.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
}

// Upload runs the resolution pipeline for one image and persists the record.
func (c *Client) Upload(
	ctx context.Context, ownerID, filename string, data []byte, contentType string,
) (Photo, error) {
	record, err := c.photoSvc.Upload(ctx, ownerID, filename, data, contentType)
	if err != nil {
		return Photo{}, err
	}
	return photoFromDomain(record, ""), nil
}

// Photo returns one owned record.
func (c *Client) Photo(ctx context.Context, ownerID, id string) (Photo, error) {
	detail, err := c.photoSvc.Get(ctx, ownerID, id)
	if err != nil {
		return Photo{}, err
	}
	return photoFromDomain(detail.Photo, detail.DownloadURL), nil
}

// Photos returns all owned records, newest first.
func (c *Client) Photos(ctx context.Context, ownerID string) ([]Photo, error) {
	details, err := c.photoSvc.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Photo, len(details))
	for i, d := range details {
		out[i] = photoFromDomain(d.Photo, d.DownloadURL)
	}
	return out, nil
}

// DeletePhoto removes a record and its stored blob.
func (c *Client) DeletePhoto(ctx context.Context, ownerID, id string) error {
	return c.photoSvc.Delete(ctx, ownerID, id)
}

// Search runs the general spatial search.
func (c *Client) Search(ctx context.Context, ownerID string, req SearchRequest) (SearchResponse, error) {
	q, err := queryFromRequest(req)
	if err != nil {
		return SearchResponse{}, err
	}
	resp, err := c.searchSvc.Search(ctx, ownerID, q)
	if err != nil {
		return SearchResponse{}, err
	}
	return searchResponseFromDomain(resp), nil
}

// SearchByCoordinates runs the fixed-shape coordinate search: ascending
// distance, at most 10 results, no history entry.
func (c *Client) SearchByCoordinates(
	ctx context.Context, ownerID string, lat, lon, radiusKm float64,
) ([]SearchResult, error) {
	results, err := c.searchSvc.SearchByCoordinates(ctx, ownerID, geo.Point{Lat: lat, Lon: lon}, radiusKm)
	if err != nil {
		return nil, err
	}
	return resultsFromDomain(results), nil
}

// History returns the owner's recorded searches, newest first.
func (c *Client) History(ctx context.Context, ownerID string) ([]HistoryEntry, error) {
	entries, err := c.searchSvc.History(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = historyFromDomain(e)
	}
	return out, nil
}
