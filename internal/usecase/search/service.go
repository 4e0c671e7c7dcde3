// Package search implements spatial search over resolved photo records:
// origin resolution, filter pushdown, geodesic distance, policy ranking,
// and the search-history audit trail.
package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/domain"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
	domsearch "github.com/geosnap-io/geosnap/internal/domain/search"
	"github.com/geosnap-io/geosnap/internal/logger"
	"github.com/geosnap-io/geosnap/internal/metrics"
)

// Response is a completed search: the resolved origin plus ranked results.
type Response struct {
	Origin        geo.Point
	OriginAddress string
	Results       []domsearch.Result
}

// Service executes searches against the record store.
type Service struct {
	repo      Repository
	history   HistoryStore
	geocoder  Geocoder
	addresses AddressResolver
	signer    URLSigner
}

// New creates a search service. geocoder and signer may be nil; address-based
// origins then fail as unresolvable and download URLs stay empty.
func New(repo Repository, history HistoryStore, geocoder Geocoder, addresses AddressResolver, signer URLSigner) *Service {
	return &Service{repo: repo, history: history, geocoder: geocoder, addresses: addresses, signer: signer}
}

// Search runs the general search. An empty match set is reported as
// domain.ErrNoResults and leaves no history entry.
func (s *Service) Search(ctx context.Context, ownerID string, q domsearch.Query) (Response, error) {
	origin, originAddress, err := s.resolveOrigin(ctx, q)
	if err != nil {
		return Response{}, err
	}

	candidates, err := s.repo.FindFiltered(ctx, ownerID, filterFrom(q))
	if err != nil {
		return Response{}, fmt.Errorf("find candidates: %w", err)
	}

	results := rank(candidates, origin, q.SearchPolicy(), q.RadiusKm())
	if len(results) > q.MaxResults() {
		results = results[:q.MaxResults()]
	}

	metrics.SearchesTotal.WithLabelValues(string(q.SearchPolicy())).Inc()

	if len(results) == 0 {
		return Response{}, fmt.Errorf("%w: no photos matched", domain.ErrNoResults)
	}

	s.signResults(ctx, results)
	s.record(ctx, ownerID, q, origin, originAddress, len(results))

	return Response{Origin: origin, OriginAddress: originAddress, Results: results}, nil
}

// SearchByCoordinates runs the fixed-shape coordinate search: radius bound,
// ascending distance, cap of 10, no history entry, and an empty result set
// is an ordinary answer rather than an error.
func (s *Service) SearchByCoordinates(
	ctx context.Context, ownerID string, origin geo.Point, radiusKm float64,
) ([]domsearch.Result, error) {
	if !geo.Valid(origin.Lat, origin.Lon) {
		return nil, fmt.Errorf("%w: origin out of range: %s", domain.ErrInvalidQuery, origin)
	}
	if radiusKm == 0 {
		radiusKm = domsearch.DefaultRadiusKm
	}
	if radiusKm < 0 {
		return nil, fmt.Errorf("%w: radius_km must be positive, got %f", domain.ErrInvalidQuery, radiusKm)
	}

	candidates, err := s.repo.FindFiltered(ctx, ownerID, domphoto.Filter{
		Status:          domphoto.StatusCompleted,
		RequireLocation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	results := withinRadius(candidates, origin, radiusKm)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	if len(results) > domsearch.CoordinateMaxResults {
		results = results[:domsearch.CoordinateMaxResults]
	}

	metrics.SearchesTotal.WithLabelValues("coordinates").Inc()

	s.signResults(ctx, results)
	return results, nil
}

// History returns the owner's audit entries, newest first.
func (s *Service) History(ctx context.Context, ownerID string) ([]domsearch.HistoryEntry, error) {
	return s.history.List(ctx, ownerID)
}

// resolveOrigin turns the query into a concrete origin point. A supplied
// point wins and its display address comes from the address resolver, which
// never fails; an address-only query goes through the geocoder and its
// failure is the unresolvable-origin signal.
func (s *Service) resolveOrigin(ctx context.Context, q domsearch.Query) (geo.Point, string, error) {
	if p := q.Origin(); p != nil {
		address := q.OriginAddress()
		if address == "" && s.addresses != nil {
			address = s.addresses.Resolve(ctx, *p)
		}
		return *p, address, nil
	}

	address := q.OriginAddress()
	if address == "" {
		return geo.Point{}, "", fmt.Errorf("%w: either coordinates or address required", domain.ErrInvalidQuery)
	}
	if s.geocoder == nil {
		return geo.Point{}, "", fmt.Errorf("%w: no geocoder configured", domain.ErrUnresolvableOrigin)
	}
	p, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return geo.Point{}, "", fmt.Errorf("%w: %q: %v", domain.ErrUnresolvableOrigin, address, err)
	}
	return p, address, nil
}

// filterFrom builds the pushed-down predicate set for q.
func filterFrom(q domsearch.Query) domphoto.Filter {
	f := domphoto.Filter{
		Status:          domphoto.StatusCompleted,
		RequireLocation: true,
	}
	if years := q.TimeWindowYears(); years > 0 {
		f.CreatedAfter = time.Now().UTC().Add(-time.Duration(years) * 365 * 24 * time.Hour)
	}
	if src := q.SourceFilter(); src != domsearch.DefaultSourceFilter {
		f.Source = src
	}
	if mc := q.MinConfidence(); mc > 0 {
		f.MinConfidence = &mc
	}
	return f
}

// rank applies the distance bound and ordering for the chosen policy.
func rank(candidates []domphoto.Photo, origin geo.Point, policy domsearch.Policy, radiusKm float64) []domsearch.Result {
	if policy == domsearch.PolicyNearest {
		results := withDistances(candidates, origin)
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DistanceMeters < results[j].DistanceMeters
		})
		return results
	}

	results := withinRadius(candidates, origin, radiusKm)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Photo.RecencyKey().After(results[j].Photo.RecencyKey())
	})
	return results
}

func withDistances(candidates []domphoto.Photo, origin geo.Point) []domsearch.Result {
	results := make([]domsearch.Result, 0, len(candidates))
	for _, p := range candidates {
		if p.Location == nil {
			continue
		}
		results = append(results, domsearch.Result{
			Photo:          p,
			DistanceMeters: geo.Distance(origin, *p.Location),
		})
	}
	return results
}

// withinRadius keeps candidates at or inside the radius. The boundary is
// inclusive: a record exactly radiusKm away matches.
func withinRadius(candidates []domphoto.Photo, origin geo.Point, radiusKm float64) []domsearch.Result {
	maxMeters := radiusKm * 1000
	results := withDistances(candidates, origin)
	kept := results[:0]
	for _, r := range results {
		if r.DistanceMeters <= maxMeters {
			kept = append(kept, r)
		}
	}
	return kept
}

func (s *Service) signResults(ctx context.Context, results []domsearch.Result) {
	if s.signer == nil {
		return
	}
	for i := range results {
		url, err := s.signer.Presign(ctx, results[i].Photo.StorageKey)
		if err != nil {
			logger.FromContext(ctx).Warn("presign failed",
				zap.String("storage_key", results[i].Photo.StorageKey), zap.Error(err))
			continue
		}
		results[i].DownloadURL = url
	}
}

// record appends the audit entry for a successful search. Audit failures are
// logged, not surfaced.
func (s *Service) record(
	ctx context.Context, ownerID string, q domsearch.Query,
	origin geo.Point, originAddress string, count int,
) {
	queryType := domsearch.QueryTypeAddress
	if q.Origin() != nil {
		queryType = domsearch.QueryTypeCoords
	}
	entry := domsearch.HistoryEntry{
		OwnerID:   ownerID,
		QueryType: queryType,
		Params: domsearch.Params{
			Latitude:  origin.Lat,
			Longitude: origin.Lon,
			Address:   originAddress,
			RadiusKm:  q.RadiusKm(),
			Principle: string(q.SearchPolicy()),
		},
		ResultCount: count,
	}
	if err := s.history.Append(ctx, &entry); err != nil {
		logger.FromContext(ctx).Warn("history append failed", zap.Error(err))
	}
}
