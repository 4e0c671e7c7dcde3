package geosnap

import (
	"github.com/geosnap-io/geosnap/internal/domain/geo"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
	domsearch "github.com/geosnap-io/geosnap/internal/domain/search"
	searchuc "github.com/geosnap-io/geosnap/internal/usecase/search"
)

func photoFromDomain(p domphoto.Photo, downloadURL string) Photo {
	out := Photo{
		ID:               p.ID,
		Filename:         p.Filename,
		OriginalFilename: p.OriginalFilename,
		Status:           p.Status,
		LocationSource:   string(p.LocationSource),
		Address:          p.Address,
		Source:           p.Source,
		Confidence:       p.Confidence,
		Resolution:       p.Resolution,
		Metadata:         p.Metadata,
		CreatedAt:        p.CreatedAt,
		ProcessedAt:      p.ProcessedAt,
		DownloadURL:      downloadURL,
	}
	if p.Location != nil {
		lat, lon := p.Location.Lat, p.Location.Lon
		out.Latitude = &lat
		out.Longitude = &lon
	}
	return out
}

func queryFromRequest(req SearchRequest) (domsearch.Query, error) {
	var origin *geo.Point
	if req.Latitude != nil && req.Longitude != nil {
		origin = &geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	}

	minScore := domsearch.DefaultMinConfidence
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	return domsearch.NewQuery(
		origin,
		req.Address,
		req.RadiusKm,
		req.TimeIntervalYears,
		req.SourceFilter,
		minScore,
		domsearch.Policy(req.Principle),
		req.MaxResults,
	)
}

func resultsFromDomain(results []domsearch.Result) []SearchResult {
	out := make([]SearchResult, len(results))
	for i := range results {
		out[i] = SearchResult{
			Photo:      photoFromDomain(results[i].Photo, results[i].DownloadURL),
			DistanceKm: results[i].DistanceKm(),
		}
	}
	return out
}

func searchResponseFromDomain(resp searchuc.Response) SearchResponse {
	return SearchResponse{
		Latitude:  resp.Origin.Lat,
		Longitude: resp.Origin.Lon,
		Address:   resp.OriginAddress,
		Results:   resultsFromDomain(resp.Results),
	}
}

func historyFromDomain(e domsearch.HistoryEntry) HistoryEntry {
	return HistoryEntry{
		ID:           e.ID,
		QueryType:    e.QueryType,
		Latitude:     e.Params.Latitude,
		Longitude:    e.Params.Longitude,
		Address:      e.Params.Address,
		RadiusKm:     e.Params.RadiusKm,
		Principle:    e.Params.Principle,
		ResultsCount: e.ResultCount,
		CreatedAt:    e.CreatedAt,
	}
}
