// Package chi exposes the HTTP API: photo upload and management, spatial
// search, search history, health, and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/domain"
	"github.com/geosnap-io/geosnap/internal/domain/geo"
	domsearch "github.com/geosnap-io/geosnap/internal/domain/search"
	healthuc "github.com/geosnap-io/geosnap/internal/usecase/health"
	photouc "github.com/geosnap-io/geosnap/internal/usecase/photo"
	searchuc "github.com/geosnap-io/geosnap/internal/usecase/search"
)

// maxUploadBytes bounds the multipart form kept in memory.
const maxUploadBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchDefaults are the configured fallbacks applied to search requests
// that leave the corresponding fields unset.
type SearchDefaults struct {
	RadiusKm   float64
	MinScore   float64
	MaxResults int
}

// Server hosts the HTTP handlers.
type Server struct {
	photos        *photouc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	defaults      SearchDefaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. Zero-valued defaults fall back to
// the domain constants.
func NewServer(
	photos *photouc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	defaults SearchDefaults,
	logger *zap.Logger,
) *Server {
	if defaults.RadiusKm == 0 {
		defaults.RadiusKm = domsearch.DefaultRadiusKm
	}
	if defaults.MinScore == 0 {
		defaults.MinScore = domsearch.DefaultMinConfidence
	}
	if defaults.MaxResults == 0 {
		defaults.MaxResults = domsearch.DefaultMaxResults
	}
	s := &Server{
		photos:   photos,
		search:   search,
		health:   health,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrInvalidImage, http.StatusBadRequest, codeInvalidImage),
		sentinelHandler(domain.ErrUnresolvableOrigin, http.StatusBadRequest, codeUnresolvableOrigin),
		sentinelHandler(domain.ErrNoResults, http.StatusNotFound, codeNoResults),
		sentinelHandler(domain.ErrPhotoNotFound, http.StatusNotFound, codePhotoNotFound),
		sentinelHandler(domain.ErrAddressNotFound, http.StatusBadRequest, codeUnresolvableOrigin),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
	}
	return s
}

// Routes registers all handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/photos", s.UploadPhoto)
		r.Get("/photos", s.ListPhotos)
		r.Get("/photos/{id}", s.GetPhoto)
		r.Delete("/photos/{id}", s.DeletePhoto)

		r.Post("/search", s.Search)
		r.Post("/search/by-coordinates", s.SearchByCoordinates)
		r.Get("/search/history", s.SearchHistory)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// UploadPhoto handles POST /api/v1/photos.
func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read file: "+err.Error())
		return
	}

	record, err := s.photos.Upload(
		r.Context(), OwnerFromContext(r.Context()),
		header.Filename, data, header.Header.Get("Content-Type"),
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, photoToResponse(record, ""))
}

// ListPhotos handles GET /api/v1/photos.
func (s *Server) ListPhotos(w http.ResponseWriter, r *http.Request) {
	details, err := s.photos.List(r.Context(), OwnerFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]photoResponse, len(details))
	for i, d := range details {
		items[i] = photoToResponse(d.Photo, d.DownloadURL)
	}
	writeJSON(w, http.StatusOK, photoListResponse{Items: items, Total: len(items)})
}

// GetPhoto handles GET /api/v1/photos/{id}.
func (s *Server) GetPhoto(w http.ResponseWriter, r *http.Request) {
	detail, err := s.photos.Get(r.Context(), OwnerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photoToResponse(detail.Photo, detail.DownloadURL))
}

// DeletePhoto handles DELETE /api/v1/photos/{id}.
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.photos.Delete(r.Context(), OwnerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := s.queryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), OwnerFromContext(r.Context()), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchToResponse(resp))
}

// SearchByCoordinates handles POST /api/v1/search/by-coordinates.
func (s *Server) SearchByCoordinates(w http.ResponseWriter, r *http.Request) {
	var req byCoordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "latitude and longitude are required")
		return
	}

	radiusKm := req.RadiusKm
	if radiusKm == 0 {
		radiusKm = s.defaults.RadiusKm
	}

	results, err := s.search.SearchByCoordinates(
		r.Context(), OwnerFromContext(r.Context()),
		geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}, radiusKm,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]resultResponse, len(results))
	for i := range results {
		items[i] = resultToResponse(&results[i])
	}
	writeJSON(w, http.StatusOK, resultListResponse{Items: items, Total: len(items)})
}

// SearchHistory handles GET /api/v1/search/history.
func (s *Server) SearchHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.search.History(r.Context(), OwnerFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]historyResponse, len(entries))
	for i, e := range entries {
		items[i] = historyToResponse(e)
	}
	writeJSON(w, http.StatusOK, historyListResponse{Items: items, Total: len(items)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPhotoNotFound,
		domain.ErrInvalidQuery,
		domain.ErrUnresolvableOrigin,
		domain.ErrNoResults,
		domain.ErrAddressNotFound,
		domain.ErrInvalidImage,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// queryFromRequest validates and normalizes the search request body,
// filling unset fields from the configured defaults.
func (s *Server) queryFromRequest(req searchRequest) (domsearch.Query, error) {
	var origin *geo.Point
	if req.Latitude != nil && req.Longitude != nil {
		origin = &geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	}

	radiusKm := req.RadiusKm
	if radiusKm == 0 {
		radiusKm = s.defaults.RadiusKm
	}

	minScore := s.defaults.MinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = s.defaults.MaxResults
	}

	return domsearch.NewQuery(
		origin,
		req.Address,
		radiusKm,
		req.TimeIntervalYears,
		req.SourceFilter,
		minScore,
		domsearch.Policy(req.SearchPrinciple),
		maxResults,
	)
}
