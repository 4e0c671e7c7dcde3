// Package photo implements the upload pipeline and owner-scoped record
// operations: metadata extraction, location resolution, address resolution,
// blob storage, and persistence.
package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geosnap-io/geosnap/internal/domain"
	domphoto "github.com/geosnap-io/geosnap/internal/domain/photo"
	"github.com/geosnap-io/geosnap/internal/logger"
)

// localKeyPrefix marks records whose blob never reached object storage.
const localKeyPrefix = "local/"

// Detail is a record paired with a time-limited download URL.
type Detail struct {
	Photo       domphoto.Photo
	DownloadURL string
}

// Service runs the upload pipeline and record operations.
type Service struct {
	repo     Repository
	meta     MetadataExtractor
	resolver Resolver
	addr     AddressResolver
	blobs    BlobStore
}

// New creates a photo service.
func New(repo Repository, meta MetadataExtractor, resolver Resolver, addr AddressResolver, blobs BlobStore) *Service {
	return &Service{repo: repo, meta: meta, resolver: resolver, addr: addr, blobs: blobs}
}

// Upload runs the full pipeline for one image and persists the record.
// Location resolution cannot fail, so the returned record always carries a
// location; when persistence fails the resolved record is still returned
// alongside the error.
func (s *Service) Upload(
	ctx context.Context, ownerID, originalFilename string, data []byte, contentType string,
) (domphoto.Photo, error) {
	if len(data) == 0 {
		return domphoto.Photo{}, fmt.Errorf("%w: empty file", domain.ErrInvalidImage)
	}

	log := logger.FromContext(ctx)

	id := uuid.New().String()
	filename := id + strings.ToLower(filepath.Ext(originalFilename))

	meta := s.meta.Extract(data)
	resolved := s.resolver.Resolve(ctx, meta, data)

	address := resolved.Address
	if address == "" {
		address = s.addr.Resolve(ctx, resolved.Point)
	}

	storageKey := "photos/" + filename
	if err := s.blobs.Upload(ctx, storageKey, data, contentType); err != nil {
		log.Warn("blob upload failed, keeping local key",
			zap.String("photo_id", id), zap.Error(err))
		storageKey = localKeyPrefix + filename
	}

	confidence := resolved.Source.Confidence()
	now := time.Now().UTC()

	record := domphoto.Photo{
		ID:               id,
		OwnerID:          ownerID,
		Filename:         filename,
		OriginalFilename: originalFilename,
		StorageKey:       storageKey,
		Status:           domphoto.StatusCompleted,
		Location:         &resolved.Point,
		LocationSource:   resolved.Source,
		Address:          address,
		Source:           domphoto.SourceUploaded,
		Confidence:       &confidence,
		CreatedAt:        now,
		ProcessedAt:      &now,
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		record.Resolution = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
		record.Metadata = map[string]string{"scene": classifyScene(cfg.Width, cfg.Height)}
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return record, fmt.Errorf("persist photo %s: %w", id, err)
	}

	log.Info("photo uploaded",
		zap.String("photo_id", id),
		zap.String("location_source", string(resolved.Source)),
	)
	return record, nil
}

// classifyScene buckets an image into a coarse scene tag by aspect ratio.
// Wide frames read as street-level panoramas, tall frames as facades.
func classifyScene(width, height int) string {
	if height == 0 {
		return "building"
	}
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 1.5:
		return "urban"
	case ratio < 0.8:
		return "architecture"
	default:
		return "building"
	}
}

// Get returns one owned record with a download URL.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Detail, error) {
	p, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Photo: p, DownloadURL: s.presign(ctx, p.StorageKey)}, nil
}

// List returns all owned records, newest first, with download URLs.
func (s *Service) List(ctx context.Context, ownerID string) ([]Detail, error) {
	photos, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Detail, len(photos))
	for i, p := range photos {
		out[i] = Detail{Photo: p, DownloadURL: s.presign(ctx, p.StorageKey)}
	}
	return out, nil
}

// Delete removes a record and, best-effort, its stored blob.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	p, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if !strings.HasPrefix(p.StorageKey, localKeyPrefix) {
		if err := s.blobs.Remove(ctx, p.StorageKey); err != nil {
			logger.FromContext(ctx).Warn("blob removal failed",
				zap.String("photo_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) presign(ctx context.Context, storageKey string) string {
	if strings.HasPrefix(storageKey, localKeyPrefix) {
		return ""
	}
	url, err := s.blobs.Presign(ctx, storageKey)
	if err != nil {
		logger.FromContext(ctx).Warn("presign failed",
			zap.String("storage_key", storageKey), zap.Error(err))
		return ""
	}
	return url
}
