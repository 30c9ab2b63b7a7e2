package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
	"github.com/hszk-dev/tunecache/internal/infrastructure/metrics"
	"github.com/hszk-dev/tunecache/internal/provider"
)

// Resolution is the outcome of resolving raw input to a canonical identifier
// with best-effort metadata.
type Resolution struct {
	VideoID       string
	Title         string
	DurationLabel string
	ThumbnailURL  string
}

// ResolveService maps arbitrary input (identifier, URL, or free text) to a
// Resolution, consulting the query-mapping index and the external metadata
// provider as needed.
type ResolveService interface {
	// Resolve produces a Resolution for raw input.
	// Returns ErrNotFound when no identifier is extractable and the
	// external search yields nothing.
	Resolve(ctx context.Context, rawInput string) (*Resolution, error)

	// Describe fetches metadata for a known video ID. It never fails: when
	// the provider errors, the Resolution degrades to placeholder title
	// and duration so an already-known identifier can still be served.
	Describe(ctx context.Context, videoID string) *Resolution
}

type resolveService struct {
	metadata provider.MetadataProvider
	mappings repository.QueryMappingRepository
	tracks   repository.TrackRepository
}

// NewResolveService creates a ResolveService.
func NewResolveService(
	metadata provider.MetadataProvider,
	mappings repository.QueryMappingRepository,
	tracks repository.TrackRepository,
) ResolveService {
	return &resolveService{
		metadata: metadata,
		mappings: mappings,
		tracks:   tracks,
	}
}

// Resolve applies the resolution order: identifier-shaped input never incurs
// a search, and previously seen free text never repeats one.
func (s *resolveService) Resolve(ctx context.Context, rawInput string) (*Resolution, error) {
	if videoID, ok := model.ExtractVideoID(rawInput); ok {
		return s.Describe(ctx, videoID), nil
	}

	normalized := model.NormalizeQuery(rawInput)
	if normalized == "" {
		return nil, ErrNotFound
	}

	if res, ok := s.fromMapping(ctx, normalized); ok {
		return res, nil
	}

	return s.search(ctx, rawInput, normalized)
}

// Describe fetches metadata for videoID, degrading to placeholders when the
// provider is unreachable or returns garbage.
func (s *resolveService) Describe(ctx context.Context, videoID string) *Resolution {
	meta, err := s.metadata.Lookup(ctx, videoID)
	if err != nil || meta.VideoID == "" {
		metrics.ResolutionsTotal.WithLabelValues(metrics.ResolveSourceID, metrics.ResolveStatusDegraded).Inc()
		slog.Warn("metadata lookup degraded to placeholder",
			"video_id", videoID,
			"error", err,
		)
		return &Resolution{
			VideoID:       videoID,
			Title:         videoID,
			DurationLabel: model.UnknownDuration,
		}
	}

	metrics.ResolutionsTotal.WithLabelValues(metrics.ResolveSourceID, metrics.ResolveStatusResolved).Inc()
	return &Resolution{
		VideoID:       videoID,
		Title:         meta.Title,
		DurationLabel: model.FormatDuration(meta.DurationSeconds),
		ThumbnailURL:  meta.ThumbnailURL,
	}
}

// fromMapping serves repeat queries from the query-mapping index, attaching
// whatever metadata the mapped track carries. Index failures degrade to a
// miss so the query falls through to search.
func (s *resolveService) fromMapping(ctx context.Context, normalized string) (*Resolution, bool) {
	videoID, err := s.mappings.GetVideoID(ctx, normalized)
	if err != nil {
		if !errors.Is(err, repository.ErrMappingNotFound) {
			slog.Warn("query mapping lookup failed, falling through to search",
				"query", normalized,
				"error", err,
			)
		}
		return nil, false
	}

	metrics.ResolutionsTotal.WithLabelValues(metrics.ResolveSourceMapping, metrics.ResolveStatusResolved).Inc()

	res := &Resolution{
		VideoID:       videoID,
		Title:         videoID,
		DurationLabel: model.UnknownDuration,
	}
	if track, err := s.tracks.GetByVideoID(ctx, videoID); err == nil {
		res.Title = track.Title
		res.DurationLabel = track.DurationLabel
		res.ThumbnailURL = track.ThumbnailURL
	}
	return res, true
}

// search issues a single top-hit search and records the mapping for next time.
func (s *resolveService) search(ctx context.Context, rawInput, normalized string) (*Resolution, error) {
	meta, err := s.metadata.Search(ctx, rawInput)
	if err != nil {
		if errors.Is(err, provider.ErrNoResults) {
			metrics.ResolutionsTotal.WithLabelValues(metrics.ResolveSourceSearch, metrics.ResolveStatusNotFound).Inc()
			return nil, ErrNotFound
		}
		metrics.ResolutionsTotal.WithLabelValues(metrics.ResolveSourceSearch, metrics.ResolveStatusError).Inc()
		return nil, fmt.Errorf("search %q: %w", normalized, ErrNotFound)
	}

	metrics.ResolutionsTotal.WithLabelValues(metrics.ResolveSourceSearch, metrics.ResolveStatusResolved).Inc()

	mapping, err := model.NewQueryMapping(normalized, meta.VideoID)
	if err == nil {
		if err := s.mappings.Put(ctx, mapping); err != nil {
			// The resolution already succeeded; losing the mapping only
			// costs a repeat search later.
			slog.Warn("failed to persist query mapping",
				"query", normalized,
				"video_id", meta.VideoID,
				"error", err,
			)
		}
	}

	return &Resolution{
		VideoID:       meta.VideoID,
		Title:         meta.Title,
		DurationLabel: model.FormatDuration(meta.DurationSeconds),
		ThumbnailURL:  meta.ThumbnailURL,
	}, nil
}
