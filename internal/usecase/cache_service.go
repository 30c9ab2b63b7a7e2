package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
	"github.com/hszk-dev/tunecache/internal/infrastructure/cache"
	"github.com/hszk-dev/tunecache/internal/infrastructure/metrics"
)

// CacheService manages the two cache tiers: the in-process map and the
// durable store. The in-process tier is a read-through mirror of ready
// records in the durable tier.
type CacheService interface {
	// Lookup returns the ready track for a video ID, or nil, nil on a miss.
	// Placeholder records are never returned as hits. Durable-store
	// failures degrade to a miss rather than failing the request.
	Lookup(ctx context.Context, videoID string) (*model.Track, error)

	// Get returns the durable record whether or not it is ready.
	// Returns repository.ErrTrackNotFound when no record exists.
	Get(ctx context.Context, videoID string) (*model.Track, error)

	// Upsert writes the track to the durable store first, then mirrors it
	// into the in-process tier if the write produced a ready record.
	Upsert(ctx context.Context, track *model.Track) error
}

type cacheService struct {
	repo    repository.TrackRepository
	memory  cache.TrackCache
	sfGroup singleflight.Group
}

// NewCacheService creates a CacheService over the given tiers.
func NewCacheService(repo repository.TrackRepository, memory cache.TrackCache) CacheService {
	return &cacheService{
		repo:   repo,
		memory: memory,
	}
}

// Lookup implements the read-through policy.
// Uses singleflight to coalesce concurrent durable reads for the same ID.
func (s *cacheService) Lookup(ctx context.Context, videoID string) (*model.Track, error) {
	if track, found := s.memory.Get(videoID); found {
		metrics.CacheLookupsTotal.WithLabelValues(metrics.TierMemory, metrics.CacheStatusHit).Inc()
		return track, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues(metrics.TierMemory, metrics.CacheStatusMiss).Inc()

	result, err, shared := s.sfGroup.Do(videoID, func() (any, error) {
		track, err := s.lookupDurable(ctx, videoID)
		if err != nil || track == nil {
			return nil, err
		}
		return track, nil
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.(*model.Track), nil
}

// lookupDurable reads the durable tier and mirrors ready records into the
// in-process tier. Returns nil, nil on a miss; a placeholder counts as a
// miss and is not memoized.
func (s *cacheService) lookupDurable(ctx context.Context, videoID string) (*model.Track, error) {
	track, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrTrackNotFound) {
			metrics.CacheLookupsTotal.WithLabelValues(metrics.TierDurable, metrics.CacheStatusMiss).Inc()
			return nil, nil
		}
		// Durable tier unavailable: degrade to a miss so the request can
		// fall through to resolution and fetch.
		metrics.CacheLookupsTotal.WithLabelValues(metrics.TierDurable, metrics.CacheStatusError).Inc()
		slog.Warn("durable cache lookup failed, treating as miss",
			"video_id", videoID,
			"error", err,
		)
		return nil, nil
	}

	if !track.IsReady() {
		metrics.CacheLookupsTotal.WithLabelValues(metrics.TierDurable, metrics.CacheStatusMiss).Inc()
		return nil, nil
	}

	metrics.CacheLookupsTotal.WithLabelValues(metrics.TierDurable, metrics.CacheStatusHit).Inc()
	s.memory.Set(track)
	return track, nil
}

// Get returns the durable record regardless of readiness.
func (s *cacheService) Get(ctx context.Context, videoID string) (*model.Track, error) {
	return s.repo.GetByVideoID(ctx, videoID)
}

// Upsert writes durable-first; the in-process tier only ever mirrors
// records the durable tier has accepted.
func (s *cacheService) Upsert(ctx context.Context, track *model.Track) error {
	if err := s.repo.Upsert(ctx, track); err != nil {
		return fmt.Errorf("upsert track: %w", err)
	}

	if track.IsReady() {
		s.memory.Set(track)
	}

	return nil
}
