package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/tunecache/internal/auth"
	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
)

// HandleResult is the outcome of a resolve request. Exactly one of the two
// terminal shapes holds: Cached with a non-empty Link, or Pending with the
// fetch underway in the background.
type HandleResult struct {
	VideoID       string
	Title         string
	DurationLabel string
	ThumbnailURL  string
	Link          string
	Cached        bool
	Pending       bool
}

// RequestService orchestrates a single client request end to end: verify the
// caller, resolve the input, consult the cache tiers, and either serve the
// stored link or schedule a background fetch.
type RequestService interface {
	Handle(ctx context.Context, rawInput, apiKey string) (*HandleResult, error)
}

type requestService struct {
	verifier auth.Verifier
	cache    CacheService
	resolver ResolveService
	queue    repository.MessageQueue
}

// NewRequestService creates a RequestService.
func NewRequestService(
	verifier auth.Verifier,
	cache CacheService,
	resolver ResolveService,
	queue repository.MessageQueue,
) RequestService {
	return &requestService{
		verifier: verifier,
		cache:    cache,
		resolver: resolver,
		queue:    queue,
	}
}

// Handle processes one request. Identifier-shaped input is checked against
// the cache before any metadata call so warm requests never touch the
// external provider.
func (s *requestService) Handle(ctx context.Context, rawInput, apiKey string) (*HandleResult, error) {
	result, err := s.verifier.Verify(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("verify api key: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("%w: %s", ErrAuthRejected, result.Reason)
	}

	if videoID, ok := model.ExtractVideoID(rawInput); ok {
		if track, err := s.cache.Lookup(ctx, videoID); err == nil && track != nil {
			return hitResult(track), nil
		}
	}

	res, err := s.resolver.Resolve(ctx, rawInput)
	if err != nil {
		return nil, err
	}

	if track, err := s.cache.Lookup(ctx, res.VideoID); err == nil && track != nil {
		return hitResult(track), nil
	}

	return s.miss(ctx, res)
}

// miss handles the cold path: record a placeholder so concurrent and repeat
// requests see the fetch as in flight, then enqueue it. A placeholder that
// already exists means a fetch is pending and must not be enqueued again.
func (s *requestService) miss(ctx context.Context, res *Resolution) (*HandleResult, error) {
	if existing, err := s.cache.Get(ctx, res.VideoID); err == nil && !existing.IsReady() {
		return pendingResult(res), nil
	}

	track, err := model.NewTrack(res.VideoID, res.Title, res.DurationLabel)
	if err != nil {
		return nil, err
	}
	track.ThumbnailURL = res.ThumbnailURL

	if err := s.cache.Upsert(ctx, track); err != nil {
		// Without the placeholder a racing request may enqueue a duplicate
		// fetch; the worker's ready re-check absorbs that.
		slog.Warn("failed to record placeholder, enqueueing anyway",
			"video_id", res.VideoID,
			"error", err,
		)
	}

	task := repository.FetchTask{
		VideoID:       res.VideoID,
		Title:         res.Title,
		DurationLabel: res.DurationLabel,
		ThumbnailURL:  res.ThumbnailURL,
	}
	if err := s.queue.PublishFetchTask(ctx, task); err != nil {
		return nil, fmt.Errorf("publish fetch task: %w", err)
	}

	return pendingResult(res), nil
}

func hitResult(track *model.Track) *HandleResult {
	return &HandleResult{
		VideoID:       track.VideoID,
		Title:         track.Title,
		DurationLabel: track.DurationLabel,
		ThumbnailURL:  track.ThumbnailURL,
		Link:          track.StreamURL,
		Cached:        true,
	}
}

func pendingResult(res *Resolution) *HandleResult {
	return &HandleResult{
		VideoID:       res.VideoID,
		Title:         res.Title,
		DurationLabel: res.DurationLabel,
		ThumbnailURL:  res.ThumbnailURL,
		Pending:       true,
	}
}
