package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
	"github.com/hszk-dev/tunecache/internal/infrastructure/metrics"
	"github.com/hszk-dev/tunecache/internal/provider"
)

const (
	// DefaultMaxRetries is the default maximum number of retry attempts
	// before a task is dropped.
	DefaultMaxRetries = 3

	// DefaultMinFileSize is the floor below which a fetched file is
	// treated as a corrupt or empty download.
	DefaultMinFileSize = 10 * 1024
)

// PipelineServiceConfig holds configuration for PipelineService.
type PipelineServiceConfig struct {
	// TempDir is the directory for in-flight downloads.
	TempDir string
	// MinFileSize is the minimum byte size of a valid download.
	MinFileSize int64
	// MaxRetries is the maximum number of retry attempts before a task
	// is dropped.
	MaxRetries int
}

// DefaultPipelineServiceConfig returns the default configuration.
func DefaultPipelineServiceConfig() PipelineServiceConfig {
	return PipelineServiceConfig{
		TempDir:     os.TempDir(),
		MinFileSize: DefaultMinFileSize,
		MaxRetries:  DefaultMaxRetries,
	}
}

// PipelineService runs the fetch-and-publish pipeline: download content from
// the external provider, upload it to the blob host, record the resulting
// URL, and announce the new entry. Each invocation is a single attempt;
// retry policy lives with the queue consumer.
type PipelineService interface {
	// ProcessTask handles a fetch task from the message queue.
	// Returns nil on success, on skip (already ready), or on permanent
	// failure (max retries exceeded). Returns an error for failures that
	// should trigger a requeue.
	ProcessTask(ctx context.Context, task repository.FetchTask) error

	// Publish runs the pipeline for a single track and returns the durable
	// retrieval URL. The prior record state is left untouched on failure.
	Publish(ctx context.Context, res Resolution) (string, error)
}

type pipelineService struct {
	cache    CacheService
	storage  repository.ObjectStorage
	fetcher  provider.MediaFetcher
	notifier repository.Notifier

	tempDir     string
	minFileSize int64
	maxRetries  int
}

// NewPipelineService creates a PipelineService instance.
func NewPipelineService(
	cache CacheService,
	storage repository.ObjectStorage,
	fetcher provider.MediaFetcher,
	notifier repository.Notifier,
	cfg PipelineServiceConfig,
) PipelineService {
	if cfg.MinFileSize <= 0 {
		cfg.MinFileSize = DefaultMinFileSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &pipelineService{
		cache:       cache,
		storage:     storage,
		fetcher:     fetcher,
		notifier:    notifier,
		tempDir:     cfg.TempDir,
		minFileSize: cfg.MinFileSize,
		maxRetries:  cfg.MaxRetries,
	}
}

// ProcessTask handles a queued fetch task.
func (s *pipelineService) ProcessTask(ctx context.Context, task repository.FetchTask) error {
	if task.RetryCount >= s.maxRetries {
		// Drop the task; the record stays a placeholder and a later
		// request re-enqueues it.
		slog.Error("fetch task exceeded max retries, dropping",
			"video_id", task.VideoID,
			"retry_count", task.RetryCount,
		)
		return nil
	}

	// Duplicate tasks are possible when concurrent requests raced on the
	// same cold identifier; a ready record means the work is already done.
	if track, err := s.cache.Lookup(ctx, task.VideoID); err == nil && track != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.PipelineSkipped).Inc()
		return nil
	}

	_, err := s.Publish(ctx, Resolution{
		VideoID:       task.VideoID,
		Title:         task.Title,
		DurationLabel: task.DurationLabel,
		ThumbnailURL:  task.ThumbnailURL,
	})
	return err
}

// Publish runs the pipeline steps in order: fetch, validate, upload,
// cleanup, persist, notify. A blob already present under the track's key
// skips the fetch and upload steps; that happens when an earlier run
// uploaded but failed to persist, and re-downloading would repeat work the
// blob host already holds.
func (s *pipelineService) Publish(ctx context.Context, res Resolution) (string, error) {
	key := path.Join("tracks", res.VideoID+".mp3")

	if exists, err := s.storage.Exists(ctx, key); err == nil && exists {
		slog.Info("blob already published, skipping fetch",
			"video_id", res.VideoID,
			"key", key,
		)
		return s.record(ctx, res, s.storage.URL(key)), nil
	} else if err != nil {
		// The check is an optimization; when it fails the full
		// pipeline still runs.
		slog.Warn("blob existence check failed",
			"video_id", res.VideoID,
			"error", err,
		)
	}

	// Unique per-invocation filename: two racing runs for the same ID must
	// not collide on disk.
	localPath := filepath.Join(s.tempDir, uuid.NewString()+".mp3")
	defer func() { _ = os.Remove(localPath) }()

	if err := s.fetcher.Fetch(ctx, res.VideoID, localPath); err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.PipelineFetchFailed).Inc()
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	size, err := s.validateDownload(localPath)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.PipelineFetchFailed).Inc()
		return "", err
	}

	streamURL, err := s.upload(ctx, key, localPath, size)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.PipelineUploadFailed).Inc()
		return "", err
	}

	return s.record(ctx, res, streamURL), nil
}

// record persists the ready track and announces it. Persist failures are
// logged but not returned; the blob exists and the URL is valid, so the
// publish itself succeeded.
func (s *pipelineService) record(ctx context.Context, res Resolution, streamURL string) string {
	if err := s.persist(ctx, res, streamURL); err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.PipelinePersistFailed).Inc()
		slog.Error("content published but not recorded in durable cache",
			"video_id", res.VideoID,
			"stream_url", streamURL,
			"error", err,
		)
	} else {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.PipelinePublished).Inc()
	}

	s.notify(res, streamURL)

	return streamURL
}

// validateDownload checks that the fetched file exists and clears the size
// floor. An undersized file fails differently from a timeout to keep the
// two diagnosable apart in logs.
func (s *pipelineService) validateDownload(localPath string) (int64, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return 0, fmt.Errorf("%w: fetched file missing: %v", ErrFetchFailed, err)
	}
	if info.Size() < s.minFileSize {
		return 0, fmt.Errorf("%w: fetched file too small (%d bytes)", ErrFetchFailed, info.Size())
	}
	return info.Size(), nil
}

// upload streams the local file to the blob host and returns its permanent URL.
func (s *pipelineService) upload(ctx context.Context, key, localPath string, size int64) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: open fetched file: %v", ErrUploadFailed, err)
	}
	defer func() { _ = file.Close() }()

	streamURL, err := s.storage.Upload(ctx, key, file, size, "audio/mpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return streamURL, nil
}

// persist records the ready track in the cache tiers.
func (s *pipelineService) persist(ctx context.Context, res Resolution, streamURL string) error {
	track, err := model.NewTrack(res.VideoID, res.Title, res.DurationLabel)
	if err != nil {
		return err
	}
	track.ThumbnailURL = res.ThumbnailURL
	track.MarkReady(streamURL)

	return s.cache.Upsert(ctx, track)
}

// notify announces the new entry, fire-and-forget. Delivery runs detached
// from the request context so shutdown can drop it without interrupting
// anything durable.
func (s *pipelineService) notify(res Resolution, streamURL string) {
	go func() {
		_ = s.notifier.NotifyCached(context.Background(), repository.CacheEvent{
			VideoID:   res.VideoID,
			Title:     res.Title,
			StreamURL: streamURL,
		})
	}()
}
