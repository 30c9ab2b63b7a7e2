package usecase

import (
	"context"
	"io"

	"github.com/hszk-dev/tunecache/internal/auth"
	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
	"github.com/hszk-dev/tunecache/internal/provider"
)

// mockTrackRepository provides a configurable mock for TrackRepository.
type mockTrackRepository struct {
	getByVideoIDFn func(ctx context.Context, videoID string) (*model.Track, error)
	upsertFn       func(ctx context.Context, track *model.Track) error
}

func (m *mockTrackRepository) GetByVideoID(ctx context.Context, videoID string) (*model.Track, error) {
	if m.getByVideoIDFn != nil {
		return m.getByVideoIDFn(ctx, videoID)
	}
	return nil, repository.ErrTrackNotFound
}

func (m *mockTrackRepository) Upsert(ctx context.Context, track *model.Track) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, track)
	}
	return nil
}

// mockQueryMappingRepository provides a configurable mock for QueryMappingRepository.
type mockQueryMappingRepository struct {
	getVideoIDFn func(ctx context.Context, normalizedQuery string) (string, error)
	putFn        func(ctx context.Context, mapping *model.QueryMapping) error
}

func (m *mockQueryMappingRepository) GetVideoID(ctx context.Context, normalizedQuery string) (string, error) {
	if m.getVideoIDFn != nil {
		return m.getVideoIDFn(ctx, normalizedQuery)
	}
	return "", repository.ErrMappingNotFound
}

func (m *mockQueryMappingRepository) Put(ctx context.Context, mapping *model.QueryMapping) error {
	if m.putFn != nil {
		return m.putFn(ctx, mapping)
	}
	return nil
}

// mockTrackCache provides a configurable mock for cache.TrackCache.
type mockTrackCache struct {
	getFn func(videoID string) (*model.Track, bool)
	setFn func(track *model.Track)
	lenFn func() int
}

func (m *mockTrackCache) Get(videoID string) (*model.Track, bool) {
	if m.getFn != nil {
		return m.getFn(videoID)
	}
	return nil, false
}

func (m *mockTrackCache) Set(track *model.Track) {
	if m.setFn != nil {
		m.setFn(track)
	}
}

func (m *mockTrackCache) Len() int {
	if m.lenFn != nil {
		return m.lenFn()
	}
	return 0
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishFetchTaskFn  func(ctx context.Context, task repository.FetchTask) error
	consumeFetchTasksFn func(ctx context.Context, handler func(task repository.FetchTask) error) error
}

func (m *mockMessageQueue) PublishFetchTask(ctx context.Context, task repository.FetchTask) error {
	if m.publishFetchTaskFn != nil {
		return m.publishFetchTaskFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeFetchTasks(ctx context.Context, handler func(task repository.FetchTask) error) error {
	if m.consumeFetchTasksFn != nil {
		return m.consumeFetchTasksFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	uploadFn func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	existsFn func(ctx context.Context, key string) (bool, error)
	urlFn    func(key string) string
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, size, contentType)
	}
	return "http://blob.example.com/tracks/" + key, nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockObjectStorage) URL(key string) string {
	if m.urlFn != nil {
		return m.urlFn(key)
	}
	return "http://blob.example.com/tracks/" + key
}

// mockNotifier provides a configurable mock for Notifier.
type mockNotifier struct {
	notifyCachedFn func(ctx context.Context, event repository.CacheEvent) error
}

func (m *mockNotifier) NotifyCached(ctx context.Context, event repository.CacheEvent) error {
	if m.notifyCachedFn != nil {
		return m.notifyCachedFn(ctx, event)
	}
	return nil
}

// mockMetadataProvider provides a configurable mock for MetadataProvider.
type mockMetadataProvider struct {
	lookupFn func(ctx context.Context, videoID string) (provider.Metadata, error)
	searchFn func(ctx context.Context, query string) (provider.Metadata, error)
}

func (m *mockMetadataProvider) Lookup(ctx context.Context, videoID string) (provider.Metadata, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, videoID)
	}
	return provider.Metadata{}, nil
}

func (m *mockMetadataProvider) Search(ctx context.Context, query string) (provider.Metadata, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return provider.Metadata{}, provider.ErrNoResults
}

// mockMediaFetcher provides a configurable mock for MediaFetcher.
type mockMediaFetcher struct {
	fetchFn func(ctx context.Context, videoID, destPath string) error
}

func (m *mockMediaFetcher) Fetch(ctx context.Context, videoID, destPath string) error {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, videoID, destPath)
	}
	return nil
}

// mockVerifier provides a configurable mock for auth.Verifier.
type mockVerifier struct {
	verifyFn func(ctx context.Context, key string) (auth.Result, error)
}

func (m *mockVerifier) Verify(ctx context.Context, key string) (auth.Result, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, key)
	}
	return auth.Result{OK: true}, nil
}

// mockCacheService provides a configurable mock for CacheService.
type mockCacheService struct {
	lookupFn func(ctx context.Context, videoID string) (*model.Track, error)
	getFn    func(ctx context.Context, videoID string) (*model.Track, error)
	upsertFn func(ctx context.Context, track *model.Track) error
}

func (m *mockCacheService) Lookup(ctx context.Context, videoID string) (*model.Track, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, videoID)
	}
	return nil, nil
}

func (m *mockCacheService) Get(ctx context.Context, videoID string) (*model.Track, error) {
	if m.getFn != nil {
		return m.getFn(ctx, videoID)
	}
	return nil, repository.ErrTrackNotFound
}

func (m *mockCacheService) Upsert(ctx context.Context, track *model.Track) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, track)
	}
	return nil
}

// mockResolveService provides a configurable mock for ResolveService.
type mockResolveService struct {
	resolveFn  func(ctx context.Context, rawInput string) (*Resolution, error)
	describeFn func(ctx context.Context, videoID string) *Resolution
}

func (m *mockResolveService) Resolve(ctx context.Context, rawInput string) (*Resolution, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, rawInput)
	}
	return nil, ErrNotFound
}

func (m *mockResolveService) Describe(ctx context.Context, videoID string) *Resolution {
	if m.describeFn != nil {
		return m.describeFn(ctx, videoID)
	}
	return &Resolution{VideoID: videoID, Title: videoID, DurationLabel: model.UnknownDuration}
}
