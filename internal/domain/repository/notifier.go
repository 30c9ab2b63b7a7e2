package repository

import "context"

// CacheEvent describes a track that was freshly published to the cache.
type CacheEvent struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	StreamURL string `json:"stream_url"`
}

// Notifier delivers operational events on a best-effort basis.
// No ordering and no delivery guarantee; callers discard errors.
type Notifier interface {
	// NotifyCached announces that a track became ready.
	NotifyCached(ctx context.Context, event CacheEvent) error
}
