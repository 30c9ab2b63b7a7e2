// Package cache provides the in-process tier for ready tracks.
package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/hszk-dev/tunecache/internal/domain/model"
)

// TrackCache defines the in-process cache of ready tracks.
// Entries are whole-value snapshots keyed by video ID; the cache is
// append-only for the process lifetime and never invalidated.
type TrackCache interface {
	// Get returns a copy of the cached track, or false on a miss.
	Get(videoID string) (*model.Track, bool)

	// Set stores a snapshot of the track. Callers must only cache ready
	// tracks; placeholders are cheap to re-read from the durable tier.
	Set(track *model.Track)

	// Len returns the number of cached tracks.
	Len() int
}

// MemoryTrackCache implements TrackCache backed by go-cache.
type MemoryTrackCache struct {
	store *gocache.Cache
}

// NewMemoryTrackCache creates an in-process track cache. Entries never
// expire; a ready track is immutable in the fields that matter for serving.
func NewMemoryTrackCache() *MemoryTrackCache {
	return &MemoryTrackCache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a track snapshot by video ID.
func (c *MemoryTrackCache) Get(videoID string) (*model.Track, bool) {
	item, found := c.store.Get(videoID)
	if !found {
		return nil, false
	}
	track, ok := item.(model.Track)
	if !ok {
		return nil, false
	}
	// Return a copy so callers cannot mutate the cached entry.
	return &track, true
}

// Set stores a whole-entry snapshot of the track.
func (c *MemoryTrackCache) Set(track *model.Track) {
	c.store.Set(track.VideoID, *track, gocache.NoExpiration)
}

// Len returns the number of cached tracks.
func (c *MemoryTrackCache) Len() int {
	return c.store.ItemCount()
}

// Compile-time verification that MemoryTrackCache implements TrackCache.
var _ TrackCache = (*MemoryTrackCache)(nil)
