package repository

import (
	"context"

	"github.com/hszk-dev/tunecache/internal/domain/model"
)

// TrackRepository defines the durable tier for cached tracks.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type TrackRepository interface {
	// GetByVideoID retrieves a track by its canonical video ID, whether or
	// not it is ready. Returns ErrTrackNotFound if no record exists.
	GetByVideoID(ctx context.Context, videoID string) (*model.Track, error)

	// Upsert inserts the track or merges its fields into an existing record
	// keyed by video ID, so concurrent writers for the same ID converge
	// rather than duplicate. An existing non-empty stream URL is preserved
	// when the incoming track carries none.
	Upsert(ctx context.Context, track *model.Track) error
}

// QueryMappingRepository is the secondary index from normalized free-text
// queries to video IDs. Mappings are write-once: a query keeps the first
// video ID it resolved to.
type QueryMappingRepository interface {
	// GetVideoID returns the video ID a normalized query maps to.
	// Returns ErrMappingNotFound when the query has never been resolved.
	GetVideoID(ctx context.Context, normalizedQuery string) (string, error)

	// Put records a mapping. Inserting an already-mapped query is a no-op;
	// the original mapping wins.
	Put(ctx context.Context, mapping *model.QueryMapping) error
}
