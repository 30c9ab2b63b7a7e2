// Package provider wraps the external media source consulted for metadata,
// search, and raw content.
package provider

import (
	"context"
	"errors"
)

// Metadata describes an item as reported by the external source.
type Metadata struct {
	// VideoID is the canonical 11-character identifier.
	VideoID string
	// Title is the human-readable title.
	Title string
	// DurationSeconds is the item length in whole seconds; 0 when unknown.
	DurationSeconds int
	// ThumbnailURL is a best-effort thumbnail link.
	ThumbnailURL string
}

var (
	// ErrNoResults is returned when a search yields no hits.
	ErrNoResults = errors.New("no search results")

	// ErrProviderFailed is returned when the external source errors or
	// returns unparsable output.
	ErrProviderFailed = errors.New("provider request failed")
)

// MetadataProvider resolves identifiers and free-text queries to metadata.
type MetadataProvider interface {
	// Lookup fetches metadata for a known video ID.
	Lookup(ctx context.Context, videoID string) (Metadata, error)

	// Search runs a free-text search and returns the top hit.
	// Returns ErrNoResults when nothing matches.
	Search(ctx context.Context, query string) (Metadata, error)
}

// MediaFetcher downloads raw media bytes for a video ID to a local file.
type MediaFetcher interface {
	// Fetch downloads the media for videoID into destPath.
	// The download is bounded by the provider's fetch timeout.
	Fetch(ctx context.Context, videoID, destPath string) error
}
