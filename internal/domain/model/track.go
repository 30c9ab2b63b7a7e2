package model

import (
	"errors"
	"strings"
	"time"
)

// UnknownDuration is the sentinel label used when a track's duration is
// unavailable or unparsable.
const UnknownDuration = "0:00"

// Track represents a cached piece of media content. A track starts its life
// as a metadata-only placeholder and becomes ready once the fetch pipeline
// attaches a durable stream URL. Ready tracks are never downgraded.
type Track struct {
	VideoID       string
	Title         string
	DurationLabel string
	StreamURL     string
	ThumbnailURL  string
	CachedAt      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// QueryMapping binds a normalized free-text query to the video ID it first
// resolved to. Mappings are written once and never updated.
type QueryMapping struct {
	NormalizedQuery string
	VideoID         string
	CreatedAt       time.Time
}

var (
	ErrInvalidVideoID = errors.New("video ID must be an 11-character identifier")
	ErrEmptyQuery     = errors.New("query cannot be empty")
)

// NewTrack creates a placeholder track for a resolved video ID.
// Title and duration are best-effort and may carry placeholder values.
func NewTrack(videoID, title, durationLabel string) (*Track, error) {
	if !IsVideoID(videoID) {
		return nil, ErrInvalidVideoID
	}
	if durationLabel == "" {
		durationLabel = UnknownDuration
	}

	now := time.Now()
	return &Track{
		VideoID:       videoID,
		Title:         title,
		DurationLabel: durationLabel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsReady reports whether the track's content has been durably published.
// The stream URL is the sole readiness signal.
func (t *Track) IsReady() bool {
	return t.StreamURL != ""
}

// MarkReady attaches the durable stream URL and stamps the cache time.
func (t *Track) MarkReady(streamURL string) {
	now := time.Now()
	t.StreamURL = streamURL
	t.CachedAt = now
	t.UpdatedAt = now
}

// NewQueryMapping creates a mapping from a raw query to a video ID.
// The query is normalized before storage.
func NewQueryMapping(rawQuery, videoID string) (*QueryMapping, error) {
	normalized := NormalizeQuery(rawQuery)
	if normalized == "" {
		return nil, ErrEmptyQuery
	}
	if !IsVideoID(videoID) {
		return nil, ErrInvalidVideoID
	}

	return &QueryMapping{
		NormalizedQuery: normalized,
		VideoID:         videoID,
		CreatedAt:       time.Now(),
	}, nil
}

// NormalizeQuery produces the canonical lookup key for a free-text query:
// lowercased with runs of whitespace collapsed to single spaces.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
