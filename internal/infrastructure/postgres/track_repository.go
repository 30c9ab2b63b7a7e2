package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TrackRepository implements repository.TrackRepository using PostgreSQL.
type TrackRepository struct {
	db DBTX
}

// NewTrackRepository creates a new TrackRepository instance.
func NewTrackRepository(db DBTX) *TrackRepository {
	return &TrackRepository{db: db}
}

// GetByVideoID retrieves a track by its canonical video ID.
func (r *TrackRepository) GetByVideoID(ctx context.Context, videoID string) (*model.Track, error) {
	const query = `
		SELECT video_id, title, duration_label, stream_url, thumbnail_url, cached_at, created_at, updated_at
		FROM tracks
		WHERE video_id = $1
	`

	track, err := r.scanTrack(r.db.QueryRow(ctx, query, videoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track by video ID: %w", err)
	}

	return track, nil
}

// Upsert inserts the track or merges its fields into the existing row.
// COALESCE on stream_url keeps a ready record ready even when a later writer
// carries no URL; conflicting writers for the same video ID converge on the
// last non-empty value per field.
func (r *TrackRepository) Upsert(ctx context.Context, track *model.Track) error {
	const query = `
		INSERT INTO tracks (video_id, title, duration_label, stream_url, thumbnail_url, cached_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (video_id) DO UPDATE SET
			title = EXCLUDED.title,
			duration_label = EXCLUDED.duration_label,
			stream_url = COALESCE(EXCLUDED.stream_url, tracks.stream_url),
			thumbnail_url = COALESCE(EXCLUDED.thumbnail_url, tracks.thumbnail_url),
			cached_at = COALESCE(EXCLUDED.cached_at, tracks.cached_at),
			updated_at = EXCLUDED.updated_at
	`

	track.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		track.VideoID,
		track.Title,
		track.DurationLabel,
		nullString(track.StreamURL),
		nullString(track.ThumbnailURL),
		nullTime(track.CachedAt),
		track.CreatedAt,
		track.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}

	return nil
}

// scanTrack scans a single row into a Track model.
func (r *TrackRepository) scanTrack(row pgx.Row) (*model.Track, error) {
	var (
		track        model.Track
		streamURL    *string
		thumbnailURL *string
		cachedAt     *time.Time
	)

	err := row.Scan(
		&track.VideoID,
		&track.Title,
		&track.DurationLabel,
		&streamURL,
		&thumbnailURL,
		&cachedAt,
		&track.CreatedAt,
		&track.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if streamURL != nil {
		track.StreamURL = *streamURL
	}
	if thumbnailURL != nil {
		track.ThumbnailURL = *thumbnailURL
	}
	if cachedAt != nil {
		track.CachedAt = *cachedAt
	}

	return &track, nil
}

// nullString returns nil for empty strings, otherwise returns a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullTime returns nil for zero times, otherwise returns a pointer to the time.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Compile-time verification that TrackRepository implements repository.TrackRepository.
var _ repository.TrackRepository = (*TrackRepository)(nil)
