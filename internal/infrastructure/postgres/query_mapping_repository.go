package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
)

// QueryMappingRepository implements repository.QueryMappingRepository using PostgreSQL.
type QueryMappingRepository struct {
	db DBTX
}

// NewQueryMappingRepository creates a new QueryMappingRepository instance.
func NewQueryMappingRepository(db DBTX) *QueryMappingRepository {
	return &QueryMappingRepository{db: db}
}

// GetVideoID returns the video ID a normalized query maps to.
func (r *QueryMappingRepository) GetVideoID(ctx context.Context, normalizedQuery string) (string, error) {
	const query = `
		SELECT video_id
		FROM query_mappings
		WHERE normalized_query = $1
	`

	var videoID string
	err := r.db.QueryRow(ctx, query, normalizedQuery).Scan(&videoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrMappingNotFound
		}
		return "", fmt.Errorf("failed to get query mapping: %w", err)
	}

	return videoID, nil
}

// Put records a mapping. ON CONFLICT DO NOTHING keeps the first mapping a
// query ever resolved to; later resolutions for the same query are dropped.
func (r *QueryMappingRepository) Put(ctx context.Context, mapping *model.QueryMapping) error {
	const query = `
		INSERT INTO query_mappings (normalized_query, video_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (normalized_query) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		mapping.NormalizedQuery,
		mapping.VideoID,
		mapping.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put query mapping: %w", err)
	}

	return nil
}

// Compile-time verification that QueryMappingRepository implements repository.QueryMappingRepository.
var _ repository.QueryMappingRepository = (*QueryMappingRepository)(nil)
