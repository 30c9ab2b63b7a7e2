package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/hszk-dev/tunecache/internal/domain/model"
	"github.com/hszk-dev/tunecache/internal/domain/repository"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock
}

func trackColumns() []string {
	return []string{"video_id", "title", "duration_label", "stream_url", "thumbnail_url", "cached_at", "created_at", "updated_at"}
}

func TestTrackRepository_GetByVideoID(t *testing.T) {
	now := time.Now()
	streamURL := "https://blob.example.com/tracks/dQw4w9WgXcQ.mp3"

	tests := []struct {
		name      string
		videoID   string
		mockFn    func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantReady bool
	}{
		{
			name:    "ready track",
			videoID: "dQw4w9WgXcQ",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(trackColumns()).
					AddRow("dQw4w9WgXcQ", "Test Track", "3:32", &streamURL, nil, &now, now, now)
				mock.ExpectQuery("SELECT (.+) FROM tracks").
					WithArgs("dQw4w9WgXcQ").
					WillReturnRows(rows)
			},
			wantReady: true,
		},
		{
			name:    "placeholder track",
			videoID: "dQw4w9WgXcQ",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(trackColumns()).
					AddRow("dQw4w9WgXcQ", "Test Track", "3:32", nil, nil, nil, now, now)
				mock.ExpectQuery("SELECT (.+) FROM tracks").
					WithArgs("dQw4w9WgXcQ").
					WillReturnRows(rows)
			},
			wantReady: false,
		},
		{
			name:    "not found",
			videoID: "AAAAAAAAAAA",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT (.+) FROM tracks").
					WithArgs("AAAAAAAAAAA").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrTrackNotFound,
		},
		{
			name:    "query error",
			videoID: "dQw4w9WgXcQ",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT (.+) FROM tracks").
					WithArgs("dQw4w9WgXcQ").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("failed to get track"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.mockFn(mock)

			repo := NewTrackRepository(mock)
			track, err := repo.GetByVideoID(context.Background(), tt.videoID)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if errors.Is(tt.wantErr, repository.ErrTrackNotFound) && !errors.Is(err, repository.ErrTrackNotFound) {
					t.Errorf("error = %v, want ErrTrackNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByVideoID() error: %v", err)
			}
			if track.IsReady() != tt.wantReady {
				t.Errorf("IsReady() = %v, want %v", track.IsReady(), tt.wantReady)
			}
			if tt.wantReady && track.StreamURL != streamURL {
				t.Errorf("StreamURL = %q, want %q", track.StreamURL, streamURL)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestTrackRepository_Upsert(t *testing.T) {
	tests := []struct {
		name    string
		track   func() *model.Track
		mockFn  func(mock pgxmock.PgxPoolIface)
		wantErr bool
	}{
		{
			name: "placeholder insert",
			track: func() *model.Track {
				track, _ := model.NewTrack("dQw4w9WgXcQ", "Test Track", "3:32")
				return track
			},
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO tracks").
					WithArgs(
						"dQw4w9WgXcQ",
						"Test Track",
						"3:32",
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
					).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "ready upsert carries URL and cache time",
			track: func() *model.Track {
				track, _ := model.NewTrack("dQw4w9WgXcQ", "Test Track", "3:32")
				track.MarkReady("https://blob.example.com/tracks/dQw4w9WgXcQ.mp3")
				return track
			},
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO tracks").
					WithArgs(
						"dQw4w9WgXcQ",
						"Test Track",
						"3:32",
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
						pgxmock.AnyArg(),
					).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "database error",
			track: func() *model.Track {
				track, _ := model.NewTrack("dQw4w9WgXcQ", "Test Track", "3:32")
				return track
			},
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO tracks").
					WithArgs(
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.mockFn(mock)

			repo := NewTrackRepository(mock)
			err := repo.Upsert(context.Background(), tt.track())

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Upsert() error: %v", err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
