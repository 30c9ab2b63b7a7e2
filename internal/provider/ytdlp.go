package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CommandRunner executes an external command and returns its stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// YTDLPConfig holds configuration for the yt-dlp provider.
type YTDLPConfig struct {
	// Binary is the path to the yt-dlp executable.
	// If empty, "yt-dlp" will be used (assumes it's in PATH).
	Binary string

	// LookupTimeout bounds metadata and search calls.
	LookupTimeout time.Duration

	// FetchTimeout bounds content downloads. Downloads are long-running,
	// so this is minutes-scale.
	FetchTimeout time.Duration
}

// DefaultYTDLPConfig returns a YTDLPConfig with production-ready defaults.
func DefaultYTDLPConfig() YTDLPConfig {
	return YTDLPConfig{
		Binary:        "yt-dlp",
		LookupTimeout: 30 * time.Second,
		FetchTimeout:  10 * time.Minute,
	}
}

// YTDLP implements MetadataProvider and MediaFetcher by shelling out to the
// yt-dlp CLI tool.
type YTDLP struct {
	config YTDLPConfig
	run    CommandRunner
}

// Compile-time verification of the implemented interfaces.
var (
	_ MetadataProvider = (*YTDLP)(nil)
	_ MediaFetcher     = (*YTDLP)(nil)
)

// NewYTDLP creates a new yt-dlp based provider.
func NewYTDLP(cfg YTDLPConfig) *YTDLP {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "yt-dlp"
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 30 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Minute
	}
	return &YTDLP{
		config: cfg,
		run:    defaultCommandRunner,
	}
}

// metadataJSON is the subset of yt-dlp's --dump-single-json output we read.
type metadataJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail"`
}

// Lookup fetches metadata for a known video ID.
func (p *YTDLP) Lookup(ctx context.Context, videoID string) (Metadata, error) {
	return p.dumpMetadata(ctx, "https://www.youtube.com/watch?v="+videoID)
}

// Search runs a single top-hit free-text search via yt-dlp's ytsearch1:
// target and returns the first result.
func (p *YTDLP) Search(ctx context.Context, query string) (Metadata, error) {
	meta, err := p.dumpMetadata(ctx, "ytsearch1:"+query)
	if err != nil {
		return Metadata{}, err
	}
	if meta.VideoID == "" {
		return Metadata{}, ErrNoResults
	}
	return meta, nil
}

// dumpMetadata runs yt-dlp in metadata-only mode against a URL or search
// target and parses the JSON it prints.
func (p *YTDLP) dumpMetadata(ctx context.Context, target string) (Metadata, error) {
	execCtx, cancel := context.WithTimeout(ctx, p.config.LookupTimeout)
	defer cancel()

	out, err := p.run(execCtx, p.config.Binary,
		"--dump-single-json",
		"--no-warnings",
		"--no-playlist",
		"--skip-download",
		target,
	)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	var payload metadataJSON
	if err := json.Unmarshal(out, &payload); err != nil {
		return Metadata{}, fmt.Errorf("%w: parse response: %v", ErrProviderFailed, err)
	}

	// A search dump wraps the hit in an entries list.
	if payload.ID == "" {
		var wrapped struct {
			Entries []metadataJSON `json:"entries"`
		}
		if err := json.Unmarshal(out, &wrapped); err == nil && len(wrapped.Entries) > 0 {
			payload = wrapped.Entries[0]
		}
	}

	if payload.ID == "" {
		return Metadata{}, ErrNoResults
	}

	return Metadata{
		VideoID:         payload.ID,
		Title:           payload.Title,
		DurationSeconds: int(payload.Duration),
		ThumbnailURL:    payload.Thumbnail,
	}, nil
}

// Fetch downloads the audio for videoID into destPath as MP3.
// yt-dlp exits non-zero on failure, which surfaces through the runner error.
func (p *YTDLP) Fetch(ctx context.Context, videoID, destPath string) error {
	execCtx, cancel := context.WithTimeout(ctx, p.config.FetchTimeout)
	defer cancel()

	// The output flag takes a template, not a filename. A literal .mp3
	// path would make yt-dlp treat the download as already in the target
	// format and skip the extract-audio postprocessor, leaving raw
	// bestaudio under an .mp3 name. With the %(ext)s template the
	// postprocessor runs and writes <base>.mp3, which is destPath.
	template := strings.TrimSuffix(destPath, filepath.Ext(destPath)) + ".%(ext)s"

	_, err := p.run(execCtx, p.config.Binary,
		"--no-warnings",
		"--no-playlist",
		"-x",
		"--audio-format", "mp3",
		"-o", template,
		"https://www.youtube.com/watch?v="+videoID,
	)
	if err != nil {
		if execCtx.Err() != nil {
			return fmt.Errorf("%w: timed out: %v", ErrProviderFailed, execCtx.Err())
		}
		return fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	return nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
