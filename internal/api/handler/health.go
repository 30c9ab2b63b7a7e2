package handler

import (
	"net/http"

	"github.com/hszk-dev/tunecache/internal/infrastructure/cache"
)

type HealthResponse struct {
	Status     string `json:"status"`
	CacheItems int    `json:"cache_items"`
}

// Health reports liveness plus the current in-process cache population.
func Health(tracks cache.TrackCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, HealthResponse{
			Status:     "ok",
			CacheItems: tracks.Len(),
		})
	}
}
