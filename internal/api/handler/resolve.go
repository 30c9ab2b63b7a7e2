package handler

import (
	"errors"
	"net/http"

	"github.com/hszk-dev/tunecache/internal/usecase"
)

// Request/Response types

type ResolveResponse struct {
	// Status repeats the HTTP status code in the body so callers that
	// only see the payload can still branch on the outcome.
	Status        int    `json:"status"`
	Identifier    string `json:"identifier,omitempty"`
	Title         string `json:"title,omitempty"`
	DurationLabel string `json:"duration_label,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	Link          string `json:"link,omitempty"`
	Cached        bool   `json:"cached"`
	Error         string `json:"error,omitempty"`
}

// ResolveHandler handles content resolution requests.
type ResolveHandler struct {
	svc usecase.RequestService
}

// NewResolveHandler creates a new ResolveHandler.
func NewResolveHandler(svc usecase.RequestService) *ResolveHandler {
	return &ResolveHandler{svc: svc}
}

// Resolve handles GET /v1/resolve?query=...&key=...
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		JSON(w, http.StatusBadRequest, ResolveResponse{
			Status: http.StatusBadRequest,
			Error:  "query parameter is required",
		})
		return
	}
	apiKey := r.URL.Query().Get("key")

	result, err := h.svc.Handle(r.Context(), query, apiKey)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if result.Pending {
		JSON(w, http.StatusAccepted, ResolveResponse{
			Status:        http.StatusAccepted,
			Identifier:    result.VideoID,
			Title:         result.Title,
			DurationLabel: result.DurationLabel,
			ThumbnailURL:  result.ThumbnailURL,
			Cached:        false,
		})
		return
	}

	JSON(w, http.StatusOK, ResolveResponse{
		Status:        http.StatusOK,
		Identifier:    result.VideoID,
		Title:         result.Title,
		DurationLabel: result.DurationLabel,
		ThumbnailURL:  result.ThumbnailURL,
		Link:          result.Link,
		Cached:        true,
	})
}

func (h *ResolveHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrAuthRejected):
		JSON(w, http.StatusForbidden, ResolveResponse{
			Status: http.StatusForbidden,
			Error:  err.Error(),
		})
	case errors.Is(err, usecase.ErrNotFound):
		JSON(w, http.StatusNotFound, ResolveResponse{
			Status: http.StatusNotFound,
			Error:  "no content found for query",
		})
	default:
		JSON(w, http.StatusInternalServerError, ResolveResponse{
			Status: http.StatusInternalServerError,
			Error:  "an unexpected error occurred",
		})
	}
}
