package usecase

import "errors"

var (
	// ErrNotFound is returned when input resolves to nothing: no identifier
	// could be extracted and the external search produced no hits.
	ErrNotFound = errors.New("content not found")

	// ErrAuthRejected is returned when the API key collaborator rejects a
	// request. The rejection reason is attached by wrapping.
	ErrAuthRejected = errors.New("api key rejected")

	// ErrFetchFailed is returned when the external content fetch errors,
	// times out, or produces an undersized file.
	ErrFetchFailed = errors.New("content fetch failed")

	// ErrUploadFailed is returned when the blob host rejects or errors on
	// the upload.
	ErrUploadFailed = errors.New("content upload failed")
)
