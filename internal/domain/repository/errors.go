package repository

import "errors"

var (
	// ErrTrackNotFound is returned when a track cannot be found.
	ErrTrackNotFound = errors.New("track not found")

	// ErrMappingNotFound is returned when no query mapping exists for a
	// normalized query.
	ErrMappingNotFound = errors.New("query mapping not found")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
