package repository

import "context"

// FetchTask represents a deferred fetch-and-publish job message.
type FetchTask struct {
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	DurationLabel string `json:"duration_label"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	RetryCount    int    `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishFetchTask sends a fetch task to the queue.
	// Used by the API server to defer pipeline work out of the request cycle.
	PublishFetchTask(ctx context.Context, task FetchTask) error

	// ConsumeFetchTasks starts consuming fetch tasks from the queue.
	// The handler function is called for each received task.
	// Used by the worker service.
	ConsumeFetchTasks(ctx context.Context, handler func(task FetchTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
