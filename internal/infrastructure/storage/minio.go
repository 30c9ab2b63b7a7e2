package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hszk-dev/tunecache/internal/domain/repository"
)

// minioClient defines the interface for MinIO operations.
// This abstraction allows for easier unit testing with mocks.
type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// minioClientAdapter wraps *minio.Client to implement the minioClient interface.
type minioClientAdapter struct {
	client *minio.Client
}

func (a *minioClientAdapter) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return a.client.BucketExists(ctx, bucketName)
}

func (a *minioClientAdapter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.client.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (a *minioClientAdapter) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return a.client.StatObject(ctx, bucketName, objectName, opts)
}

// ClientConfig holds configuration for the MinIO client.
type ClientConfig struct {
	Endpoint  string
	PublicURL string // External-facing base URL used to build retrieval URLs
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Client wraps a MinIO client and implements repository.ObjectStorage.
// Uploaded objects are addressed by permanent public URLs under
// {PublicURL}/{bucket}/{key}; the bucket is expected to allow anonymous
// reads.
type Client struct {
	client    minioClient
	bucket    string
	publicURL string
}

// NewClient creates a new MinIO client.
// It verifies the bucket exists during initialization to fail fast on misconfiguration.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newClientWithMinioClient(ctx, &minioClientAdapter{client: client}, cfg)
}

// newClientWithMinioClient creates a Client with a given minioClient implementation.
// This is used for dependency injection in tests.
func newClientWithMinioClient(ctx context.Context, client minioClient, cfg ClientConfig) (*Client, error) {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrBucketNotFound, cfg.Bucket)
	}

	return &Client{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Upload stores an object and returns its permanent retrieval URL.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return c.URL(key), nil
}

// Exists checks if an object exists in the storage.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// URL builds the permanent public URL for an object key.
func (c *Client) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicURL, c.bucket, key)
}

// Compile-time verification that Client implements repository.ObjectStorage.
var _ repository.ObjectStorage = (*Client)(nil)
