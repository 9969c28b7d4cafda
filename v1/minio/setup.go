package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cytosearch/cytosearch/v1/observability"
)

// Logger is the logging interface the client accepts. Matches the
// application's zap wrapper so no adapter is needed.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Client is the object storage interface used by the artifact store.
// Implemented by *MinioClient; tests substitute an in-memory fake.
type Client interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, objectKey string, reader io.Reader, size int64) error

	// Get retrieves an object and returns its contents.
	Get(ctx context.Context, objectKey string) ([]byte, error)

	// Delete removes a single object.
	Delete(ctx context.Context, objectKey string) error

	// DeleteByPrefix removes every object under the prefix and reports
	// how many objects were removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// PreSignedGet generates a presigned URL for downloading an object.
	PreSignedGet(ctx context.Context, objectKey string) (string, error)
}

// MinioClient wraps the official MinIO SDK client with bucket scoping,
// optional observability hooks, and context-aware logging.
type MinioClient struct {
	client   *minio.Client
	cfg      Config
	observer observability.Observer
	logger   Logger
}

// NewClient creates and validates a new MinIO client.
//
// It connects to the configured endpoint, verifies the connection, and
// ensures the artifact bucket exists, creating it when missing.
func NewClient(cfg Config) (*MinioClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}

	m := &MinioClient{client: client, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := m.ensureBucketExists(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// WithLogger attaches a logger to the client.
func (m *MinioClient) WithLogger(l Logger) *MinioClient {
	m.logger = l
	return m
}

// WithObserver attaches an observability hook to the client.
func (m *MinioClient) WithObserver(o observability.Observer) *MinioClient {
	m.observer = o
	return m
}

// ensureBucketExists checks for the configured bucket and creates it when
// missing. Bucket-scoped validation avoids requiring ListAllMyBuckets
// permissions.
func (m *MinioClient) ensureBucketExists(ctx context.Context) error {
	bucket := m.cfg.Connection.BucketName

	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket '%s': %w", bucket, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.cfg.Connection.Region})
	if err != nil {
		return fmt.Errorf("failed to create bucket '%s': %w", bucket, err)
	}

	m.logInfo("Created artifact bucket", map[string]interface{}{"bucket": bucket})
	return nil
}

// Put uploads an object under the given key.
func (m *MinioClient) Put(ctx context.Context, objectKey string, reader io.Reader, size int64) error {
	start := time.Now()

	_, err := m.client.PutObject(ctx, m.cfg.Connection.BucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentTypeFor(objectKey),
	})
	m.observeOperation("put", objectKey, time.Since(start), err, size)
	if err != nil {
		return fmt.Errorf("failed to put object '%s': %w", objectKey, err)
	}
	return nil
}

// Get retrieves an object and returns its contents.
func (m *MinioClient) Get(ctx context.Context, objectKey string) ([]byte, error) {
	start := time.Now()

	obj, err := m.client.GetObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		m.observeOperation("get", objectKey, time.Since(start), err, 0)
		return nil, fmt.Errorf("failed to get object '%s': %w", objectKey, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, obj)
	m.observeOperation("get", objectKey, time.Since(start), err, int64(buf.Len()))
	if err != nil {
		return nil, fmt.Errorf("failed to read object '%s': %w", objectKey, err)
	}
	return buf.Bytes(), nil
}

// Delete removes a single object.
func (m *MinioClient) Delete(ctx context.Context, objectKey string) error {
	start := time.Now()

	err := m.client.RemoveObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.RemoveObjectOptions{})
	m.observeOperation("delete", objectKey, time.Since(start), err, 0)
	if err != nil {
		return fmt.Errorf("failed to delete object '%s': %w", objectKey, err)
	}
	return nil
}

// DeleteByPrefix removes every object under the prefix and reports how
// many objects were removed. Listing and removal stream concurrently
// through the SDK's channel API.
func (m *MinioClient) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	start := time.Now()
	bucket := m.cfg.Connection.BucketName

	objects := m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	removed := 0
	for obj := range objects {
		if obj.Err != nil {
			m.observeOperation("delete_prefix", prefix, time.Since(start), obj.Err, 0)
			return removed, fmt.Errorf("failed to list objects under '%s': %w", prefix, obj.Err)
		}
		if err := m.client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			m.observeOperation("delete_prefix", prefix, time.Since(start), err, 0)
			return removed, fmt.Errorf("failed to delete object '%s': %w", obj.Key, err)
		}
		removed++
	}

	m.observeOperation("delete_prefix", prefix, time.Since(start), nil, int64(removed))
	m.logInfo("Deleted objects by prefix", map[string]interface{}{
		"prefix":  prefix,
		"removed": removed,
	})
	return removed, nil
}

// PreSignedGet generates a presigned URL for downloading an object.
func (m *MinioClient) PreSignedGet(ctx context.Context, objectKey string) (string, error) {
	start := time.Now()

	u, err := m.client.PresignedGetObject(ctx, m.cfg.Connection.BucketName, objectKey,
		m.cfg.Presigned.ExpiryDuration, nil)
	m.observeOperation("presigned_get", objectKey, time.Since(start), err, 0)
	if err != nil {
		return "", fmt.Errorf("failed to presign object '%s': %w", objectKey, err)
	}
	return u.String(), nil
}

func (m *MinioClient) logInfo(msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.Info(msg, nil, fields)
	}
}

func contentTypeFor(objectKey string) string {
	if len(objectKey) > 4 && objectKey[len(objectKey)-4:] == ".png" {
		return "image/png"
	}
	return "application/octet-stream"
}
