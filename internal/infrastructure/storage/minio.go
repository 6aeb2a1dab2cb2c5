package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"recipebook-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage holds recipe image payloads. Objects are keyed
// "{image_id}{ext}" so the metadata row and the blob share one id.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage initializes the MinIO client and makes sure the
// bucket exists.
func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Put uploads a blob under the given key.
func (s *MinIOStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload to minio: %w", err)
	}
	return nil
}

// Find returns the full object key for an image id, or "" when no
// object matches. The extension is not known to callers, so the
// lookup is by prefix.
func (s *MinIOStorage) Find(ctx context.Context, imageID string) (string, error) {
	objectsCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix: imageID,
	})

	for object := range objectsCh {
		if object.Err != nil {
			return "", fmt.Errorf("error listing objects: %w", object.Err)
		}
		return object.Key, nil
	}

	return "", nil
}

// Get downloads the blob for an image id. Returns the content and the
// object key it was stored under; a nil slice means not found.
func (s *MinIOStorage) Get(ctx context.Context, imageID string) ([]byte, string, error) {
	key, err := s.Find(ctx, imageID)
	if err != nil {
		return nil, "", err
	}
	if key == "" {
		return nil, "", nil
	}

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object: %w", err)
	}

	return data, key, nil
}

// Delete removes the blob for an image id. Returns false when no
// object matched the id.
func (s *MinIOStorage) Delete(ctx context.Context, imageID string) (bool, error) {
	key, err := s.Find(ctx, imageID)
	if err != nil {
		return false, err
	}
	if key == "" {
		return false, nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("failed to delete object: %w", err)
	}
	return true, nil
}
