package storage

import (
	"context"
	"fmt"
	"time"

	"poll-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient serves presigned URLs for media objects. It implements
// soundtrack.MediaStore.
type MinIOClient struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewMinIOClient(cfg *config.StorageConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.Bucket,
		expiry: cfg.URLExpiry,
	}, nil
}

func (m *MinIOClient) PresignURL(ctx context.Context, objectKey string) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectKey, m.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %q: %w", objectKey, err)
	}
	return url.String(), nil
}
