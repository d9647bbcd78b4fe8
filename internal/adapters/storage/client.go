// Package storage wraps the MinIO client for narration clip storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// allowedAudioTypes are the content types accepted for narration uploads.
var allowedAudioTypes = map[string]bool{
	"audio/mpeg": true,
	"audio/mp3":  true,
	"audio/wav":  true,
	"audio/ogg":  true,
	"audio/webm": true,
	"audio/mp4":  true,
}

// MinIOService stores and serves narration clips.
type MinIOService struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
	urlTTL      time.Duration
}

// New creates the storage service from MinIO configuration.
func New(cfg config.MinIOConfig, urlTTL time.Duration) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOService{
		client:      client,
		bucket:      cfg.GetMinioBucketVoiceAssets(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
		urlTTL:      urlTTL,
	}, nil
}

// EnsureBucketExists creates the voice asset bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// ValidateUpload checks content type and size before accepting a clip.
func (s *MinIOService) ValidateUpload(contentType string, sizeBytes int64) error {
	if !allowedAudioTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("unsupported audio content type %q", contentType)
	}
	if s.maxFileSize > 0 && sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d exceeds limit %d", sizeBytes, s.maxFileSize)
	}
	return nil
}

// Upload stores a clip under the given folder and returns its object key.
// A short random suffix keeps re-uploads from colliding with cached URLs.
func (s *MinIOService) Upload(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueFileName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	objectKey := filepath.ToSlash(filepath.Join(folder, uniqueFileName))

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// Exists probes the object without downloading it. Distinguishes a
// configured-but-missing clip from one that was never configured.
func (s *MinIOService) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", objectKey, err)
	}
	return true, nil
}

// PresignedGetURL returns a time-limited streaming URL for a clip.
func (s *MinIOService) PresignedGetURL(ctx context.Context, objectKey string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.urlTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", objectKey, err)
	}
	return presigned.String(), nil
}

// Delete removes a clip object.
func (s *MinIOService) Delete(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectKey, err)
	}
	return nil
}
