package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"verideal_back_end/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const avatarURLExpiry = 7 * 24 * time.Hour

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// AvatarStorage keeps profile pictures in a MinIO bucket.
type AvatarStorage struct {
	client *minio.Client
	bucket string
}

func NewAvatarStorage(client *minio.Client, bucket string) *AvatarStorage {
	if client == nil {
		return nil
	}
	return &AvatarStorage{client: client, bucket: bucket}
}

// AvatarKey builds the object key avatars/<userID>/<file>. The file name is
// random so a new upload never serves a stale cached image.
func AvatarKey(userID, contentType string) (string, error) {
	ext, ok := allowedAvatarTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("content type %q: %w", contentType, models.ErrInvalidInput)
	}
	return path.Join("avatars", userID, uuid.NewString()+ext), nil
}

// Upload stores the image and returns a presigned GET URL for it.
func (s *AvatarStorage) Upload(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (string, error) {
	key, err := AvatarKey(userID, contentType)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	log.Printf("🪣 Avatar uploaded: %s/%s", s.bucket, key)

	return s.SignedURL(ctx, key, avatarURLExpiry)
}

// SignedURL returns a presigned GET URL valid for duration.
func (s *AvatarStorage) SignedURL(ctx context.Context, key string, duration time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, duration, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
