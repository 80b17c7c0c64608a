package storage

import (
	"context"
	"strings"
	"time"

	catalogapp "github.com/trycco/storefront/internal/application/catalog"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// PublicPictureStorage serves pictures from a static base URL, for
// development and deployments without object storage. Download URLs are
// baseURL/key and never expire; uploads are accepted at baseURL/upload/key
// by whatever serves that path.
type PublicPictureStorage struct {
	baseURL string
}

func NewPublicPictureStorage(baseURL string) *PublicPictureStorage {
	return &PublicPictureStorage{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *PublicPictureStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	return s.baseURL + "/upload/" + key, time.Now().Add(expiresIn), nil
}

func (s *PublicPictureStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	return s.baseURL + "/" + key, time.Now().Add(expiresIn), nil
}

// DeleteObject is a no-op.
func (s *PublicPictureStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	return nil
}

// ObjectExists cannot check a static host and reports every key as present.
func (s *PublicPictureStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyKey
	}
	return true, nil
}

var _ catalogapp.ObjectStorageService = (*PublicPictureStorage)(nil)

// New returns S3 storage when enabled and the public base URL storage otherwise.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (catalogapp.ObjectStorageService, error) {
	if !cfg.Enabled {
		logger.Info("object storage disabled, serving pictures from base URL",
			zap.String("base_url", cfg.PublicBaseURL))
		return NewPublicPictureStorage(cfg.PublicBaseURL), nil
	}
	s3Storage, err := NewS3PictureStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("Using S3 picture storage", zap.String("bucket", s3Storage.Bucket()))
	return s3Storage, nil
}
