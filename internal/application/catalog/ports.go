package catalog

import (
	"context"
	"time"
)

// ObjectStorageService stores article pictures outside the database.
type ObjectStorageService interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// LandingCache holds the rendered landing page between catalog writes.
// A miss is reported as (nil, nil).
type LandingCache interface {
	Get(ctx context.Context) (*Landing, error)
	Set(ctx context.Context, landing *Landing) error
	Invalidate(ctx context.Context) error
}
