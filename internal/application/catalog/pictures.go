package catalog

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PictureResolver turns stored picture keys into URLs a browser can load.
type PictureResolver struct {
	storage ObjectStorageService
	expiry  time.Duration
	logger  *zap.Logger
}

// NewPictureResolver returns a resolver; a nil storage resolves every key to nil.
func NewPictureResolver(storage ObjectStorageService, expiry time.Duration, logger *zap.Logger) *PictureResolver {
	return &PictureResolver{storage: storage, expiry: expiry, logger: logger}
}

// URL returns the download URL for key, or nil when there is no picture or
// the URL cannot be produced.
func (r *PictureResolver) URL(ctx context.Context, key string) *string {
	if r == nil || r.storage == nil || key == "" {
		return nil
	}
	url, _, err := r.storage.GenerateDownloadURL(ctx, key, r.expiry)
	if err != nil {
		r.logger.Warn("failed to resolve picture url", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &url
}

var pictureExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// newPictureKey builds a collision-free key under the article's prefix.
// The extension follows the content type, not the client's file name.
func newPictureKey(articleID uuid.UUID, fileName, contentType string) string {
	ext, ok := pictureExtensions[contentType]
	if !ok {
		ext = strings.ToLower(path.Ext(fileName))
	}
	return path.Join("articles", articleID.String(), uuid.NewString()+ext)
}

// pictureKeyBelongsTo reports whether key was issued for articleID.
func pictureKeyBelongsTo(key string, articleID uuid.UUID) bool {
	prefix := path.Join("articles", articleID.String()) + "/"
	return strings.HasPrefix(key, prefix) && !strings.Contains(key[len(prefix):], "/")
}
