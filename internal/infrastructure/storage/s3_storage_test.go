package storage

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Enabled:           true,
		Bucket:            "pictures",
		AccessKey:         "key",
		SecretKey:         "secret",
		Endpoint:          "http://localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

func TestNewS3PictureStorage_Validation(t *testing.T) {
	tests := map[string]struct {
		mutate func(*config.StorageConfig)
		errMsg string
	}{
		"missing bucket":     {func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		"missing access key": {func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		"missing secret key": {func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewS3PictureStorage(cfg, zap.NewNop())
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		cfg := testConfig()
		cfg.PresignExpiration = 0
		cfg.Region = ""
		s, err := NewS3PictureStorage(cfg, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, defaultPresignExpiration, s.presignExpiration)
		assert.Equal(t, "pictures", s.Bucket())
	})
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000/", true))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestS3PictureStorage_Presign(t *testing.T) {
	s, err := NewS3PictureStorage(testConfig(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.ErrorIs(t, err, errEmptyKey)

	raw, expiresAt, err := s.GenerateUploadURL(ctx, "articles/a/b.png", "image/png", 0)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/pictures/articles/a/b.png", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

	raw, _, err = s.GenerateDownloadURL(ctx, "articles/a/b.png", time.Hour)
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestS3PictureStorage_EmptyKeys(t *testing.T) {
	s, err := NewS3PictureStorage(testConfig(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, s.DeleteObject(ctx, ""), errEmptyKey)
	_, err = s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, errEmptyKey)
	assert.ErrorIs(t, s.Upload(ctx, "", nil, "image/png"), errEmptyKey)
}

func TestPublicPictureStorage(t *testing.T) {
	s := NewPublicPictureStorage("https://shop.example/media/")
	ctx := context.Background()

	u, _, err := s.GenerateDownloadURL(ctx, "articles/a/b.png", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/media/articles/a/b.png", u)

	u, _, err = s.GenerateUploadURL(ctx, "articles/a/b.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/media/upload/articles/a/b.png", u)

	exists, err := s.ObjectExists(ctx, "articles/a/b.png")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, s.DeleteObject(ctx, "k"))
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), errEmptyKey)
}

func TestNew_Disabled(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{PublicBaseURL: "http://localhost/media"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &PublicPictureStorage{}, s)
}

func startMinio(t *testing.T) config.StorageConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MinIO container test in short mode")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start MinIO container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	return config.StorageConfig{
		Enabled:      true,
		Bucket:       "pictures-it",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Endpoint:     fmt.Sprintf("%s:%s", host, port.Port()),
		UsePathStyle: true,
	}
}

func TestS3PictureStorage_AgainstMinio(t *testing.T) {
	cfg := startMinio(t)
	ctx := context.Background()

	svc, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	s := svc.(*S3PictureStorage)
	require.NoError(t, s.EnsureBucket(ctx), "second call is a no-op")

	key := "articles/it/picture.png"
	exists, err := s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Upload(ctx, key, []byte("png"), "image/png"))
	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.DeleteObject(ctx, key))
	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
