package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add orders table", "add_orders_table"},
		{"Add-Orders-Table", "add_orders_table"},
		{"add__orders__table", "add_orders_table"},
		{"Add Tags 123", "add_tags_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add article index", "Speeds up listing by price")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, "000001_add_article_index.up.sql", filepath.Base(first.UpPath))
	assert.Equal(t, "000001_add_article_index.down.sql", filepath.Base(first.DownPath))

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add_article_index")
	assert.Contains(t, string(up), "Speeds up listing by price")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback of add_article_index")

	second, err := CreateMigration(dir, "drop old column", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.True(t, strings.HasPrefix(filepath.Base(second.UpPath), "000002_"))
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")
	_, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations_OrdersByVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000010_late.up.sql", "000010_late.down.sql",
		"000002_early.up.sql", "000002_early.down.sql",
		"README.md", "notes.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	got, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000002_early", "000010_late"}, got)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	got, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	for i, up := range ups {
		base := strings.TrimSuffix(up, ".up.sql")
		v, ok := parseVersion(base)
		require.True(t, ok, up)
		assert.Equal(t, uint(i+1), v, "versions must be contiguous")
		_, err := fs.Stat(migrations.FS, base+".down.sql")
		assert.NoError(t, err, "missing down migration for %s", up)
	}
}
