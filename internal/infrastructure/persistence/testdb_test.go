package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/internal/domain/catalog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

type catalogFixture struct {
	db         *gorm.DB
	categories *GormCategoryRepository
	subs       *GormSubCategoryRepository
	tags       *GormTagRepository
	articles   *GormArticleRepository
	orders     *GormOrderRepository
	notices    *GormNotificationRepository
	clock      time.Time
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	return newFixtureOn(setupTestDB(t))
}

func newFixtureOn(db *gorm.DB) *catalogFixture {
	return &catalogFixture{
		db:         db,
		categories: NewGormCategoryRepository(db),
		subs:       NewGormSubCategoryRepository(db),
		tags:       NewGormTagRepository(db),
		articles:   NewGormArticleRepository(db),
		orders:     NewGormOrderRepository(db),
		notices:    NewGormNotificationRepository(db),
		clock:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *catalogFixture) category(t *testing.T, name string, landing bool) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, landing)
	require.NoError(t, err)
	c.CreatedAt = f.tick()
	require.NoError(t, f.categories.Save(context.Background(), c))
	return c
}

func (f *catalogFixture) subCategory(t *testing.T, categoryID uuid.UUID, name string) *catalog.SubCategory {
	t.Helper()
	s, err := catalog.NewSubCategory(categoryID, name)
	require.NoError(t, err)
	require.NoError(t, f.subs.Save(context.Background(), s))
	return s
}

func (f *catalogFixture) tag(t *testing.T, name string) *catalog.Tag {
	t.Helper()
	tag, err := catalog.NewTag(name)
	require.NoError(t, err)
	require.NoError(t, f.tags.Save(context.Background(), tag))
	return tag
}

type articleOpt func(*catalog.Article)

func inCategory(c *catalog.Category, s *catalog.SubCategory) articleOpt {
	return func(a *catalog.Article) {
		_ = a.Categorize(c, s)
	}
}

func withTags(tags ...*catalog.Tag) articleOpt {
	return func(a *catalog.Article) {
		list := make([]catalog.Tag, 0, len(tags))
		for _, t := range tags {
			list = append(list, *t)
		}
		a.SetTags(list)
	}
}

func onLanding() articleOpt {
	return func(a *catalog.Article) { a.SetLandingVisibility(true) }
}

func (f *catalogFixture) article(t *testing.T, name, price string, opts ...articleOpt) *catalog.Article {
	t.Helper()
	a, err := catalog.NewArticle(name, decimal.RequireFromString(price))
	require.NoError(t, err)
	a.SetSizes([]string{"S", "M", "L"})
	a.SetColors([]string{"Black", "White"})
	for _, opt := range opts {
		opt(a)
	}
	a.CreatedAt = f.tick()
	require.NoError(t, f.articles.Save(context.Background(), a))
	return a
}

// tick returns strictly increasing timestamps so newest-first ordering is deterministic.
func (f *catalogFixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}
