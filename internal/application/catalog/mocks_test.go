package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
)

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) FindLanding(ctx context.Context, limit int) ([]catalog.Article, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindRelated(ctx context.Context, article *catalog.Article, limit int) ([]catalog.Article, error) {
	args := m.Called(ctx, article, limit)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockArticleRepository) ResetMonthlySales(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) FindLanding(ctx context.Context, limit int) ([]catalog.Category, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSubCategoryRepository struct {
	mock.Mock
}

func (m *MockSubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SubCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SubCategory), args.Error(1)
}

func (m *MockSubCategoryRepository) FindByCategoryAndName(ctx context.Context, categoryID uuid.UUID, name string) (*catalog.SubCategory, error) {
	args := m.Called(ctx, categoryID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SubCategory), args.Error(1)
}

func (m *MockSubCategoryRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.SubCategory, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]catalog.SubCategory), args.Error(1)
}

func (m *MockSubCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.SubCategory, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.SubCategory), args.Error(1)
}

func (m *MockSubCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubCategoryRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubCategoryRepository) Save(ctx context.Context, sub *catalog.SubCategory) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) FindByName(ctx context.Context, name string) (*catalog.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tag, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTagRepository) CountArticles(ctx context.Context, tagID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tagID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type MockLandingCache struct {
	mock.Mock
}

func (m *MockLandingCache) Get(ctx context.Context) (*Landing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Landing), args.Error(1)
}

func (m *MockLandingCache) Set(ctx context.Context, landing *Landing) error {
	return m.Called(ctx, landing).Error(0)
}

func (m *MockLandingCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}
