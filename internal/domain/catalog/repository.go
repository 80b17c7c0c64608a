package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/shared"
)

// Filter keys understood by ArticleRepository.
const (
	FilterCategoryID        = "category_id"
	FilterShowOnLandingPage = "show_on_landing_page"
	FilterTagID             = "tag_id"

	// FilterMinPrice and FilterMaxPrice take a decimal.Decimal and are inclusive.
	FilterMinPrice = "min_price"
	FilterMaxPrice = "max_price"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindLanding returns landing-flagged categories, newest first.
	FindLanding(ctx context.Context, limit int) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	// Delete removes the category and its subcategories and detaches its articles.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubCategoryRepository persists subcategories.
type SubCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SubCategory, error)
	FindByCategoryAndName(ctx context.Context, categoryID uuid.UUID, name string) (*SubCategory, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]SubCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SubCategory, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Save(ctx context.Context, sub *SubCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository persists tags.
type TagRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	FindByName(ctx context.Context, name string) (*Tag, error)
	// FindByIDs returns the tags that exist among ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tag, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tag, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountArticles(ctx context.Context, tagID uuid.UUID) (int64, error)
	Save(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ArticleRepository persists articles. Loaded articles carry their
// Category, SubCategory and Tags.
type ArticleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	// FindAll applies search, the ArticleSort named by filter.OrderBy,
	// FilterCategoryID, FilterShowOnLandingPage and pagination.
	FindAll(ctx context.Context, filter shared.Filter) ([]Article, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindLanding returns landing-flagged articles, newest first.
	FindLanding(ctx context.Context, limit int) ([]Article, error)
	// FindRelated returns articles sharing article's category, newest first.
	FindRelated(ctx context.Context, article *Article, limit int) ([]Article, error)
	// Save writes the article row and replaces its tag set.
	Save(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ResetMonthlySales zeroes every monthly counter and returns the rows touched.
	ResetMonthlySales(ctx context.Context) (int64, error)
}
