package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// PageSize is the number of articles on one listing page.
	PageSize = 9
	// MaxLoadMorePerPage caps the per_page parameter of load-more requests.
	MaxLoadMorePerPage = 48

	landingArticles   = 5
	landingCategories = 5
	relatedArticles   = 4
)

// ParsePage reads a 1-based page number. Anything unparseable or below 1 is page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ClampPerPage bounds a load-more page size, defaulting to PageSize.
func ClampPerPage(raw string) int {
	perPage, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		return PageSize
	case perPage < 1:
		return 1
	case perPage > MaxLoadMorePerPage:
		return MaxLoadMorePerPage
	}
	return perPage
}

// ListingService answers the shopper-facing catalog queries.
type ListingService struct {
	articles   catalog.ArticleRepository
	categories catalog.CategoryRepository
	pictures   *PictureResolver
	cache      LandingCache
	logger     *zap.Logger
}

func NewListingService(
	articles catalog.ArticleRepository,
	categories catalog.CategoryRepository,
	pictures *PictureResolver,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		articles:   articles,
		categories: categories,
		pictures:   pictures,
		logger:     logger,
	}
}

// WithLandingCache enables caching of the landing page.
func (s *ListingService) WithLandingCache(cache LandingCache) *ListingService {
	s.cache = cache
	return s
}

// Browse returns one page of PageSize articles. A page past the end is
// empty with HasMore false.
func (s *ListingService) Browse(ctx context.Context, q ListingQuery) (*ArticlePage, error) {
	items, total, page, err := s.list(ctx, q, PageSize)
	if err != nil {
		return nil, err
	}
	paged := shared.NewPaginated(items, total, page, PageSize)
	return &ArticlePage{
		Items:       paged.Items,
		TotalCount:  paged.Total,
		TotalPages:  paged.TotalPages,
		CurrentPage: paged.Page,
		PerPage:     paged.PageSize,
		HasMore:     paged.HasMore(),
		Search:      strings.TrimSpace(q.Search),
		Sort:        string(catalog.ParseArticleSort(q.Sort)),
	}, nil
}

// LoadMore is Browse with a caller-chosen page size for infinite scrolling.
func (s *ListingService) LoadMore(ctx context.Context, q LoadMoreQuery) (*LoadMoreResult, error) {
	perPage := q.PerPage
	if perPage < 1 {
		perPage = PageSize
	}
	perPage = min(perPage, MaxLoadMorePerPage)

	items, total, page, err := s.list(ctx, q.ListingQuery, perPage)
	if err != nil {
		return nil, err
	}
	paged := shared.NewPaginated(items, total, page, perPage)
	return &LoadMoreResult{
		Articles:    paged.Items,
		HasMore:     paged.HasMore(),
		CurrentPage: paged.Page,
		TotalCount:  paged.Total,
	}, nil
}

func (s *ListingService) list(ctx context.Context, q ListingQuery, perPage int) ([]ArticleSummary, int64, int, error) {
	page := max(q.Page, 1)
	filter := shared.Filter{
		Page:     page,
		PageSize: perPage,
		OrderBy:  string(catalog.ParseArticleSort(q.Sort)),
		Search:   q.Search,
	}

	total, err := s.articles.Count(ctx, filter)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("count articles: %w", err)
	}
	lastPage := (total + int64(perPage) - 1) / int64(perPage)
	if int64(page) > lastPage {
		return []ArticleSummary{}, total, page, nil
	}

	articles, err := s.articles.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("list articles: %w", err)
	}
	return s.summaries(ctx, articles), total, page, nil
}

// Landing returns the featured articles and categories, from cache when possible.
func (s *ListingService) Landing(ctx context.Context) (*Landing, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("landing cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	articles, err := s.articles.FindLanding(ctx, landingArticles)
	if err != nil {
		return nil, fmt.Errorf("load landing articles: %w", err)
	}
	categories, err := s.categories.FindLanding(ctx, landingCategories)
	if err != nil {
		return nil, fmt.Errorf("load landing categories: %w", err)
	}

	landing := &Landing{
		Articles:   s.summaries(ctx, articles),
		Categories: make([]CategorySummary, 0, len(categories)),
	}
	for i := range categories {
		landing.Categories = append(landing.Categories, *toCategorySummary(&categories[i]))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, landing); err != nil {
			s.logger.Warn("landing cache write failed", zap.Error(err))
		}
	}
	return landing, nil
}

// Detail returns one article and up to four newer-first articles from the
// same category.
func (s *ListingService) Detail(ctx context.Context, id uuid.UUID) (*ArticleDetail, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := s.articles.FindRelated(ctx, article, relatedArticles)
	if err != nil {
		return nil, fmt.Errorf("load related articles: %w", err)
	}

	return &ArticleDetail{
		ArticleSummary: s.summary(ctx, article),
		Category:       toCategorySummary(article.Category),
		SubCategory:    toSubCategorySummary(article.SubCategory),
		CreatedAt:      article.CreatedAt,
		Related:        s.summaries(ctx, related),
	}, nil
}

func (s *ListingService) summary(ctx context.Context, a *catalog.Article) ArticleSummary {
	return ArticleSummary{
		ID:         a.ID,
		Name:       a.Name,
		Price:      a.Price,
		PictureURL: s.pictures.URL(ctx, a.Picture),
		Colors:     nonNil(a.ColorsAvailable),
		Sizes:      nonNil(a.SizesAvailable),
		Tags:       a.TagNames(),
	}
}

func (s *ListingService) summaries(ctx context.Context, articles []catalog.Article) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(articles))
	for i := range articles {
		out = append(out, s.summary(ctx, &articles[i]))
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
