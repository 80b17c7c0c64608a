package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// ArticleService is the back-office article editor.
type ArticleService struct {
	articles      catalog.ArticleRepository
	categories    catalog.CategoryRepository
	subCategories catalog.SubCategoryRepository
	tags          catalog.TagRepository
	storage       ObjectStorageService
	pictures      *PictureResolver
	events        shared.EventPublisher
	logger        *zap.Logger
}

func NewArticleService(
	articles catalog.ArticleRepository,
	categories catalog.CategoryRepository,
	subCategories catalog.SubCategoryRepository,
	tags catalog.TagRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ArticleService {
	return &ArticleService{
		articles:      articles,
		categories:    categories,
		subCategories: subCategories,
		tags:          tags,
		events:        events,
		logger:        logger,
	}
}

// WithPictureStorage enables picture uploads. Without it, upload requests
// fail with INVALID_STATE.
func (s *ArticleService) WithPictureStorage(storage ObjectStorageService, pictures *PictureResolver) *ArticleService {
	s.storage = storage
	s.pictures = pictures
	return s
}

func (s *ArticleService) ListArticles(ctx context.Context, q AdminListQuery) (shared.Paginated[ArticleListItem], error) {
	filter := q.toFilter(string(catalog.ParseAdminArticleSort(q.Sort)), "desc")
	if q.TagID != nil {
		filter = filter.WithFilter(catalog.FilterTagID, *q.TagID)
	}
	for key, raw := range map[string]string{catalog.FilterMinPrice: q.MinPrice, catalog.FilterMaxPrice: q.MaxPrice} {
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return shared.Paginated[ArticleListItem]{}, shared.InvalidInput(key + " must be a decimal number")
		}
		filter = filter.WithFilter(key, price)
	}

	total, err := s.articles.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ArticleListItem]{}, err
	}
	articles, err := s.articles.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ArticleListItem]{}, err
	}
	items := make([]ArticleListItem, 0, len(articles))
	for i := range articles {
		items = append(items, toArticleListItem(&articles[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *ArticleService) GetArticle(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, article), nil
}

func (s *ArticleService) CreateArticle(ctx context.Context, req CreateArticleRequest) (*ArticleResponse, error) {
	article, err := catalog.NewArticle(req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	category, sub, err := s.resolveCategory(ctx, req.CategoryID, req.SubCategoryID)
	if err != nil {
		return nil, err
	}
	if err := article.Categorize(category, sub); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}
	article.SetTags(tags)
	article.SetColors(req.Colors)
	article.SetSizes(req.Sizes)
	article.SetLandingVisibility(req.ShowOnLandingPage)

	if err := s.articles.Save(ctx, article); err != nil {
		return nil, fmt.Errorf("save article: %w", err)
	}
	s.publish(ctx, article)
	return s.toResponse(ctx, article), nil
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id uuid.UUID, req UpdateArticleRequest) (*ArticleResponse, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := article.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := article.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearCategory:
		if err := article.Categorize(nil, nil); err != nil {
			return nil, err
		}
	case req.CategoryID != nil || req.SubCategoryID != nil:
		categoryID := req.CategoryID
		subID := req.SubCategoryID
		if categoryID == nil && article.CategoryID != nil && subID != nil {
			categoryID = article.CategoryID
		}
		// Keep the current subcategory when only the category is resent unchanged.
		if subID == nil && categoryID != nil && article.CategoryID != nil && *categoryID == *article.CategoryID {
			subID = article.SubCategoryID
		}
		category, sub, err := s.resolveCategory(ctx, categoryID, subID)
		if err != nil {
			return nil, err
		}
		if err := article.Categorize(category, sub); err != nil {
			return nil, err
		}
	}
	if req.TagIDs != nil {
		tags, err := s.resolveTags(ctx, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		article.SetTags(tags)
	}
	if req.Colors != nil {
		article.SetColors(*req.Colors)
	}
	if req.Sizes != nil {
		article.SetSizes(*req.Sizes)
	}
	if req.ShowOnLandingPage != nil {
		article.SetLandingVisibility(*req.ShowOnLandingPage)
	}

	article.MarkUpdated()
	if err := s.articles.Save(ctx, article); err != nil {
		return nil, fmt.Errorf("save article: %w", err)
	}
	s.publish(ctx, article)
	return s.toResponse(ctx, article), nil
}

// DeleteArticle removes the article with its orders and notifications.
func (s *ArticleService) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}
	s.removePicture(ctx, article.Picture)
	article.MarkDeleted()
	s.publish(ctx, article)
	return nil
}

// RequestPictureUpload issues a presigned upload URL and the key to attach
// once the upload is done.
func (s *ArticleService) RequestPictureUpload(ctx context.Context, id uuid.UUID, req PictureUploadRequest) (*PictureUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "picture storage is not configured")
	}
	if _, err := s.articles.FindByID(ctx, id); err != nil {
		return nil, err
	}

	key := newPictureKey(id, req.FileName, req.ContentType)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, 0)
	if err != nil {
		return nil, fmt.Errorf("generate upload url: %w", err)
	}
	return &PictureUploadResponse{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// AttachPicture makes an uploaded object the article's picture. The
// previous picture is deleted best-effort.
func (s *ArticleService) AttachPicture(ctx context.Context, id uuid.UUID, req AttachPictureRequest) (*ArticleResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "picture storage is not configured")
	}
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pictureKeyBelongsTo(req.StorageKey, id) {
		return nil, shared.InvalidInput("storage key was not issued for this article")
	}
	exists, err := s.storage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("check uploaded picture: %w", err)
	}
	if !exists {
		return nil, shared.InvalidInput("picture has not been uploaded")
	}

	previous := article.SetPicture(req.StorageKey)
	article.MarkUpdated()
	if err := s.articles.Save(ctx, article); err != nil {
		return nil, fmt.Errorf("save article: %w", err)
	}
	if previous != req.StorageKey {
		s.removePicture(ctx, previous)
	}
	s.publish(ctx, article)
	return s.toResponse(ctx, article), nil
}

// ResetMonthlySales zeroes every article's monthly sales counter.
func (s *ArticleService) ResetMonthlySales(ctx context.Context) (*MonthlyResetResponse, error) {
	n, err := s.articles.ResetMonthlySales(ctx)
	if err != nil {
		return nil, fmt.Errorf("reset monthly sales: %w", err)
	}
	s.logger.Info("monthly sales counters reset", zap.Int64("articles", n))
	if s.events != nil {
		if err := s.events.Publish(ctx, catalog.NewMonthlySalesResetEvent(n)); err != nil {
			s.logger.Warn("failed to publish monthly reset event", zap.Error(err))
		}
	}
	return &MonthlyResetResponse{ArticlesReset: n}, nil
}

// resolveCategory loads the requested category and subcategory. A
// subcategory without a category implies its own parent.
func (s *ArticleService) resolveCategory(ctx context.Context, categoryID, subID *uuid.UUID) (*catalog.Category, *catalog.SubCategory, error) {
	var sub *catalog.SubCategory
	if subID != nil {
		found, err := s.subCategories.FindByID(ctx, *subID)
		if err != nil {
			return nil, nil, asInvalidReference(err, "subcategory does not exist")
		}
		sub = found
		if categoryID == nil {
			categoryID = &found.CategoryID
		}
	}
	if categoryID == nil {
		return nil, nil, nil
	}
	category, err := s.categories.FindByID(ctx, *categoryID)
	if err != nil {
		return nil, nil, asInvalidReference(err, "category does not exist")
	}
	return category, sub, nil
}

func (s *ArticleService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	tags, err := s.tags.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, shared.InvalidInput("one or more tags do not exist")
	}
	return tags, nil
}

func (s *ArticleService) removePicture(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete old picture", zap.String("key", key), zap.Error(err))
	}
}

func (s *ArticleService) publish(ctx context.Context, article *catalog.Article) {
	if err := shared.PublishPending(ctx, s.events, article); err != nil {
		s.logger.Warn("failed to publish article events", zap.Error(err))
	}
}

func (s *ArticleService) toResponse(ctx context.Context, a *catalog.Article) *ArticleResponse {
	tags := make([]TagSummary, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, TagSummary{ID: t.ID, Name: t.Name})
	}
	return &ArticleResponse{
		ID:                     a.ID,
		Name:                   a.Name,
		Price:                  a.Price,
		PictureKey:             a.Picture,
		PictureURL:             s.pictures.URL(ctx, a.Picture),
		Category:               toCategorySummary(a.Category),
		SubCategory:            toSubCategorySummary(a.SubCategory),
		Tags:                   tags,
		Colors:                 nonNil(a.ColorsAvailable),
		Sizes:                  nonNil(a.SizesAvailable),
		NumberOfSalesAllTime:   a.NumberOfSalesAllTime,
		NumberOfSalesThisMonth: a.NumberOfSalesThisMonth,
		TotalRevenue:           a.TotalRevenue(),
		ShowOnLandingPage:      a.ShowOnLandingPage,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
		Version:                a.Version,
	}
}

func asInvalidReference(err error, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.InvalidInput(message)
	}
	return err
}
