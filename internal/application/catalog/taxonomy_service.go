package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	taxonomySubCategory = "subcategory"
	taxonomyTag         = "tag"

	actionSaved   = "saved"
	actionDeleted = "deleted"
)

// toFilter converts an admin list query; pages default to 1 of 20.
func (q AdminListQuery) toFilter(orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = orderBy
	filter.OrderDir = orderDir
	filter.Search = q.Search
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.CategoryID != nil {
		filter = filter.WithFilter(catalog.FilterCategoryID, *q.CategoryID)
	}
	return filter
}

// TaxonomyService manages categories, subcategories and tags.
type TaxonomyService struct {
	categories    catalog.CategoryRepository
	subCategories catalog.SubCategoryRepository
	tags          catalog.TagRepository
	events        shared.EventPublisher
	logger        *zap.Logger
}

func NewTaxonomyService(
	categories catalog.CategoryRepository,
	subCategories catalog.SubCategoryRepository,
	tags catalog.TagRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TaxonomyService {
	return &TaxonomyService{
		categories:    categories,
		subCategories: subCategories,
		tags:          tags,
		events:        events,
		logger:        logger,
	}
}

// Categories

func (s *TaxonomyService) ListCategories(ctx context.Context, q AdminListQuery) (shared.Paginated[CategoryResponse], error) {
	filter := q.toFilter("name", "asc")
	total, err := s.categories.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}
	categories, err := s.categories.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}

	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		subs, err := s.subCategories.CountByCategory(ctx, categories[i].ID)
		if err != nil {
			return shared.Paginated[CategoryResponse]{}, err
		}
		items = append(items, toCategoryResponse(&categories[i], subs))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *TaxonomyService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subs, err := s.subCategories.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category, subs)
	return &resp, nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.ensureCategoryNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}
	category, err := catalog.NewCategory(req.Name, req.ShowOnLandingPage)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	s.publish(ctx, category)

	resp := toCategoryResponse(category, 0)
	return &resp, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, landing := category.Name, category.ShowOnLandingPage
	if req.Name != nil {
		if err := s.ensureCategoryNameFree(ctx, *req.Name, id); err != nil {
			return nil, err
		}
		name = *req.Name
	}
	if req.ShowOnLandingPage != nil {
		landing = *req.ShowOnLandingPage
	}
	if err := category.Update(name, landing); err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	s.publish(ctx, category)
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes the category and its subcategories; its articles
// stay in the catalog without a category.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	category.MarkDeleted()
	s.publish(ctx, category)
	return nil
}

func (s *TaxonomyService) ensureCategoryNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.categories.FindByName(ctx, name)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return shared.AlreadyExists("a category with this name already exists")
	}
	return nil
}

// SubCategories

func (s *TaxonomyService) ListSubCategories(ctx context.Context, q AdminListQuery) (shared.Paginated[SubCategoryResponse], error) {
	filter := q.toFilter("name", "asc")
	total, err := s.subCategories.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[SubCategoryResponse]{}, err
	}
	subs, err := s.subCategories.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SubCategoryResponse]{}, err
	}
	items := make([]SubCategoryResponse, 0, len(subs))
	for i := range subs {
		items = append(items, toSubCategoryResponse(&subs[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *TaxonomyService) CreateSubCategory(ctx context.Context, req SubCategoryRequest) (*SubCategoryResponse, error) {
	if err := s.ensureSubCategoryFree(ctx, req.CategoryID, req.Name, uuid.Nil); err != nil {
		return nil, err
	}
	sub, err := catalog.NewSubCategory(req.CategoryID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.subCategories.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subcategory: %w", err)
	}
	s.taxonomyChanged(ctx, taxonomySubCategory, actionSaved, sub.ID, sub.Name)

	resp := toSubCategoryResponse(sub)
	return &resp, nil
}

func (s *TaxonomyService) UpdateSubCategory(ctx context.Context, id uuid.UUID, req SubCategoryRequest) (*SubCategoryResponse, error) {
	sub, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSubCategoryFree(ctx, req.CategoryID, req.Name, id); err != nil {
		return nil, err
	}
	if err := sub.Update(req.CategoryID, req.Name); err != nil {
		return nil, err
	}
	if err := s.subCategories.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subcategory: %w", err)
	}
	s.taxonomyChanged(ctx, taxonomySubCategory, actionSaved, sub.ID, sub.Name)

	resp := toSubCategoryResponse(sub)
	return &resp, nil
}

func (s *TaxonomyService) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	sub, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.subCategories.Delete(ctx, id); err != nil {
		return err
	}
	s.taxonomyChanged(ctx, taxonomySubCategory, actionDeleted, sub.ID, sub.Name)
	return nil
}

// ensureSubCategoryFree checks the parent exists and the name is unused in it.
func (s *TaxonomyService) ensureSubCategoryFree(ctx context.Context, categoryID uuid.UUID, name string, self uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.InvalidInput("category does not exist")
		}
		return err
	}
	existing, err := s.subCategories.FindByCategoryAndName(ctx, categoryID, name)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return shared.AlreadyExists("this category already has a subcategory with this name")
	}
	return nil
}

// Tags

func (s *TaxonomyService) ListTags(ctx context.Context, q AdminListQuery) (shared.Paginated[TagResponse], error) {
	filter := q.toFilter("name", "asc")
	total, err := s.tags.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[TagResponse]{}, err
	}
	tags, err := s.tags.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[TagResponse]{}, err
	}

	items := make([]TagResponse, 0, len(tags))
	for i := range tags {
		n, err := s.tags.CountArticles(ctx, tags[i].ID)
		if err != nil {
			return shared.Paginated[TagResponse]{}, err
		}
		items = append(items, toTagResponse(&tags[i], n))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, req TagRequest) (*TagResponse, error) {
	if err := s.ensureTagNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}
	tag, err := catalog.NewTag(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Save(ctx, tag); err != nil {
		return nil, fmt.Errorf("save tag: %w", err)
	}
	s.taxonomyChanged(ctx, taxonomyTag, actionSaved, tag.ID, tag.Name)

	resp := toTagResponse(tag, 0)
	return &resp, nil
}

func (s *TaxonomyService) UpdateTag(ctx context.Context, id uuid.UUID, req TagRequest) (*TagResponse, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTagNameFree(ctx, req.Name, id); err != nil {
		return nil, err
	}
	if err := tag.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.tags.Save(ctx, tag); err != nil {
		return nil, fmt.Errorf("save tag: %w", err)
	}
	s.taxonomyChanged(ctx, taxonomyTag, actionSaved, tag.ID, tag.Name)

	n, err := s.tags.CountArticles(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTagResponse(tag, n)
	return &resp, nil
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		return err
	}
	s.taxonomyChanged(ctx, taxonomyTag, actionDeleted, tag.ID, tag.Name)
	return nil
}

func (s *TaxonomyService) ensureTagNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.tags.FindByName(ctx, strings.TrimSpace(name))
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return shared.AlreadyExists("a tag with this name already exists")
	}
	return nil
}

func (s *TaxonomyService) publish(ctx context.Context, aggregate shared.EventSource) {
	if err := shared.PublishPending(ctx, s.events, aggregate); err != nil {
		s.logger.Warn("failed to publish catalog events", zap.Error(err))
	}
}

func (s *TaxonomyService) taxonomyChanged(ctx context.Context, kind, action string, id uuid.UUID, name string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, catalog.NewTaxonomyChangedEvent(kind, action, id, name)); err != nil {
		s.logger.Warn("failed to publish taxonomy event", zap.Error(err))
	}
}
