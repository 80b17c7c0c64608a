package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"gorm.io/gorm"
)

const articleTagsTable = "article_tags"

// GormTagRepository implements catalog.TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	var tag catalog.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("tag")
		}
		return nil, err
	}
	return &tag, nil
}

func (r *GormTagRepository) FindByName(ctx context.Context, name string) (*catalog.Tag, error) {
	var tag catalog.Tag
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("tag")
		}
		return nil, err
	}
	return &tag, nil
}

func (r *GormTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	tags := []catalog.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tag, error) {
	var tags []catalog.Tag
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Tag{}), filter)
	query = applyOrderAndPage(query, "tags", TagSortFields, "name", filter)
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Tag{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTagRepository) CountArticles(ctx context.Context, tagID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(articleTagsTable).
		Where("tag_id = ?", tagID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

// Delete removes the tag and detaches it from every article.
func (r *GormTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+articleTagsTable+" WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Tag{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("tag")
		}
		return nil
	})
}

func (r *GormTagRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if pattern := filter.SearchPattern(); pattern != "" {
		query = query.Where(`LOWER(tags.name) LIKE ? ESCAPE '\'`, pattern)
	}
	return query
}

var _ catalog.TagRepository = (*GormTagRepository)(nil)
