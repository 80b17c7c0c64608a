package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubCategoryRepository implements catalog.SubCategoryRepository using GORM
type GormSubCategoryRepository struct {
	db *gorm.DB
}

func NewGormSubCategoryRepository(db *gorm.DB) *GormSubCategoryRepository {
	return &GormSubCategoryRepository{db: db}
}

func (r *GormSubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SubCategory, error) {
	var sub catalog.SubCategory
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("subcategory")
		}
		return nil, err
	}
	return &sub, nil
}

func (r *GormSubCategoryRepository) FindByCategoryAndName(ctx context.Context, categoryID uuid.UUID, name string) (*catalog.SubCategory, error) {
	var sub catalog.SubCategory
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND LOWER(name) = ?", categoryID, strings.ToLower(strings.TrimSpace(name))).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("subcategory")
		}
		return nil, err
	}
	return &sub, nil
}

func (r *GormSubCategoryRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.SubCategory, error) {
	var subs []catalog.SubCategory
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC, id ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *GormSubCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.SubCategory, error) {
	var subs []catalog.SubCategory
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.SubCategory{}), filter)
	query = applyOrderAndPage(query, "sub_categories", SubCategorySortFields, "name", filter)
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *GormSubCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.SubCategory{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSubCategoryRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.SubCategory{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSubCategoryRepository) Save(ctx context.Context, sub *catalog.SubCategory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error
}

// Delete removes the subcategory and clears it from its articles.
func (r *GormSubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&catalog.Article{}).
			Where("sub_category_id = ?", id).
			UpdateColumn("sub_category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.SubCategory{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("subcategory")
		}
		return nil
	})
}

func (r *GormSubCategoryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if pattern := filter.SearchPattern(); pattern != "" {
		query = query.Where(`LOWER(sub_categories.name) LIKE ? ESCAPE '\'`, pattern)
	}
	if value, ok := filter.Filters[catalog.FilterCategoryID]; ok {
		query = query.Where("sub_categories.category_id = ?", value)
	}
	return query
}

var _ catalog.SubCategoryRepository = (*GormSubCategoryRepository)(nil)
