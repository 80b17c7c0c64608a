package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// articleSearchCondition matches the article name, its category, its
// subcategory or any of its tags. Subqueries keep one row per article.
const articleSearchCondition = `(LOWER(articles.name) LIKE @pattern ESCAPE '\'
 OR articles.category_id IN (SELECT categories.id FROM categories WHERE LOWER(categories.name) LIKE @pattern ESCAPE '\')
 OR articles.sub_category_id IN (SELECT sub_categories.id FROM sub_categories WHERE LOWER(sub_categories.name) LIKE @pattern ESCAPE '\')
 OR articles.id IN (SELECT article_tags.article_id FROM article_tags JOIN tags ON tags.id = article_tags.tag_id WHERE LOWER(tags.name) LIKE @pattern ESCAPE '\'))`

// GormArticleRepository implements catalog.ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

func (r *GormArticleRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Category").
		Preload("SubCategory").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		})
}

func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	var article catalog.Article
	if err := r.withRelations(r.db.WithContext(ctx)).First(&article, "articles.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("article")
		}
		return nil, err
	}
	return &article, nil
}

func (r *GormArticleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	articles := []catalog.Article{}
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Article{}), filter)
	query = query.Order(catalog.ArticleSort(filter.OrderBy).OrderClause())
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := r.withRelations(query).Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *GormArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Article{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormArticleRepository) FindLanding(ctx context.Context, limit int) ([]catalog.Article, error) {
	articles := []catalog.Article{}
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("articles.show_on_landing_page = ?", true).
		Order(catalog.SortByNewest.OrderClause()).
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *GormArticleRepository) FindRelated(ctx context.Context, article *catalog.Article, limit int) ([]catalog.Article, error) {
	related := []catalog.Article{}
	if article.CategoryID == nil || limit <= 0 {
		return related, nil
	}
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("articles.category_id = ? AND articles.id <> ?", *article.CategoryID, article.ID).
		Order(catalog.SortByNewest.OrderClause()).
		Limit(limit).
		Find(&related).Error
	if err != nil {
		return nil, err
	}
	return related, nil
}

// salesCounters are only written by order placement and the monthly reset,
// both as in-place SQL updates.
var salesCounters = []string{"number_of_sales_all_time", "number_of_sales_this_month"}

// Save upserts the article row and replaces its tag links. Updates leave the
// sales counters alone so a stale copy cannot undo concurrent orders. Category
// and subcategory rows are never written through an article.
func (r *GormArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&catalog.Article{}).Where("id = ?", article.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			if err := tx.Omit(clause.Associations).Create(article).Error; err != nil {
				return err
			}
		} else {
			omit := append([]string{clause.Associations}, salesCounters...)
			if err := tx.Model(article).Select("*").Omit(omit...).Updates(article).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM "+articleTagsTable+" WHERE article_id = ?", article.ID).Error; err != nil {
			return err
		}
		for _, tag := range article.Tags {
			if err := tx.Exec("INSERT INTO "+articleTagsTable+" (article_id, tag_id) VALUES (?, ?)", article.ID, tag.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the article with its tag links, orders and their notifications.
func (r *GormArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderIDs := tx.Model(&trade.Order{}).Select("id").Where("article_id = ?", id)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&trade.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&trade.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+articleTagsTable+" WHERE article_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Article{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("article")
		}
		return nil
	})
}

func (r *GormArticleRepository) ResetMonthlySales(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&catalog.Article{}).
		Where("number_of_sales_this_month <> ?", 0).
		UpdateColumn("number_of_sales_this_month", 0)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormArticleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if pattern := filter.SearchPattern(); pattern != "" {
		query = query.Where(articleSearchCondition, map[string]interface{}{"pattern": pattern})
	}
	for key, value := range filter.Filters {
		switch key {
		case catalog.FilterCategoryID:
			query = query.Where("articles.category_id = ?", value)
		case catalog.FilterShowOnLandingPage:
			query = query.Where("articles.show_on_landing_page = ?", value)
		case catalog.FilterTagID:
			query = query.Where("articles.id IN (SELECT article_id FROM "+articleTagsTable+" WHERE tag_id = ?)", value)
		case catalog.FilterMinPrice:
			query = query.Where("articles.price >= ?", value)
		case catalog.FilterMaxPrice:
			query = query.Where("articles.price <= ?", value)
		}
	}
	return query
}

// Ensure GormArticleRepository implements ArticleRepository
var _ catalog.ArticleRepository = (*GormArticleRepository)(nil)
