package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trycco/storefront/internal/domain/shared"
)

const (
	AggregateTypeCategory = "Category"
	AggregateTypeArticle  = "Article"
	AggregateTypeTaxonomy = "Taxonomy"
)

const (
	EventTypeCategoryCreated   = "CategoryCreated"
	EventTypeCategoryUpdated   = "CategoryUpdated"
	EventTypeCategoryDeleted   = "CategoryDeleted"
	EventTypeArticleCreated    = "ArticleCreated"
	EventTypeArticleUpdated    = "ArticleUpdated"
	EventTypeArticleDeleted    = "ArticleDeleted"
	EventTypeTaxonomyChanged   = "TaxonomyChanged"
	EventTypeMonthlySalesReset = "MonthlySalesReset"
)

// CatalogEventTypes lists every event that changes what shoppers see.
func CatalogEventTypes() []string {
	return []string{
		EventTypeCategoryCreated,
		EventTypeCategoryUpdated,
		EventTypeCategoryDeleted,
		EventTypeArticleCreated,
		EventTypeArticleUpdated,
		EventTypeArticleDeleted,
		EventTypeTaxonomyChanged,
	}
}

// CategoryChangedEvent covers category creation, update and deletion.
type CategoryChangedEvent struct {
	shared.BaseDomainEvent
	CategoryID        uuid.UUID `json:"category_id"`
	Name              string    `json:"name"`
	ShowOnLandingPage bool      `json:"show_on_landing_page"`
}

func NewCategoryChangedEvent(eventType string, c *Category) *CategoryChangedEvent {
	return &CategoryChangedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(eventType, AggregateTypeCategory, c.ID),
		CategoryID:        c.ID,
		Name:              c.Name,
		ShowOnLandingPage: c.ShowOnLandingPage,
	}
}

// ArticleChangedEvent covers article creation, update and deletion.
type ArticleChangedEvent struct {
	shared.BaseDomainEvent
	ArticleID         uuid.UUID       `json:"article_id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	ShowOnLandingPage bool            `json:"show_on_landing_page"`
}

func NewArticleChangedEvent(eventType string, a *Article) *ArticleChangedEvent {
	return &ArticleChangedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(eventType, AggregateTypeArticle, a.ID),
		ArticleID:         a.ID,
		Name:              a.Name,
		Price:             a.Price,
		CategoryID:        a.CategoryID,
		ShowOnLandingPage: a.ShowOnLandingPage,
	}
}

// TaxonomyChangedEvent is raised when a subcategory or tag is written or removed.
type TaxonomyChangedEvent struct {
	shared.BaseDomainEvent
	Kind   string    `json:"kind"`
	Action string    `json:"action"`
	Name   string    `json:"name"`
	ID     uuid.UUID `json:"entity_id"`
}

func NewTaxonomyChangedEvent(kind, action string, id uuid.UUID, name string) *TaxonomyChangedEvent {
	return &TaxonomyChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaxonomyChanged, AggregateTypeTaxonomy, id),
		Kind:            kind,
		Action:          action,
		Name:            name,
		ID:              id,
	}
}

// MonthlySalesResetEvent reports how many articles had their monthly counter zeroed.
type MonthlySalesResetEvent struct {
	shared.BaseDomainEvent
	ArticlesReset int64 `json:"articles_reset"`
}

func NewMonthlySalesResetEvent(count int64) *MonthlySalesResetEvent {
	return &MonthlySalesResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMonthlySalesReset, AggregateTypeArticle, uuid.Nil),
		ArticlesReset:   count,
	}
}
