package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trycco/storefront/internal/domain/catalog"
)

// Storefront read models

// CategorySummary is a category as shown to shoppers.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SubCategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ArticleSummary is one card in a listing.
type ArticleSummary struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price" swaggertype:"string" example:"29.90"`
	PictureURL *string         `json:"picture_url"`
	Colors     []string        `json:"colors"`
	Sizes      []string        `json:"sizes"`
	Tags       []string        `json:"tags"`
}

// ArticleDetail is the product page: the article and up to four related ones.
type ArticleDetail struct {
	ArticleSummary
	Category    *CategorySummary    `json:"category"`
	SubCategory *SubCategorySummary `json:"sub_category"`
	CreatedAt   time.Time           `json:"created_at"`
	Related     []ArticleSummary    `json:"related"`
}

// Landing is the home page content.
type Landing struct {
	Articles   []ArticleSummary  `json:"articles"`
	Categories []CategorySummary `json:"categories"`
}

// ListingQuery selects one page of the product listing.
type ListingQuery struct {
	Search string
	Sort   string
	Page   int
}

// ArticlePage is one page of the product listing.
type ArticlePage struct {
	Items       []ArticleSummary `json:"items"`
	TotalCount  int64            `json:"total_count"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	PerPage     int              `json:"per_page"`
	HasMore     bool             `json:"has_more"`
	Search      string           `json:"search"`
	Sort        string           `json:"sort"`
}

// LoadMoreQuery is a ListingQuery with a caller-chosen page size.
type LoadMoreQuery struct {
	ListingQuery
	PerPage int
}

// LoadMoreResult is the infinite-scroll payload.
type LoadMoreResult struct {
	Articles    []ArticleSummary `json:"articles"`
	HasMore     bool             `json:"has_more"`
	CurrentPage int              `json:"current_page"`
	TotalCount  int64            `json:"total_count"`
}

// Admin requests

type CreateCategoryRequest struct {
	Name              string `json:"name" binding:"required,notblank,max=100"`
	ShowOnLandingPage bool   `json:"show_on_landing_page"`
}

type UpdateCategoryRequest struct {
	Name              *string `json:"name" binding:"omitempty,notblank,max=100"`
	ShowOnLandingPage *bool   `json:"show_on_landing_page"`
}

type SubCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Name       string    `json:"name" binding:"required,notblank,max=100"`
}

type TagRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

type CreateArticleRequest struct {
	Name              string          `json:"name" binding:"required,notblank,max=200"`
	Price             decimal.Decimal `json:"price" swaggertype:"string" example:"29.90"`
	CategoryID        *uuid.UUID      `json:"category_id"`
	SubCategoryID     *uuid.UUID      `json:"sub_category_id"`
	TagIDs            []uuid.UUID     `json:"tag_ids"`
	Colors            []string        `json:"colors" binding:"dive,max=50"`
	Sizes             []string        `json:"sizes" binding:"dive,max=50"`
	ShowOnLandingPage bool            `json:"show_on_landing_page"`
}

// UpdateArticleRequest changes only the fields that are set. ClearCategory
// removes the category and subcategory.
type UpdateArticleRequest struct {
	Name              *string          `json:"name" binding:"omitempty,notblank,max=200"`
	Price             *decimal.Decimal `json:"price" swaggertype:"string" example:"29.90"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	SubCategoryID     *uuid.UUID       `json:"sub_category_id"`
	ClearCategory     bool             `json:"clear_category"`
	TagIDs            *[]uuid.UUID     `json:"tag_ids"`
	Colors            *[]string        `json:"colors"`
	Sizes             *[]string        `json:"sizes"`
	ShowOnLandingPage *bool            `json:"show_on_landing_page"`
}

// AdminListQuery pages an admin list. CategoryID narrows articles and
// subcategories.
type AdminListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`

	// Sort, MinPrice and MaxPrice apply to article lists only.
	Sort       string     `form:"sort" binding:"omitempty,oneof=best_selling name price_low price_high newest"`
	MinPrice   string     `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice   string     `form:"max_price" binding:"omitempty,numeric"`
	CategoryID *uuid.UUID `form:"-"`
	TagID      *uuid.UUID `form:"-"`
}

type PictureUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=200"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

type AttachPictureRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// Admin responses

type CategoryResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ShowOnLandingPage bool      `json:"show_on_landing_page"`
	SubCategoryCount  int64     `json:"sub_category_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

type SubCategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type TagResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ArticleCount int64     `json:"article_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type TagSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ArticleResponse struct {
	ID                     uuid.UUID           `json:"id"`
	Name                   string              `json:"name"`
	Price                  decimal.Decimal     `json:"price" swaggertype:"string" example:"29.90"`
	PictureKey             string              `json:"picture_key"`
	PictureURL             *string             `json:"picture_url"`
	Category               *CategorySummary    `json:"category"`
	SubCategory            *SubCategorySummary `json:"sub_category"`
	Tags                   []TagSummary        `json:"tags"`
	Colors                 []string            `json:"colors"`
	Sizes                  []string            `json:"sizes"`
	NumberOfSalesAllTime   int64               `json:"number_of_sales_all_time"`
	NumberOfSalesThisMonth int64               `json:"number_of_sales_this_month"`
	TotalRevenue           decimal.Decimal     `json:"total_revenue" swaggertype:"string" example:"1495.00"`
	ShowOnLandingPage      bool                `json:"show_on_landing_page"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
	Version                int                 `json:"version"`
}

// ArticleListItem is an admin list row.
type ArticleListItem struct {
	ID                     uuid.UUID       `json:"id"`
	Name                   string          `json:"name"`
	Price                  decimal.Decimal `json:"price" swaggertype:"string" example:"29.90"`
	CategoryName           string          `json:"category_name"`
	ColorsPreview          string          `json:"colors_preview"`
	SizesPreview           string          `json:"sizes_preview"`
	NumberOfSalesAllTime   int64           `json:"number_of_sales_all_time"`
	NumberOfSalesThisMonth int64           `json:"number_of_sales_this_month"`
	TotalRevenue           decimal.Decimal `json:"total_revenue" swaggertype:"string" example:"1495.00"`
	ShowOnLandingPage      bool            `json:"show_on_landing_page"`
	CreatedAt              time.Time       `json:"created_at"`
}

type PictureUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type MonthlyResetResponse struct {
	ArticlesReset int64 `json:"articles_reset"`
}

const previewItems = 3

// preview joins the first few values and counts the rest.
func preview(values []string) string {
	if len(values) <= previewItems {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s +%d", strings.Join(values[:previewItems], ", "), len(values)-previewItems)
}

func toCategorySummary(c *catalog.Category) *CategorySummary {
	if c == nil {
		return nil
	}
	return &CategorySummary{ID: c.ID, Name: c.Name}
}

func toSubCategorySummary(s *catalog.SubCategory) *SubCategorySummary {
	if s == nil {
		return nil
	}
	return &SubCategorySummary{ID: s.ID, Name: s.Name}
}

func toCategoryResponse(c *catalog.Category, subCount int64) CategoryResponse {
	return CategoryResponse{
		ID:                c.ID,
		Name:              c.Name,
		ShowOnLandingPage: c.ShowOnLandingPage,
		SubCategoryCount:  subCount,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		Version:           c.Version,
	}
}

func toSubCategoryResponse(s *catalog.SubCategory) SubCategoryResponse {
	return SubCategoryResponse{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID, CreatedAt: s.CreatedAt}
}

func toTagResponse(t *catalog.Tag, articles int64) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, ArticleCount: articles, CreatedAt: t.CreatedAt}
}

func toArticleListItem(a *catalog.Article) ArticleListItem {
	item := ArticleListItem{
		ID:                     a.ID,
		Name:                   a.Name,
		Price:                  a.Price,
		ColorsPreview:          preview(a.ColorsAvailable),
		SizesPreview:           preview(a.SizesAvailable),
		NumberOfSalesAllTime:   a.NumberOfSalesAllTime,
		NumberOfSalesThisMonth: a.NumberOfSalesThisMonth,
		TotalRevenue:           a.TotalRevenue(),
		ShowOnLandingPage:      a.ShowOnLandingPage,
		CreatedAt:              a.CreatedAt,
	}
	if a.Category != nil {
		item.CategoryName = a.Category.Name
	}
	return item
}
