package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trycco/storefront/internal/domain/shared"
)

const MaxArticleNameLength = 200

var (
	// MinPrice is the smallest price an article may carry.
	MinPrice = decimal.New(1, -2)
	// maxPrice is the largest value a decimal(10,2) column holds.
	maxPrice = decimal.RequireFromString("99999999.99")
)

// Article is a sellable product with its color and size variants.
type Article struct {
	shared.Aggregate
	Name                   string          `gorm:"type:varchar(200);not null;index"`
	Picture                string          `gorm:"type:varchar(500);not null;default:''"`
	CategoryID             *uuid.UUID      `gorm:"type:uuid;index"`
	Category               *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	SubCategoryID          *uuid.UUID      `gorm:"type:uuid;index"`
	SubCategory            *SubCategory    `gorm:"foreignKey:SubCategoryID;constraint:OnDelete:SET NULL"`
	Tags                   []Tag           `gorm:"many2many:article_tags;constraint:OnDelete:CASCADE"`
	Price                  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ColorsAvailable        StringList      `gorm:"type:text;not null"`
	SizesAvailable         StringList      `gorm:"type:text;not null"`
	NumberOfSalesAllTime   int64           `gorm:"not null;default:0"`
	NumberOfSalesThisMonth int64           `gorm:"not null;default:0"`
	ShowOnLandingPage      bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// NewArticle creates an article; price must be at least MinPrice.
func NewArticle(name string, price decimal.Decimal) (*Article, error) {
	name, err := validateArticleName(name)
	if err != nil {
		return nil, err
	}
	price, err = validatePrice(price)
	if err != nil {
		return nil, err
	}

	a := &Article{
		Aggregate:       shared.NewAggregate(),
		Name:            name,
		Price:           price,
		ColorsAvailable: StringList{},
		SizesAvailable:  StringList{},
		Tags:            []Tag{},
	}
	a.AddEvent(NewArticleChangedEvent(EventTypeArticleCreated, a))
	return a, nil
}

func (a *Article) Rename(name string) error {
	name, err := validateArticleName(name)
	if err != nil {
		return err
	}
	a.Name = name
	return nil
}

// SetPrice rejects anything below MinPrice and rounds to cents.
func (a *Article) SetPrice(price decimal.Decimal) error {
	price, err := validatePrice(price)
	if err != nil {
		return err
	}
	a.Price = price
	return nil
}

func (a *Article) SetColors(colors []string) {
	a.ColorsAvailable = NewStringList(colors)
}

func (a *Article) SetSizes(sizes []string) {
	a.SizesAvailable = NewStringList(sizes)
}

// Categorize places the article in category and, optionally, one of its
// subcategories. A nil category clears both.
func (a *Article) Categorize(category *Category, sub *SubCategory) error {
	if category == nil {
		if sub != nil {
			return shared.InvalidInput("subcategory requires a category")
		}
		a.CategoryID, a.SubCategoryID = nil, nil
		a.Category, a.SubCategory = nil, nil
		return nil
	}
	if sub != nil && sub.CategoryID != category.ID {
		return shared.InvalidInput("subcategory does not belong to the selected category")
	}

	categoryID := category.ID
	a.CategoryID = &categoryID
	a.Category = category
	a.SubCategoryID, a.SubCategory = nil, nil
	if sub != nil {
		subID := sub.ID
		a.SubCategoryID = &subID
		a.SubCategory = sub
	}
	return nil
}

func (a *Article) SetTags(tags []Tag) {
	a.Tags = append([]Tag{}, tags...)
}

// SetPicture stores a new picture key and returns the previous one.
func (a *Article) SetPicture(key string) string {
	previous := a.Picture
	a.Picture = strings.TrimSpace(key)
	return previous
}

func (a *Article) SetLandingVisibility(show bool) {
	a.ShowOnLandingPage = show
}

// HasSize reports whether size is one of the available sizes.
func (a *Article) HasSize(size string) bool {
	return a.SizesAvailable.Contains(size)
}

// HasColor reports whether color is one of the available colors.
func (a *Article) HasColor(color string) bool {
	return a.ColorsAvailable.Contains(color)
}

// RecordSale adds quantity to both sales counters.
func (a *Article) RecordSale(quantity int) {
	a.NumberOfSalesAllTime += int64(quantity)
	a.NumberOfSalesThisMonth += int64(quantity)
}

func (a *Article) ResetMonthlySales() {
	a.NumberOfSalesThisMonth = 0
}

// TotalRevenue is price times lifetime sales.
func (a *Article) TotalRevenue() decimal.Decimal {
	return a.Price.Mul(decimal.NewFromInt(a.NumberOfSalesAllTime))
}

// TagNames returns the names of the attached tags in order.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// MarkUpdated bumps the version and records an update event.
func (a *Article) MarkUpdated() {
	a.Revise()
	a.AddEvent(NewArticleChangedEvent(EventTypeArticleUpdated, a))
}

// MarkDeleted records the deletion event.
func (a *Article) MarkDeleted() {
	a.AddEvent(NewArticleChangedEvent(EventTypeArticleDeleted, a))
}

func validateArticleName(name string) (string, error) {
	name = shared.NormalizeText(name)
	if name == "" {
		return "", shared.InvalidInput("article name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxArticleNameLength {
		return "", shared.InvalidInput("article name cannot exceed 200 characters")
	}
	return name, nil
}

func validatePrice(price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(2)
	if rounded.LessThan(MinPrice) {
		return decimal.Zero, shared.InvalidInput("price must be at least 0.01")
	}
	if rounded.GreaterThan(maxPrice) {
		return decimal.Zero, shared.InvalidInput("price cannot exceed 99999999.99")
	}
	return rounded, nil
}
