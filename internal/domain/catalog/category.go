package catalog

import (
	"unicode/utf8"

	"github.com/trycco/storefront/internal/domain/shared"
)

// MaxCategoryNameLength bounds Category and SubCategory names.
const MaxCategoryNameLength = 100

// Category groups articles and owns subcategories.
type Category struct {
	shared.Aggregate
	Name              string `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name"`
	ShowOnLandingPage bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category with a validated name.
func NewCategory(name string, showOnLanding bool) (*Category, error) {
	name, err := normalizeName("category", name)
	if err != nil {
		return nil, err
	}

	c := &Category{
		Aggregate:         shared.NewAggregate(),
		Name:              name,
		ShowOnLandingPage: showOnLanding,
	}
	c.AddEvent(NewCategoryChangedEvent(EventTypeCategoryCreated, c))
	return c, nil
}

// Update renames the category and sets its landing flag.
func (c *Category) Update(name string, showOnLanding bool) error {
	name, err := normalizeName("category", name)
	if err != nil {
		return err
	}
	c.Name = name
	c.ShowOnLandingPage = showOnLanding
	c.Revise()
	c.AddEvent(NewCategoryChangedEvent(EventTypeCategoryUpdated, c))
	return nil
}

// MarkDeleted records the deletion event; the row is removed by the repository.
func (c *Category) MarkDeleted() {
	c.AddEvent(NewCategoryChangedEvent(EventTypeCategoryDeleted, c))
}

func normalizeName(kind, name string) (string, error) {
	name = shared.NormalizeText(name)
	if name == "" {
		return "", shared.InvalidInput(kind + " name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", shared.InvalidInput(kind + " name cannot exceed 100 characters")
	}
	return name, nil
}
