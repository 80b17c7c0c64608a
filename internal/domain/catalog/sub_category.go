package catalog

import (
	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/shared"
)

// SubCategory belongs to exactly one Category; its name is unique within it.
type SubCategory struct {
	shared.Entity
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_sub_categories_category_name,priority:2"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sub_categories_category_name,priority:1"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (SubCategory) TableName() string {
	return "sub_categories"
}

// NewSubCategory creates a subcategory under categoryID.
func NewSubCategory(categoryID uuid.UUID, name string) (*SubCategory, error) {
	if categoryID == uuid.Nil {
		return nil, shared.InvalidInput("subcategory must belong to a category")
	}
	name, err := normalizeName("subcategory", name)
	if err != nil {
		return nil, err
	}
	return &SubCategory{
		Entity:     shared.NewEntity(),
		Name:       name,
		CategoryID: categoryID,
	}, nil
}

// Update renames the subcategory and optionally moves it to another category.
func (s *SubCategory) Update(categoryID uuid.UUID, name string) error {
	if categoryID == uuid.Nil {
		return shared.InvalidInput("subcategory must belong to a category")
	}
	name, err := normalizeName("subcategory", name)
	if err != nil {
		return err
	}
	s.Name = name
	s.CategoryID = categoryID
	s.Touch()
	return nil
}
