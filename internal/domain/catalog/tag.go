package catalog

import (
	"unicode/utf8"

	"github.com/trycco/storefront/internal/domain/shared"
)

// MaxTagNameLength bounds tag names.
const MaxTagNameLength = 100

// Tag is a free label attached to articles.
type Tag struct {
	shared.Entity
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tags_name"`
}

// TableName returns the table name for GORM
func (Tag) TableName() string {
	return "tags"
}

// NewTag creates a tag.
func NewTag(name string) (*Tag, error) {
	name, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	return &Tag{Entity: shared.NewEntity(), Name: name}, nil
}

// Rename changes the tag name.
func (t *Tag) Rename(name string) error {
	name, err := normalizeTagName(name)
	if err != nil {
		return err
	}
	t.Name = name
	t.Touch()
	return nil
}

func normalizeTagName(name string) (string, error) {
	name, err := normalizeName("tag", name)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(name) > MaxTagNameLength {
		return "", shared.InvalidInput("tag name cannot exceed 100 characters")
	}
	return name, nil
}
