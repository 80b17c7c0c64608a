package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/trycco/storefront/internal/domain/shared"
)

// StringList is an ordered list of strings stored as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("catalog: cannot scan %T into StringList", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("catalog: decode string list: %w", err)
	}
	*l = items
	return nil
}

// Contains reports whether s is an element of the list.
func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

// NewStringList trims each value, drops blanks and keeps the first occurrence
// of duplicates.
func NewStringList(values []string) StringList {
	out := make(StringList, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = shared.NormalizeText(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
