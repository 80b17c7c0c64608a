package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the identity every stored record carries. Rows are keyed by a
// random UUID generated in the domain, never by the database.
type Entity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func NewEntity() Entity {
	now := time.Now()
	return Entity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch moves UpdatedAt to now.
func (e *Entity) Touch() { e.UpdatedAt = time.Now() }
