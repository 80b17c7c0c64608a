package shared

// EventSource buffers the domain events raised by a mutation until the
// service that saved it publishes them.
type EventSource interface {
	AddEvent(event DomainEvent)
	Events() []DomainEvent
	ClearEvents()
}

// Aggregate is an Entity with an edit counter and an event buffer. Version
// starts at 1 and grows by one on every admin edit.
type Aggregate struct {
	Entity
	Version int           `gorm:"not null;default:1" json:"version"`
	pending []DomainEvent `gorm:"-"`
}

func NewAggregate() Aggregate {
	return Aggregate{Entity: NewEntity(), Version: 1}
}

// Revise records an edit.
func (a *Aggregate) Revise() {
	a.Version++
	a.Touch()
}

func (a *Aggregate) AddEvent(event DomainEvent) { a.pending = append(a.pending, event) }

func (a *Aggregate) Events() []DomainEvent { return a.pending }

func (a *Aggregate) ClearEvents() { a.pending = nil }
