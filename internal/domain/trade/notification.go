package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/shared"
)

// NotificationStatus tracks how the shop handled an order notification.
type NotificationStatus string

const (
	NotificationSent     NotificationStatus = "sent"
	NotificationReceived NotificationStatus = "received"
	NotificationResolved NotificationStatus = "resolved"
	NotificationCanceled NotificationStatus = "canceled"
)

// IsValid reports whether s is a known status.
func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationSent, NotificationReceived, NotificationResolved, NotificationCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving to target.
func (s NotificationStatus) CanTransitionTo(target NotificationStatus) bool {
	switch s {
	case NotificationSent:
		return target == NotificationReceived || target == NotificationResolved || target == NotificationCanceled
	case NotificationReceived:
		return target == NotificationResolved || target == NotificationCanceled
	case NotificationResolved, NotificationCanceled:
		return false
	}
	return false
}

// Notification is the record of the email sent for an order and of its
// handling by shop staff. There is at most one per order.
type Notification struct {
	shared.Entity
	OrderID     uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_order"`
	Order       *Order             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Status      NotificationStatus `gorm:"type:varchar(10);not null;default:'sent';index"`
	Recipient   string             `gorm:"type:varchar(254);not null"`
	Subject     string             `gorm:"type:varchar(255);not null"`
	Delivered   bool               `gorm:"not null;default:false"`
	LastError   string             `gorm:"type:text;not null;default:''"`
	DeliveredAt *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification starts a notification in the sent status.
func NewNotification(orderID uuid.UUID, recipient, subject string) *Notification {
	return &Notification{
		Entity:    shared.NewEntity(),
		OrderID:   orderID,
		Status:    NotificationSent,
		Recipient: recipient,
		Subject:   subject,
	}
}

// RecordDelivery stores the outcome of a send attempt.
func (n *Notification) RecordDelivery(err error) {
	if err != nil {
		n.Delivered = false
		n.LastError = err.Error()
		n.DeliveredAt = nil
	} else {
		now := time.Now()
		n.Delivered = true
		n.LastError = ""
		n.DeliveredAt = &now
	}
	n.Touch()
}

// TransitionTo moves the notification along its workflow.
func (n *Notification) TransitionTo(target NotificationStatus) error {
	if !target.IsValid() {
		return shared.InvalidInput(fmt.Sprintf("unknown notification status %q", target))
	}
	if !n.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("cannot move notification from %s to %s", n.Status, target))
	}
	n.Status = target
	n.Touch()
	return nil
}
