package model

import (
	"github.com/google/uuid"
)

// Order statuses. Fulfillment moves strictly forward:
// pending → confirmed → ready → delivered. Cancellation is reachable from any
// non-terminal status and is terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// statusRank orders the forward progression. Cancelled is deliberately absent:
// it is not part of the progression and is handled separately.
var statusRank = map[string]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusReady:     2,
	StatusDelivered: 3,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from cur to next.
// Forward jumps are allowed (a caterer may mark a confirmed order delivered
// directly); backward moves and transitions out of a terminal status are not.
func CanTransition(cur, next string) bool {
	if cur == StatusCancelled {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	curRank, ok := statusRank[cur]
	if !ok {
		return false
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return false
	}
	return nextRank > curRank
}

// Order records one user's request for one dish from one menu.
// At most one active (non-deleted, non-cancelled) order exists per
// (user, menu); enforced by a partial unique index (see infra.NewDatabase).
type Order struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	MenuID       uuid.UUID `gorm:"type:uuid;not null;index"`
	DishID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	SpecialNotes string

	Audit

	User *User `gorm:"foreignKey:UserID"`
	Menu *Menu `gorm:"foreignKey:MenuID"`
	Dish *Dish `gorm:"foreignKey:DishID"`
}

// Active reports whether the order still counts against the MenuDish counter.
func (o *Order) Active() bool {
	return !o.IsDeleted && o.Status != StatusCancelled
}

// Fulfilled reports whether the dish was (or will be) actually served,
// which is what review eligibility keys on.
func (o *Order) Fulfilled() bool {
	switch o.Status {
	case StatusConfirmed, StatusReady, StatusDelivered:
		return !o.IsDeleted
	}
	return false
}
