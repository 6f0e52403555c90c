package model

import (
	"github.com/google/uuid"
)

// Review is a user's rating tied to a specific fulfilled order.
// One review per (user, order); re-submission updates the existing row.
// Approved gates public visibility: only approved, non-deleted reviews enter
// public aggregates.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DishID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating    int       `gorm:"not null"` // 1..5
	Comment   string
	Anonymous bool `gorm:"not null;default:false"`
	Approved  bool `gorm:"not null;default:false;index"`

	Audit

	User  *User  `gorm:"foreignKey:UserID"`
	Dish  *Dish  `gorm:"foreignKey:DishID"`
	Order *Order `gorm:"foreignKey:OrderID"`
}
