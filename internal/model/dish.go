package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DishCategory classifies dishes (starter, main, dessert, ...).
// Color is a HEX code used by the frontend badge.
type DishCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	Color       string `gorm:"type:varchar(7);not null;default:'#3B82F6'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DishCategory) TableName() string { return "dish_categories" }

// Dish is an orderable item of the catalog. Price here is the default price;
// MenuDish may override it per menu.
type Dish struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description string
	// Allergens is a free-text list shown to employees before ordering.
	Allergens  string
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Active     bool            `gorm:"not null;default:true"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`

	Audit

	Category *DishCategory `gorm:"foreignKey:CategoryID"`
}
