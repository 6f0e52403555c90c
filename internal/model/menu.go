package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Menu is the set of dishes offered at one site on one calendar date.
// Unique per (date, site, weekday) among non-deleted rows (partial index,
// see infra.NewDatabase).
type Menu struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Weekday     string    `gorm:"type:varchar(10);not null"`
	Date        time.Time `gorm:"type:date;not null;index"`
	Site        string    `gorm:"type:varchar(50);not null;index"`
	Title       string
	Description string
	Published   bool `gorm:"not null;default:false"`
	// OrderCutoff is the timestamp after which ordering, modifying and
	// cancelling orders for this menu is forbidden.
	OrderCutoff time.Time `gorm:"not null"`
	MaxOrders   int       `gorm:"not null;default:100"`

	Audit

	Dishes []MenuDish `gorm:"foreignKey:MenuID"`
}

// Open reports whether ordering is still possible at instant now.
func (m *Menu) Open(now time.Time) bool {
	return m.Published && now.Before(m.OrderCutoff)
}

// MenuDish is the join record tracking planned vs. ordered quantity of a dish
// within a menu. OrderedQuantity is mutated only by the order lifecycle
// (place / change / cancel), always inside the same transaction as the order
// row itself.
type MenuDish struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MenuID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_menu_dish"`
	DishID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_menu_dish"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PlannedQuantity int `gorm:"not null;default:0"`
	MaxQuantity     int `gorm:"not null;default:0"`
	OrderedQuantity int `gorm:"not null;default:0"`

	Menu *Menu `gorm:"foreignKey:MenuID"`
	Dish *Dish `gorm:"foreignKey:DishID"`
}
