package dto

import "github.com/shopspring/decimal"

type MenuDishRequest struct {
	DishID          string          `json:"dish_id"          validate:"required,uuid"`
	Price           decimal.Decimal `json:"price"            validate:"min=0"`
	PlannedQuantity int             `json:"planned_quantity" validate:"min=0"`
	MaxQuantity     int             `json:"max_quantity"     validate:"min=0"`
}

// SetMenuDishesRequest replaces the full dish set of a menu. Dishes already
// carrying orders keep their ordered-quantity counter.
type SetMenuDishesRequest struct {
	Dishes []MenuDishRequest `json:"dishes" validate:"required,dive"`
}

type UpdateMenuRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	// OrderCutoff in RFC 3339; nil leaves the bootstrap default untouched.
	OrderCutoff *string `json:"order_cutoff" validate:"omitempty"`
	MaxOrders   *int    `json:"max_orders"   validate:"omitempty,min=1"`
}

type MenuDishResponse struct {
	DishID          string          `json:"dish_id"`
	Name            string          `json:"name"`
	Category        string          `json:"category,omitempty"`
	Allergens       string          `json:"allergens,omitempty"`
	Price           decimal.Decimal `json:"price"`
	PlannedQuantity int             `json:"planned_quantity"`
	MaxQuantity     int             `json:"max_quantity"`
	OrderedQuantity int             `json:"ordered_quantity"`
}

type MenuResponse struct {
	ID          string             `json:"id"`
	Weekday     string             `json:"weekday"`
	Date        string             `json:"date"`
	Site        string             `json:"site"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Published   bool               `json:"published"`
	OrderCutoff string             `json:"order_cutoff"`
	MaxOrders   int                `json:"max_orders"`
	Open        bool               `json:"open"`
	Dishes      []MenuDishResponse `json:"dishes"`
}

type WeekMenusResponse struct {
	WeekStart string         `json:"week_start"`
	WeekEnd   string         `json:"week_end"`
	Menus     []MenuResponse `json:"menus"`
}

// MenuTrackingResponse summarizes ordered quantities of one menu for the
// admin order-tracking screen.
type MenuTrackingResponse struct {
	Menu        MenuResponse `json:"menu"`
	TotalOrders int          `json:"total_orders"`
}

// Count payloads for the dashboard JSON endpoints.
type PendingPublicationResponse struct {
	MenusToPublish int64 `json:"menus_to_publish"`
}

type NearingCutoffResponse struct {
	MenusNearingCutoff int64 `json:"menus_nearing_cutoff"`
}
