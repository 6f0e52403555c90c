package dto

import "github.com/shopspring/decimal"

type CreateDishRequest struct {
	Name        string          `json:"name"        validate:"required"`
	Description string          `json:"description"`
	Allergens   string          `json:"allergens"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
}

// UpdateDishRequest uses pointers so "absent" and "set to zero" are distinct.
type UpdateDishRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Allergens   *string          `json:"allergens"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
}

// DishFilter is bound from the query string of GET /v1/dishes.
// Active: "false" = inactive only, "all" = everything, default = active only.
type DishFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	Active     string `form:"active"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type DishResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Allergens   string          `json:"allergens"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Category    string          `json:"category,omitempty"`
}

type DishListResponse struct {
	Data  []DishResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type CategoryRequest struct {
	Name        string  `json:"name"  validate:"required"`
	Description *string `json:"description"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color"`
}
