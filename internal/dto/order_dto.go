package dto

type PlaceOrderRequest struct {
	MenuID       string `json:"menu_id" validate:"required,uuid"`
	DishID       string `json:"dish_id" validate:"required,uuid"`
	SpecialNotes string `json:"special_notes" validate:"max=500"`
}

type ChangeOrderRequest struct {
	DishID       string `json:"dish_id" validate:"required,uuid"`
	SpecialNotes string `json:"special_notes" validate:"max=500"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed ready delivered cancelled"`
}

type OrderResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name,omitempty"`
	MenuID       string `json:"menu_id"`
	MenuDate     string `json:"menu_date,omitempty"`
	Site         string `json:"site,omitempty"`
	DishID       string `json:"dish_id"`
	DishName     string `json:"dish_name,omitempty"`
	Status       string `json:"status"`
	SpecialNotes string `json:"special_notes,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// OrderFilter is bound from the query string of the order listing endpoints.
type OrderFilter struct {
	Status string `form:"status"`
	From   string `form:"from"` // YYYY-MM-DD, on created_at
	To     string `form:"to"`
	Site   string `form:"site"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// OrderStatusCounts tallies orders per status for the management screens.
type OrderStatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Ready     int64 `json:"ready"`
	Delivered int64 `json:"delivered"`
}

type OrderListResponse struct {
	Data  []OrderResponse   `json:"data"`
	Stats OrderStatusCounts `json:"stats"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// MyOrdersResponse adds the personal tallies shown on the employee screen.
type MyOrdersResponse struct {
	Data      []OrderResponse `json:"data"`
	Pending   int64           `json:"pending"`
	Confirmed int64           `json:"confirmed"`
	Total     int64           `json:"total"`
	Page      int             `json:"page"`
	Limit     int             `json:"limit"`
}

// Aggregates for GET /v1/orders/stats.
type OrderDayStat struct {
	Date      string `json:"date"`
	Total     int64  `json:"total"`
	Confirmed int64  `json:"confirmed"`
	Delivered int64  `json:"delivered"`
}

type DishOrderStat struct {
	DishName string `json:"dish_name"`
	Total    int64  `json:"total"`
}

type OrderStatsResponse struct {
	PerDay    []OrderDayStat  `json:"per_day"`
	TopDishes []DishOrderStat `json:"top_dishes"`
	From      string          `json:"from"`
	To        string          `json:"to"`
}
