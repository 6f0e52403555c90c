package dto

// PrepLine is one dish row on the caterer's preparation sheet: how many
// portions to prepare and the special notes collected from the orders.
type PrepLine struct {
	DishName  string   `json:"dish_name"`
	Category  string   `json:"category,omitempty"`
	Confirmed int      `json:"confirmed"`
	Ready     int      `json:"ready"`
	Total     int      `json:"total"`
	Notes     []string `json:"notes,omitempty"`
}

type ConsolidationResponse struct {
	Date        string     `json:"date"`
	Site        string     `json:"site"`
	Lines       []PrepLine `json:"lines"`
	TotalOrders int        `json:"total_orders"`
}

// SitePrepSummary aggregates one site's day for the caterer dashboard.
type SitePrepSummary struct {
	Site        string     `json:"site"`
	Lines       []PrepLine `json:"lines"`
	TotalOrders int        `json:"total_orders"`
}

type PreparationResponse struct {
	Date  string            `json:"date"`
	Sites []SitePrepSummary `json:"sites"`
}
