package dto

type SubmitReviewRequest struct {
	OrderID   string `json:"order_id" validate:"required,uuid"`
	Rating    int    `json:"rating"   validate:"required,min=1,max=5"`
	Comment   string `json:"comment"  validate:"max=2000"`
	Anonymous bool   `json:"anonymous"`
}

type ReviewResponse struct {
	ID        string `json:"id"`
	DishID    string `json:"dish_id"`
	DishName  string `json:"dish_name,omitempty"`
	OrderID   string `json:"order_id"`
	// Author is "Anonymous" when the review was submitted anonymously.
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	Anonymous bool   `json:"anonymous"`
	Approved  bool   `json:"approved"`
	CreatedAt string `json:"created_at"`
}

type PersonalReviewStats struct {
	Total    int64   `json:"total"`
	Average  float64 `json:"average"`
	Approved int64   `json:"approved"`
}

type MyReviewsResponse struct {
	Data  []ReviewResponse    `json:"data"`
	Stats PersonalReviewStats `json:"stats"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// ModerationFilter: Status is "pending" (default), "approved" or "all".
type ModerationFilter struct {
	Status string `form:"status,default=pending"`
	DishID string `form:"dish_id"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=200"`
}

type ModerationStats struct {
	Total       int64   `json:"total"`
	Average     float64 `json:"average"`
	WithComment int64   `json:"with_comment"`
	Anonymous   int64   `json:"anonymous"`
}

type ModerationListResponse struct {
	Data  []ReviewResponse `json:"data"`
	Stats ModerationStats  `json:"stats"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// DishRatingResponse is the public aggregate over approved, non-deleted
// reviews of one dish. Served read-through from Redis.
type DishRatingResponse struct {
	DishID   string           `json:"dish_id"`
	DishName string           `json:"dish_name"`
	Average  float64          `json:"average"`
	Count    int64            `json:"count"`
	Recent   []ReviewResponse `json:"recent,omitempty"`
}

type ReviewStatsResponse struct {
	Total        int64                `json:"total"`
	Average      float64              `json:"average"`
	Distribution map[int]int64        `json:"distribution"`
	TopDishes    []DishRatingResponse `json:"top_dishes"`
	From         string               `json:"from"`
	To           string               `json:"to"`
}

// PendingReviewReminder lists a fulfilled order the user has not reviewed yet.
type PendingReviewReminder struct {
	OrderID   string `json:"order_id"`
	DishID    string `json:"dish_id"`
	DishName  string `json:"dish_name"`
	OrderedAt string `json:"ordered_at"`
}

type PendingReviewsResponse struct {
	Pending []PendingReviewReminder `json:"pending"`
	Total   int                     `json:"total"`
}
