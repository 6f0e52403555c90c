package repository

import (
	"context"
	"time"

	"cantine/internal/dto"
	"cantine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	Update(ctx context.Context, rv *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Review, int64, error)
	PersonalStats(ctx context.Context, userID uuid.UUID) (dto.PersonalReviewStats, error)

	ListModeration(ctx context.Context, filter dto.ModerationFilter) ([]model.Review, int64, error)
	ModerationStats(ctx context.Context, filter dto.ModerationFilter) (dto.ModerationStats, error)

	// Public aggregates: approved, non-deleted reviews only.
	AggregateForDish(ctx context.Context, dishID uuid.UUID) (avg float64, count int64, err error)
	RecentForDish(ctx context.Context, dishID uuid.UUID, limit int) ([]model.Review, error)
	Distribution(ctx context.Context, from, to time.Time) (map[int]int64, error)
	TopDishes(ctx context.Context, from, to time.Time, limit int) ([]dto.DishRatingResponse, error)
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepo{db: db} }

func (r *reviewRepo) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepo) Update(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *reviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Dish").
		First(&rv, "id = ?", id).Error
	return &rv, err
}

func (r *reviewRepo) FindByUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_id = ? AND is_deleted = false", userID, orderID).
		First(&rv).Error
	return &rv, err
}

func (r *reviewRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("user_id = ? AND is_deleted = false", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Dish").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepo) PersonalStats(ctx context.Context, userID uuid.UUID) (dto.PersonalReviewStats, error) {
	var stats dto.PersonalReviewStats
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select(`COUNT(*) AS total,
		        COALESCE(AVG(rating), 0) AS average,
		        COUNT(*) FILTER (WHERE approved) AS approved`).
		Where("user_id = ? AND is_deleted = false", userID).
		Scan(&stats).Error
	return stats, err
}

func applyModerationFilter(q *gorm.DB, filter dto.ModerationFilter) *gorm.DB {
	switch filter.Status {
	case "approved":
		q = q.Where("approved = true")
	case "all":
		// no filter
	default: // pending
		q = q.Where("approved = false")
	}
	if filter.DishID != "" {
		q = q.Where("dish_id = ?", filter.DishID)
	}
	return q
}

func (r *reviewRepo) ListModeration(ctx context.Context, filter dto.ModerationFilter) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("is_deleted = false")
	q = applyModerationFilter(q, filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("User").Preload("Dish").
		Order("created_at DESC").
		Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepo) ModerationStats(ctx context.Context, filter dto.ModerationFilter) (dto.ModerationStats, error) {
	var stats dto.ModerationStats
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("is_deleted = false")
	q = applyModerationFilter(q, filter)
	err := q.Select(`COUNT(*) AS total,
	                 COALESCE(AVG(rating), 0) AS average,
	                 COUNT(*) FILTER (WHERE comment <> '') AS with_comment,
	                 COUNT(*) FILTER (WHERE anonymous) AS anonymous`).
		Scan(&stats).Error
	return stats, err
}

func (r *reviewRepo) AggregateForDish(ctx context.Context, dishID uuid.UUID) (float64, int64, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("dish_id = ? AND approved = true AND is_deleted = false", dishID).
		Scan(&row).Error
	return row.Average, row.Count, err
}

func (r *reviewRepo) RecentForDish(ctx context.Context, dishID uuid.UUID, limit int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("dish_id = ? AND approved = true AND is_deleted = false", dishID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) Distribution(ctx context.Context, from, to time.Time) (map[int]int64, error) {
	type row struct {
		Rating int
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) AS n").
		Where("approved = true AND is_deleted = false AND created_at::date BETWEEN ? AND ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range rows {
		dist[r.Rating] = r.N
	}
	return dist, nil
}

func (r *reviewRepo) TopDishes(ctx context.Context, from, to time.Time, limit int) ([]dto.DishRatingResponse, error) {
	type row struct {
		DishID   string
		DishName string
		Average  float64
		Count    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select(`reviews.dish_id AS dish_id, dishes.name AS dish_name,
		        AVG(reviews.rating) AS average, COUNT(*) AS count`).
		Joins("JOIN dishes ON dishes.id = reviews.dish_id").
		Where("reviews.approved = true AND reviews.is_deleted = false").
		Where("reviews.created_at::date BETWEEN ? AND ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("reviews.dish_id, dishes.name").
		Order("average DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	top := make([]dto.DishRatingResponse, 0, len(rows))
	for _, r := range rows {
		top = append(top, dto.DishRatingResponse{
			DishID: r.DishID, DishName: r.DishName,
			Average: r.Average, Count: r.Count,
		})
	}
	return top, nil
}
