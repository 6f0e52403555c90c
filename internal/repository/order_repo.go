package repository

import (
	"context"
	"time"

	"cantine/internal/dto"
	"cantine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// Used inside transactions; callers must pass the tx instance.
	CreateTx(tx *gorm.DB, o *model.Order) error
	UpdateTx(tx *gorm.DB, o *model.Order) error
	// FindByIDTx locks the order row (FOR UPDATE) so concurrent cancel /
	// change requests for the same order serialize.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindActiveByUserMenu(ctx context.Context, userID, menuID uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error)
	CountByUserStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	CountsByStatus(ctx context.Context, filter dto.OrderFilter) (dto.OrderStatusCounts, error)
	ListForPreparation(ctx context.Context, date time.Time, site string) ([]model.Order, error)

	ExistsFulfilled(ctx context.Context, userID, dishID uuid.UUID) (bool, error)
	ListFulfilledWithoutReview(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]model.Order, error)

	StatsPerDay(ctx context.Context, from, to time.Time) ([]dto.OrderDayStat, error)
	TopDishes(ctx context.Context, from, to time.Time, limit int) ([]dto.DishOrderStat, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) UpdateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Save(o).Error
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Menu").Preload("Dish").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindActiveByUserMenu(ctx context.Context, userID, menuID uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND menu_id = ? AND is_deleted = false AND status <> ?",
			userID, menuID, model.StatusCancelled).
		First(&o).Error
	return &o, err
}

func applyOrderFilter(q *gorm.DB, filter dto.OrderFilter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("orders.status = ?", filter.Status)
	}
	if filter.From != "" {
		q = q.Where("orders.created_at::date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("orders.created_at::date <= ?", filter.To)
	}
	if filter.Site != "" {
		q = q.Joins("JOIN menus ON menus.id = orders.menu_id").
			Where("menus.site = ?", filter.Site)
	}
	return q
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("orders.user_id = ? AND orders.is_deleted = false", userID)
	q = applyOrderFilter(q, filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Menu").Preload("Dish").
		Order("orders.created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) CountByUserStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND status = ? AND is_deleted = false", userID, status).
		Count(&n).Error
	return n, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("orders.is_deleted = false")
	q = applyOrderFilter(q, filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("User").Preload("Menu").Preload("Dish").
		Order("orders.created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) CountsByStatus(ctx context.Context, filter dto.OrderFilter) (dto.OrderStatusCounts, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	statusFilter := filter.Status
	filter.Status = "" // tally every status regardless of the listing filter

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("orders.is_deleted = false")
	q = applyOrderFilter(q, filter)
	filter.Status = statusFilter

	if err := q.Select("orders.status AS status, COUNT(*) AS n").
		Group("orders.status").Scan(&rows).Error; err != nil {
		return dto.OrderStatusCounts{}, err
	}

	var counts dto.OrderStatusCounts
	for _, r := range rows {
		counts.Total += r.N
		switch r.Status {
		case model.StatusPending:
			counts.Pending = r.N
		case model.StatusConfirmed:
			counts.Confirmed = r.N
		case model.StatusReady:
			counts.Ready = r.N
		case model.StatusDelivered:
			counts.Delivered = r.N
		}
	}
	return counts, nil
}

// ListForPreparation returns the confirmed/ready orders of one site and date,
// ordered by dish name, the shape the caterer consolidation works on.
func (r *orderRepo) ListForPreparation(ctx context.Context, date time.Time, site string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN menus ON menus.id = orders.menu_id").
		Joins("JOIN dishes ON dishes.id = orders.dish_id").
		Where("menus.date = ? AND menus.site = ?", date.Format("2006-01-02"), site).
		Where("orders.status IN ? AND orders.is_deleted = false",
			[]string{model.StatusConfirmed, model.StatusReady}).
		Preload("User").Preload("Dish.Category").Preload("Menu").
		Order("dishes.name ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ExistsFulfilled(ctx context.Context, userID, dishID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND dish_id = ? AND is_deleted = false AND status IN ?",
			userID, dishID,
			[]string{model.StatusConfirmed, model.StatusReady, model.StatusDelivered}).
		Count(&n).Error
	return n > 0, err
}

func (r *orderRepo) ListFulfilledWithoutReview(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]model.Order, error) {
	var orders []model.Order
	sub := r.db.Model(&model.Review{}).
		Select("order_id").
		Where("user_id = ? AND is_deleted = false", userID)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false AND created_at >= ?", userID, since).
		Where("status IN ?", []string{model.StatusConfirmed, model.StatusReady, model.StatusDelivered}).
		Where("id NOT IN (?)", sub).
		Preload("Dish").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) StatsPerDay(ctx context.Context, from, to time.Time) ([]dto.OrderDayStat, error) {
	type row struct {
		Date      time.Time
		Total     int64
		Confirmed int64
		Delivered int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(`created_at::date AS date,
		        COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
		        COUNT(*) FILTER (WHERE status = 'delivered') AS delivered`).
		Where("is_deleted = false AND created_at::date BETWEEN ? AND ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("created_at::date").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := make([]dto.OrderDayStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, dto.OrderDayStat{
			Date:      r.Date.Format("2006-01-02"),
			Total:     r.Total,
			Confirmed: r.Confirmed,
			Delivered: r.Delivered,
		})
	}
	return stats, nil
}

func (r *orderRepo) TopDishes(ctx context.Context, from, to time.Time, limit int) ([]dto.DishOrderStat, error) {
	var stats []dto.DishOrderStat
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("dishes.name AS dish_name, COUNT(*) AS total").
		Joins("JOIN dishes ON dishes.id = orders.dish_id").
		Where("orders.is_deleted = false AND orders.created_at::date BETWEEN ? AND ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("dishes.name").
		Order("total DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
