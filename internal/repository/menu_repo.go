package repository

import (
	"context"
	"errors"
	"time"

	"cantine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCounterRowMissing is returned when a counter adjustment targets a
// (menu, dish) pair with no MenuDish row; the caller must abort the transaction.
var ErrCounterRowMissing = errors.New("menu dish row not found")

type MenuRepository interface {
	Create(ctx context.Context, m *model.Menu) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Menu, error)
	FindByDateSite(ctx context.Context, date time.Time, site string) (*model.Menu, error)
	ListByDateRange(ctx context.Context, from, to time.Time, site string, publishedOnly bool) ([]model.Menu, error)
	Update(ctx context.Context, m *model.Menu) error

	// ReplaceDishes reconciles the menu's MenuDish set with the requested one
	// inside a single transaction. Rows with orders are never deleted.
	ReplaceDishes(ctx context.Context, menuID uuid.UUID, dishes []model.MenuDish) error

	// Used inside order transactions; callers must pass the tx instance.
	FindMenuDishTx(tx *gorm.DB, menuID, dishID uuid.UUID) (*model.MenuDish, error)
	AdjustOrderedTx(tx *gorm.DB, menuID, dishID uuid.UUID, delta int) error

	SumOrdered(ctx context.Context, menuID uuid.UUID) (int, error)
	CountPendingPublication(ctx context.Context, now time.Time) (int64, error)
	CountNearingCutoff(ctx context.Context, now time.Time, window time.Duration) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) Create(ctx context.Context, m *model.Menu) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *menuRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).
		Preload("Dishes.Dish.Category").
		Where("is_deleted = false").
		First(&m, "id = ?", id).Error
	return &m, err
}

func (r *menuRepo) FindByDateSite(ctx context.Context, date time.Time, site string) (*model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).
		Preload("Dishes.Dish.Category").
		Where("date = ? AND site = ? AND is_deleted = false", date.Format("2006-01-02"), site).
		First(&m).Error
	return &m, err
}

func (r *menuRepo) ListByDateRange(ctx context.Context, from, to time.Time, site string, publishedOnly bool) ([]model.Menu, error) {
	var menus []model.Menu
	q := r.db.WithContext(ctx).
		Preload("Dishes.Dish.Category").
		Where("date BETWEEN ? AND ? AND is_deleted = false",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	if site != "" {
		q = q.Where("site = ?", site)
	}
	if publishedOnly {
		q = q.Where("published = true")
	}
	err := q.Order("date ASC, site ASC").Find(&menus).Error
	return menus, err
}

func (r *menuRepo) Update(ctx context.Context, m *model.Menu) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *menuRepo) ReplaceDishes(ctx context.Context, menuID uuid.UUID, dishes []model.MenuDish) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(dishes))
		for i := range dishes {
			d := dishes[i]
			keep = append(keep, d.DishID)

			var existing model.MenuDish
			err := tx.Where("menu_id = ? AND dish_id = ?", menuID, d.DishID).First(&existing).Error
			switch {
			case err == nil:
				// Never touch the counter here: it belongs to the order lifecycle.
				existing.Price = d.Price
				existing.PlannedQuantity = d.PlannedQuantity
				existing.MaxQuantity = d.MaxQuantity
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				d.MenuID = menuID
				if err := tx.Create(&d).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		// Remove dishes dropped from the menu, but only when nothing was
		// ordered; a live counter must keep its row.
		del := tx.Where("menu_id = ? AND ordered_quantity = 0", menuID)
		if len(keep) > 0 {
			del = del.Where("dish_id NOT IN ?", keep)
		}
		return del.Delete(&model.MenuDish{}).Error
	})
}

func (r *menuRepo) FindMenuDishTx(tx *gorm.DB, menuID, dishID uuid.UUID) (*model.MenuDish, error) {
	var md model.MenuDish
	// FOR UPDATE: serializes concurrent counter mutations on the same row.
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("menu_id = ? AND dish_id = ?", menuID, dishID).
		First(&md).Error
	return &md, err
}

func (r *menuRepo) AdjustOrderedTx(tx *gorm.DB, menuID, dishID uuid.UUID, delta int) error {
	res := tx.Model(&model.MenuDish{}).
		Where("menu_id = ? AND dish_id = ?", menuID, dishID).
		Update("ordered_quantity", gorm.Expr("ordered_quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCounterRowMissing
	}
	return nil
}

func (r *menuRepo) SumOrdered(ctx context.Context, menuID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.MenuDish{}).
		Where("menu_id = ?", menuID).
		Select("COALESCE(SUM(ordered_quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *menuRepo) CountPendingPublication(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("published = false AND is_deleted = false AND date >= ?", now.Format("2006-01-02")).
		Count(&n).Error
	return n, err
}

func (r *menuRepo) CountNearingCutoff(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("published = true AND is_deleted = false AND order_cutoff BETWEEN ? AND ?",
			now, now.Add(window)).
		Count(&n).Error
	return n, err
}

func (r *menuRepo) DB() *gorm.DB { return r.db }
