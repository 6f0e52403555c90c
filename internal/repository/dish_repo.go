package repository

import (
	"context"

	"cantine/internal/dto"
	"cantine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DishRepository interface {
	Create(ctx context.Context, d *model.Dish) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Dish, error)
	List(ctx context.Context, filter dto.DishFilter) ([]model.Dish, int64, error)
	Update(ctx context.Context, d *model.Dish) error
	SoftDelete(ctx context.Context, id, actor uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, c *model.DishCategory) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.DishCategory, error)
	ListCategories(ctx context.Context) ([]model.DishCategory, error)
	UpdateCategory(ctx context.Context, c *model.DishCategory) error
}

type dishRepo struct{ db *gorm.DB }

func NewDishRepository(db *gorm.DB) DishRepository { return &dishRepo{db: db} }

func (r *dishRepo) Create(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *dishRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).Preload("Category").
		Where("is_deleted = false").First(&d, "id = ?", id).Error
	return &d, err
}

func (r *dishRepo) List(ctx context.Context, filter dto.DishFilter) ([]model.Dish, int64, error) {
	var dishes []model.Dish
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Dish{}).Where("is_deleted = false")

	// Active filter: "false" = inactive, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Category").Order("name ASC").
		Limit(filter.Limit).Offset(offset).Find(&dishes).Error
	return dishes, total, err
}

func (r *dishRepo) Update(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *dishRepo) SoftDelete(ctx context.Context, id, actor uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Dish{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"is_deleted": true,
			"deleted_at": gorm.Expr("now()"),
			"deleted_by": actor,
		}).Error
}

func (r *dishRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Dish{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     true,
			"is_deleted": false,
			"deleted_at": nil,
			"deleted_by": nil,
		}).Error
}

func (r *dishRepo) CreateCategory(ctx context.Context, c *model.DishCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *dishRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.DishCategory, error) {
	var c model.DishCategory
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *dishRepo) ListCategories(ctx context.Context) ([]model.DishCategory, error) {
	var cats []model.DishCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *dishRepo) UpdateCategory(ctx context.Context, c *model.DishCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}
