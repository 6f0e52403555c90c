package service

import (
	"context"

	"cantine/internal/dto"
	"cantine/internal/model"
	"cantine/internal/repository"

	"github.com/google/uuid"
)

type DishService interface {
	Create(ctx context.Context, actor uuid.UUID, req dto.CreateDishRequest) (*dto.DishResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DishResponse, error)
	List(ctx context.Context, filter dto.DishFilter) (*dto.DishListResponse, error)
	Update(ctx context.Context, actor, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error)
	Deactivate(ctx context.Context, actor, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
}

type dishService struct {
	repo repository.DishRepository
}

func NewDishService(repo repository.DishRepository) DishService {
	return &dishService{repo: repo}
}

func (s *dishService) Create(ctx context.Context, actor uuid.UUID, req dto.CreateDishRequest) (*dto.DishResponse, error) {
	dish := &model.Dish{
		Name:        req.Name,
		Description: req.Description,
		Allergens:   req.Allergens,
		Price:       req.Price,
		Active:      true,
	}
	if req.CategoryID != nil {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, ErrNotFound
		}
		if _, err := s.repo.FindCategoryByID(ctx, catID); err != nil {
			return nil, ErrNotFound
		}
		dish.CategoryID = &catID
	}
	dish.CreatedBy = &actor

	if err := s.repo.Create(ctx, dish); err != nil {
		return nil, err
	}
	resp := dishToResponse(dish)
	return &resp, nil
}

func (s *dishService) Get(ctx context.Context, id uuid.UUID) (*dto.DishResponse, error) {
	dish, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	resp := dishToResponse(dish)
	return &resp, nil
}

func (s *dishService) List(ctx context.Context, filter dto.DishFilter) (*dto.DishListResponse, error) {
	dishes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.DishListResponse{
		Data:  make([]dto.DishResponse, len(dishes)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range dishes {
		resp.Data[i] = dishToResponse(&dishes[i])
	}
	return resp, nil
}

func (s *dishService) Update(ctx context.Context, actor, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error) {
	dish, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Allergens != nil {
		dish.Allergens = *req.Allergens
	}
	if req.Price != nil {
		dish.Price = *req.Price
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			dish.CategoryID = nil
			dish.Category = nil
		} else {
			catID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				return nil, ErrNotFound
			}
			if _, err := s.repo.FindCategoryByID(ctx, catID); err != nil {
				return nil, ErrNotFound
			}
			dish.CategoryID = &catID
		}
	}
	dish.Touch(actor)
	if err := s.repo.Update(ctx, dish); err != nil {
		return nil, err
	}
	resp := dishToResponse(dish)
	return &resp, nil
}

// Deactivate tombstones the dish. Menus that already reference it keep their
// rows; the dish simply stops being offerable on new menus.
func (s *dishService) Deactivate(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id, actor)
}

func (s *dishService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *dishService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat := &model.DishCategory{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Color != "" {
		cat.Color = req.Color
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	resp := categoryToResponse(cat)
	return &resp, nil
}

func (s *dishService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, len(cats))
	for i := range cats {
		resp[i] = categoryToResponse(&cats[i])
	}
	return resp, nil
}

func (s *dishService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	cat.Name = req.Name
	cat.Description = req.Description
	if req.Color != "" {
		cat.Color = req.Color
	}
	if err := s.repo.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	resp := categoryToResponse(cat)
	return &resp, nil
}

func dishToResponse(d *model.Dish) dto.DishResponse {
	resp := dto.DishResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
		Allergens:   d.Allergens,
		Price:       d.Price,
		Active:      d.Active,
	}
	if d.CategoryID != nil {
		id := d.CategoryID.String()
		resp.CategoryID = &id
	}
	if d.Category != nil {
		resp.Category = d.Category.Name
	}
	return resp
}

func categoryToResponse(c *model.DishCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
	}
}
