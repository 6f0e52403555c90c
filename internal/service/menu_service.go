package service

import (
	"context"
	"errors"
	"time"

	"cantine/internal/config"
	"cantine/internal/dto"
	"cantine/internal/model"
	"cantine/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type MenuService interface {
	// EnsureWeek creates any missing menu slots for the current work week
	// (Monday to Friday, every site) and returns the whole week.
	EnsureWeek(ctx context.Context, actor uuid.UUID) (*dto.WeekMenusResponse, error)
	WeekMenus(ctx context.Context, site string, publishedOnly bool) (*dto.WeekMenusResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MenuResponse, error)

	Update(ctx context.Context, actor, id uuid.UUID, req dto.UpdateMenuRequest) (*dto.MenuResponse, error)
	SetDishes(ctx context.Context, actor, id uuid.UUID, req dto.SetMenuDishesRequest) (*dto.MenuResponse, error)
	Publish(ctx context.Context, actor, id uuid.UUID, publish bool) (*dto.MenuResponse, error)

	Tracking(ctx context.Context) ([]dto.MenuTrackingResponse, error)
	PendingPublication(ctx context.Context) (*dto.PendingPublicationResponse, error)
	NearingCutoff(ctx context.Context) (*dto.NearingCutoffResponse, error)
}

type menuService struct {
	menus  repository.MenuRepository
	dishes repository.DishRepository
	cfg    *config.Config
}

func NewMenuService(menus repository.MenuRepository, dishes repository.DishRepository, cfg *config.Config) MenuService {
	return &menuService{menus: menus, dishes: dishes, cfg: cfg}
}

// weekBounds returns the Monday and Friday of now's work week.
func weekBounds(now time.Time) (time.Time, time.Time) {
	day := now
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 { // Sunday
		offset = 6
	}
	monday := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
		AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 4)
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
}

func (s *menuService) EnsureWeek(ctx context.Context, actor uuid.UUID) (*dto.WeekMenusResponse, error) {
	monday, friday := weekBounds(time.Now())

	for d := monday; !d.After(friday); d = d.AddDate(0, 0, 1) {
		for _, site := range model.Sites {
			if _, err := s.menus.FindByDateSite(ctx, d, site); err == nil {
				continue
			}
			menu := &model.Menu{
				Weekday:     weekdayNames[d.Weekday()],
				Date:        d,
				Site:        site,
				OrderCutoff: time.Date(d.Year(), d.Month(), d.Day(), s.cfg.CutoffHour, 0, 0, 0, d.Location()),
			}
			menu.CreatedBy = &actor
			if err := s.menus.Create(ctx, menu); err != nil {
				// Concurrent bootstrap lost the race to the unique index;
				// the slot exists now, which is all we need.
				if _, ferr := s.menus.FindByDateSite(ctx, d, site); ferr != nil {
					return nil, err
				}
				log.Debug().Str("site", site).Str("date", d.Format("2006-01-02")).
					Msg("menu slot already created concurrently")
			}
		}
	}
	return s.weekResponse(ctx, monday, friday, "", false)
}

func (s *menuService) WeekMenus(ctx context.Context, site string, publishedOnly bool) (*dto.WeekMenusResponse, error) {
	monday, friday := weekBounds(time.Now())
	return s.weekResponse(ctx, monday, friday, site, publishedOnly)
}

func (s *menuService) weekResponse(ctx context.Context, from, to time.Time, site string, publishedOnly bool) (*dto.WeekMenusResponse, error) {
	menus, err := s.menus.ListByDateRange(ctx, from, to, site, publishedOnly)
	if err != nil {
		return nil, err
	}
	resp := &dto.WeekMenusResponse{
		WeekStart: from.Format("2006-01-02"),
		WeekEnd:   to.Format("2006-01-02"),
		Menus:     make([]dto.MenuResponse, len(menus)),
	}
	for i := range menus {
		resp.Menus[i] = menuToResponse(&menus[i])
	}
	return resp, nil
}

func (s *menuService) Get(ctx context.Context, id uuid.UUID) (*dto.MenuResponse, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	resp := menuToResponse(menu)
	return &resp, nil
}

func (s *menuService) Update(ctx context.Context, actor, id uuid.UUID, req dto.UpdateMenuRequest) (*dto.MenuResponse, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Title != nil {
		menu.Title = *req.Title
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.OrderCutoff != nil {
		cutoff, err := time.Parse(time.RFC3339, *req.OrderCutoff)
		if err != nil {
			return nil, errors.New("order_cutoff must be RFC 3339")
		}
		menu.OrderCutoff = cutoff
	}
	if req.MaxOrders != nil {
		menu.MaxOrders = *req.MaxOrders
	}
	menu.Touch(actor)
	if err := s.menus.Update(ctx, menu); err != nil {
		return nil, err
	}
	resp := menuToResponse(menu)
	return &resp, nil
}

// SetDishes replaces the menu's dish set. Every dish must exist and be active;
// rows already carrying orders survive with their counter intact.
func (s *menuService) SetDishes(ctx context.Context, actor, id uuid.UUID, req dto.SetMenuDishesRequest) (*dto.MenuResponse, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	rows := make([]model.MenuDish, 0, len(req.Dishes))
	for _, d := range req.Dishes {
		dishID, err := uuid.Parse(d.DishID)
		if err != nil {
			return nil, ErrNotFound
		}
		dish, err := s.dishes.FindByID(ctx, dishID)
		if err != nil || !dish.Active {
			return nil, ErrNotFound
		}
		price := d.Price
		if price.IsZero() {
			price = dish.Price
		}
		rows = append(rows, model.MenuDish{
			DishID:          dishID,
			Price:           price,
			PlannedQuantity: d.PlannedQuantity,
			MaxQuantity:     d.MaxQuantity,
		})
	}

	if err := s.menus.ReplaceDishes(ctx, id, rows); err != nil {
		return nil, err
	}
	menu.Touch(actor)
	if err := s.menus.Update(ctx, menu); err != nil {
		return nil, err
	}

	menu, err = s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := menuToResponse(menu)
	return &resp, nil
}

func (s *menuService) Publish(ctx context.Context, actor, id uuid.UUID, publish bool) (*dto.MenuResponse, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	menu.Published = publish
	menu.Touch(actor)
	if err := s.menus.Update(ctx, menu); err != nil {
		return nil, err
	}
	resp := menuToResponse(menu)
	return &resp, nil
}

// Tracking summarizes the week's ordered quantities for the admin screen.
func (s *menuService) Tracking(ctx context.Context) ([]dto.MenuTrackingResponse, error) {
	monday, friday := weekBounds(time.Now())
	menus, err := s.menus.ListByDateRange(ctx, monday, friday, "", false)
	if err != nil {
		return nil, err
	}
	tracking := make([]dto.MenuTrackingResponse, len(menus))
	for i := range menus {
		total, err := s.menus.SumOrdered(ctx, menus[i].ID)
		if err != nil {
			return nil, err
		}
		tracking[i] = dto.MenuTrackingResponse{
			Menu:        menuToResponse(&menus[i]),
			TotalOrders: total,
		}
	}
	return tracking, nil
}

func (s *menuService) PendingPublication(ctx context.Context) (*dto.PendingPublicationResponse, error) {
	n, err := s.menus.CountPendingPublication(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &dto.PendingPublicationResponse{MenusToPublish: n}, nil
}

func (s *menuService) NearingCutoff(ctx context.Context) (*dto.NearingCutoffResponse, error) {
	n, err := s.menus.CountNearingCutoff(ctx, time.Now(), 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.NearingCutoffResponse{MenusNearingCutoff: n}, nil
}

func menuToResponse(m *model.Menu) dto.MenuResponse {
	resp := dto.MenuResponse{
		ID:          m.ID.String(),
		Weekday:     m.Weekday,
		Date:        m.Date.Format("2006-01-02"),
		Site:        m.Site,
		Title:       m.Title,
		Description: m.Description,
		Published:   m.Published,
		OrderCutoff: m.OrderCutoff.Format(time.RFC3339),
		MaxOrders:   m.MaxOrders,
		Open:        m.Open(time.Now()),
		Dishes:      make([]dto.MenuDishResponse, len(m.Dishes)),
	}
	for i := range m.Dishes {
		md := &m.Dishes[i]
		dr := dto.MenuDishResponse{
			DishID:          md.DishID.String(),
			Price:           md.Price,
			PlannedQuantity: md.PlannedQuantity,
			MaxQuantity:     md.MaxQuantity,
			OrderedQuantity: md.OrderedQuantity,
		}
		if md.Dish != nil {
			dr.Name = md.Dish.Name
			dr.Allergens = md.Dish.Allergens
			if md.Dish.Category != nil {
				dr.Category = md.Dish.Category.Name
			}
		}
		resp.Dishes[i] = dr
	}
	return resp
}
