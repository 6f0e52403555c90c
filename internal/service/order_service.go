package service

import (
	"context"
	"errors"
	"time"

	"cantine/internal/dto"
	"cantine/internal/model"
	"cantine/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReadyNotifier tells a user their order is ready for pickup. Implemented by
// infra.Mailer; nil disables notifications.
type ReadyNotifier interface {
	SendOrderReady(to, firstName, dishName string, menuDate time.Time) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req dto.PlaceOrderRequest) (*dto.OrderResponse, error)
	ChangeDish(ctx context.Context, userID, orderID uuid.UUID, req dto.ChangeOrderRequest) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error
	AdvanceStatus(ctx context.Context, actor, orderID uuid.UUID, status string) (*dto.OrderResponse, error)

	Get(ctx context.Context, userID uuid.UUID, isStaff bool, orderID uuid.UUID) (*dto.OrderResponse, error)
	MyOrders(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) (*dto.MyOrdersResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Stats(ctx context.Context, from, to string) (*dto.OrderStatsResponse, error)
}

type orderService struct {
	orders   repository.OrderRepository
	menus    repository.MenuRepository
	notifier ReadyNotifier
	db       *gorm.DB
}

func NewOrderService(orders repository.OrderRepository, menus repository.MenuRepository, notifier ReadyNotifier, db *gorm.DB) OrderService {
	return &orderService{orders: orders, menus: menus, notifier: notifier, db: db}
}

// PlaceOrder creates a pending order and bumps the dish's ordered-quantity
// counter in the same transaction.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	menuID, err := uuid.Parse(req.MenuID)
	if err != nil {
		return nil, ErrNotFound
	}
	dishID, err := uuid.Parse(req.DishID)
	if err != nil {
		return nil, ErrNotFound
	}

	menu, err := s.menus.FindByID(ctx, menuID)
	if err != nil || !menu.Published {
		return nil, ErrNotFound
	}
	if !time.Now().Before(menu.OrderCutoff) {
		return nil, ErrCutoffExpired
	}
	if _, err := s.orders.FindActiveByUserMenu(ctx, userID, menuID); err == nil {
		return nil, ErrDuplicateOrder
	}

	md := menuDishOf(menu, dishID)
	if md == nil || (md.Dish != nil && !md.Dish.Active) {
		return nil, ErrNotFound
	}

	order := &model.Order{
		UserID:       userID,
		MenuID:       menuID,
		DishID:       dishID,
		Status:       model.StatusPending,
		SpecialNotes: req.SpecialNotes,
	}
	order.CreatedBy = &userID

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.menus.FindMenuDishTx(tx, menuID, dishID); err != nil {
			return ErrNotFound
		}
		if err := s.orders.CreateTx(tx, order); err != nil {
			return err
		}
		return s.menus.AdjustOrderedTx(tx, menuID, dishID, +1)
	})
	if err != nil {
		return nil, err
	}

	resp := orderToResponse(order)
	resp.MenuDate = menu.Date.Format("2006-01-02")
	resp.Site = menu.Site
	if md.Dish != nil {
		resp.DishName = md.Dish.Name
	}
	return &resp, nil
}

// ChangeDish swaps the dish of an order before the cutoff. Both counters move
// in one transaction so their sum stays equal to the active order count.
func (s *orderService) ChangeDish(ctx context.Context, userID, orderID uuid.UUID, req dto.ChangeOrderRequest) (*dto.OrderResponse, error) {
	newDishID, err := uuid.Parse(req.DishID)
	if err != nil {
		return nil, ErrNotFound
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil || order.IsDeleted {
		return nil, ErrNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.Status != model.StatusPending && order.Status != model.StatusConfirmed {
		return nil, ErrInvalidStatus
	}

	menu, err := s.menus.FindByID(ctx, order.MenuID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !time.Now().Before(menu.OrderCutoff) {
		return nil, ErrCutoffExpired
	}
	md := menuDishOf(menu, newDishID)
	if md == nil {
		return nil, ErrNotFound
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		cur, err := s.orders.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if cur.Status != model.StatusPending && cur.Status != model.StatusConfirmed {
			return ErrInvalidStatus
		}
		oldDishID := cur.DishID
		if oldDishID != newDishID {
			if err := s.menus.AdjustOrderedTx(tx, cur.MenuID, oldDishID, -1); err != nil {
				return err
			}
			if err := s.menus.AdjustOrderedTx(tx, cur.MenuID, newDishID, +1); err != nil {
				return err
			}
		}
		cur.DishID = newDishID
		cur.SpecialNotes = req.SpecialNotes
		cur.Touch(userID)
		if err := s.orders.UpdateTx(tx, cur); err != nil {
			return err
		}
		// The locked read comes back without preloads; restore the
		// associations before the copy-back.
		cur.User, cur.Menu, cur.Dish = order.User, order.Menu, md.Dish
		*order = *cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := orderToResponse(order)
	resp.MenuDate = menu.Date.Format("2006-01-02")
	resp.Site = menu.Site
	if md.Dish != nil {
		resp.DishName = md.Dish.Name
	}
	return &resp, nil
}

// Cancel releases the order's counter slot and tombstones the order. Calling
// it on an already cancelled order is a no-op.
func (s *orderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return ErrNotFound
	}
	if order.UserID != userID {
		return ErrForbidden
	}
	if order.Status == model.StatusCancelled || order.IsDeleted {
		return nil
	}

	menu, err := s.menus.FindByID(ctx, order.MenuID)
	if err != nil {
		return ErrNotFound
	}
	if !time.Now().Before(menu.OrderCutoff) {
		return ErrCutoffExpired
	}

	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		cur, err := s.orders.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if cur.Status == model.StatusCancelled || cur.IsDeleted {
			return nil
		}
		if err := s.menus.AdjustOrderedTx(tx, cur.MenuID, cur.DishID, -1); err != nil {
			return err
		}
		cur.Status = model.StatusCancelled
		cur.SoftDelete(userID)
		return s.orders.UpdateTx(tx, cur)
	})
}

// AdvanceStatus moves an order along pending → confirmed → ready → delivered,
// skipping steps forward when needed. Moving to cancelled releases the
// counter slot; nothing ever leaves cancelled.
func (s *orderService) AdvanceStatus(ctx context.Context, actor, orderID uuid.UUID, status string) (*dto.OrderResponse, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil || order.IsDeleted {
		return nil, ErrNotFound
	}
	if !model.CanTransition(order.Status, status) {
		return nil, ErrInvalidTransition
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		cur, err := s.orders.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if !model.CanTransition(cur.Status, status) {
			return ErrInvalidTransition
		}
		if status == model.StatusCancelled && cur.Status != model.StatusCancelled {
			if err := s.menus.AdjustOrderedTx(tx, cur.MenuID, cur.DishID, -1); err != nil {
				return err
			}
		}
		cur.Status = status
		cur.Touch(actor)
		if err := s.orders.UpdateTx(tx, cur); err != nil {
			return err
		}
		// The locked read comes back without preloads; restore the
		// associations so the response and the ready notification keep
		// the user, menu and dish loaded up front.
		cur.User, cur.Menu, cur.Dish = order.User, order.Menu, order.Dish
		*order = *cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == model.StatusReady && s.notifier != nil && order.User != nil && order.User.Email != "" {
		var menuDate time.Time
		if order.Menu != nil {
			menuDate = order.Menu.Date
		}
		dishName := ""
		if order.Dish != nil {
			dishName = order.Dish.Name
		}
		if err := s.notifier.SendOrderReady(order.User.Email, order.User.FirstName, dishName, menuDate); err != nil {
			log.Warn().Err(err).Str("order_id", orderID.String()).Msg("order ready notification failed")
		}
	}

	resp := orderToResponse(order)
	return &resp, nil
}

func (s *orderService) Get(ctx context.Context, userID uuid.UUID, isStaff bool, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !isStaff && order.UserID != userID {
		return nil, ErrForbidden
	}
	resp := orderToResponse(order)
	return &resp, nil
}

func (s *orderService) MyOrders(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) (*dto.MyOrdersResponse, error) {
	orders, total, err := s.orders.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	pending, err := s.orders.CountByUserStatus(ctx, userID, model.StatusPending)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.orders.CountByUserStatus(ctx, userID, model.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	resp := &dto.MyOrdersResponse{
		Data:      make([]dto.OrderResponse, len(orders)),
		Pending:   pending,
		Confirmed: confirmed,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	for i := range orders {
		resp.Data[i] = orderToResponse(&orders[i])
	}
	return resp, nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.orders.CountsByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, len(orders)),
		Stats: stats,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data[i] = orderToResponse(&orders[i])
	}
	return resp, nil
}

func (s *orderService) Stats(ctx context.Context, from, to string) (*dto.OrderStatsResponse, error) {
	fromT, toT, err := parseRange(from, to, 30)
	if err != nil {
		return nil, err
	}
	perDay, err := s.orders.StatsPerDay(ctx, fromT, toT)
	if err != nil {
		return nil, err
	}
	top, err := s.orders.TopDishes(ctx, fromT, toT, 10)
	if err != nil {
		return nil, err
	}
	return &dto.OrderStatsResponse{
		PerDay:    perDay,
		TopDishes: top,
		From:      fromT.Format("2006-01-02"),
		To:        toT.Format("2006-01-02"),
	}, nil
}

// parseRange resolves an optional YYYY-MM-DD range, defaulting to the last
// defaultDays days ending today.
func parseRange(from, to string, defaultDays int) (time.Time, time.Time, error) {
	toT := time.Now()
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'to' date")
		}
		toT = t
	}
	fromT := toT.AddDate(0, 0, -defaultDays)
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'from' date")
		}
		fromT = t
	}
	return fromT, toT, nil
}

func menuDishOf(menu *model.Menu, dishID uuid.UUID) *model.MenuDish {
	for i := range menu.Dishes {
		if menu.Dishes[i].DishID == dishID {
			return &menu.Dishes[i]
		}
	}
	return nil
}

func orderToResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:           o.ID.String(),
		UserID:       o.UserID.String(),
		MenuID:       o.MenuID.String(),
		DishID:       o.DishID.String(),
		Status:       o.Status,
		SpecialNotes: o.SpecialNotes,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
	if o.User != nil {
		resp.UserName = o.User.FullName()
	}
	if o.Menu != nil {
		resp.MenuDate = o.Menu.Date.Format("2006-01-02")
		resp.Site = o.Menu.Site
	}
	if o.Dish != nil {
		resp.DishName = o.Dish.Name
	}
	return resp
}
