package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cantine/internal/dto"
	"cantine/internal/model"
	"cantine/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stubs surface the same sentinel as the real repositories so services can
// distinguish "no row" from infrastructure failures with errors.Is.
var errNotFound = gorm.ErrRecordNotFound

// ── User repository stub ─────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && !u.IsDeleted {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id, actor uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.SoftDelete(actor)
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.IsDeleted = false
	u.DeletedAt = nil
	u.DeletedBy = nil
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Dish repository stub ─────────────────────────────────────────────────────

type stubDishRepo struct {
	dishes     map[uuid.UUID]*model.Dish
	categories map[uuid.UUID]*model.DishCategory
}

func newStubDishRepo() *stubDishRepo {
	return &stubDishRepo{
		dishes:     make(map[uuid.UUID]*model.Dish),
		categories: make(map[uuid.UUID]*model.DishCategory),
	}
}

func (r *stubDishRepo) Create(_ context.Context, d *model.Dish) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.dishes[d.ID] = d
	return nil
}

func (r *stubDishRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Dish, error) {
	d, ok := r.dishes[id]
	if !ok || d.IsDeleted {
		return nil, errNotFound
	}
	return d, nil
}

func (r *stubDishRepo) List(_ context.Context, filter dto.DishFilter) ([]model.Dish, int64, error) {
	var out []model.Dish
	for _, d := range r.dishes {
		if d.IsDeleted {
			continue
		}
		switch filter.Active {
		case "false":
			if d.Active {
				continue
			}
		case "all":
		default:
			if !d.Active {
				continue
			}
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *stubDishRepo) Update(_ context.Context, d *model.Dish) error {
	r.dishes[d.ID] = d
	return nil
}

func (r *stubDishRepo) SoftDelete(_ context.Context, id, actor uuid.UUID) error {
	d, ok := r.dishes[id]
	if !ok {
		return errNotFound
	}
	d.Active = false
	d.SoftDelete(actor)
	return nil
}

func (r *stubDishRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	d, ok := r.dishes[id]
	if !ok {
		return errNotFound
	}
	d.Active = true
	d.IsDeleted = false
	d.DeletedAt = nil
	d.DeletedBy = nil
	return nil
}

func (r *stubDishRepo) CreateCategory(_ context.Context, c *model.DishCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubDishRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*model.DishCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubDishRepo) ListCategories(_ context.Context) ([]model.DishCategory, error) {
	var out []model.DishCategory
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubDishRepo) UpdateCategory(_ context.Context, c *model.DishCategory) error {
	r.categories[c.ID] = c
	return nil
}

var _ repository.DishRepository = (*stubDishRepo)(nil)

// ── Menu repository stub ─────────────────────────────────────────────────────

type stubMenuRepo struct {
	menus map[uuid.UUID]*model.Menu
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{menus: make(map[uuid.UUID]*model.Menu)}
}

func (r *stubMenuRepo) Create(_ context.Context, m *model.Menu) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	for _, existing := range r.menus {
		if existing.Date.Equal(m.Date) && existing.Site == m.Site && !existing.IsDeleted {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	r.menus[m.ID] = m
	return nil
}

func (r *stubMenuRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Menu, error) {
	m, ok := r.menus[id]
	if !ok || m.IsDeleted {
		return nil, errNotFound
	}
	return m, nil
}

func (r *stubMenuRepo) FindByDateSite(_ context.Context, date time.Time, site string) (*model.Menu, error) {
	for _, m := range r.menus {
		if m.Date.Format("2006-01-02") == date.Format("2006-01-02") && m.Site == site && !m.IsDeleted {
			return m, nil
		}
	}
	return nil, errNotFound
}

func (r *stubMenuRepo) ListByDateRange(_ context.Context, from, to time.Time, site string, publishedOnly bool) ([]model.Menu, error) {
	var out []model.Menu
	for _, m := range r.menus {
		if m.IsDeleted || m.Date.Before(from) || m.Date.After(to) {
			continue
		}
		if site != "" && m.Site != site {
			continue
		}
		if publishedOnly && !m.Published {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Site < out[j].Site
	})
	return out, nil
}

func (r *stubMenuRepo) Update(_ context.Context, m *model.Menu) error {
	r.menus[m.ID] = m
	return nil
}

func (r *stubMenuRepo) ReplaceDishes(_ context.Context, menuID uuid.UUID, dishes []model.MenuDish) error {
	m, ok := r.menus[menuID]
	if !ok {
		return errNotFound
	}
	existing := make(map[uuid.UUID]*model.MenuDish, len(m.Dishes))
	for i := range m.Dishes {
		existing[m.Dishes[i].DishID] = &m.Dishes[i]
	}
	requested := make(map[uuid.UUID]bool, len(dishes))

	var next []model.MenuDish
	for _, d := range dishes {
		requested[d.DishID] = true
		d.MenuID = menuID
		if prev, ok := existing[d.DishID]; ok {
			d.ID = prev.ID
			d.OrderedQuantity = prev.OrderedQuantity
			d.Dish = prev.Dish
		} else {
			d.ID = uuid.New()
		}
		next = append(next, d)
	}
	// Rows with orders are never dropped.
	for i := range m.Dishes {
		md := m.Dishes[i]
		if !requested[md.DishID] && md.OrderedQuantity > 0 {
			next = append(next, md)
		}
	}
	m.Dishes = next
	return nil
}

func (r *stubMenuRepo) FindMenuDishTx(_ *gorm.DB, menuID, dishID uuid.UUID) (*model.MenuDish, error) {
	m, ok := r.menus[menuID]
	if !ok {
		return nil, errNotFound
	}
	for i := range m.Dishes {
		if m.Dishes[i].DishID == dishID {
			return &m.Dishes[i], nil
		}
	}
	return nil, errNotFound
}

func (r *stubMenuRepo) AdjustOrderedTx(_ *gorm.DB, menuID, dishID uuid.UUID, delta int) error {
	m, ok := r.menus[menuID]
	if !ok {
		return repository.ErrCounterRowMissing
	}
	for i := range m.Dishes {
		if m.Dishes[i].DishID == dishID {
			m.Dishes[i].OrderedQuantity += delta
			return nil
		}
	}
	return repository.ErrCounterRowMissing
}

func (r *stubMenuRepo) SumOrdered(_ context.Context, menuID uuid.UUID) (int, error) {
	m, ok := r.menus[menuID]
	if !ok {
		return 0, errNotFound
	}
	total := 0
	for i := range m.Dishes {
		total += m.Dishes[i].OrderedQuantity
	}
	return total, nil
}

func (r *stubMenuRepo) CountPendingPublication(_ context.Context, now time.Time) (int64, error) {
	var n int64
	today := now.Format("2006-01-02")
	for _, m := range r.menus {
		if !m.Published && !m.IsDeleted && m.Date.Format("2006-01-02") >= today {
			n++
		}
	}
	return n, nil
}

func (r *stubMenuRepo) CountNearingCutoff(_ context.Context, now time.Time, window time.Duration) (int64, error) {
	var n int64
	for _, m := range r.menus {
		if m.Published && !m.IsDeleted &&
			m.OrderCutoff.After(now) && m.OrderCutoff.Before(now.Add(window)) {
			n++
		}
	}
	return n, nil
}

func (r *stubMenuRepo) DB() *gorm.DB { return nil }

var _ repository.MenuRepository = (*stubMenuRepo)(nil)

// ── Order repository stub ────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders  map[uuid.UUID]*model.Order
	reviews *stubReviewRepo // for ListFulfilledWithoutReview; may be nil
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) UpdateTx(_ *gorm.DB, o *model.Order) error {
	r.orders[o.ID] = o
	return nil
}

// FindByIDTx mirrors the real repository: the locked read selects the bare
// row, so no associations come back.
func (r *stubOrderRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *o
	cp.User, cp.Menu, cp.Dish = nil, nil, nil
	return &cp, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindActiveByUserMenu(_ context.Context, userID, menuID uuid.UUID) (*model.Order, error) {
	for _, o := range r.orders {
		if o.UserID == userID && o.MenuID == menuID && o.Active() {
			return o, nil
		}
	}
	return nil, errNotFound
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, _ dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.UserID == userID && !o.IsDeleted {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) CountByUserStatus(_ context.Context, userID uuid.UUID, status string) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.UserID == userID && o.Status == status && !o.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.IsDeleted {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) CountsByStatus(_ context.Context, _ dto.OrderFilter) (dto.OrderStatusCounts, error) {
	var counts dto.OrderStatusCounts
	for _, o := range r.orders {
		if o.IsDeleted {
			continue
		}
		counts.Total++
		switch o.Status {
		case model.StatusPending:
			counts.Pending++
		case model.StatusConfirmed:
			counts.Confirmed++
		case model.StatusReady:
			counts.Ready++
		case model.StatusDelivered:
			counts.Delivered++
		}
	}
	return counts, nil
}

func (r *stubOrderRepo) ListForPreparation(_ context.Context, date time.Time, site string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.IsDeleted || (o.Status != model.StatusConfirmed && o.Status != model.StatusReady) {
			continue
		}
		if o.Menu == nil || o.Menu.Site != site ||
			o.Menu.Date.Format("2006-01-02") != date.Format("2006-01-02") {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		var a, b string
		if out[i].Dish != nil {
			a = out[i].Dish.Name
		}
		if out[j].Dish != nil {
			b = out[j].Dish.Name
		}
		return a < b
	})
	return out, nil
}

func (r *stubOrderRepo) ExistsFulfilled(_ context.Context, userID, dishID uuid.UUID) (bool, error) {
	for _, o := range r.orders {
		if o.UserID == userID && o.DishID == dishID && o.Fulfilled() {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubOrderRepo) ListFulfilledWithoutReview(_ context.Context, userID uuid.UUID, since time.Time, limit int) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.UserID != userID || !o.Fulfilled() || o.CreatedAt.Before(since) {
			continue
		}
		if r.reviews != nil && r.reviews.hasForOrder(userID, o.ID) {
			continue
		}
		out = append(out, *o)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubOrderRepo) StatsPerDay(_ context.Context, from, to time.Time) ([]dto.OrderDayStat, error) {
	byDay := map[string]*dto.OrderDayStat{}
	for _, o := range r.orders {
		if o.IsDeleted || o.CreatedAt.Before(from) || o.CreatedAt.After(to.AddDate(0, 0, 1)) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		stat, ok := byDay[day]
		if !ok {
			stat = &dto.OrderDayStat{Date: day}
			byDay[day] = stat
		}
		stat.Total++
		if o.Status == model.StatusConfirmed {
			stat.Confirmed++
		}
		if o.Status == model.StatusDelivered {
			stat.Delivered++
		}
	}
	var out []dto.OrderDayStat
	for _, s := range byDay {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *stubOrderRepo) TopDishes(_ context.Context, _, _ time.Time, limit int) ([]dto.DishOrderStat, error) {
	byDish := map[string]int64{}
	for _, o := range r.orders {
		if o.IsDeleted || o.Dish == nil {
			continue
		}
		byDish[o.Dish.Name]++
	}
	var out []dto.DishOrderStat
	for name, n := range byDish {
		out = append(out, dto.DishOrderStat{DishName: name, Total: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Review repository stub ───────────────────────────────────────────────────

type stubReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: make(map[uuid.UUID]*model.Review)}
}

func (r *stubReviewRepo) hasForOrder(userID, orderID uuid.UUID) bool {
	for _, rv := range r.reviews {
		if rv.UserID == userID && rv.OrderID == orderID && !rv.IsDeleted {
			return true
		}
	}
	return false
}

func (r *stubReviewRepo) Create(_ context.Context, rv *model.Review) error {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	rv.CreatedAt = time.Now()
	r.reviews[rv.ID] = rv
	return nil
}

func (r *stubReviewRepo) Update(_ context.Context, rv *model.Review) error {
	r.reviews[rv.ID] = rv
	return nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return nil, errNotFound
	}
	return rv, nil
}

func (r *stubReviewRepo) FindByUserOrder(_ context.Context, userID, orderID uuid.UUID) (*model.Review, error) {
	for _, rv := range r.reviews {
		if rv.UserID == userID && rv.OrderID == orderID && !rv.IsDeleted {
			return rv, nil
		}
	}
	return nil, errNotFound
}

func (r *stubReviewRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.Review, int64, error) {
	var out []model.Review
	for _, rv := range r.reviews {
		if rv.UserID == userID && !rv.IsDeleted {
			out = append(out, *rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubReviewRepo) PersonalStats(_ context.Context, userID uuid.UUID) (dto.PersonalReviewStats, error) {
	var stats dto.PersonalReviewStats
	var sum int64
	for _, rv := range r.reviews {
		if rv.UserID != userID || rv.IsDeleted {
			continue
		}
		stats.Total++
		sum += int64(rv.Rating)
		if rv.Approved {
			stats.Approved++
		}
	}
	if stats.Total > 0 {
		stats.Average = float64(sum) / float64(stats.Total)
	}
	return stats, nil
}

func (r *stubReviewRepo) ListModeration(_ context.Context, filter dto.ModerationFilter) ([]model.Review, int64, error) {
	var out []model.Review
	for _, rv := range r.reviews {
		if rv.IsDeleted {
			continue
		}
		switch filter.Status {
		case "approved":
			if !rv.Approved {
				continue
			}
		case "all":
		default:
			if rv.Approved {
				continue
			}
		}
		out = append(out, *rv)
	}
	return out, int64(len(out)), nil
}

func (r *stubReviewRepo) ModerationStats(_ context.Context, _ dto.ModerationFilter) (dto.ModerationStats, error) {
	return dto.ModerationStats{}, nil
}

func (r *stubReviewRepo) AggregateForDish(_ context.Context, dishID uuid.UUID) (float64, int64, error) {
	var sum, count int64
	for _, rv := range r.reviews {
		if rv.DishID == dishID && rv.Approved && !rv.IsDeleted {
			sum += int64(rv.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *stubReviewRepo) RecentForDish(_ context.Context, dishID uuid.UUID, limit int) ([]model.Review, error) {
	var out []model.Review
	for _, rv := range r.reviews {
		if rv.DishID == dishID && rv.Approved && !rv.IsDeleted {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubReviewRepo) Distribution(_ context.Context, _, _ time.Time) (map[int]int64, error) {
	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, rv := range r.reviews {
		if rv.Approved && !rv.IsDeleted {
			dist[rv.Rating]++
		}
	}
	return dist, nil
}

func (r *stubReviewRepo) TopDishes(_ context.Context, _, _ time.Time, limit int) ([]dto.DishRatingResponse, error) {
	type agg struct {
		sum, count int64
		name       string
	}
	byDish := map[uuid.UUID]*agg{}
	for _, rv := range r.reviews {
		if !rv.Approved || rv.IsDeleted {
			continue
		}
		a, ok := byDish[rv.DishID]
		if !ok {
			a = &agg{}
			if rv.Dish != nil {
				a.name = rv.Dish.Name
			}
			byDish[rv.DishID] = a
		}
		a.sum += int64(rv.Rating)
		a.count++
	}
	var out []dto.DishRatingResponse
	for id, a := range byDish {
		out = append(out, dto.DishRatingResponse{
			DishID:   id.String(),
			DishName: a.name,
			Average:  float64(a.sum) / float64(a.count),
			Count:    a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Average > out[j].Average })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repository.ReviewRepository = (*stubReviewRepo)(nil)

// ── Shared helpers ───────────────────────────────────────────────────────────

// stubNotifier records order-ready notifications.
type stubNotifier struct {
	sent []string // recipient emails
	err  error
}

func (n *stubNotifier) SendOrderReady(to, _, _ string, _ time.Time) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, to)
	return nil
}

func seedDish(repo *stubDishRepo, name string, price float64) *model.Dish {
	d := &model.Dish{
		ID:     uuid.New(),
		Name:   name,
		Price:  decimal.NewFromFloat(price),
		Active: true,
	}
	repo.dishes[d.ID] = d
	return d
}

// seedMenu creates a published menu for tomorrow with the given dishes and a
// cutoff one hour from now.
func seedMenu(repo *stubMenuRepo, site string, dishes ...*model.Dish) *model.Menu {
	date := time.Now().AddDate(0, 0, 1)
	m := &model.Menu{
		ID:          uuid.New(),
		Weekday:     "monday",
		Date:        date,
		Site:        site,
		Published:   true,
		OrderCutoff: time.Now().Add(time.Hour),
		MaxOrders:   100,
	}
	for _, d := range dishes {
		m.Dishes = append(m.Dishes, model.MenuDish{
			ID:     uuid.New(),
			MenuID: m.ID,
			DishID: d.ID,
			Price:  d.Price,
			Dish:   d,
		})
	}
	repo.menus[m.ID] = m
	return m
}
