package service_test

import (
	"context"
	"testing"
	"time"

	"cantine/internal/config"
	"cantine/internal/dto"
	"cantine/internal/model"
	"cantine/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMenuSvc() (service.MenuService, *stubMenuRepo, *stubDishRepo) {
	menuRepo := newStubMenuRepo()
	dishRepo := newStubDishRepo()
	svc := service.NewMenuService(menuRepo, dishRepo, &config.Config{CutoffHour: 12})
	return svc, menuRepo, dishRepo
}

func TestEnsureWeek_CreatesAllSlots(t *testing.T) {
	svc, menuRepo, _ := buildMenuSvc()
	actor := uuid.New()

	resp, err := svc.EnsureWeek(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, resp.Menus, 5*len(model.Sites))
	assert.Len(t, menuRepo.menus, 5*len(model.Sites))

	// Bootstrap is idempotent.
	resp, err = svc.EnsureWeek(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, menuRepo.menus, 5*len(model.Sites))

	for _, m := range menuRepo.menus {
		assert.False(t, m.Published)
		assert.Equal(t, 12, m.OrderCutoff.Hour())
		assert.Equal(t, m.Date.Format("2006-01-02"), m.OrderCutoff.Format("2006-01-02"))
	}
}

func TestSetDishes_PreservesOrderedQuantities(t *testing.T) {
	svc, menuRepo, dishRepo := buildMenuSvc()
	salad := seedDish(dishRepo, "Caesar Salad", 8.50)
	chicken := seedDish(dishRepo, "Roast Chicken", 11.00)
	soup := seedDish(dishRepo, "Pumpkin Soup", 6.00)
	menu := seedMenu(menuRepo, model.SiteDanga, salad, chicken)
	menu.Dishes[0].OrderedQuantity = 3 // salad already has orders
	menu.Dishes[1].OrderedQuantity = 1 // chicken too
	actor := uuid.New()

	// Replanning keeps the salad, drops the chicken, adds the soup.
	resp, err := svc.SetDishes(context.Background(), actor, menu.ID, dto.SetMenuDishesRequest{
		Dishes: []dto.MenuDishRequest{
			{DishID: salad.ID.String(), PlannedQuantity: 40},
			{DishID: soup.ID.String(), PlannedQuantity: 20},
		},
	})
	require.NoError(t, err)

	byName := map[string]dto.MenuDishResponse{}
	for _, d := range resp.Dishes {
		byName[d.Name] = d
	}
	assert.Equal(t, 3, byName["Caesar Salad"].OrderedQuantity)
	assert.Equal(t, 40, byName["Caesar Salad"].PlannedQuantity)
	assert.Equal(t, 0, byName["Pumpkin Soup"].OrderedQuantity)
	// The dropped dish survives because orders reference it.
	assert.Equal(t, 1, byName["Roast Chicken"].OrderedQuantity)
}

func TestSetDishes_DefaultsPriceFromDish(t *testing.T) {
	svc, menuRepo, dishRepo := buildMenuSvc()
	salad := seedDish(dishRepo, "Caesar Salad", 8.50)
	menu := seedMenu(menuRepo, model.SiteDanga)

	resp, err := svc.SetDishes(context.Background(), uuid.New(), menu.ID, dto.SetMenuDishesRequest{
		Dishes: []dto.MenuDishRequest{{DishID: salad.ID.String()}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Dishes, 1)
	assert.True(t, resp.Dishes[0].Price.Equal(salad.Price))
}

func TestSetDishes_RejectsInactiveDish(t *testing.T) {
	svc, menuRepo, dishRepo := buildMenuSvc()
	salad := seedDish(dishRepo, "Caesar Salad", 8.50)
	salad.Active = false
	menu := seedMenu(menuRepo, model.SiteDanga)

	_, err := svc.SetDishes(context.Background(), uuid.New(), menu.ID, dto.SetMenuDishesRequest{
		Dishes: []dto.MenuDishRequest{{DishID: salad.ID.String()}},
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPublish_ControlsEmployeeVisibility(t *testing.T) {
	svc, menuRepo, _ := buildMenuSvc()
	actor := uuid.New()

	_, err := svc.EnsureWeek(context.Background(), actor)
	require.NoError(t, err)

	week, err := svc.WeekMenus(context.Background(), model.SiteDanga, true)
	require.NoError(t, err)
	assert.Empty(t, week.Menus)

	var anyID uuid.UUID
	for id, m := range menuRepo.menus {
		if m.Site == model.SiteDanga {
			anyID = id
			break
		}
	}
	resp, err := svc.Publish(context.Background(), actor, anyID, true)
	require.NoError(t, err)
	assert.True(t, resp.Published)

	week, err = svc.WeekMenus(context.Background(), model.SiteDanga, true)
	require.NoError(t, err)
	assert.Len(t, week.Menus, 1)
}

func TestUpdate_RejectsMalformedCutoff(t *testing.T) {
	svc, menuRepo, _ := buildMenuSvc()
	menu := seedMenu(menuRepo, model.SiteDanga)

	bad := "tomorrow at noon"
	_, err := svc.Update(context.Background(), uuid.New(), menu.ID, dto.UpdateMenuRequest{OrderCutoff: &bad})
	require.Error(t, err)

	good := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	resp, err := svc.Update(context.Background(), uuid.New(), menu.ID, dto.UpdateMenuRequest{OrderCutoff: &good})
	require.NoError(t, err)
	assert.Equal(t, good, resp.OrderCutoff)
}

func TestPendingPublicationAndNearingCutoff(t *testing.T) {
	svc, menuRepo, dishRepo := buildMenuSvc()
	salad := seedDish(dishRepo, "Caesar Salad", 8.50)

	seedMenu(menuRepo, model.SiteDanga, salad) // published, cutoff one hour out
	draft := seedMenu(menuRepo, model.SiteCampus, salad)
	draft.Published = false

	pending, err := svc.PendingPublication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.MenusToPublish)

	nearing, err := svc.NearingCutoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), nearing.MenusNearingCutoff)
}

func TestTracking_SumsOrderedPerMenu(t *testing.T) {
	svc, menuRepo, dishRepo := buildMenuSvc()
	salad := seedDish(dishRepo, "Caesar Salad", 8.50)
	chicken := seedDish(dishRepo, "Roast Chicken", 11.00)
	menu := seedMenu(menuRepo, model.SiteDanga, salad, chicken)
	// Pin the menu inside the current work week so Tracking picks it up.
	offset := int(time.Now().Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	menu.Date = time.Now().AddDate(0, 0, -offset)
	menu.Dishes[0].OrderedQuantity = 4
	menu.Dishes[1].OrderedQuantity = 2

	tracking, err := svc.Tracking(context.Background())
	require.NoError(t, err)
	require.Len(t, tracking, 1)
	assert.Equal(t, 6, tracking[0].TotalOrders)
}
