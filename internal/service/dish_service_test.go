package service_test

import (
	"context"
	"testing"

	"cantine/internal/dto"
	"cantine/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishCreate_WithCategory(t *testing.T) {
	repo := newStubDishRepo()
	svc := service.NewDishService(repo)
	actor := uuid.New()

	cat, err := svc.CreateCategory(context.Background(), dto.CategoryRequest{Name: "Salads", Color: "#4caf50"})
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), actor, dto.CreateDishRequest{
		Name:       "Caesar Salad",
		Allergens:  "egg, fish",
		Price:      decimal.NewFromFloat(8.50),
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	require.NotNil(t, created.CategoryID)
	assert.Equal(t, cat.ID, *created.CategoryID)
}

func TestDishCreate_UnknownCategory(t *testing.T) {
	svc := service.NewDishService(newStubDishRepo())
	bogus := uuid.NewString()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateDishRequest{
		Name:       "Caesar Salad",
		Price:      decimal.NewFromFloat(8.50),
		CategoryID: &bogus,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDishUpdate_ClearsCategory(t *testing.T) {
	repo := newStubDishRepo()
	svc := service.NewDishService(repo)
	actor := uuid.New()

	cat, err := svc.CreateCategory(context.Background(), dto.CategoryRequest{Name: "Salads"})
	require.NoError(t, err)
	created, err := svc.Create(context.Background(), actor, dto.CreateDishRequest{
		Name: "Caesar Salad", Price: decimal.NewFromFloat(8.50), CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(context.Background(), actor, uuid.MustParse(created.ID), dto.UpdateDishRequest{
		CategoryID: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestDishList_FiltersActive(t *testing.T) {
	repo := newStubDishRepo()
	svc := service.NewDishService(repo)
	actor := uuid.New()

	active := seedDish(repo, "Caesar Salad", 8.50)
	retired := seedDish(repo, "Roast Chicken", 11.00)
	require.NoError(t, svc.Deactivate(context.Background(), actor, retired.ID))

	list, err := svc.List(context.Background(), dto.DishFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Equal(t, int64(1), list.Total)
	assert.Equal(t, active.ID.String(), list.Data[0].ID)

	require.NoError(t, svc.Reactivate(context.Background(), retired.ID))
	list, err = svc.List(context.Background(), dto.DishFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
}
