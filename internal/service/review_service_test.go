package service_test

import (
	"context"
	"testing"
	"time"

	"cantine/internal/dto"
	"cantine/internal/model"
	"cantine/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReviewSvc() (service.ReviewService, *stubReviewRepo, *stubOrderRepo, *stubDishRepo) {
	reviewRepo := newStubReviewRepo()
	orderRepo := newStubOrderRepo()
	orderRepo.reviews = reviewRepo
	dishRepo := newStubDishRepo()
	svc := service.NewReviewService(reviewRepo, orderRepo, dishRepo, nil)
	return svc, reviewRepo, orderRepo, dishRepo
}

// seedFulfilledOrder records a delivered order for the given user and dish.
func seedFulfilledOrder(repo *stubOrderRepo, userID uuid.UUID, dish *model.Dish) *model.Order {
	o := &model.Order{
		ID:     uuid.New(),
		UserID: userID,
		MenuID: uuid.New(),
		DishID: dish.ID,
		Status: model.StatusDelivered,
		Dish:   dish,
	}
	o.CreatedAt = time.Now()
	repo.orders[o.ID] = o
	return o
}

func TestCanReview_RequiresFulfilledOrder(t *testing.T) {
	svc, _, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()

	ok, err := svc.CanReview(context.Background(), userID, dish.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	seedFulfilledOrder(orderRepo, userID, dish)
	ok, err = svc.CanReview(context.Background(), userID, dish.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubmit_CreatesPendingReview(t *testing.T) {
	svc, reviewRepo, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)

	resp, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(),
		Rating:  4,
		Comment: "fresh and crunchy",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Rating)
	assert.False(t, resp.Approved)
	assert.Len(t, reviewRepo.reviews, 1)
}

func TestSubmit_PendingOrderNotEligible(t *testing.T) {
	svc, _, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)
	order.Status = model.StatusPending

	_, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(),
		Rating:  5,
	})
	assert.ErrorIs(t, err, service.ErrNotEligible)
}

func TestSubmit_OtherUsersOrder(t *testing.T) {
	svc, _, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	order := seedFulfilledOrder(orderRepo, uuid.New(), dish)

	_, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitReviewRequest{
		OrderID: order.ID.String(),
		Rating:  5,
	})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestSubmit_ResubmissionUpdatesAndResetsApproval(t *testing.T) {
	svc, reviewRepo, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)

	first, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 3, Comment: "ok",
	})
	require.NoError(t, err)

	// Moderator approves, then the author edits the review.
	_, err = svc.Approve(context.Background(), uuid.New(), uuid.MustParse(first.ID))
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 5, Comment: "even better reheated",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)
	assert.False(t, second.Approved)
	assert.Len(t, reviewRepo.reviews, 1)
}

func TestApprove_MakesReviewPublic(t *testing.T) {
	svc, _, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)

	submitted, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 4,
	})
	require.NoError(t, err)

	rating, err := svc.DishRating(context.Background(), dish.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rating.Count)

	_, err = svc.Approve(context.Background(), uuid.New(), uuid.MustParse(submitted.ID))
	require.NoError(t, err)

	rating, err = svc.DishRating(context.Background(), dish.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rating.Count)
	assert.Equal(t, 4.0, rating.Average)
	assert.Equal(t, "Caesar Salad", rating.DishName)
}

func TestReject_TombstonesAndAllowsResubmission(t *testing.T) {
	svc, reviewRepo, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)

	submitted, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 1, Comment: "rude",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), uuid.New(), uuid.MustParse(submitted.ID)))
	assert.True(t, reviewRepo.reviews[uuid.MustParse(submitted.ID)].IsDeleted)

	// A fresh submission creates a new row instead of reviving the rejected one.
	fresh, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 4, Comment: "second thoughts",
	})
	require.NoError(t, err)
	assert.NotEqual(t, submitted.ID, fresh.ID)
	assert.Len(t, reviewRepo.reviews, 2)
}

func TestDelete_OwnReviewOnly(t *testing.T) {
	svc, reviewRepo, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)

	submitted, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 4,
	})
	require.NoError(t, err)
	reviewID := uuid.MustParse(submitted.ID)

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), reviewID), service.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), userID, reviewID))
	assert.True(t, reviewRepo.reviews[reviewID].IsDeleted)
	assert.ErrorIs(t, svc.Delete(context.Background(), userID, reviewID), service.ErrNotFound)
}

func TestAnonymousReviewHidesAuthor(t *testing.T) {
	svc, _, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)
	order.User = &model.User{ID: userID, FirstName: "Ada", LastName: "Lovelace"}

	resp, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 5, Anonymous: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", resp.Author)

	resp, err = svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 5, Anonymous: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", resp.Author)
}

func TestPendingReviews_SkipsReviewedOrders(t *testing.T) {
	svc, _, orderRepo, dishRepo := buildReviewSvc()
	salad := seedDish(dishRepo, "Caesar Salad", 8.50)
	chicken := seedDish(dishRepo, "Roast Chicken", 11.00)
	userID := uuid.New()
	reviewed := seedFulfilledOrder(orderRepo, userID, salad)
	seedFulfilledOrder(orderRepo, userID, chicken)

	_, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: reviewed.ID.String(), Rating: 4,
	})
	require.NoError(t, err)

	resp, err := svc.PendingReviews(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Roast Chicken", resp.Pending[0].DishName)
}

func TestReviewStats_AveragesApprovedOnly(t *testing.T) {
	svc, _, orderRepo, dishRepo := buildReviewSvc()
	dish := seedDish(dishRepo, "Caesar Salad", 8.50)

	for _, rating := range []int{5, 3} {
		userID := uuid.New()
		order := seedFulfilledOrder(orderRepo, userID, dish)
		submitted, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
			OrderID: order.ID.String(), Rating: rating,
		})
		require.NoError(t, err)
		_, err = svc.Approve(context.Background(), uuid.New(), uuid.MustParse(submitted.ID))
		require.NoError(t, err)
	}
	// An unapproved review must not move the average.
	userID := uuid.New()
	order := seedFulfilledOrder(orderRepo, userID, dish)
	_, err := svc.Submit(context.Background(), userID, dto.SubmitReviewRequest{
		OrderID: order.ID.String(), Rating: 1,
	})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, 4.0, stats.Average)
	assert.Equal(t, int64(1), stats.Distribution[5])
	assert.Equal(t, int64(1), stats.Distribution[3])
	assert.Equal(t, int64(0), stats.Distribution[1])
}
