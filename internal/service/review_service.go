package service

import (
	"context"
	"encoding/json"
	"time"

	"cantine/internal/dto"
	"cantine/internal/model"
	"cantine/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dishRatingKeyPrefix = "dish_rating:"
	dishRatingTTL       = 5 * time.Minute
	recentReviewsShown  = 5
)

type ReviewService interface {
	CanReview(ctx context.Context, userID, dishID uuid.UUID) (bool, error)
	Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	MyReviews(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.MyReviewsResponse, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
	PendingReviews(ctx context.Context, userID uuid.UUID) (*dto.PendingReviewsResponse, error)

	Moderation(ctx context.Context, filter dto.ModerationFilter) (*dto.ModerationListResponse, error)
	Approve(ctx context.Context, actor, reviewID uuid.UUID) (*dto.ReviewResponse, error)
	Reject(ctx context.Context, actor, reviewID uuid.UUID) error

	DishRating(ctx context.Context, dishID uuid.UUID) (*dto.DishRatingResponse, error)
	Stats(ctx context.Context, from, to string) (*dto.ReviewStatsResponse, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	orders  repository.OrderRepository
	dishes  repository.DishRepository
	rdb     *redis.Client
}

func NewReviewService(reviews repository.ReviewRepository, orders repository.OrderRepository, dishes repository.DishRepository, rdb *redis.Client) ReviewService {
	return &reviewService{reviews: reviews, orders: orders, dishes: dishes, rdb: rdb}
}

// CanReview reports whether the user has at least one fulfilled order for the
// dish. Only people who actually received a dish may rate it.
func (s *reviewService) CanReview(ctx context.Context, userID, dishID uuid.UUID) (bool, error) {
	return s.orders.ExistsFulfilled(ctx, userID, dishID)
}

// Submit records a rating for a fulfilled order. Submitting again for the
// same order updates the existing review and sends it back to moderation.
func (s *reviewService) Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, ErrNotFound
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if !order.Fulfilled() {
		return nil, ErrNotEligible
	}
	eligible, err := s.orders.ExistsFulfilled(ctx, userID, order.DishID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	review, err := s.reviews.FindByUserOrder(ctx, userID, orderID)
	if err == nil {
		review.Rating = req.Rating
		review.Comment = req.Comment
		review.Anonymous = req.Anonymous
		review.Approved = false
		review.Touch(userID)
		if err := s.reviews.Update(ctx, review); err != nil {
			return nil, err
		}
	} else {
		review = &model.Review{
			UserID:    userID,
			DishID:    order.DishID,
			OrderID:   orderID,
			Rating:    req.Rating,
			Comment:   req.Comment,
			Anonymous: req.Anonymous,
		}
		review.CreatedBy = &userID
		if err := s.reviews.Create(ctx, review); err != nil {
			return nil, err
		}
	}

	s.invalidateRating(ctx, order.DishID)
	review.User = order.User
	review.Dish = order.Dish
	resp := reviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) MyReviews(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.MyReviewsResponse, error) {
	reviews, total, err := s.reviews.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	stats, err := s.reviews.PersonalStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.MyReviewsResponse{
		Data:  make([]dto.ReviewResponse, len(reviews)),
		Stats: stats,
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range reviews {
		resp.Data[i] = reviewToResponse(&reviews[i])
	}
	return resp, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil || review.IsDeleted {
		return ErrNotFound
	}
	if review.UserID != userID {
		return ErrForbidden
	}
	review.SoftDelete(userID)
	if err := s.reviews.Update(ctx, review); err != nil {
		return err
	}
	s.invalidateRating(ctx, review.DishID)
	return nil
}

// PendingReviews lists the user's fulfilled orders of the last 30 days that
// have no review yet, for the reminder widget.
func (s *reviewService) PendingReviews(ctx context.Context, userID uuid.UUID) (*dto.PendingReviewsResponse, error) {
	since := time.Now().AddDate(0, 0, -30)
	orders, err := s.orders.ListFulfilledWithoutReview(ctx, userID, since, 20)
	if err != nil {
		return nil, err
	}
	resp := &dto.PendingReviewsResponse{
		Pending: make([]dto.PendingReviewReminder, len(orders)),
		Total:   len(orders),
	}
	for i := range orders {
		o := &orders[i]
		reminder := dto.PendingReviewReminder{
			OrderID:   o.ID.String(),
			DishID:    o.DishID.String(),
			OrderedAt: o.CreatedAt.Format(time.RFC3339),
		}
		if o.Dish != nil {
			reminder.DishName = o.Dish.Name
		}
		resp.Pending[i] = reminder
	}
	return resp, nil
}

func (s *reviewService) Moderation(ctx context.Context, filter dto.ModerationFilter) (*dto.ModerationListResponse, error) {
	reviews, total, err := s.reviews.ListModeration(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.reviews.ModerationStats(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ModerationListResponse{
		Data:  make([]dto.ReviewResponse, len(reviews)),
		Stats: stats,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range reviews {
		resp.Data[i] = reviewToResponse(&reviews[i])
	}
	return resp, nil
}

func (s *reviewService) Approve(ctx context.Context, actor, reviewID uuid.UUID) (*dto.ReviewResponse, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil || review.IsDeleted {
		return nil, ErrNotFound
	}
	review.Approved = true
	review.Touch(actor)
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateRating(ctx, review.DishID)
	resp := reviewToResponse(review)
	return &resp, nil
}

// Reject tombstones the review. The author may submit a fresh one for the
// same order afterwards.
func (s *reviewService) Reject(ctx context.Context, actor, reviewID uuid.UUID) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil || review.IsDeleted {
		return ErrNotFound
	}
	review.Approved = false
	review.SoftDelete(actor)
	if err := s.reviews.Update(ctx, review); err != nil {
		return err
	}
	s.invalidateRating(ctx, review.DishID)
	return nil
}

// DishRating serves the public aggregate of one dish, read-through from
// Redis. Cache failures degrade to the database.
func (s *reviewService) DishRating(ctx context.Context, dishID uuid.UUID) (*dto.DishRatingResponse, error) {
	key := dishRatingKeyPrefix + dishID.String()
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached dto.DishRatingResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	dish, err := s.dishes.FindByID(ctx, dishID)
	if err != nil {
		return nil, ErrNotFound
	}
	avg, count, err := s.reviews.AggregateForDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	recent, err := s.reviews.RecentForDish(ctx, dishID, recentReviewsShown)
	if err != nil {
		return nil, err
	}

	resp := &dto.DishRatingResponse{
		DishID:   dishID.String(),
		DishName: dish.Name,
		Average:  avg,
		Count:    count,
		Recent:   make([]dto.ReviewResponse, len(recent)),
	}
	for i := range recent {
		resp.Recent[i] = reviewToResponse(&recent[i])
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, raw, dishRatingTTL).Err(); err != nil {
				log.Warn().Err(err).Str("dish_id", dishID.String()).Msg("rating cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *reviewService) Stats(ctx context.Context, from, to string) (*dto.ReviewStatsResponse, error) {
	fromT, toT, err := parseRange(from, to, 30)
	if err != nil {
		return nil, err
	}
	dist, err := s.reviews.Distribution(ctx, fromT, toT)
	if err != nil {
		return nil, err
	}
	top, err := s.reviews.TopDishes(ctx, fromT, toT, 10)
	if err != nil {
		return nil, err
	}

	var total, sum int64
	for rating, n := range dist {
		total += n
		sum += int64(rating) * n
	}
	avg := 0.0
	if total > 0 {
		avg = float64(sum) / float64(total)
	}

	return &dto.ReviewStatsResponse{
		Total:        total,
		Average:      avg,
		Distribution: dist,
		TopDishes:    top,
		From:         fromT.Format("2006-01-02"),
		To:           toT.Format("2006-01-02"),
	}, nil
}

func (s *reviewService) invalidateRating(ctx context.Context, dishID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, dishRatingKeyPrefix+dishID.String()).Err(); err != nil {
		log.Warn().Err(err).Str("dish_id", dishID.String()).Msg("rating cache invalidation failed")
	}
}

func reviewToResponse(rv *model.Review) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:        rv.ID.String(),
		DishID:    rv.DishID.String(),
		OrderID:   rv.OrderID.String(),
		Author:    "Anonymous",
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		Anonymous: rv.Anonymous,
		Approved:  rv.Approved,
		CreatedAt: rv.CreatedAt.Format(time.RFC3339),
	}
	if !rv.Anonymous && rv.User != nil {
		resp.Author = rv.User.FullName()
	}
	if rv.Dish != nil {
		resp.DishName = rv.Dish.Name
	}
	return resp
}
