package handler

import (
	"net/http"
	"strconv"

	"cantine/internal/apierror"
	"cantine/internal/dto"
	"cantine/internal/middleware"
	"cantine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewsHandler struct{ svc service.ReviewService }

func NewReviewsHandler(svc service.ReviewService) *ReviewsHandler { return &ReviewsHandler{svc: svc} }

// CanReview godoc
// @Summary      Check review eligibility for a dish
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        dish_id path string true "Dish UUID"
// @Success      200 {object} map[string]bool
// @Router       /v1/reviews/can-review/{dish_id} [get]
func (h *ReviewsHandler) CanReview(c *gin.Context) {
	dishID, err := uuid.Parse(c.Param("dish_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	ok, err := h.svc.CanReview(c.Request.Context(), userID, dishID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_review": ok})
}

// Submit godoc
// @Summary      Submit or update a review
// @Description  One review per order. Submitting again overwrites the previous rating and resets approval.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SubmitReviewRequest true "Review"
// @Success      201  {object} dto.ReviewResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reviews [post]
func (h *ReviewsHandler) Submit(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Submit(c.Request.Context(), userID, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Mine godoc
// @Summary      List my reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page (default 1)"
// @Param        limit query int false "Page size (default 20)"
// @Success      200 {object} dto.MyReviewsResponse
// @Router       /v1/reviews/mine [get]
func (h *ReviewsHandler) Mine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	resp, err := h.svc.MyReviews(c.Request.Context(), userID, page, limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete my review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id path string true "Review UUID"
// @Success      204
// @Router       /v1/reviews/{id} [delete]
func (h *ReviewsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Pending godoc
// @Summary      Fulfilled orders awaiting a review
// @Description  Reminder widget: orders of the last 30 days the user has not rated yet.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.PendingReviewsResponse
// @Router       /v1/reviews/pending [get]
func (h *ReviewsHandler) Pending(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.PendingReviews(c.Request.Context(), userID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Moderation godoc
// @Summary      List reviews for moderation
// @Description  status: "pending" (default), "approved" or "all".
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        status  query string false "pending | approved | all"
// @Param        dish_id query string false "Dish UUID"
// @Param        page    query int    false "Page (default 1)"
// @Param        limit   query int    false "Page size (default 20)"
// @Success      200 {object} dto.ModerationListResponse
// @Router       /v1/reviews/moderation [get]
func (h *ReviewsHandler) Moderation(c *gin.Context) {
	var filter dto.ModerationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Moderation(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approve godoc
// @Summary      Approve a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Review UUID"
// @Success      200 {object} dto.ReviewResponse
// @Router       /v1/reviews/{id}/approve [post]
func (h *ReviewsHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Approve(c.Request.Context(), actor, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject godoc
// @Summary      Reject a review
// @Description  Tombstones the review; the author may submit a fresh one.
// @Tags         reviews
// @Security     BearerAuth
// @Param        id path string true "Review UUID"
// @Success      204
// @Router       /v1/reviews/{id}/reject [post]
func (h *ReviewsHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Reject(c.Request.Context(), actor, id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DishRating godoc
// @Summary      Public rating aggregate of a dish
// @Description  Average, count and recent approved reviews. Served read-through from Redis.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        dish_id path string true "Dish UUID"
// @Success      200 {object} dto.DishRatingResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reviews/dishes/{dish_id} [get]
func (h *ReviewsHandler) DishRating(c *gin.Context) {
	dishID, err := uuid.Parse(c.Param("dish_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.DishRating(c.Request.Context(), dishID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats godoc
// @Summary      Review statistics
// @Description  Rating distribution and best-rated dishes over a date range (default: last 30 days).
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date YYYY-MM-DD"
// @Param        to   query string false "To date YYYY-MM-DD"
// @Success      200 {object} dto.ReviewStatsResponse
// @Router       /v1/reviews/stats [get]
func (h *ReviewsHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
