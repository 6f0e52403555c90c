package handler

import (
	"net/http"

	"cantine/internal/apierror"
	"cantine/internal/dto"
	"cantine/internal/middleware"
	"cantine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DishesHandler struct{ svc service.DishService }

func NewDishesHandler(svc service.DishService) *DishesHandler { return &DishesHandler{svc: svc} }

// Create godoc
// @Summary      Create a dish
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateDishRequest true "Dish details"
// @Success      201  {object} dto.DishResponse
// @Router       /v1/dishes [post]
func (h *DishesHandler) Create(c *gin.Context) {
	var req dto.CreateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List dishes
// @Description  Paginated catalog. active: "false" = inactive only, "all" = everything, default = active only.
// @Tags         dishes
// @Produce      json
// @Security     BearerAuth
// @Param        name        query string false "Name search (substring)"
// @Param        category_id query string false "Category UUID"
// @Param        active      query string false "false | all"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 50)"
// @Success      200 {object} dto.DishListResponse
// @Router       /v1/dishes [get]
func (h *DishesHandler) List(c *gin.Context) {
	var filter dto.DishFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one dish
// @Tags         dishes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Dish UUID"
// @Success      200 {object} dto.DishResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/dishes/{id} [get]
func (h *DishesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a dish
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Dish UUID"
// @Param        body body dto.UpdateDishRequest true "Fields to change"
// @Success      200  {object} dto.DishResponse
// @Router       /v1/dishes/{id} [put]
func (h *DishesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate a dish
// @Description  The dish disappears from new menus; existing menu rows and order history survive.
// @Tags         dishes
// @Security     BearerAuth
// @Param        id path string true "Dish UUID"
// @Success      204
// @Router       /v1/dishes/{id} [delete]
func (h *DishesHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Deactivate(c.Request.Context(), actor, id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivate a dish
// @Tags         dishes
// @Security     BearerAuth
// @Param        id path string true "Dish UUID"
// @Success      204
// @Router       /v1/dishes/{id}/reactivate [post]
func (h *DishesHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateCategory godoc
// @Summary      Create a dish category
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CategoryRequest true "Category details"
// @Success      201  {object} dto.CategoryResponse
// @Router       /v1/dishes/categories [post]
func (h *DishesHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCategories godoc
// @Summary      List dish categories
// @Tags         dishes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CategoryResponse
// @Router       /v1/dishes/categories [get]
func (h *DishesHandler) ListCategories(c *gin.Context) {
	resp, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCategory godoc
// @Summary      Update a dish category
// @Tags         dishes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Category UUID"
// @Param        body body dto.CategoryRequest true "Category details"
// @Success      200  {object} dto.CategoryResponse
// @Router       /v1/dishes/categories/{id} [put]
func (h *DishesHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
