package handler

import (
	"net/http"

	"cantine/internal/apierror"
	"cantine/internal/dto"
	"cantine/internal/middleware"
	"cantine/internal/model"
	"cantine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MenusHandler struct{ svc service.MenuService }

func NewMenusHandler(svc service.MenuService) *MenusHandler { return &MenusHandler{svc: svc} }

// Week godoc
// @Summary      Current work week menus
// @Description  Employees see published menus of their own site; staff see everything.
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Param        site query string false "Site filter (staff only)"
// @Success      200 {object} dto.WeekMenusResponse
// @Router       /v1/menus/week [get]
func (h *MenusHandler) Week(c *gin.Context) {
	claims := middleware.GetClaims(c)

	site := c.Query("site")
	publishedOnly := true
	switch claims.Role {
	case model.RoleAdmin, model.RoleSecretary, model.RoleCaterer:
		publishedOnly = false
	default:
		// Employees are pinned to their own site.
		site = claims.Site
	}

	resp, err := h.svc.WeekMenus(c.Request.Context(), site, publishedOnly)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EnsureWeek godoc
// @Summary      Bootstrap the week's menu slots
// @Description  Creates any missing (date, site) menu for Monday through Friday and returns the whole week. Idempotent.
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.WeekMenusResponse
// @Router       /v1/menus/week/ensure [post]
func (h *MenusHandler) EnsureWeek(c *gin.Context) {
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.EnsureWeek(c.Request.Context(), actor)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one menu with its dishes
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Menu UUID"
// @Success      200 {object} dto.MenuResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/menus/{id} [get]
func (h *MenusHandler) Get(c *gin.Context) {
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
// @Summary      Update menu metadata
// @Tags         menus
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Menu UUID"
// @Param        body body dto.UpdateMenuRequest true "Fields to change"
// @Success      200  {object} dto.MenuResponse
// @Router       /v1/menus/{id} [put]
func (h *MenusHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateMenuRequest
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

// SetDishes godoc
// @Summary      Replace the menu's dish set
// @Description  Dishes already carrying orders keep their ordered-quantity counter.
// @Tags         menus
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Menu UUID"
// @Param        body body dto.SetMenuDishesRequest true "Dish set"
// @Success      200  {object} dto.MenuResponse
// @Router       /v1/menus/{id}/dishes [put]
func (h *MenusHandler) SetDishes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.SetMenuDishesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.SetDishes(c.Request.Context(), actor, id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Publish godoc
// @Summary      Publish a menu
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Menu UUID"
// @Success      200 {object} dto.MenuResponse
// @Router       /v1/menus/{id}/publish [post]
func (h *MenusHandler) Publish(c *gin.Context) {
	h.setPublished(c, true)
}

// Unpublish godoc
// @Summary      Unpublish a menu
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Menu UUID"
// @Success      200 {object} dto.MenuResponse
// @Router       /v1/menus/{id}/unpublish [post]
func (h *MenusHandler) Unpublish(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *MenusHandler) setPublished(c *gin.Context, publish bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	claims := middleware.GetClaims(c)
	actor, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Publish(c.Request.Context(), actor, id, publish)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Tracking godoc
// @Summary      Week order-tracking summary
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.MenuTrackingResponse
// @Router       /v1/menus/tracking [get]
func (h *MenusHandler) Tracking(c *gin.Context) {
	resp, err := h.svc.Tracking(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PendingPublication godoc
// @Summary      Count of future menus not yet published
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.PendingPublicationResponse
// @Router       /v1/menus/pending-publication [get]
func (h *MenusHandler) PendingPublication(c *gin.Context) {
	resp, err := h.svc.PendingPublication(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NearingCutoff godoc
// @Summary      Count of published menus whose cutoff falls within 24 h
// @Tags         menus
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.NearingCutoffResponse
// @Router       /v1/menus/nearing-cutoff [get]
func (h *MenusHandler) NearingCutoff(c *gin.Context) {
	resp, err := h.svc.NearingCutoff(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
