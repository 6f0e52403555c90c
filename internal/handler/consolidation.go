package handler

import (
	"net/http"
	"time"

	"cantine/internal/apierror"
	"cantine/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsolidationHandler struct{ svc service.ConsolidationService }

func NewConsolidationHandler(svc service.ConsolidationService) *ConsolidationHandler {
	return &ConsolidationHandler{svc: svc}
}

func parseDateParam(c *gin.Context) (time.Time, bool) {
	raw := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("date must be YYYY-MM-DD"))
		return time.Time{}, false
	}
	return date, true
}

// ForSite godoc
// @Summary      Per-dish consolidation for one site and date
// @Description  Confirmed and ready orders grouped by dish, with special notes.
// @Tags         consolidation
// @Produce      json
// @Security     BearerAuth
// @Param        site path  string true  "Site"
// @Param        date query string false "Date YYYY-MM-DD (default: today)"
// @Success      200 {object} dto.ConsolidationResponse
// @Router       /v1/consolidation/{site} [get]
func (h *ConsolidationHandler) ForSite(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ForDate(c.Request.Context(), date, c.Param("site"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Preparation godoc
// @Summary      Full preparation view for one date, all sites
// @Tags         consolidation
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Date YYYY-MM-DD (default: today)"
// @Success      200 {object} dto.PreparationResponse
// @Router       /v1/consolidation [get]
func (h *ConsolidationHandler) Preparation(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Preparation(c.Request.Context(), date)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PrepSheet godoc
// @Summary      Download the kitchen preparation sheet as PDF
// @Tags         consolidation
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        site path  string true  "Site"
// @Param        date query string false "Date YYYY-MM-DD (default: today)"
// @Success      200 {file} binary
// @Router       /v1/consolidation/{site}/pdf [get]
func (h *ConsolidationHandler) PrepSheet(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	path, err := h.svc.PrepSheetPDF(c.Request.Context(), date, c.Param("site"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.FileAttachment(path, "prep_sheet.pdf")
}

// WeekExport godoc
// @Summary      Download the week's consolidation as an Excel workbook
// @Description  One sheet per day, covering every site.
// @Tags         consolidation
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} binary
// @Router       /v1/consolidation/export [get]
func (h *ConsolidationHandler) WeekExport(c *gin.Context) {
	buf, name, err := h.svc.WeekWorkbook(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
