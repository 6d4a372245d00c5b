package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Justin322322/roofcal-server/internal/service"
)

type RestockHandler struct {
	svc *service.RestockService
}

func NewRestockHandler(svc *service.RestockService) *RestockHandler {
	return &RestockHandler{svc: svc}
}

// GetWarnings GET /warehouses/:id/warnings
func (h *RestockHandler) GetWarnings(c *gin.Context) {
	warnings, err := h.svc.StockWarnings(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, warnings)
}

type suggestRequest struct {
	Warnings []service.StockWarning `json:"warnings"`
}

// Suggest POST /warehouses/:id/restock/suggest
// Without an explicit warning set in the body, warnings are derived from
// the warehouse contents.
func (h *RestockHandler) Suggest(c *gin.Context) {
	warehouseID := c.Param("id")

	var req suggestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	warnings := req.Warnings
	if len(warnings) == 0 {
		derived, err := h.svc.StockWarnings(c.Request.Context(), warehouseID)
		if err != nil {
			InternalError(c, err.Error())
			return
		}
		warnings = derived
	}

	suggestions, err := h.svc.SuggestRestock(c.Request.Context(), warehouseID, warnings)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, suggestions)
}

type applyRequest struct {
	Suggestions []service.StockSuggestion `json:"suggestions" binding:"required"`
}

// Apply POST /warehouses/:id/restock/apply
func (h *RestockHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ApplySuggestions(c.Request.Context(), c.Param("id"), req.Suggestions); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"applied": len(req.Suggestions)})
}

// Export GET /warehouses/:id/restock/export
func (h *RestockHandler) Export(c *gin.Context) {
	warehouseID := c.Param("id")

	warnings, err := h.svc.StockWarnings(c.Request.Context(), warehouseID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	suggestions, err := h.svc.SuggestRestock(c.Request.Context(), warehouseID, warnings)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	f, err := h.svc.ExportSuggestions(warehouseID, suggestions)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	filename := fmt.Sprintf("restock-%s.xlsx", warehouseID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, err.Error())
	}
}
