package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Justin322322/roofcal-server/internal/service"
)

type AllocationHandler struct {
	svc *service.AllocationService
}

func NewAllocationHandler(svc *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{svc: svc}
}

// GetBOM GET /projects/:id/bom
func (h *AllocationHandler) GetBOM(c *gin.Context) {
	bom, err := h.svc.BOMForProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, bom)
}

// GetAvailability GET /projects/:id/availability
func (h *AllocationHandler) GetAvailability(c *gin.Context) {
	report, err := h.svc.AvailabilityForProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, report)
}

// Reserve POST /projects/:id/materials/reserve
func (h *AllocationHandler) Reserve(c *gin.Context) {
	WriteResult(c, h.svc.Reserve(c.Request.Context(), c.Param("id")))
}

// Consume POST /projects/:id/materials/consume
func (h *AllocationHandler) Consume(c *gin.Context) {
	WriteResult(c, h.svc.Consume(c.Request.Context(), c.Param("id")))
}

type returnRequest struct {
	Reason string `json:"reason"`
}

// Return POST /projects/:id/materials/return
func (h *AllocationHandler) Return(c *gin.Context) {
	var req returnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}
	WriteResult(c, h.svc.Return(c.Request.Context(), c.Param("id"), req.Reason))
}

// GetSummary GET /projects/:id/materials
func (h *AllocationHandler) GetSummary(c *gin.Context) {
	summary, err := h.svc.MaterialSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, summary)
}

func writeServiceError(c *gin.Context, err error) {
	var kerr *service.KindError
	if errors.As(err, &kerr) {
		switch kerr.Kind {
		case service.ErrProjectNotFound:
			NotFound(c, kerr.Message)
		default:
			BadRequest(c, kerr.Message)
		}
		return
	}
	InternalError(c, err.Error())
}
