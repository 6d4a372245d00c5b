package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Justin322322/roofcal-server/internal/service"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus POST /projects/:id/status
// A rejected engine result blocks the transition and is surfaced verbatim
// so the workflow can show the shortage to the user.
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	WriteResult(c, h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status))
}
