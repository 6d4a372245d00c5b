package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Justin322322/roofcal-server/internal/entity"
	"github.com/Justin322322/roofcal-server/internal/service"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// List GET /materials
func (h *CatalogHandler) List(c *gin.Context) {
	materials, err := h.svc.ActiveMaterials(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, materials)
}

// Create POST /materials
func (h *CatalogHandler) Create(c *gin.Context) {
	var m entity.Material
	if err := c.ShouldBindJSON(&m); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Create(c.Request.Context(), &m); err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, m)
}

// Update PUT /materials/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	var m entity.Material
	if err := c.ShouldBindJSON(&m); err != nil {
		BadRequest(c, err.Error())
		return
	}
	m.ID = c.Param("id")
	if err := h.svc.Update(c.Request.Context(), &m); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, m)
}
