package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Justin322322/roofcal-server/internal/service"
)

// Response is the uniform JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Handlers bundles the HTTP layer.
type Handlers struct {
	Allocation *AllocationHandler
	Restock    *RestockHandler
	Catalog    *CatalogHandler
	Project    *ProjectHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Allocation: NewAllocationHandler(services.Allocation),
		Restock:    NewRestockHandler(services.Restock),
		Catalog:    NewCatalogHandler(services.Catalog),
		Project:    NewProjectHandler(services.Project),
	}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{Code: 0, Message: "success", Data: data})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 400, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 404, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 409, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 500, 50000, message)
}

// WriteResult maps an engine result onto the envelope. The result is the
// payload either way; the status code separates typed rejections (which the
// workflow frontend handles) from lookup misses and internal failures.
func WriteResult(c *gin.Context, res *service.OperationResult) {
	if res.Success {
		Success(c, res)
		return
	}
	switch res.Error {
	case service.ErrProjectNotFound:
		c.JSON(404, Response{Code: 40400, Message: res.Message, Data: res})
	case service.ErrUnknown:
		c.JSON(500, Response{Code: 50000, Message: res.Message, Data: res})
	default:
		c.JSON(409, Response{Code: 40900, Message: res.Message, Data: res})
	}
}
