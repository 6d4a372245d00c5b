package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Justin322322/roofcal-server/internal/repository"
)

// Services wires every service over the shared repositories.
type Services struct {
	Catalog     *CatalogService
	Requirement *RequirementService
	Allocation  *AllocationService
	Restock     *RestockService
	Project     *ProjectService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Services {
	catalog := NewCatalogService(repos.Material, rdb, logger)
	requirement := NewRequirementService(logger)
	allocation := NewAllocationService(db, repos.Project, repos.Stock, repos.Allocation, catalog, requirement, logger)
	restock := NewRestockService(db, repos.Warehouse, repos.Stock, repos.Material, repos.Allocation, logger)
	project := NewProjectService(repos.Project, allocation, logger)

	return &Services{
		Catalog:     catalog,
		Requirement: requirement,
		Allocation:  allocation,
		Restock:     restock,
		Project:     project,
	}
}
