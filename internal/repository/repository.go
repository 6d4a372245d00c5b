package repository

import (
	"gorm.io/gorm"

	"github.com/Justin322322/roofcal-server/internal/entity"
)

// Repositories bundles every aggregate repository over one gorm handle.
type Repositories struct {
	Material   *MaterialRepository
	Warehouse  *WarehouseRepository
	Stock      *StockRepository
	Project    *ProjectRepository
	Allocation *AllocationRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Material:   NewMaterialRepository(db),
		Warehouse:  NewWarehouseRepository(db),
		Stock:      NewStockRepository(db),
		Project:    NewProjectRepository(db),
		Allocation: NewAllocationRepository(db),
	}
}

// Migrate creates or updates the schema for all owned tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Material{},
		&entity.Warehouse{},
		&entity.WarehouseMaterial{},
		&entity.Project{},
		&entity.ProjectMaterial{},
	)
}
