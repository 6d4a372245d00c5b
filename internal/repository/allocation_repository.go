package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Justin322322/roofcal-server/internal/entity"
)

// AllocationRepository owns the project_materials audit rows.
type AllocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) ListByProject(ctx context.Context, projectID string) ([]entity.ProjectMaterial, error) {
	var rows []entity.ProjectMaterial
	err := r.db.WithContext(ctx).
		Preload("WarehouseMaterial").
		Preload("WarehouseMaterial.Material").
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&rows).Error
	return rows, err
}

// ListByProjectAndStatuses returns the project's rows in the given states.
// Terminal rows are excluded by construction when the caller passes only
// RESERVED/CONSUMED, which is what makes Return idempotent.
func (r *AllocationRepository) ListByProjectAndStatuses(tx *gorm.DB, projectID string, statuses ...string) ([]entity.ProjectMaterial, error) {
	var rows []entity.ProjectMaterial
	err := tx.
		Preload("WarehouseMaterial").
		Preload("WarehouseMaterial.Material").
		Where("project_id = ? AND status IN ?", projectID, statuses).
		Order("created_at").
		Find(&rows).Error
	return rows, err
}

func (r *AllocationRepository) FindByProjectAndStock(tx *gorm.DB, projectID, warehouseMaterialID string) (*entity.ProjectMaterial, error) {
	var pm entity.ProjectMaterial
	err := tx.Where("project_id = ? AND warehouse_material_id = ?", projectID, warehouseMaterialID).First(&pm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *AllocationRepository) Create(tx *gorm.DB, pm *entity.ProjectMaterial) error {
	return tx.Create(pm).Error
}

func (r *AllocationRepository) Save(tx *gorm.DB, pm *entity.ProjectMaterial) error {
	return tx.Save(pm).Error
}

// OutstandingByStock sums non-terminal allocations against one stock
// counter, and collects the per-project quantities behind the sum.
func (r *AllocationRepository) OutstandingByStock(ctx context.Context, warehouseMaterialID string) (reserved int, usages []entity.ProjectMaterial, err error) {
	err = r.db.WithContext(ctx).
		Where("warehouse_material_id = ? AND status IN ?", warehouseMaterialID,
			[]string{entity.AllocationReserved, entity.AllocationConsumed}).
		Find(&usages).Error
	if err != nil {
		return 0, nil, err
	}
	for _, u := range usages {
		if u.Status == entity.AllocationReserved {
			reserved += u.Quantity
		}
	}
	return reserved, usages, nil
}
