package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Justin322322/roofcal-server/internal/entity"
)

// StockRepository owns the warehouse_materials counters. Mutations that race
// with other writers go through the guarded Decrement so a check and its
// decrement are one statement.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) FindByWarehouseAndMaterial(ctx context.Context, warehouseID, materialID string) (*entity.WarehouseMaterial, error) {
	var wm entity.WarehouseMaterial
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND material_id = ?", warehouseID, materialID).
		First(&wm).Error
	if err != nil {
		return nil, err
	}
	return &wm, nil
}

// FindOrCreate returns the stock row for the pair, creating it with zero
// quantity when the material was never tracked in that warehouse. A fresh
// row means "tracked, nothing on hand", not "available".
func (r *StockRepository) FindOrCreate(tx *gorm.DB, warehouseID, materialID string) (*entity.WarehouseMaterial, error) {
	var wm entity.WarehouseMaterial
	err := tx.Where("warehouse_id = ? AND material_id = ?", warehouseID, materialID).First(&wm).Error
	if err == nil {
		return &wm, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	wm = entity.WarehouseMaterial{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		MaterialID:  materialID,
		Quantity:    0,
		Active:      true,
	}
	if err := tx.Create(&wm).Error; err != nil {
		return nil, err
	}
	return &wm, nil
}

// ListActiveByWarehouse returns every active counter with its material,
// for capacity and warning computations.
func (r *StockRepository) ListActiveByWarehouse(ctx context.Context, warehouseID string) ([]entity.WarehouseMaterial, error) {
	var items []entity.WarehouseMaterial
	err := r.db.WithContext(ctx).
		Preload("Material").
		Where("warehouse_id = ? AND active = ?", warehouseID, true).
		Find(&items).Error
	return items, err
}

// Decrement atomically takes qty from the counter, refusing to go below
// zero. Returns false when the guard fails; the caller decides whether that
// aborts its transaction. The WHERE guard serializes concurrent consumers
// on the same row.
func (r *StockRepository) Decrement(tx *gorm.DB, id string, qty int) (bool, error) {
	res := tx.Model(&entity.WarehouseMaterial{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Increment gives qty back to the counter.
func (r *StockRepository) Increment(tx *gorm.DB, id string, qty int) error {
	return tx.Model(&entity.WarehouseMaterial{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		}).Error
}

// SetQuantity overwrites the counter with an absolute value. Used by the
// restock apply path, which commits suggested targets rather than deltas.
func (r *StockRepository) SetQuantity(tx *gorm.DB, id string, qty int) error {
	return tx.Model(&entity.WarehouseMaterial{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   qty,
			"updated_at": time.Now(),
		}).Error
}

func (r *StockRepository) Quantity(ctx context.Context, id string) (int, error) {
	var wm entity.WarehouseMaterial
	err := r.db.WithContext(ctx).Select("quantity").Where("id = ?", id).First(&wm).Error
	return wm.Quantity, err
}
