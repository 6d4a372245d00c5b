package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Justin322322/roofcal-server/internal/entity"
	"github.com/Justin322322/roofcal-server/internal/repository"
)

// testEnv wires the full service stack over an in-memory sqlite database.
type testEnv struct {
	db       *gorm.DB
	repos    *repository.Repositories
	services *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	repos := repository.NewRepositories(db)
	services := NewServices(repos, db, nil, zap.NewNop())
	return &testEnv{db: db, repos: repos, services: services}
}

func (e *testEnv) seedMaterial(t *testing.T, category, name string, price float64) *entity.Material {
	t.Helper()
	m := &entity.Material{
		ID:       uuid.New().String(),
		Category: category,
		Name:     name,
		Label:    name,
		Price:    price,
		Unit:     "pcs",
		Active:   true,
	}
	require.NoError(t, e.db.Create(m).Error)
	return m
}

func (e *testEnv) seedWarehouse(t *testing.T, capacity float64) *entity.Warehouse {
	t.Helper()
	w := &entity.Warehouse{
		ID:            uuid.New().String(),
		Name:          "Main Depot",
		TotalCapacity: capacity,
		Status:        entity.WarehouseStatusActive,
	}
	require.NoError(t, e.db.Create(w).Error)
	return w
}

func (e *testEnv) seedStock(t *testing.T, warehouseID, materialID string, qty int) *entity.WarehouseMaterial {
	t.Helper()
	wm := &entity.WarehouseMaterial{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		MaterialID:  materialID,
		Quantity:    qty,
		Active:      true,
	}
	require.NoError(t, e.db.Create(wm).Error)
	return wm
}

func (e *testEnv) seedProject(t *testing.T, warehouseID string, area float64, materialType string) *entity.Project {
	t.Helper()
	p := &entity.Project{
		ID:           uuid.New().String(),
		Name:         "Roof " + uuid.New().String()[:8],
		Status:       entity.ProjectStatusPending,
		RoofArea:     area,
		MaterialType: materialType,
		WarehouseID:  warehouseID,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) stockQuantity(t *testing.T, id string) int {
	t.Helper()
	var wm entity.WarehouseMaterial
	require.NoError(t, e.db.Where("id = ?", id).First(&wm).Error)
	return wm.Quantity
}

func (e *testEnv) allocationRows(t *testing.T, projectID string) []entity.ProjectMaterial {
	t.Helper()
	var rows []entity.ProjectMaterial
	require.NoError(t, e.db.Where("project_id = ?", projectID).Find(&rows).Error)
	return rows
}
