package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Justin322322/roofcal-server/internal/entity"
)

// Reserve → Consume → Return over a single BOM line: reservation leaves the
// counter alone, consumption decrements it, return restores it exactly.
func TestAllocationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	wm := env.seedStock(t, w.ID, m.ID, 100)
	// 50 m² × 1.10 waste = 55 units required.
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	engine := env.services.Allocation

	res := engine.Reserve(ctx, p.ID)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 100, env.stockQuantity(t, wm.ID))

	rows := env.allocationRows(t, p.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.AllocationReserved, rows[0].Status)
	assert.Equal(t, 55, rows[0].Quantity)
	assert.NotNil(t, rows[0].ReservedAt)

	res = engine.Consume(ctx, p.ID)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 45, env.stockQuantity(t, wm.ID))
	require.Len(t, res.Consumed, 1)
	assert.Equal(t, 55, res.Consumed[0].Quantity)
	assert.Equal(t, 45, res.Consumed[0].RemainingStock)

	rows = env.allocationRows(t, p.ID)
	assert.Equal(t, entity.AllocationConsumed, rows[0].Status)
	assert.NotNil(t, rows[0].ConsumedAt)

	var project entity.Project
	require.NoError(t, env.db.First(&project, "id = ?", p.ID).Error)
	assert.True(t, project.MaterialsConsumed)

	res = engine.Return(ctx, p.ID, "project rejected")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 100, env.stockQuantity(t, wm.ID))

	rows = env.allocationRows(t, p.ID)
	assert.Equal(t, entity.AllocationReturned, rows[0].Status)
	assert.NotNil(t, rows[0].ReturnedAt)
	assert.Equal(t, "project rejected", rows[0].Notes)

	require.NoError(t, env.db.First(&project, "id = ?", p.ID).Error)
	assert.False(t, project.MaterialsConsumed)
}

func TestReserveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	env.seedStock(t, w.ID, m.ID, 100)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	engine := env.services.Allocation
	require.True(t, engine.Reserve(ctx, p.ID).Success)
	require.True(t, engine.Reserve(ctx, p.ID).Success)

	rows := env.allocationRows(t, p.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.AllocationReserved, rows[0].Status)
	assert.Equal(t, 55, rows[0].Quantity)
}

func TestReserveRejectsShortageWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	env.seedStock(t, w.ID, m.ID, 10)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4") // needs 55

	res := env.services.Allocation.Reserve(ctx, p.ID)

	assert.False(t, res.Success)
	assert.Equal(t, ErrInsufficientMaterials, res.Error)
	assert.Contains(t, res.Message, "corrugated-0.4")
	assert.Empty(t, env.allocationRows(t, p.ID))
}

func TestReserveTreatsUntrackedAsZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	// No stock row at all for the material.
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	res := env.services.Allocation.Reserve(ctx, p.ID)

	assert.False(t, res.Success)
	assert.Equal(t, ErrInsufficientMaterials, res.Error)
}

func TestReserveWithoutWarehouse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	p := env.seedProject(t, "", 50, "corrugated-0.4")

	res := env.services.Allocation.Reserve(ctx, p.ID)

	assert.False(t, res.Success)
	assert.Equal(t, ErrNoWarehouse, res.Error)
}

func TestReserveUnknownProject(t *testing.T) {
	env := newTestEnv(t)

	res := env.services.Allocation.Reserve(context.Background(), "missing")

	assert.False(t, res.Success)
	assert.Equal(t, ErrProjectNotFound, res.Error)
}

func TestConsumeWithoutReservations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := env.seedWarehouse(t, 0)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	res := env.services.Allocation.Consume(ctx, p.ID)

	assert.False(t, res.Success)
	assert.Equal(t, ErrNoReservedMaterials, res.Error)
}

// Two projects reserve against the same 100 units; the first to consume
// wins, the second is rejected atomically and keeps its reservation. The
// counter never goes negative.
func TestConsumeRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	wm := env.seedStock(t, w.ID, m.ID, 100)

	// 72 m² × 1.10 = 79.2 → 80 units each.
	a := env.seedProject(t, w.ID, 72, "corrugated-0.4")
	b := env.seedProject(t, w.ID, 72, "corrugated-0.4")

	engine := env.services.Allocation

	// Both reservations pass against the raw counter; this is the advisory
	// reservation model, resolved at consume time.
	require.True(t, engine.Reserve(ctx, a.ID).Success)
	require.True(t, engine.Reserve(ctx, b.ID).Success)
	assert.Equal(t, 100, env.stockQuantity(t, wm.ID))

	res := engine.Consume(ctx, a.ID)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 20, env.stockQuantity(t, wm.ID))

	res = engine.Consume(ctx, b.ID)
	assert.False(t, res.Success)
	assert.Equal(t, ErrInsufficientStock, res.Error)
	assert.Contains(t, res.Message, "corrugated-0.4")

	// B's reservation is intact, no partial decrement happened.
	rows := env.allocationRows(t, b.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.AllocationReserved, rows[0].Status)
	assert.Equal(t, 20, env.stockQuantity(t, wm.ID))
}

// A multi-line consume that fails on one line must leave every counter
// untouched.
func TestConsumeIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	main := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	screws := env.seedMaterial(t, entity.CategoryScrews, "roofing screws", 5)
	w := env.seedWarehouse(t, 0)
	wmMain := env.seedStock(t, w.ID, main.ID, 100)
	wmScrews := env.seedStock(t, w.ID, screws.ID, 100)

	p := env.seedProject(t, w.ID, 50, "corrugated-0.4") // main 55, screws 14
	engine := env.services.Allocation
	require.True(t, engine.Reserve(ctx, p.ID).Success)

	// Stock drains between reserve and consume.
	require.NoError(t, env.db.Model(&entity.WarehouseMaterial{}).
		Where("id = ?", wmScrews.ID).Update("quantity", 3).Error)

	res := engine.Consume(ctx, p.ID)

	assert.False(t, res.Success)
	assert.Equal(t, ErrInsufficientStock, res.Error)
	assert.Equal(t, 100, env.stockQuantity(t, wmMain.ID))
	assert.Equal(t, 3, env.stockQuantity(t, wmScrews.ID))
	for _, row := range env.allocationRows(t, p.ID) {
		assert.Equal(t, entity.AllocationReserved, row.Status)
	}
}

func TestReturnCancelsUnconsumedReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	wm := env.seedStock(t, w.ID, m.ID, 100)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	engine := env.services.Allocation
	require.True(t, engine.Reserve(ctx, p.ID).Success)

	res := engine.Return(ctx, p.ID, "project cancelled")
	require.True(t, res.Success)

	// Nothing was taken, nothing comes back.
	assert.Equal(t, 100, env.stockQuantity(t, wm.ID))
	rows := env.allocationRows(t, p.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.AllocationCancelled, rows[0].Status)
	assert.Nil(t, rows[0].ReturnedAt)
}

func TestReturnIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	wm := env.seedStock(t, w.ID, m.ID, 100)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	engine := env.services.Allocation
	require.True(t, engine.Reserve(ctx, p.ID).Success)
	require.True(t, engine.Consume(ctx, p.ID).Success)
	require.True(t, engine.Return(ctx, p.ID, "").Success)
	assert.Equal(t, 100, env.stockQuantity(t, wm.ID))

	// Second return finds nothing outstanding and must not double-credit.
	res := engine.Return(ctx, p.ID, "")
	require.True(t, res.Success)
	assert.Empty(t, res.Returned)
	assert.Equal(t, 100, env.stockQuantity(t, wm.ID))
}

// Terminal rows never transition again, whatever the engine is asked next.
func TestTerminalStatusesAreFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	env.seedStock(t, w.ID, m.ID, 100)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	engine := env.services.Allocation
	require.True(t, engine.Reserve(ctx, p.ID).Success)
	require.True(t, engine.Return(ctx, p.ID, "cancelled").Success)

	rows := env.allocationRows(t, p.ID)
	require.Len(t, rows, 1)
	require.Equal(t, entity.AllocationCancelled, rows[0].Status)

	res := engine.Consume(ctx, p.ID)
	assert.Equal(t, ErrNoReservedMaterials, res.Error)

	// A renewed reserve leaves the closed row untouched and creates no
	// duplicate for the pair.
	require.True(t, engine.Reserve(ctx, p.ID).Success)
	rows = env.allocationRows(t, p.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.AllocationCancelled, rows[0].Status)
}

func TestMaterialSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	main := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	screws := env.seedMaterial(t, entity.CategoryScrews, "roofing screws", 5)
	w := env.seedWarehouse(t, 0)
	env.seedStock(t, w.ID, main.ID, 100)
	env.seedStock(t, w.ID, screws.ID, 100)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	engine := env.services.Allocation
	require.True(t, engine.Reserve(ctx, p.ID).Success)

	summary, err := engine.MaterialSummary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalMaterials)
	assert.Equal(t, 2, summary.ReservedMaterials)
	assert.Zero(t, summary.ConsumedMaterials)
	require.Len(t, summary.Materials, 2)
	for _, line := range summary.Materials {
		assert.NotEmpty(t, line.MaterialName)
		assert.Positive(t, line.UnitCost)
	}
}

func TestMaterialSummaryAppliesPriceAdjustment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	w := env.seedWarehouse(t, 0)
	wm := env.seedStock(t, w.ID, m.ID, 100)
	require.NoError(t, env.db.Model(&entity.WarehouseMaterial{}).
		Where("id = ?", wm.ID).Update("price_adjustment", 1.5).Error)
	p := env.seedProject(t, w.ID, 50, "corrugated-0.4")

	engine := env.services.Allocation
	require.True(t, engine.Reserve(ctx, p.ID).Success)

	summary, err := engine.MaterialSummary(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, summary.Materials, 1)
	assert.InDelta(t, 11.5, summary.Materials[0].UnitCost, 1e-9)
	assert.InDelta(t, 11.5*55, summary.Materials[0].TotalCost, 1e-9)
}
