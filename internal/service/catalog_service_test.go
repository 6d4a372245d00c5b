package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Justin322322/roofcal-server/internal/entity"
)

func TestActiveMaterialsWithoutCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	inactive := env.seedMaterial(t, entity.CategoryGutter, "gutter-125", 8)
	require.NoError(t, env.db.Model(&entity.Material{}).
		Where("id = ?", inactive.ID).Update("active", false).Error)

	materials, err := env.services.Catalog.ActiveMaterials(ctx)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "corrugated-0.4", materials[0].Name)
}

func TestCatalogCreateAssignsID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := &entity.Material{
		Category: entity.CategoryScrews,
		Name:     "roofing screws",
		Price:    4.25,
		Unit:     "pcs",
		Active:   true,
	}
	require.NoError(t, env.services.Catalog.Create(ctx, m))
	assert.NotEmpty(t, m.ID)

	materials, err := env.services.Catalog.ActiveMaterials(ctx)
	require.NoError(t, err)
	assert.Len(t, materials, 1)
}

func TestCatalogUpdateChangesPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.seedMaterial(t, entity.CategoryMainMaterial, "corrugated-0.4", 10)
	m.Price = 12.5
	require.NoError(t, env.services.Catalog.Update(ctx, m))

	materials, err := env.services.Catalog.ActiveMaterials(ctx)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.InDelta(t, 12.5, materials[0].Price, 1e-9)
}
