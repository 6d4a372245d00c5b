package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Justin322322/roofcal-server/internal/entity"
	"github.com/Justin322322/roofcal-server/internal/repository"
)

const (
	// Projected stock below this raises a warning.
	lowStockThreshold = 10
	// Demand weighting: twice the outstanding reservations plus average
	// usage, uplifted 20%.
	demandReserveFactor = 2.0
	demandUplift        = 0.2
	// Suggested targets never drop below max(1.5×reserved, 10).
	floorReserveFactor = 1.5
	minSuggestedStock  = 10
	// Confidence scoring.
	baseConfidence        = 0.5
	criticalBonus         = 0.3
	demandBonus           = 0.2
	highUtilizationMalus  = 0.2
	highUtilizationCutoff = 0.9
)

// Restock priorities.
const (
	PriorityCritical = "critical"
	PriorityWarning  = "warning"
)

// ProjectUsage is one project's claim on a material.
type ProjectUsage struct {
	ProjectID string `json:"project_id"`
	Quantity  int    `json:"quantity"`
}

// StockWarning is the planner's demand signal for one material.
type StockWarning struct {
	MaterialID          string         `json:"material_id"`
	MaterialName        string         `json:"material_name"`
	CurrentStock        int            `json:"current_stock"`
	ReservedForProjects int            `json:"reserved_for_projects"`
	ProjectedStock      int            `json:"projected_stock"`
	CriticalLevel       bool           `json:"critical_level"`
	ProjectsUsing       []ProjectUsage `json:"projects_using"`
}

// StockSuggestion is a capacity-clamped absolute restock target.
type StockSuggestion struct {
	MaterialID     string  `json:"material_id"`
	MaterialName   string  `json:"material_name"`
	CurrentStock   int     `json:"current_stock"`
	SuggestedStock int     `json:"suggested_stock"`
	StockToAdd     int     `json:"stock_to_add"`
	Priority       string  `json:"priority"`
	Confidence     float64 `json:"confidence"`
}

// RestockService computes low-stock warnings and capacity-aware restock
// suggestions. Advisory only: it never sits on the project transition path,
// and an unsurveyed warehouse yields no suggestions rather than an error.
type RestockService struct {
	db          *gorm.DB
	warehouses  *repository.WarehouseRepository
	stock       *repository.StockRepository
	materials   *repository.MaterialRepository
	allocations *repository.AllocationRepository
	logger      *zap.Logger
}

func NewRestockService(
	db *gorm.DB,
	warehouses *repository.WarehouseRepository,
	stock *repository.StockRepository,
	materials *repository.MaterialRepository,
	allocations *repository.AllocationRepository,
	logger *zap.Logger,
) *RestockService {
	return &RestockService{
		db:          db,
		warehouses:  warehouses,
		stock:       stock,
		materials:   materials,
		allocations: allocations,
		logger:      logger,
	}
}

// StockWarnings derives the planner's input from warehouse contents:
// projected stock is what remains after every outstanding reservation is
// honored.
func (s *RestockService) StockWarnings(ctx context.Context, warehouseID string) ([]StockWarning, error) {
	items, err := s.stock.ListActiveByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	var warnings []StockWarning
	for i := range items {
		wm := &items[i]
		reserved, usages, err := s.allocations.OutstandingByStock(ctx, wm.ID)
		if err != nil {
			return nil, err
		}
		projected := wm.Quantity - reserved
		if projected >= lowStockThreshold {
			continue
		}

		w := StockWarning{
			MaterialID:          wm.MaterialID,
			CurrentStock:        wm.Quantity,
			ReservedForProjects: reserved,
			ProjectedStock:      projected,
			CriticalLevel:       projected < 0 || wm.Quantity == 0,
		}
		if wm.Material != nil {
			w.MaterialName = wm.Material.Name
		}
		for _, u := range usages {
			w.ProjectsUsing = append(w.ProjectsUsing, ProjectUsage{
				ProjectID: u.ProjectID,
				Quantity:  u.Quantity,
			})
		}
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// SuggestRestock turns warnings into ranked absolute stock targets under the
// warehouse's volumetric capacity ceiling.
func (s *RestockService) SuggestRestock(ctx context.Context, warehouseID string, warnings []StockWarning) ([]StockSuggestion, error) {
	warehouse, err := s.warehouses.FindByID(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if warehouse.TotalCapacity <= 0 {
		// Capacity never surveyed; stay silent rather than guess.
		return nil, nil
	}

	items, err := s.stock.ListActiveByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	volumes := make(map[string]float64, len(items))
	usedCapacity := 0.0
	for i := range items {
		wm := &items[i]
		vol := entity.DefaultUnitVolume
		if wm.Material != nil {
			vol = wm.Material.Volume()
		}
		volumes[wm.MaterialID] = vol
		usedCapacity += float64(wm.Quantity) * vol
	}
	availableCapacity := math.Max(0, warehouse.TotalCapacity-usedCapacity)
	utilization := usedCapacity / warehouse.TotalCapacity

	var suggestions []StockSuggestion
	for _, w := range warnings {
		vol, ok := volumes[w.MaterialID]
		if !ok {
			vol = s.materialVolume(ctx, w.MaterialID)
		}

		avgUsage := 0.0
		if len(w.ProjectsUsing) > 0 {
			total := 0
			for _, u := range w.ProjectsUsing {
				total += u.Quantity
			}
			avgUsage = float64(total) / float64(len(w.ProjectsUsing))
		}

		base := float64(w.ReservedForProjects)*demandReserveFactor + avgUsage
		target := ceil(base + demandUplift*base)

		// Epsilon guards the division against float artifacts (5/0.2 is
		// 24.999... in float64, which must clamp to 25 units, not 24).
		if maxByCapacity := int(math.Floor(availableCapacity/vol + 1e-9)); target > maxByCapacity {
			target = maxByCapacity
		}
		if floor := maxInt(ceil(float64(w.ReservedForProjects)*floorReserveFactor), minSuggestedStock); target < floor {
			target = floor
		}

		stockToAdd := target - w.CurrentStock
		if stockToAdd <= 0 {
			continue
		}

		priority := PriorityWarning
		confidence := baseConfidence
		if w.CriticalLevel {
			priority = PriorityCritical
			confidence += criticalBonus
		}
		if len(w.ProjectsUsing) > 0 {
			confidence += demandBonus
		}
		if utilization > highUtilizationCutoff {
			confidence -= highUtilizationMalus
		}
		confidence = math.Max(0, math.Min(1, confidence))

		suggestions = append(suggestions, StockSuggestion{
			MaterialID:     w.MaterialID,
			MaterialName:   w.MaterialName,
			CurrentStock:   w.CurrentStock,
			SuggestedStock: target,
			StockToAdd:     stockToAdd,
			Priority:       priority,
			Confidence:     confidence,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority == PriorityCritical
		}
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions, nil
}

// ApplySuggestions commits suggested targets as absolute counter values,
// one transaction for the whole batch. Targets are set, not added.
func (s *RestockService) ApplySuggestions(ctx context.Context, warehouseID string, suggestions []StockSuggestion) error {
	if _, err := s.warehouses.FindByID(ctx, warehouseID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sug := range suggestions {
			wm, err := s.stock.FindOrCreate(tx, warehouseID, sug.MaterialID)
			if err != nil {
				return err
			}
			if err := s.stock.SetQuantity(tx, wm.ID, sug.SuggestedStock); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RestockService) materialVolume(ctx context.Context, materialID string) float64 {
	m, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		s.logger.Debug("material lookup for volume failed, using default",
			zap.String("material_id", materialID), zap.Error(err))
		return entity.DefaultUnitVolume
	}
	return m.Volume()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// suggestionReason is used by the export sheet.
func suggestionReason(s StockSuggestion) string {
	return fmt.Sprintf("stock %d, suggested %d (+%d)", s.CurrentStock, s.SuggestedStock, s.StockToAdd)
}
