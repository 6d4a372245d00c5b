package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Justin322322/roofcal-server/internal/entity"
	"github.com/Justin322322/roofcal-server/internal/repository"
)

// Shortage is one BOM line the warehouse cannot cover right now.
type Shortage struct {
	MaterialID   string `json:"material_id"`
	MaterialName string `json:"material_name"`
	Required     int    `json:"required"`
	Available    int    `json:"available"`
	Shortage     int    `json:"shortage"`
}

// AvailabilityReport is a point-in-time snapshot of the raw stock counters
// against a BOM. It does not account for other projects' outstanding
// reservations; the consume transaction is where contention is settled.
type AvailabilityReport struct {
	IsAvailable bool       `json:"is_available"`
	Shortages   []Shortage `json:"shortages"`
	WarehouseID string     `json:"warehouse_id"`
}

// SummaryLine is one allocation row prepared for display.
type SummaryLine struct {
	MaterialID   string     `json:"material_id"`
	MaterialName string     `json:"material_name"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"`
	Status       string     `json:"status"`
	UnitCost     float64    `json:"unit_cost"`
	TotalCost    float64    `json:"total_cost"`
	ReservedAt   *time.Time `json:"reserved_at,omitempty"`
	ConsumedAt   *time.Time `json:"consumed_at,omitempty"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// MaterialSummary aggregates a project's allocations by status.
type MaterialSummary struct {
	TotalMaterials     int           `json:"total_materials"`
	ReservedMaterials  int           `json:"reserved_materials"`
	ConsumedMaterials  int           `json:"consumed_materials"`
	ReturnedMaterials  int           `json:"returned_materials"`
	CancelledMaterials int           `json:"cancelled_materials"`
	Materials          []SummaryLine `json:"materials"`
}

// AllocationService is the reservation/consumption/return engine. Each
// operation applies one project's full material set as a single transaction;
// partial writes are a correctness violation, not a degraded mode.
type AllocationService struct {
	db          *gorm.DB
	projects    *repository.ProjectRepository
	stock       *repository.StockRepository
	allocations *repository.AllocationRepository
	catalog     *CatalogService
	calc        *RequirementService
	logger      *zap.Logger
}

func NewAllocationService(
	db *gorm.DB,
	projects *repository.ProjectRepository,
	stock *repository.StockRepository,
	allocations *repository.AllocationRepository,
	catalog *CatalogService,
	calc *RequirementService,
	logger *zap.Logger,
) *AllocationService {
	return &AllocationService{
		db:          db,
		projects:    projects,
		stock:       stock,
		allocations: allocations,
		catalog:     catalog,
		calc:        calc,
		logger:      logger,
	}
}

// BOMForProject computes the bill of materials against the cached catalog.
func (s *AllocationService) BOMForProject(ctx context.Context, projectID string) (*BOM, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &KindError{Kind: ErrProjectNotFound, Message: "project not found"}
		}
		return nil, err
	}
	catalog, err := s.catalog.ActiveMaterials(ctx)
	if err != nil {
		return nil, err
	}
	return s.calc.ComputeBOM(project, catalog), nil
}

// CheckAvailability compares a BOM against the project's warehouse counters.
// Untracked materials count as zero on hand.
func (s *AllocationService) CheckAvailability(ctx context.Context, project *entity.Project, bom *BOM) (*AvailabilityReport, error) {
	if project.WarehouseID == "" {
		return nil, &KindError{Kind: ErrNoWarehouse, Message: "project has no warehouse assigned"}
	}

	report := &AvailabilityReport{WarehouseID: project.WarehouseID}
	for _, line := range bom.Lines {
		available := 0
		wm, err := s.stock.FindByWarehouseAndMaterial(ctx, project.WarehouseID, line.MaterialID)
		if err == nil {
			available = wm.Quantity
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if available < line.Quantity {
			report.Shortages = append(report.Shortages, Shortage{
				MaterialID:   line.MaterialID,
				MaterialName: line.MaterialName,
				Required:     line.Quantity,
				Available:    available,
				Shortage:     line.Quantity - available,
			})
		}
	}
	report.IsAvailable = len(report.Shortages) == 0
	return report, nil
}

// AvailabilityForProject is the lookup + compute + check pipeline in one call.
func (s *AllocationService) AvailabilityForProject(ctx context.Context, projectID string) (*AvailabilityReport, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &KindError{Kind: ErrProjectNotFound, Message: "project not found"}
		}
		return nil, err
	}
	catalog, err := s.catalog.ActiveMaterials(ctx)
	if err != nil {
		return nil, err
	}
	bom := s.calc.ComputeBOM(project, catalog)
	return s.CheckAvailability(ctx, project, bom)
}

// Reserve records the project's BOM as RESERVED rows. No stock is taken;
// reservations are advisory until Consume. All-or-nothing: an availability
// shortage rejects the call before any row is written.
func (s *AllocationService) Reserve(ctx context.Context, projectID string) *OperationResult {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return s.toResult(err)
	}
	if project.MaterialsConsumed {
		return success("materials already consumed, reservation skipped")
	}
	if project.WarehouseID == "" {
		return failure(ErrNoWarehouse, "project has no warehouse assigned")
	}

	catalog, err := s.catalog.ActiveMaterials(ctx)
	if err != nil {
		return s.toResult(err)
	}
	bom := s.calc.ComputeBOM(project, catalog)
	if len(bom.Lines) == 0 {
		return success("no materials required by the specification")
	}

	report, err := s.CheckAvailability(ctx, project, bom)
	if err != nil {
		return s.toResult(err)
	}
	if !report.IsAvailable {
		return failure(ErrInsufficientMaterials, shortageMessage(report.Shortages))
	}

	reserved := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, line := range bom.Lines {
			wm, err := s.stock.FindOrCreate(tx, project.WarehouseID, line.MaterialID)
			if err != nil {
				return err
			}
			pm, err := s.allocations.FindByProjectAndStock(tx, project.ID, wm.ID)
			if err != nil {
				return err
			}
			switch {
			case pm == nil:
				pm = &entity.ProjectMaterial{
					ID:                  uuid.New().String(),
					ProjectID:           project.ID,
					WarehouseMaterialID: wm.ID,
					Quantity:            line.Quantity,
					Status:              entity.AllocationReserved,
					ReservedAt:          &now,
				}
				if err := s.allocations.Create(tx, pm); err != nil {
					return err
				}
			case pm.Status == entity.AllocationReserved:
				// Re-reservation refreshes the existing row, never duplicates.
				pm.Quantity = line.Quantity
				pm.ReservedAt = &now
				if err := s.allocations.Save(tx, pm); err != nil {
					return err
				}
			default:
				// CONSUMED or terminal rows are never reopened.
				s.logger.Warn("skipping reservation for closed allocation",
					zap.String("project_id", project.ID),
					zap.String("material_id", line.MaterialID),
					zap.String("status", pm.Status),
				)
				continue
			}
			reserved++
		}
		return nil
	})
	if err != nil {
		return s.toResult(err)
	}
	return success(fmt.Sprintf("reserved %d materials for project %s", reserved, project.Name))
}

// Consume takes the reserved quantities out of stock, one transaction per
// project. Each counter is re-checked and decremented in a single guarded
// statement, so two projects racing for the same units cannot both pass;
// the loser aborts whole with INSUFFICIENT_STOCK and keeps its reservations.
func (s *AllocationService) Consume(ctx context.Context, projectID string) *OperationResult {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return s.toResult(err)
	}

	var consumed []ConsumedLine
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.allocations.ListByProjectAndStatuses(tx, project.ID, entity.AllocationReserved)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return &KindError{Kind: ErrNoReservedMaterials, Message: "no reserved materials to consume"}
		}

		now := time.Now()
		for i := range rows {
			pm := &rows[i]
			ok, err := s.stock.Decrement(tx, pm.WarehouseMaterialID, pm.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				name, available := s.stockState(tx, pm)
				return &KindError{
					Kind: ErrInsufficientStock,
					Message: fmt.Sprintf("insufficient stock of %s: requires %d, %d available",
						name, pm.Quantity, available),
				}
			}

			pm.Status = entity.AllocationConsumed
			pm.ConsumedAt = &now
			if err := s.allocations.Save(tx, pm); err != nil {
				return err
			}

			remaining := 0
			var wm entity.WarehouseMaterial
			if err := tx.Where("id = ?", pm.WarehouseMaterialID).First(&wm).Error; err != nil {
				return err
			}
			remaining = wm.Quantity

			consumed = append(consumed, ConsumedLine{
				MaterialID:     wm.MaterialID,
				MaterialName:   materialName(pm),
				Quantity:       pm.Quantity,
				RemainingStock: remaining,
			})
		}

		return s.projects.SetMaterialsConsumed(tx, project.ID, true)
	})
	if err != nil {
		return s.toResult(err)
	}

	res := success(fmt.Sprintf("consumed %d materials for project %s", len(consumed), project.Name))
	res.Consumed = consumed
	return res
}

// Return closes out a project's outstanding allocations. Consumed stock goes
// back to the counter and the row becomes RETURNED; reservations that never
// took stock become CANCELLED with no counter mutation. Rows already closed
// are not selected, which makes the call idempotent.
func (s *AllocationService) Return(ctx context.Context, projectID, reason string) *OperationResult {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return s.toResult(err)
	}

	var returned []ReturnedLine
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.allocations.ListByProjectAndStatuses(tx, project.ID,
			entity.AllocationReserved, entity.AllocationConsumed)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		now := time.Now()
		for i := range rows {
			pm := &rows[i]
			if pm.Status == entity.AllocationConsumed {
				if err := s.stock.Increment(tx, pm.WarehouseMaterialID, pm.Quantity); err != nil {
					return err
				}
				pm.Status = entity.AllocationReturned
				pm.ReturnedAt = &now
			} else {
				pm.Status = entity.AllocationCancelled
			}
			if reason != "" {
				pm.Notes = reason
			}
			if err := s.allocations.Save(tx, pm); err != nil {
				return err
			}
			returned = append(returned, ReturnedLine{
				MaterialID:   materialID(pm),
				MaterialName: materialName(pm),
				Quantity:     pm.Quantity,
				Status:       pm.Status,
			})
		}

		return s.projects.SetMaterialsConsumed(tx, project.ID, false)
	})
	if err != nil {
		return s.toResult(err)
	}

	if len(returned) == 0 {
		return success("no outstanding materials to return")
	}
	res := success(fmt.Sprintf("returned %d materials for project %s", len(returned), project.Name))
	res.Returned = returned
	return res
}

// MaterialSummary returns the project's allocation rows grouped by status,
// with unit costs adjusted by the warehouse price adjustment.
func (s *AllocationService) MaterialSummary(ctx context.Context, projectID string) (*MaterialSummary, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &KindError{Kind: ErrProjectNotFound, Message: "project not found"}
		}
		return nil, err
	}

	rows, err := s.allocations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	summary := &MaterialSummary{TotalMaterials: len(rows)}
	for i := range rows {
		pm := &rows[i]
		switch pm.Status {
		case entity.AllocationReserved:
			summary.ReservedMaterials++
		case entity.AllocationConsumed:
			summary.ConsumedMaterials++
		case entity.AllocationReturned:
			summary.ReturnedMaterials++
		case entity.AllocationCancelled:
			summary.CancelledMaterials++
		}

		line := SummaryLine{
			MaterialID:   materialID(pm),
			MaterialName: materialName(pm),
			Quantity:     pm.Quantity,
			Status:       pm.Status,
			ReservedAt:   pm.ReservedAt,
			ConsumedAt:   pm.ConsumedAt,
			ReturnedAt:   pm.ReturnedAt,
			Notes:        pm.Notes,
		}
		if pm.WarehouseMaterial != nil && pm.WarehouseMaterial.Material != nil {
			m := pm.WarehouseMaterial.Material
			line.Category = m.Category
			unit := decimal.NewFromFloat(m.Price).
				Add(decimal.NewFromFloat(pm.WarehouseMaterial.PriceAdjustment))
			line.UnitCost = unit.InexactFloat64()
			line.TotalCost = unit.Mul(decimal.NewFromInt(int64(pm.Quantity))).InexactFloat64()
		}
		summary.Materials = append(summary.Materials, line)
	}
	return summary, nil
}

// stockState re-reads a counter to name it and report what was available
// when a guarded decrement refused.
func (s *AllocationService) stockState(tx *gorm.DB, pm *entity.ProjectMaterial) (name string, available int) {
	name = materialName(pm)
	var wm entity.WarehouseMaterial
	if err := tx.Where("id = ?", pm.WarehouseMaterialID).First(&wm).Error; err == nil {
		available = wm.Quantity
	}
	return name, available
}

// toResult folds any error into the uniform result shape. Typed engine
// errors keep their kind; anything else is an UNKNOWN_ERROR whose detail
// stays in the server log only.
func (s *AllocationService) toResult(err error) *OperationResult {
	var kerr *KindError
	if errors.As(err, &kerr) {
		return failure(kerr.Kind, kerr.Message)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return failure(ErrProjectNotFound, "project not found")
	}
	s.logger.Error("allocation operation failed", zap.Error(err))
	return failure(ErrUnknown, "internal error")
}

func shortageMessage(shortages []Shortage) string {
	first := shortages[0]
	msg := fmt.Sprintf("insufficient materials: %s requires %d, %d available",
		first.MaterialName, first.Required, first.Available)
	if len(shortages) > 1 {
		msg += fmt.Sprintf(" (and %d more shortages)", len(shortages)-1)
	}
	return msg
}

func materialName(pm *entity.ProjectMaterial) string {
	if pm.WarehouseMaterial != nil && pm.WarehouseMaterial.Material != nil {
		return pm.WarehouseMaterial.Material.Name
	}
	return pm.WarehouseMaterialID
}

func materialID(pm *entity.ProjectMaterial) string {
	if pm.WarehouseMaterial != nil {
		return pm.WarehouseMaterial.MaterialID
	}
	return ""
}
