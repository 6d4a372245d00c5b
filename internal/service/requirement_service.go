package service

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Justin322322/roofcal-server/internal/entity"
)

// Quantity factors for the bill of materials.
const (
	// Cutting and installation loss on area-based materials.
	areaWasteFactor = 1.10
	// Loss on length-based materials (gutters, ridges).
	lengthWasteFactor = 1.05
	// Fastener packs per square meter of roof, applied before waste.
	screwDensityPerSqm = 0.25
)

// BOMLine is one required material with its cost.
type BOMLine struct {
	MaterialID   string  `json:"material_id"`
	Category     string  `json:"category"`
	MaterialName string  `json:"material_name"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unit_price"`
	TotalCost    float64 `json:"total_cost"`
}

// BOM is the computed bill of materials for one project specification.
type BOM struct {
	Lines     []BOMLine `json:"line_items"`
	TotalCost float64   `json:"total_cost"`
}

// RequirementService derives a BOM from a project specification and the
// material catalog. Pure: no stores are touched, the same inputs always
// produce the same bill.
type RequirementService struct {
	logger *zap.Logger
}

func NewRequirementService(logger *zap.Logger) *RequirementService {
	return &RequirementService{logger: logger}
}

// ComputeBOM walks the seven material roles and prices each matched line.
// A role with an empty specification or no catalog match is omitted, not an
// error; the availability check downstream decides what a missing line means.
func (s *RequirementService) ComputeBOM(project *entity.Project, catalog []entity.Material) *BOM {
	bom := &BOM{}
	total := decimal.Zero

	for _, category := range entity.Categories {
		variant, quantity := s.roleRequirement(project, category)
		if quantity <= 0 {
			continue
		}
		material := matchCatalog(catalog, category, variant)
		if material == nil {
			s.logger.Debug("no catalog match for role, line omitted",
				zap.String("project_id", project.ID),
				zap.String("category", category),
				zap.String("variant", variant),
			)
			continue
		}

		price := decimal.NewFromFloat(material.Price)
		lineTotal := price.Mul(decimal.NewFromInt(int64(quantity)))
		total = total.Add(lineTotal)

		bom.Lines = append(bom.Lines, BOMLine{
			MaterialID:   material.ID,
			Category:     category,
			MaterialName: material.Name,
			Quantity:     quantity,
			Unit:         material.Unit,
			UnitPrice:    material.Price,
			TotalCost:    lineTotal.InexactFloat64(),
		})
	}

	bom.TotalCost = total.InexactFloat64()
	return bom
}

// roleRequirement returns the variant string used to match the catalog and
// the required quantity for one role. Quantities are rounded up to whole
// units before pricing; a zero quantity drops the line.
func (s *RequirementService) roleRequirement(p *entity.Project, category string) (variant string, quantity int) {
	switch category {
	case entity.CategoryMainMaterial:
		if p.RoofArea <= 0 || p.MaterialType == "" {
			return "", 0
		}
		return p.MaterialType, ceil(p.RoofArea * areaWasteFactor)
	case entity.CategoryGutter:
		if p.GutterLength <= 0 {
			return "", 0
		}
		return p.GutterType, ceil(p.GutterLength * lengthWasteFactor)
	case entity.CategoryRidge:
		if p.RidgeLength <= 0 {
			return "", 0
		}
		return p.RidgeType, ceil(p.RidgeLength * lengthWasteFactor)
	case entity.CategoryScrews:
		if p.RoofArea <= 0 {
			return "", 0
		}
		return "", ceil(p.RoofArea * screwDensityPerSqm * areaWasteFactor)
	case entity.CategoryInsulation:
		if p.RoofArea <= 0 || p.Insulation == "" {
			return "", 0
		}
		return p.Insulation, ceil(p.RoofArea * areaWasteFactor)
	case entity.CategoryVentilation:
		// Requested piece count verbatim, no waste.
		return "", p.VentilationPieces
	case entity.CategoryLabor:
		// One unit; the price is a rate, never scaled by area.
		return "", 1
	}
	return "", 0
}

// matchCatalog picks the active catalog entry for a role. With a variant it
// takes the first name containing it case-insensitively; without one the
// first active entry of the category wins.
func matchCatalog(catalog []entity.Material, category, variant string) *entity.Material {
	needle := strings.ToLower(variant)
	for i := range catalog {
		m := &catalog[i]
		if m.Category != category || !m.Active {
			continue
		}
		if needle == "" || strings.Contains(strings.ToLower(m.Name), needle) {
			return m
		}
	}
	return nil
}

func ceil(v float64) int {
	return int(math.Ceil(v))
}
