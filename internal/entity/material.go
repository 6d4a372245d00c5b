package entity

import (
	"time"
)

// Material categories. Each maps to one role in a project's BOM.
const (
	CategoryMainMaterial = "main-material"
	CategoryGutter       = "gutter"
	CategoryRidge        = "ridge"
	CategoryScrews       = "screws"
	CategoryInsulation   = "insulation"
	CategoryVentilation  = "ventilation"
	CategoryLabor        = "labor"
)

// Categories lists every catalog category in BOM line order.
var Categories = []string{
	CategoryMainMaterial,
	CategoryGutter,
	CategoryRidge,
	CategoryScrews,
	CategoryInsulation,
	CategoryVentilation,
	CategoryLabor,
}

// Material is a priced catalog item. Immutable during a calculation;
// only the pricing endpoints mutate it.
type Material struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	Category   string     `json:"category" gorm:"size:32;not null;index"`
	Name       string     `json:"name" gorm:"size:128;not null"`
	Label      string     `json:"label" gorm:"size:128"`
	Price      float64    `json:"price" gorm:"type:decimal(12,2);not null"`
	Unit       string     `json:"unit" gorm:"size:16;not null;default:pcs"`
	Length     float64    `json:"length" gorm:"type:decimal(10,4)"`
	Width      float64    `json:"width" gorm:"type:decimal(10,4)"`
	Height     float64    `json:"height" gorm:"type:decimal(10,4)"`
	UnitVolume float64    `json:"unit_volume" gorm:"type:decimal(10,4)"`
	Active     bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at" gorm:"index"`
}

func (Material) TableName() string {
	return "materials"
}

// Volume returns the storage volume of one unit: the explicit unit volume
// when set, else length×width×height, else a small fallback so capacity
// math never divides by zero.
func (m *Material) Volume() float64 {
	if m.UnitVolume > 0 {
		return m.UnitVolume
	}
	if m.Length > 0 && m.Width > 0 && m.Height > 0 {
		return m.Length * m.Width * m.Height
	}
	return DefaultUnitVolume
}

// DefaultUnitVolume is assumed for materials without dimension data.
const DefaultUnitVolume = 0.1
