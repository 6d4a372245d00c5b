package entity

import (
	"time"
)

// Warehouse status
const (
	WarehouseStatusActive   = "ACTIVE"
	WarehouseStatusInactive = "INACTIVE"
)

// Warehouse holds stock. TotalCapacity is volumetric (m³); zero means the
// capacity was never surveyed and the restock planner stays silent for it.
type Warehouse struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	Name          string     `json:"name" gorm:"size:128;not null"`
	Address       string     `json:"address" gorm:"size:256"`
	TotalCapacity float64    `json:"total_capacity" gorm:"type:decimal(12,4);default:0"`
	Status        string     `json:"status" gorm:"size:16;not null;default:ACTIVE"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`

	Materials []WarehouseMaterial `json:"materials,omitempty" gorm:"foreignKey:WarehouseID"`
}

func (Warehouse) TableName() string {
	return "warehouses"
}

// WarehouseMaterial is the authoritative stock counter for one material in
// one warehouse. Quantity never goes negative; only the allocation engine's
// Consume/Return and the restock apply path mutate it.
type WarehouseMaterial struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	WarehouseID     string    `json:"warehouse_id" gorm:"size:36;not null;uniqueIndex:idx_warehouse_material"`
	MaterialID      string    `json:"material_id" gorm:"size:36;not null;uniqueIndex:idx_warehouse_material"`
	Quantity        int       `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	Active          bool      `json:"active" gorm:"not null;default:true"`
	PriceAdjustment float64   `json:"price_adjustment" gorm:"type:decimal(12,2);default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
	Material  *Material  `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (WarehouseMaterial) TableName() string {
	return "warehouse_materials"
}
