package entity

import (
	"time"
)

// Project workflow statuses. The workflow service owns the transition rules;
// the allocation engine only reacts to them.
const (
	ProjectStatusPending    = "PENDING"
	ProjectStatusApproved   = "APPROVED"
	ProjectStatusInProgress = "IN_PROGRESS"
	ProjectStatusCompleted  = "COMPLETED"
	ProjectStatusRejected   = "REJECTED"
	ProjectStatusCancelled  = "CANCELLED"
	ProjectStatusArchived   = "ARCHIVED"
)

// Project carries the roof specification the requirement calculator reads.
// The engine writes only MaterialsConsumed and its timestamp.
type Project struct {
	ID                  string     `json:"id" gorm:"primaryKey;size:36"`
	Name                string     `json:"name" gorm:"size:128;not null"`
	Status              string     `json:"status" gorm:"size:16;not null;default:PENDING"`
	RoofArea            float64    `json:"roof_area" gorm:"type:decimal(10,2)"`
	MaterialType        string     `json:"material_type" gorm:"size:64"`
	GutterType          string     `json:"gutter_type" gorm:"size:64"`
	GutterLength        float64    `json:"gutter_length" gorm:"type:decimal(10,2)"`
	RidgeType           string     `json:"ridge_type" gorm:"size:64"`
	RidgeLength         float64    `json:"ridge_length" gorm:"type:decimal(10,2)"`
	Insulation          string     `json:"insulation" gorm:"size:64"`
	VentilationPieces   int        `json:"ventilation_pieces"`
	WarehouseID         string     `json:"warehouse_id" gorm:"size:36;index"`
	MaterialsConsumed   bool       `json:"materials_consumed" gorm:"not null;default:false"`
	MaterialsConsumedAt *time.Time `json:"materials_consumed_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Warehouse *Warehouse        `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
	Materials []ProjectMaterial `json:"materials,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}
