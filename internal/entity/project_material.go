package entity

import (
	"time"
)

// ProjectMaterial statuses. Transitions are monotonic:
// RESERVED → CONSUMED → RETURNED, or RESERVED → CANCELLED.
// RETURNED and CANCELLED are terminal.
const (
	AllocationReserved  = "RESERVED"
	AllocationConsumed  = "CONSUMED"
	AllocationReturned  = "RETURNED"
	AllocationCancelled = "CANCELLED"
)

// ProjectMaterial links a project to one warehouse stock counter. Rows are
// never deleted — they are the allocation audit trail. At most one row per
// (project, warehouse material) pair.
type ProjectMaterial struct {
	ID                  string     `json:"id" gorm:"primaryKey;size:36"`
	ProjectID           string     `json:"project_id" gorm:"size:36;not null;uniqueIndex:idx_project_wm"`
	WarehouseMaterialID string     `json:"warehouse_material_id" gorm:"size:36;not null;uniqueIndex:idx_project_wm"`
	Quantity            int        `json:"quantity" gorm:"not null"`
	Status              string     `json:"status" gorm:"size:16;not null;default:RESERVED;index"`
	ReservedAt          *time.Time `json:"reserved_at"`
	ConsumedAt          *time.Time `json:"consumed_at"`
	ReturnedAt          *time.Time `json:"returned_at"`
	Notes               string     `json:"notes" gorm:"type:text"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Project           *Project           `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	WarehouseMaterial *WarehouseMaterial `json:"warehouse_material,omitempty" gorm:"foreignKey:WarehouseMaterialID"`
}

func (ProjectMaterial) TableName() string {
	return "project_materials"
}

// Terminal reports whether the allocation reached a final state.
func (pm *ProjectMaterial) Terminal() bool {
	return pm.Status == AllocationReturned || pm.Status == AllocationCancelled
}
