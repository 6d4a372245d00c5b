package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Justin322322/roofcal-server/internal/entity"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var p entity.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// SetMaterialsConsumed flips the consumption flag inside the caller's
// transaction so it commits with the stock mutation it reflects.
func (r *ProjectRepository) SetMaterialsConsumed(tx *gorm.DB, id string, consumed bool) error {
	now := time.Now()
	values := map[string]interface{}{
		"materials_consumed": consumed,
		"updated_at":         now,
	}
	if consumed {
		values["materials_consumed_at"] = now
	} else {
		values["materials_consumed_at"] = nil
	}
	return tx.Model(&entity.Project{}).Where("id = ?", id).Updates(values).Error
}
