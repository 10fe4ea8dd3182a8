package repository

import (
	"context"
	"tutor_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 以 student_id 为键整体替换，updated_at 由存储层写入
func (r *ProgressRepository) Upsert(ctx context.Context, progress *model.Progress) error {
	progress.UpdatedAt = r.DB.NowFunc()
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		UpdateAll: true,
	}).Create(progress).Error
}
