package repository

import (
	"context"
	"tutor_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

// Upsert 覆盖写入，不做字段合并
func (r *LeaderboardRepository) Upsert(ctx context.Context, entry *model.LeaderboardEntry) error {
	entry.UpdatedAt = r.DB.NowFunc()
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		UpdateAll: true,
	}).Create(entry).Error
}

// ListTop 分数倒序，同分时最近更新者在前
func (r *LeaderboardRepository) ListTop(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.WithContext(ctx).
		Order("score DESC").
		Order("updated_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
