package repository

import (
	"context"
	"tutor_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *model.DocumentUpload) error {
	return r.DB.WithContext(ctx).Create(doc).Error
}

// ListByStudent 按创建时间倒序，limit <= 0 表示不限制
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.DocumentUpload, error) {
	var docs []model.DocumentUpload
	err := newestFirst(r.DB.WithContext(ctx).Where("student_id = ?", studentID), "created_at", limit).
		Find(&docs).Error
	return docs, err
}
