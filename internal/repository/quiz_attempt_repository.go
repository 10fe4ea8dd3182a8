package repository

import (
	"context"
	"tutor_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

// ListByStudent 按完成时间倒序
func (r *QuizAttemptRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := newestFirst(r.DB.WithContext(ctx).Where("student_id = ?", studentID), "completed_at", limit).
		Find(&attempts).Error
	return attempts, err
}
