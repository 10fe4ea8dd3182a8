package repository

import (
	"context"
	"tutor_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := newestFirst(r.DB.WithContext(ctx).Where("student_id = ?", studentID), "created_at", limit).
		Find(&questions).Error
	return questions, err
}
