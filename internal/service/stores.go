package service

import (
	"context"
	"io"
	"tutor_backend/internal/model"
)

// 以下接口由 internal/repository 中的 gorm 实现满足，测试中可替换为内存实现。
// 查询方法的 limit <= 0 表示不限制，结果均按时间倒序。

type DocumentStore interface {
	Create(ctx context.Context, doc *model.DocumentUpload) error
	ListByStudent(ctx context.Context, studentID string, limit int) ([]model.DocumentUpload, error)
}

type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	ListByStudent(ctx context.Context, studentID string, limit int) ([]model.Question, error)
}

type QuizStore interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	FindByID(ctx context.Context, id string) (*model.Quiz, error)
}

type QuizAttemptStore interface {
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	ListByStudent(ctx context.Context, studentID string, limit int) ([]model.QuizAttempt, error)
}

type ProgressStore interface {
	Upsert(ctx context.Context, progress *model.Progress) error
}

type LeaderboardStore interface {
	Upsert(ctx context.Context, entry *model.LeaderboardEntry) error
	ListTop(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// LeaderboardCache 缓存按顺序排好的前 100 名（不含名次）。
// Get 返回当前代号，Set 只写入该代号；Invalidate 之后旧代号的写入不再可见。
type LeaderboardCache interface {
	Get(ctx context.Context) (entries []model.LeaderboardEntry, generation int64, hit bool, err error)
	Set(ctx context.Context, generation int64, entries []model.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// Generator 生成式模型：回答问题与生成测验题
type Generator interface {
	GenerateAnswer(ctx context.Context, question, docContext string, cls model.Classification) (string, error)
	GenerateQuizQuestions(ctx context.Context, docContext string, cls model.Classification, count int) ([]model.QuizItem, error)
}

// Extractor 文档文字识别
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// FileStore 对象存储，返回可访问的文件地址
type FileStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type ProgressRecomputer interface {
	RecomputeProgress(ctx context.Context, studentID string) (*model.Progress, error)
}

type LeaderboardUpdater interface {
	UpsertEntry(ctx context.Context, studentID, studentName string, score, totalQuestions int, averageScore float64) error
}
