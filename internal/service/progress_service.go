package service

import (
	"context"
	"errors"
	"time"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"
	"tutor_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressService 根据学生的全部提问、测验与上传记录重算进度快照。
// 不保存任何中间状态，每次调用都从存储层重新读取并整体替换快照。
type ProgressService struct {
	Questions QuestionStore
	Attempts  QuizAttemptStore
	Documents DocumentStore
	Quizzes   QuizStore
	Progress  ProgressStore
}

func NewProgressService(
	questions QuestionStore,
	attempts QuizAttemptStore,
	documents DocumentStore,
	quizzes QuizStore,
	progress ProgressStore,
) *ProgressService {
	return &ProgressService{
		Questions: questions,
		Attempts:  attempts,
		Documents: documents,
		Quizzes:   quizzes,
		Progress:  progress,
	}
}

// RecomputeProgress 重算并保存学生进度。存储层不可用时返回 ErrStoreUnavailable。
func (s *ProgressService) RecomputeProgress(ctx context.Context, studentID string) (*model.Progress, error) {
	ctx, span := tracing.StartStudentSpan(ctx, "progress.recompute", studentID)

	start := time.Now()
	progress, err := s.recompute(ctx, studentID)
	monitoring.ObserveRecompute(time.Since(start), err)
	defer tracing.End(span, err)
	if err != nil {
		logger.Log.Error("Failed to recompute progress", zap.String("studentId", studentID), zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("progress.total_quizzes", progress.TotalQuizzes),
		attribute.Int("progress.total_questions", progress.TotalQuestions),
	)
	return progress, nil
}

func (s *ProgressService) recompute(ctx context.Context, studentID string) (*model.Progress, error) {
	var (
		questions []model.Question
		attempts  []model.QuizAttempt
		documents []model.DocumentUpload
	)

	// 三个查询互不依赖，并发执行
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.Questions.ListByStudent(gctx, studentID, 0)
		return err
	})
	g.Go(func() error {
		var err error
		attempts, err = s.Attempts.ListByStudent(gctx, studentID, 0)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = s.Documents.ListByStudent(gctx, studentID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, util.StoreError(err)
	}

	quizzes, err := s.resolveQuizzes(ctx, attempts)
	if err != nil {
		return nil, err
	}

	progress := &model.Progress{
		StudentID:         studentID,
		TotalQuestions:    len(questions),
		TotalQuizzes:      len(attempts),
		AverageScore:      averageScore(attempts),
		TotalUploads:      len(documents),
		WeakTopics:        datatypes.JSONSlice[model.WeakTopic](weakTopics(attempts, quizzes)),
		RecentActivity:    datatypes.JSONSlice[model.RecentActivity](recentActivity(questions, attempts)),
		ProgressBySubject: datatypes.JSONSlice[model.SubjectProgress](progressBySubject(attempts, quizzes)),
	}

	if err := s.Progress.Upsert(ctx, progress); err != nil {
		return nil, util.StoreError(err)
	}
	return progress, nil
}

// resolveQuizzes 查询每次作答对应的测验，同一次重算内按测验 ID 缓存。
// 测验已不存在时跳过该作答，不中断重算；其他查询错误视为存储不可用。
func (s *ProgressService) resolveQuizzes(ctx context.Context, attempts []model.QuizAttempt) (map[string]*model.Quiz, error) {
	quizzes := make(map[string]*model.Quiz)
	missing := make(map[string]bool)

	for _, a := range attempts {
		if _, ok := quizzes[a.QuizID]; ok || missing[a.QuizID] {
			continue
		}
		quiz, err := s.Quizzes.FindByID(ctx, a.QuizID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("Quiz referenced by attempt not found, skipping",
				zap.String("quizId", a.QuizID),
				zap.String("attemptId", a.ID),
			)
			missing[a.QuizID] = true
			continue
		}
		if err != nil {
			return nil, util.StoreError(err)
		}
		quizzes[a.QuizID] = quiz
	}
	return quizzes, nil
}
