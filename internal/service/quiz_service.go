package service

import (
	"context"
	"errors"
	"strings"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"
	"tutor_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuizQuestionCount = 5
	defaultQuizTopic  = "Uploaded Materials"
)

type StartQuizResult struct {
	QuizID    string           `json:"quizId"`
	Questions []model.QuizItem `json:"questions"`
}

type SubmitQuizResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type QuizService struct {
	Documents   DocumentStore
	Quizzes     QuizStore
	Attempts    QuizAttemptStore
	Users       UserStore
	Generator   Generator
	Progress    ProgressRecomputer
	Leaderboard LeaderboardUpdater
}

func NewQuizService(
	documents DocumentStore,
	quizzes QuizStore,
	attempts QuizAttemptStore,
	users UserStore,
	generator Generator,
	progress ProgressRecomputer,
	leaderboard LeaderboardUpdater,
) *QuizService {
	return &QuizService{
		Documents:   documents,
		Quizzes:     quizzes,
		Attempts:    attempts,
		Users:       users,
		Generator:   generator,
		Progress:    progress,
		Leaderboard: leaderboard,
	}
}

// StartQuiz 基于上传资料生成 5 道选择题。topic 非空时优先使用匹配的资料，
// 没有匹配时使用全部资料。
func (s *QuizService) StartQuiz(ctx context.Context, studentID, topic string) (_ *StartQuizResult, err error) {
	ctx, span := tracing.StartStudentSpan(ctx, "quiz.start", studentID)
	defer func() { tracing.End(span, err) }()

	if studentID == "" {
		return nil, util.ErrMissingStudentID
	}

	docs, err := s.Documents.ListByStudent(ctx, studentID, 0)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if len(docs) == 0 {
		return nil, util.ErrNoDocuments
	}

	relevant := filterByTopic(docs, strings.TrimSpace(topic))
	docContext := buildDocumentContext(relevant)
	if docContext == "" {
		return nil, util.ErrNoTextContent
	}

	cls := relevant[0].Classification
	questions, err := s.Generator.GenerateQuizQuestions(ctx, docContext, cls, QuizQuestionCount)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		StudentID:      studentID,
		Title:          "Quiz on " + quizTitleTopic(topic, cls),
		Questions:      datatypes.JSONSlice[model.QuizItem](questions),
		Classification: cls,
	}
	if err := s.Quizzes.Create(ctx, quiz); err != nil {
		return nil, util.StoreError(err)
	}

	logger.Log.Info("Quiz created",
		zap.String("studentId", studentID),
		zap.String("quizId", quiz.ID),
		zap.Int("questions", len(questions)),
	)
	return &StartQuizResult{QuizID: quiz.ID, Questions: questions}, nil
}

// SubmitQuiz 批改并保存作答，随后重算进度；学生有用户记录时同步排行榜
func (s *QuizService) SubmitQuiz(ctx context.Context, studentID, quizID string, answers []int) (_ *SubmitQuizResult, err error) {
	ctx, span := tracing.StartStudentSpan(ctx, "quiz.submit", studentID)
	defer func() { tracing.End(span, err) }()

	if quizID == "" {
		return nil, util.ErrMissingQuizID
	}
	if studentID == "" {
		return nil, util.ErrMissingStudentID
	}
	if answers == nil {
		return nil, util.ErrMissingAnswers
	}

	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, util.StoreError(err)
	}
	if quiz.StudentID != studentID {
		return nil, util.ErrQuizAccessDenied
	}

	result, err := GradeQuiz(quiz, answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		QuizID:         quizID,
		StudentID:      studentID,
		Answers:        datatypes.JSONSlice[int](answers),
		Score:          result.Score,
		TotalQuestions: result.Total,
		CorrectAnswers: datatypes.JSONSlice[bool](result.CorrectAnswers),
		Feedback:       result.Feedback,
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		return nil, util.StoreError(err)
	}
	monitoring.QuizSubmissionCounter.Inc()

	progress, err := s.Progress.RecomputeProgress(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.updateLeaderboard(ctx, studentID, progress); err != nil {
		return nil, err
	}

	return &SubmitQuizResult{Score: result.Percentage, Feedback: result.Feedback}, nil
}

// updateLeaderboard 综合分 = 提问数 + 测验数
func (s *QuizService) updateLeaderboard(ctx context.Context, studentID string, progress *model.Progress) error {
	user, err := s.Users.FindByID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Debug("No user record, skipping leaderboard update", zap.String("studentId", studentID))
		return nil
	}
	if err != nil {
		return util.StoreError(err)
	}

	return s.Leaderboard.UpsertEntry(ctx,
		studentID,
		user.Name,
		progress.TotalQuestions+progress.TotalQuizzes,
		progress.TotalQuestions,
		progress.AverageScore,
	)
}

// filterByTopic 学科、主题、子主题任一包含 topic（忽略大小写）即视为相关
func filterByTopic(docs []model.DocumentUpload, topic string) []model.DocumentUpload {
	if topic == "" {
		return docs
	}
	needle := strings.ToLower(topic)
	matches := func(p *string) bool {
		return p != nil && strings.Contains(strings.ToLower(*p), needle)
	}

	var relevant []model.DocumentUpload
	for _, d := range docs {
		if matches(d.Topic) || matches(d.Subject) || matches(d.Subtopic) {
			relevant = append(relevant, d)
		}
	}
	if len(relevant) == 0 {
		return docs
	}
	return relevant
}

func quizTitleTopic(topic string, cls model.Classification) string {
	for _, candidate := range []string{strings.TrimSpace(topic), model.StringValue(cls.Topic), model.StringValue(cls.Subject)} {
		if candidate != "" {
			return candidate
		}
	}
	return defaultQuizTopic
}
