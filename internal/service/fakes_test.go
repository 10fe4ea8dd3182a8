package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
	"tutor_backend/internal/model"

	"gorm.io/gorm"
)

var errStoreDown = errors.New("store down")

// clock 每次调用前进一秒，保证写入顺序可区分
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type memDocuments struct {
	mu      sync.Mutex
	clock   *clock
	docs    []model.DocumentUpload
	listErr error
}

func (s *memDocuments) Create(ctx context.Context, doc *model.DocumentUpload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = model.GenerateUUID()
	}
	doc.CreatedAt = s.clock.tick()
	s.docs = append(s.docs, *doc)
	return nil
}

func (s *memDocuments) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.DocumentUpload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.DocumentUpload
	for i := len(s.docs) - 1; i >= 0; i-- {
		if s.docs[i].StudentID == studentID {
			out = append(out, s.docs[i])
		}
	}
	return clip(out, limit), nil
}

type memQuestions struct {
	mu        sync.Mutex
	clock     *clock
	questions []model.Question
}

func (s *memQuestions) Create(ctx context.Context, q *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = model.GenerateUUID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.clock.tick()
	}
	s.questions = append(s.questions, *q)
	return nil
}

func (s *memQuestions) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Question
	for _, q := range s.questions {
		if q.StudentID == studentID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return clip(out, limit), nil
}

type memQuizzes struct {
	mu      sync.Mutex
	quizzes map[string]*model.Quiz
	lookups map[string]int
	findErr error
}

func newMemQuizzes() *memQuizzes {
	return &memQuizzes{quizzes: map[string]*model.Quiz{}, lookups: map[string]int{}}
}

func (s *memQuizzes) Create(ctx context.Context, quiz *model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID == "" {
		quiz.ID = model.GenerateUUID()
	}
	cp := *quiz
	s.quizzes[quiz.ID] = &cp
	return nil
}

func (s *memQuizzes) FindByID(ctx context.Context, id string) (*model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[id]++
	if s.findErr != nil {
		return nil, s.findErr
	}
	q, ok := s.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

type memAttempts struct {
	mu       sync.Mutex
	clock    *clock
	attempts []model.QuizAttempt
}

func (s *memAttempts) Create(ctx context.Context, a *model.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = model.GenerateUUID()
	}
	if a.CompletedAt.IsZero() {
		a.CompletedAt = s.clock.tick()
	}
	s.attempts = append(s.attempts, *a)
	return nil
}

func (s *memAttempts) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.QuizAttempt
	for _, a := range s.attempts {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return clip(out, limit), nil
}

type memProgress struct {
	mu      sync.Mutex
	clock   *clock
	records map[string]model.Progress
	upserts int
}

func (s *memProgress) Upsert(ctx context.Context, p *model.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = s.clock.tick()
	s.records[p.StudentID] = *p
	s.upserts++
	return nil
}

type memLeaderboard struct {
	mu      sync.Mutex
	clock   *clock
	entries map[string]model.LeaderboardEntry
	lists   int
}

func (s *memLeaderboard) Upsert(ctx context.Context, e *model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.UpdatedAt = s.clock.tick()
	s.entries[e.StudentID] = *e
	return nil
}

func (s *memLeaderboard) ListTop(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	out := make([]model.LeaderboardEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return clip(out, limit), nil
}

type memUsers map[string]*model.User

func (m memUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

// memCache 与 Redis 实现相同的代号语义：只有当前代号下的列表可读
type memCache struct {
	mu          sync.Mutex
	generation  int64
	lists       map[int64][]model.LeaderboardEntry
	invalidated int
}

func (c *memCache) Get(ctx context.Context) ([]model.LeaderboardEntry, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, ok := c.lists[c.generation]
	return entries, c.generation, ok, nil
}

func (c *memCache) Set(ctx context.Context, gen int64, entries []model.LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lists == nil {
		c.lists = map[int64][]model.LeaderboardEntry{}
	}
	c.lists[gen] = entries
	return nil
}

func (c *memCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidated++
	return nil
}

// current 当前代号下缓存的列表
func (c *memCache) current() []model.LeaderboardEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists[c.generation]
}

// stubGenerator 返回固定回答与题目，记录收到的上下文
type stubGenerator struct {
	answer      string
	quizOutput  []model.QuizItem
	err         error
	lastContext string
	lastCls     model.Classification
}

func (g *stubGenerator) GenerateAnswer(ctx context.Context, question, docContext string, cls model.Classification) (string, error) {
	g.lastContext, g.lastCls = docContext, cls
	return g.answer, g.err
}

func (g *stubGenerator) GenerateQuizQuestions(ctx context.Context, docContext string, cls model.Classification, count int) ([]model.QuizItem, error) {
	g.lastContext, g.lastCls = docContext, cls
	if g.err != nil {
		return nil, g.err
	}
	return g.quizOutput, nil
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// fixture 一套共享时钟的内存存储
type fixture struct {
	clock       *clock
	documents   *memDocuments
	questions   *memQuestions
	quizzes     *memQuizzes
	attempts    *memAttempts
	progress    *memProgress
	leaderboard *memLeaderboard
	users       memUsers
}

func newFixture() *fixture {
	c := newClock()
	return &fixture{
		clock:       c,
		documents:   &memDocuments{clock: c},
		questions:   &memQuestions{clock: c},
		quizzes:     newMemQuizzes(),
		attempts:    &memAttempts{clock: c},
		progress:    &memProgress{clock: c, records: map[string]model.Progress{}},
		leaderboard: &memLeaderboard{clock: c, entries: map[string]model.LeaderboardEntry{}},
		users:       memUsers{},
	}
}

func (f *fixture) progressService() *ProgressService {
	return NewProgressService(f.questions, f.attempts, f.documents, f.quizzes, f.progress)
}

func (f *fixture) addQuiz(id, studentID string, subject, topic, subtopic string, items int) *model.Quiz {
	questions := make([]model.QuizItem, items)
	for i := range questions {
		questions[i] = model.QuizItem{
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
		}
	}
	quiz := &model.Quiz{
		UUIDBase:  model.UUIDBase{ID: id},
		StudentID: studentID,
		Questions: questions,
		Classification: model.Classification{
			Subject:  model.OptionalString(subject),
			Topic:    model.OptionalString(topic),
			Subtopic: model.OptionalString(subtopic),
		},
	}
	f.quizzes.Create(context.Background(), quiz)
	return quiz
}

// addAttempt correct 为各题是否答对，score 取 true 的个数
func (f *fixture) addAttempt(studentID, quizID string, correct ...bool) {
	score := 0
	for _, ok := range correct {
		if ok {
			score++
		}
	}
	f.attempts.Create(context.Background(), &model.QuizAttempt{
		QuizID:         quizID,
		StudentID:      studentID,
		Answers:        make([]int, len(correct)),
		Score:          score,
		TotalQuestions: len(correct),
		CorrectAnswers: correct,
	})
}

func (f *fixture) addQuestion(studentID, text string) {
	f.questions.Create(context.Background(), &model.Question{StudentID: studentID, QuestionText: text})
}

func (f *fixture) addDocument(studentID, name, text string, cls model.Classification) {
	f.documents.Create(context.Background(), &model.DocumentUpload{
		StudentID:      studentID,
		FileName:       name,
		MimeType:       "application/pdf",
		ExtractedText:  text,
		Classification: cls,
	})
}
