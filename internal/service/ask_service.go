package service

import (
	"context"
	"strings"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/tracing"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	maxSourceChunks      = 3
	sourceChunkMaxRunes  = 200
	topicScanLines       = 5
	subtopicScanWords    = 50
	minTopicLineRunes    = 11
	maxTopicLineRunes    = 99
	minSubtopicWordRunes = 4
)

var knownSubjects = []string{"mathematics", "physics", "chemistry", "biology", "history", "literature"}

type AskResult struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Subject  *string  `json:"subject,omitempty"`
	Topic    *string  `json:"topic,omitempty"`
	Subtopic *string  `json:"subtopic,omitempty"`
}

type AskService struct {
	Documents DocumentStore
	Questions QuestionStore
	Generator Generator
	Progress  ProgressRecomputer
}

func NewAskService(documents DocumentStore, questions QuestionStore, generator Generator, progress ProgressRecomputer) *AskService {
	return &AskService{
		Documents: documents,
		Questions: questions,
		Generator: generator,
		Progress:  progress,
	}
}

// Ask 以学生上传资料为上下文回答问题并保存问答记录。
// 任一校验失败都不会写入 Question。
func (s *AskService) Ask(ctx context.Context, studentID, question string) (_ *AskResult, err error) {
	ctx, span := tracing.StartStudentSpan(ctx, "ask.answer", studentID)
	defer func() { tracing.End(span, err) }()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, util.ErrMissingQuestion
	}
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

	docContext := buildDocumentContext(docs)
	if docContext == "" {
		return nil, util.ErrNoTextContent
	}

	// 以最近一份资料的分类为准
	cls := docs[0].Classification

	answer, err := s.Generator.GenerateAnswer(ctx, question, docContext, cls)
	if err != nil {
		return nil, err
	}
	cls = inferClassification(docContext, cls)

	record := &model.Question{
		StudentID:      studentID,
		QuestionText:   question,
		AnswerText:     strings.TrimSpace(answer),
		Classification: cls,
		SourceChunks:   sourceChunks(docs),
	}
	if err := s.Questions.Create(ctx, record); err != nil {
		return nil, util.StoreError(err)
	}

	if _, err := s.Progress.RecomputeProgress(ctx, studentID); err != nil {
		return nil, err
	}

	logger.Log.Debug("Question answered",
		zap.String("studentId", studentID),
		zap.String("questionId", record.ID),
	)

	sources := make([]string, 0, maxSourceChunks)
	for i := 0; i < len(docs) && i < maxSourceChunks; i++ {
		sources = append(sources, docs[i].FileName)
	}

	return &AskResult{
		Answer:   record.AnswerText,
		Sources:  sources,
		Subject:  cls.Subject,
		Topic:    cls.Topic,
		Subtopic: cls.Subtopic,
	}, nil
}

// buildDocumentContext 拼接非空的识别文本，全部为空时返回空串
func buildDocumentContext(docs []model.DocumentUpload) string {
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.ExtractedText) != "" {
			texts = append(texts, d.ExtractedText)
		}
	}
	joined := strings.Join(texts, "\n\n")
	if strings.TrimSpace(joined) == "" {
		return ""
	}
	return joined
}

func sourceChunks(docs []model.DocumentUpload) []model.SourceChunk {
	chunks := make([]model.SourceChunk, 0, maxSourceChunks)
	for i := 0; i < len(docs) && i < maxSourceChunks; i++ {
		d := docs[i]
		chunks = append(chunks, model.SourceChunk{
			Content:  truncateRunes(d.ExtractedText, sourceChunkMaxRunes) + "...",
			UploadID: d.ID,
			Subject:  d.Subject,
			Topic:    d.Topic,
			Subtopic: d.Subtopic,
		})
	}
	return chunks
}

// inferClassification 只补全缺失的字段，已有的分类保持不变
func inferClassification(text string, cls model.Classification) model.Classification {
	if cls.Subject == nil {
		cls.Subject = model.OptionalString(subjectFromText(text))
	}
	if cls.Topic == nil {
		cls.Topic = model.OptionalString(topicFromText(text))
	}
	if cls.Subtopic == nil {
		cls.Subtopic = model.OptionalString(subtopicFromText(text))
	}
	return cls
}

func subjectFromText(text string) string {
	lower := strings.ToLower(text)
	for _, subject := range knownSubjects {
		if strings.Contains(lower, subject) {
			return strings.ToUpper(subject[:1]) + subject[1:]
		}
	}
	return ""
}

// topicFromText 前 5 行中第一个长度在 11..99 之间的行
func topicFromText(text string) string {
	lines := strings.SplitN(text, "\n", topicScanLines+1)
	if len(lines) > topicScanLines {
		lines = lines[:topicScanLines]
	}
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if n >= minTopicLineRunes && n <= maxTopicLineRunes {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// subtopicFromText 前 50 个词中第一对长度都大于 3 的相邻词
func subtopicFromText(text string) string {
	words := strings.Split(text, " ")
	if len(words) > subtopicScanWords {
		words = words[:subtopicScanWords]
	}
	for i := 0; i+1 < len(words); i++ {
		if utf8.RuneCountInString(words[i]) >= minSubtopicWordRunes &&
			utf8.RuneCountInString(words[i+1]) >= minSubtopicWordRunes {
			return words[i] + " " + words[i+1]
		}
	}
	return ""
}
