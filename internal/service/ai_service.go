package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
	"tutor_backend/internal/config"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"

	"go.uber.org/zap"
)

// AIService OpenAI 兼容的 chat completions 客户端，负责回答问题与生成测验
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热更新时替换模型地址、密钥与超时
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: timeout}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// FallbackQuestions 模型输出无法解析时使用的占位题目
func FallbackQuestions() []model.QuizItem {
	return []model.QuizItem{{
		Question: "What is the main topic discussed in the uploaded materials?",
		Options: []string{
			"A general overview",
			"Specific technical details",
			"Historical context",
			"Future applications",
		},
		CorrectAnswer: 1,
		Explanation:   "The materials focus on specific technical details and concepts.",
	}}
}

func (s *AIService) GenerateAnswer(ctx context.Context, question, docContext string, cls model.Classification) (string, error) {
	answer, err := s.chat(ctx, buildAnswerPrompt(question, docContext, cls))
	if err != nil {
		return "", util.NewUpstreamError(util.ErrGenerationFailed.Code, util.ErrGenerationFailed.Message, err)
	}
	return answer, nil
}

// GenerateQuizQuestions 生成选择题。传输失败返回错误；
// 输出格式不正确时返回占位题目，不视为错误。
func (s *AIService) GenerateQuizQuestions(ctx context.Context, docContext string, cls model.Classification, count int) ([]model.QuizItem, error) {
	text, err := s.chat(ctx, buildQuizPrompt(docContext, cls, count))
	if err != nil {
		return nil, util.NewUpstreamError(util.ErrGenerationFailed.Code, util.ErrGenerationFailed.Message, err)
	}
	return ParseQuizQuestions(text), nil
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ParseQuizQuestions 取输出中第一个 '[' 到最后一个 ']' 之间的 JSON 数组。
// 解析失败、数组为空或任一题目结构不合法时返回占位题目。
func ParseQuizQuestions(text string) []model.QuizItem {
	match := jsonArrayPattern.FindString(text)
	if match == "" {
		logger.Log.Warn("Quiz generation output contains no JSON array")
		return FallbackQuestions()
	}

	var items []model.QuizItem
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		logger.Log.Warn("Failed to parse generated quiz questions", zap.Error(err))
		return FallbackQuestions()
	}
	if len(items) == 0 {
		return FallbackQuestions()
	}
	for i, item := range items {
		if !item.Valid() {
			logger.Log.Warn("Generated quiz question has invalid shape", zap.Int("index", i))
			return FallbackQuestions()
		}
	}
	return items
}

func buildAnswerPrompt(question, docContext string, cls model.Classification) string {
	var b strings.Builder
	b.WriteString("You are an AI tutor helping a student with their studies. ")
	if cls.Subject != nil {
		fmt.Fprintf(&b, "The subject is: %s. ", *cls.Subject)
	}
	if cls.Topic != nil {
		fmt.Fprintf(&b, "The topic is: %s. ", *cls.Topic)
	}
	if cls.Subtopic != nil {
		fmt.Fprintf(&b, "The subtopic is: %s. ", *cls.Subtopic)
	}
	fmt.Fprintf(&b, "\n\nContext from the student's uploaded materials:\n%s\n\n", docContext)
	fmt.Fprintf(&b, "Student's question: %s\n\n", question)
	b.WriteString("Please provide a clear, educational answer based on the context provided. ")
	b.WriteString("If the context doesn't contain enough information to answer the question, ")
	b.WriteString("say so and suggest what additional information might be needed. ")
	b.WriteString("Keep your answer helpful, accurate, and appropriate for a student.")
	return b.String()
}

func buildQuizPrompt(docContext string, cls model.Classification, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions based on this educational content. ", count)
	if cls.Subject != nil {
		fmt.Fprintf(&b, "Subject: %s. ", *cls.Subject)
	}
	if cls.Topic != nil {
		fmt.Fprintf(&b, "Topic: %s. ", *cls.Topic)
	}
	if cls.Subtopic != nil {
		fmt.Fprintf(&b, "Subtopic: %s. ", *cls.Subtopic)
	}
	fmt.Fprintf(&b, "\n\nContent:\n%s\n\n", docContext)
	b.WriteString("For each question, provide:\n")
	b.WriteString("1. A clear question\n")
	b.WriteString("2. Four answer options (A, B, C, D)\n")
	b.WriteString("3. The correct answer (0-3, where 0=A, 1=B, 2=C, 3=D)\n")
	b.WriteString("4. A brief explanation of why the answer is correct\n\n")
	b.WriteString("Format your response as a JSON array with this structure:\n")
	b.WriteString(`[{"question": "...", "options": ["A", "B", "C", "D"], "correct_answer": 0, "explanation": "..."}]`)
	return b.String()
}

func (s *AIService) chat(ctx context.Context, prompt string) (string, error) {
	s.mu.RLock()
	cfg, client := s.config, s.client
	s.mu.RUnlock()

	reqBody := ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []AIChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}
