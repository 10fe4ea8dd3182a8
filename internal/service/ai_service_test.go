package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"tutor_backend/internal/config"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
)

func TestParseQuizQuestions(t *testing.T) {
	valid := `[{"question":"2+2?","options":["1","2","3","4"],"correct_answer":3,"explanation":"basic"}]`

	tests := []struct {
		name     string
		text     string
		fallback bool
	}{
		{"bare array", valid, false},
		{"wrapped in prose", "Here you go:\n```json\n" + valid + "\n```\nGood luck!", false},
		{"no array", "I cannot help with that.", true},
		{"broken json", `[{"question": "x",]`, true},
		{"empty array", "[]", true},
		{"three options", `[{"question":"q","options":["a","b","c"],"correct_answer":0}]`, true},
		{"answer out of range", `[{"question":"q","options":["a","b","c","d"],"correct_answer":4}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuizQuestions(tt.text)
			isFallback := len(got) == 1 && got[0].Question == FallbackQuestions()[0].Question
			if isFallback != tt.fallback {
				t.Fatalf("fallback = %v, want %v (got %+v)", isFallback, tt.fallback, got)
			}
		})
	}
}

func TestFallbackQuestionIsValid(t *testing.T) {
	q := FallbackQuestions()
	if len(q) != 1 || !q[0].Valid() || q[0].CorrectAnswer != 1 {
		t.Fatalf("unexpected fallback %+v", q)
	}
}

func newChatServer(t *testing.T, status int, content string) (*httptest.Server, *ChatCompletionRequest) {
	t.Helper()
	var received ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func TestGenerateAnswer(t *testing.T) {
	srv, received := newChatServer(t, http.StatusOK, "Energy is conserved.")
	svc := NewAIService(config.AIConfig{BaseURL: srv.URL + "/v1/", APIKey: "test-key", Model: "tutor-model"})

	cls := model.Classification{Subject: model.OptionalString("Physics")}
	got, err := svc.GenerateAnswer(context.Background(), "What is energy?", "chapter text", cls)
	if err != nil {
		t.Fatalf("generate answer: %v", err)
	}
	if got != "Energy is conserved." {
		t.Fatalf("unexpected answer %q", got)
	}
	if received.Model != "tutor-model" || len(received.Messages) != 1 {
		t.Fatalf("unexpected request %+v", received)
	}
	prompt := received.Messages[0].Content
	for _, want := range []string{"The subject is: Physics.", "chapter text", "Student's question: What is energy?"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerateQuizQuestionsFallsBackOnBadOutput(t *testing.T) {
	srv, _ := newChatServer(t, http.StatusOK, "no json here")
	svc := NewAIService(config.AIConfig{BaseURL: srv.URL + "/v1", APIKey: "test-key"})

	got, err := svc.GenerateQuizQuestions(context.Background(), "text", model.Classification{}, 5)
	if err != nil {
		t.Fatalf("bad model output should not be an error: %v", err)
	}
	if len(got) != 1 || got[0].Question != FallbackQuestions()[0].Question {
		t.Fatalf("expected fallback questions, got %+v", got)
	}
}

func TestGenerateAnswerUpstreamFailure(t *testing.T) {
	srv, _ := newChatServer(t, http.StatusInternalServerError, "")
	svc := NewAIService(config.AIConfig{BaseURL: srv.URL + "/v1", APIKey: "test-key"})

	_, err := svc.GenerateAnswer(context.Background(), "q", "ctx", model.Classification{})
	if !errors.Is(err, util.ErrGenerationFailed) {
		t.Fatalf("expected generation failure, got %v", err)
	}
}

func TestHTTPExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.MimeType != "image/png" || req.Content != "aGk=" {
			json.NewEncoder(w).Encode(extractResponse{Error: "unexpected payload"})
			return
		}
		json.NewEncoder(w).Encode(extractResponse{Text: " recognised text "})
	}))
	defer srv.Close()

	e := &HTTPExtractor{Endpoint: srv.URL, Client: srv.Client()}
	got, err := e.ExtractText(context.Background(), []byte("hi"), "image/png")
	if err != nil || got != "recognised text" {
		t.Fatalf("unexpected extraction %q, %v", got, err)
	}
	if _, err := e.ExtractText(context.Background(), []byte("other"), "image/png"); err == nil {
		t.Fatal("expected service error to be returned")
	}
}
