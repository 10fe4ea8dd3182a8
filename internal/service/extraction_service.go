package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"tutor_backend/internal/config"
	"tutor_backend/internal/util"
)

var ErrEmptyExtraction = errors.New("no text content found in document")

// HTTPExtractor 调用外部文字识别服务，请求体为 base64 内容与 MIME 类型
type HTTPExtractor struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

type extractRequest struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (e *HTTPExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	payload, err := json.Marshal(extractRequest{
		Content:  base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.APIKey)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result extractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", fmt.Errorf("extraction API error: %s", result.Error)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrEmptyExtraction
	}
	return text, nil
}

// PlainTextExtractor 未配置识别服务时使用，只能读取 text/* 文件
type PlainTextExtractor struct{}

func (PlainTextExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if !strings.HasPrefix(mimeType, util.MimeText) {
		return "", fmt.Errorf("no extraction endpoint configured for %s", mimeType)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmptyExtraction
	}
	return text, nil
}

func NewExtractor(cfg config.ExtractionConfig, timeout time.Duration) Extractor {
	if cfg.Endpoint == "" {
		return PlainTextExtractor{}
	}
	return &HTTPExtractor{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
		Client:   &http.Client{Timeout: timeout},
	}
}
