package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

// OpenAIService talks to an OpenAI-compatible API: chat completions (one-shot
// and streaming), Whisper transcription and image generation.
type OpenAIService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIService(apiKey, baseURL string) *OpenAIService {
	return &OpenAIService{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []ContentPart
}

// ContentPart is one element of a multimodal user message.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete performs a one-shot chat completion. A context-length failure is
// returned as domain.ErrContextTooLong so callers can trim and retry.
func (s *OpenAIService) Complete(ctx context.Context, model string, messages []ChatMessage) (string, Usage, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: config.CompletionTemperature,
		MaxTokens:   config.CompletionMaxTokens,
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := s.post(ctx, "/chat/completions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", Usage{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", Usage{}, classifyError(resp.StatusCode, body)
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage Usage `json:"usage"`
	}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", Usage{}, fmt.Errorf("parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("completion returned no choices")
	}

	return chatResp.Choices[0].Message.Content, chatResp.Usage, nil
}

// CompleteStream performs a streaming chat completion, invoking onDelta with
// each content fragment as it arrives, and returns the full answer.
// A context-length failure surfaces before any delta is delivered.
func (s *OpenAIService) CompleteStream(ctx context.Context, model string, messages []ChatMessage, onDelta func(content string)) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: config.CompletionTemperature,
		MaxTokens:   config.CompletionMaxTokens,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := s.post(ctx, "/chat/completions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", classifyError(resp.StatusCode, body)
	}

	var answer strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}

		answer.WriteString(chunk.Choices[0].Delta.Content)
		if onDelta != nil {
			onDelta(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}

	return answer.String(), nil
}

// Transcribe sends voice audio to Whisper and returns the recognized text.
func (s *OpenAIService) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := w.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	resp, err := s.post(ctx, "/audio/transcriptions", w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyError(resp.StatusCode, body)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return result.Text, nil
}

// GenerateImages creates n images for a prompt and returns their URLs.
// A moderation rejection is returned as domain.ErrContentRejected.
func (s *OpenAIService) GenerateImages(ctx context.Context, prompt string, n int, size string) ([]string, error) {
	payload, err := json.Marshal(map[string]any{
		"prompt": prompt,
		"n":      n,
		"size":   size,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := s.post(ctx, "/images/generations", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyError(resp.StatusCode, body)
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	urls := make([]string, 0, len(result.Data))
	for _, item := range result.Data {
		urls = append(urls, item.URL)
	}
	return urls, nil
}

func (s *OpenAIService) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request: %w", err)
	}
	return resp, nil
}

// classifyError maps API failures onto the domain error taxonomy.
func classifyError(status int, body []byte) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)
	msg := ae.Error.Message

	switch {
	case ae.Error.Code == "context_length_exceeded",
		strings.Contains(msg, "maximum context length"):
		return domain.ErrContextTooLong
	case strings.HasPrefix(msg, "Your request was rejected as a result of our safety system"):
		return domain.ErrContentRejected
	case msg != "":
		return fmt.Errorf("api error (status %d): %s", status, msg)
	default:
		return fmt.Errorf("api error (status %d)", status)
	}
}
