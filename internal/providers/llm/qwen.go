package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	qwenEndpoint     = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	qwenDefaultModel = "qwen-max"
)

// Qwen talks to Alibaba DashScope through its OpenAI-compatible endpoint.
type Qwen struct {
	apiKey    string
	modelName string
	endpoint  string
	client    *http.Client
}

func NewQwen(apiKey, modelName string) (*Qwen, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("dashscope api key is required")
	}
	if modelName == "" {
		modelName = qwenDefaultModel
	}
	return &Qwen{
		apiKey:    apiKey,
		modelName: modelName,
		endpoint:  qwenEndpoint,
		client:    &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (q *Qwen) Close() error { return nil }

type qwenRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type qwenResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

func (q *Qwen) Chat(ctx context.Context, req Request) (string, error) {
	msgs := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, req.Messages...)

	body := qwenRequest{
		Model:       q.modelName,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal qwen request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, q.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create qwen request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+q.apiKey)

	resp, err := q.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call qwen api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read qwen response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("qwen api status %d: %s", resp.StatusCode, string(data))
	}

	var out qwenResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("unmarshal qwen response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("qwen api error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("qwen api returned no choices")
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("qwen api returned empty content")
	}
	return content, nil
}
