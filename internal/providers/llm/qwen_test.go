package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQwenChat(t *testing.T) {
	var gotAuth string
	var gotReq qwenRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  你好，请先做个自我介绍。 "}},
			},
		})
	}))
	defer srv.Close()

	q, err := NewQwen("test-key", "qwen-plus")
	if err != nil {
		t.Fatalf("NewQwen: %v", err)
	}
	q.endpoint = srv.URL

	out, err := q.Chat(context.Background(), Request{
		Messages:    []Message{{Role: "user", Content: "开始面试"}},
		System:      "你是面试官",
		Temperature: 0.8,
		MaxTokens:   2000,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if out != "你好，请先做个自我介绍。" {
		t.Fatalf("unexpected content: %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("expected system message prepended, got %+v", gotReq.Messages)
	}
	if gotReq.Model != "qwen-plus" {
		t.Fatalf("model = %q", gotReq.Model)
	}
}

func TestQwenChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"throttled"}}`))
	}))
	defer srv.Close()

	q, _ := NewQwen("k", "")
	q.endpoint = srv.URL

	if _, err := q.Chat(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}}); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestNewQwenRequiresKey(t *testing.T) {
	if _, err := NewQwen("   ", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}
