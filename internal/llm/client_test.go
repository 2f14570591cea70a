package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestServer returns an httptest server that answers chat-completion
// requests with the given content, plus the request body it captured.
func newTestServer(t *testing.T, content string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
	t.Cleanup(ts.Close)
	return ts, &captured
}

func TestGenerate(t *testing.T) {
	ts, captured := newTestServer(t, "  friendship, work-stress, creativity\n")

	c := NewClient(ts.URL, "test-key", "llama3.1:latest")
	got, err := c.Generate(context.Background(), "extract themes", "you identify themes")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "friendship, work-stress, creativity" {
		t.Errorf("Generate = %q, want trimmed content", got)
	}

	req := *captured
	if req["model"] != "llama3.1:latest" {
		t.Errorf("model = %v", req["model"])
	}
	msgs, ok := req["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages = %v, want system + user", req["messages"])
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("first message role = %v, want system", first["role"])
	}
}

func TestGenerateServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL, "test-key", "llama3.1:latest")
	if _, err := c.Generate(context.Background(), "p", "s"); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

func TestGenerateTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL, "test-key", "m", WithTimeout(20*time.Millisecond))
	if _, err := c.Generate(context.Background(), "p", "s"); err == nil {
		t.Fatal("expected timeout error")
	}
}
