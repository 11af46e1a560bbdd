package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllama_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model: %q", req.Model)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}

		json.NewEncoder(w).Encode(ollamaResponse{Response: "البيت المصحح"})
	}))
	defer server.Close()

	o := NewOllama("test-model", server.URL)
	got, err := o.Generate(context.Background(), "أصلح البيت")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "البيت المصحح" {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestOllama_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	o := NewOllama("missing-model", server.URL)
	if _, err := o.Generate(context.Background(), "x"); err == nil {
		t.Error("expected an error for a non-200 status")
	}
}

func TestOllama_Generate_Unreachable(t *testing.T) {
	o := NewOllama("test-model", "http://127.0.0.1:1")
	if _, err := o.Generate(context.Background(), "x"); err == nil {
		t.Error("expected an error when the server is unreachable")
	}
}

func TestOllama_Defaults(t *testing.T) {
	o := NewOllama("", "")
	if o.Model() != DefaultOllamaModel {
		t.Errorf("expected the default model, got %q", o.Model())
	}
	if o.Name() != "ollama" {
		t.Errorf("unexpected name: %q", o.Name())
	}
}

func TestOllama_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	o := NewOllama("test-model", server.URL)
	if err := o.IsAvailable(context.Background()); err != nil {
		t.Errorf("expected available, got %v", err)
	}
}

func TestNewOpenAI_RequiresKeyAndModel(t *testing.T) {
	if _, err := NewOpenAI(Config{Model: "gpt-4o"}); err == nil {
		t.Error("expected an error without an API key")
	}
	if _, err := NewOpenAI(Config{APIKey: "sk-test"}); err == nil {
		t.Error("expected an error without a model")
	}
	o, err := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Name() != "openai" {
		t.Errorf("unexpected name: %q", o.Name())
	}
}
