package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/pkg/llm"
)

func TestGenerate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Message: llm.Message{Role: "assistant", Content: " Dạ còn hàng ạ "}, Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "qwen2.5")
	out, err := p.Generate(context.Background(), "còn hàng không", llm.WithSystem("tư vấn"), llm.WithMaxTokens(64))
	require.NoError(t, err)
	assert.Equal(t, "Dạ còn hàng ạ", out)

	assert.Equal(t, "qwen2.5", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, 64, got.Options.NumPredict)
	assert.False(t, got.Stream)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}},
		{"empty message", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(chatResponse{Done: true})
		}},
		{"error body", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(chatResponse{Error: "out of memory"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "m").Generate(context.Background(), "hi")
			assert.Error(t, err)
		})
	}
}
