package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func completionEnvelope(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o",
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
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, maxAttempts int) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(ClientConfig{
		Provider:    ProviderOpenAI,
		BaseURL:     srv.URL + "/",
		APIKey:      "test-key",
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxAttempts: maxAttempts,
	}, zap.NewNop())
	require.NoError(t, err)
	client.baseDelay = time.Millisecond
	return client
}

func TestNewOpenAIClient(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr bool
	}{
		{
			name:    "openai configuration",
			cfg:     ClientConfig{Provider: ProviderOpenAI, APIKey: "test-key", Model: "gpt-4o"},
			wantErr: false,
		},
		{
			name:    "default provider",
			cfg:     ClientConfig{APIKey: "test-key", Model: "gpt-4o"},
			wantErr: false,
		},
		{
			name:    "azure configuration",
			cfg:     ClientConfig{Provider: ProviderAzure, Endpoint: "https://test.openai.azure.com/", APIKey: "test-key", Model: "gpt-4o"},
			wantErr: false,
		},
		{
			name:    "azure without endpoint",
			cfg:     ClientConfig{Provider: ProviderAzure, APIKey: "test-key", Model: "gpt-4o"},
			wantErr: true,
		},
		{
			name:    "missing api key",
			cfg:     ClientConfig{Model: "gpt-4o"},
			wantErr: true,
		},
		{
			name:    "missing model",
			cfg:     ClientConfig{APIKey: "test-key"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     ClientConfig{Provider: "bard", APIKey: "test-key", Model: "gpt-4o"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewOpenAIClient(tt.cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Model, client.model)
			assert.Equal(t, 1, client.maxAttempts)
		})
	}
}

func TestOpenAIClient_Complete_Success(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionEnvelope(`{"totalCalories": 2000}`))
	}, 1)

	content, err := client.Complete(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("system"),
		openai.UserMessage("user"),
	})

	require.NoError(t, err)
	assert.Equal(t, `{"totalCalories": 2000}`, content)
	assert.Equal(t, "gpt-4o", captured["model"])
	assert.Equal(t, 0.7, captured["temperature"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])
	assert.Len(t, captured["messages"], 2)
}

func TestOpenAIClient_Complete_ServerErrorIsSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}, 1)

	_, err := client.Complete(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("user"),
	})

	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIClient_Complete_RetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error":{"message":"busy"}}`)
			return
		}
		fmt.Fprint(w, completionEnvelope(`{}`))
	}, 2)

	content, err := client.Complete(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("user"),
	})

	require.NoError(t, err)
	assert.Equal(t, `{}`, content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIClient_Complete_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","model":"gpt-4o","choices":[]}`)
	}, 1)

	_, err := client.Complete(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("user"),
	})

	assert.Error(t, err)
}

func TestOpenAIClient_Complete_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionEnvelope(`{}`))
	}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("user"),
	})

	assert.Error(t, err)
}

func TestOpenAIClient_isRetryable(t *testing.T) {
	client := &OpenAIClient{logger: zap.NewNop(), maxAttempts: 3}
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "context cancelled", err: fmt.Errorf("wrapped: %w", context.Canceled), want: false},
		{name: "rate limited", err: &openai.Error{StatusCode: http.StatusTooManyRequests}, want: true},
		{name: "server error", err: &openai.Error{StatusCode: http.StatusBadGateway}, want: true},
		{name: "unauthorized", err: &openai.Error{StatusCode: http.StatusUnauthorized}, want: false},
		{name: "bad request", err: &openai.Error{StatusCode: http.StatusBadRequest}, want: false},
		{name: "network error", err: errors.New("connection refused"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.isRetryable(ctx, tt.err))
		})
	}
}
