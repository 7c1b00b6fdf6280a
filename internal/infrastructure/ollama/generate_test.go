package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerateServer(t *testing.T, response string, capture *generateRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		require.NoError(t, json.NewEncoder(w).Encode(generateResponse{Response: response}))
	}))
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the model reply trimmed", func(t *testing.T) {
		var captured generateRequest
		server := newGenerateServer(t, "  สวัสดีครับ  ", &captured)
		defer server.Close()

		client := NewGenerateClient(server.URL, "test-model", time.Second, time.Second)
		got := client.Generate(ctx, "hello", "เมนูที่มี: ซุปต้มยำ")

		assert.Equal(t, "สวัสดีครับ", got)
		assert.Equal(t, "test-model", captured.Model)
		assert.False(t, captured.Stream)
		assert.InDelta(t, 0.7, captured.Options.Temperature, 1e-9)
		assert.Equal(t, 300, captured.Options.NumPredict)
		assert.Contains(t, captured.Prompt, "hello", "user question embedded in prompt")
		assert.Contains(t, captured.Prompt, "ซุปต้มยำ", "context embedded in prompt")
	})

	t.Run("empty model reply maps to canned text", func(t *testing.T) {
		var captured generateRequest
		server := newGenerateServer(t, "", &captured)
		defer server.Close()

		client := NewGenerateClient(server.URL, "test-model", time.Second, time.Second)
		assert.Equal(t, fallbackEmptyResponse, client.Generate(ctx, "hello", ""))
	})

	t.Run("bad status maps to canned text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewGenerateClient(server.URL, "test-model", time.Second, time.Second)
		assert.Equal(t, fallbackBadStatus, client.Generate(ctx, "hello", ""))
	})

	t.Run("unreachable backend maps to canned text", func(t *testing.T) {
		client := NewGenerateClient("http://localhost:1", "test-model", 200*time.Millisecond, time.Second)
		assert.Equal(t, fallbackUnreachable, client.Generate(ctx, "hello", ""))
	})
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("sends summary prompt with low temperature", func(t *testing.T) {
		var captured generateRequest
		server := newGenerateServer(t, "ซุปไก่สกัดเข้มข้น มีโปรตีนสูง", &captured)
		defer server.Close()

		client := NewGenerateClient(server.URL, "test-model", time.Second, time.Second)
		got, err := client.Summarize(ctx, "คำอธิบายยาวมากของสินค้า")

		require.NoError(t, err)
		assert.Equal(t, "ซุปไก่สกัดเข้มข้น มีโปรตีนสูง", got)
		assert.InDelta(t, 0.3, captured.Options.Temperature, 1e-9)
		assert.Equal(t, 200, captured.Options.NumPredict)
		assert.Contains(t, captured.Prompt, "คำอธิบายยาวมากของสินค้า")
	})

	t.Run("propagates backend failure to the caller", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewGenerateClient(server.URL, "test-model", time.Second, time.Second)
		_, err := client.Summarize(ctx, "คำอธิบาย")

		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "status 502"))
	})

	t.Run("propagates unreachable backend", func(t *testing.T) {
		client := NewGenerateClient("http://localhost:1", "test-model", time.Second, 200*time.Millisecond)
		_, err := client.Summarize(ctx, "คำอธิบาย")
		assert.Error(t, err)
	})
}

func TestFallbackFor(t *testing.T) {
	assert.Equal(t, fallbackBadStatus, fallbackFor(&statusError{code: 500}))
	assert.Equal(t, fallbackUnreachable, fallbackFor(context.DeadlineExceeded))
}
