package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
)

// EmbeddingClient computes semantic similarity via an Ollama embedding model.
// Embedding vectors are memoized per text: catalog names repeat on every
// request, so each distinct string is embedded once per process.
type EmbeddingClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	debug      bool

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewEmbeddingClient creates an embedding client for the given Ollama host and
// model.
func NewEmbeddingClient(baseURL, model string, timeout time.Duration) *EmbeddingClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EmbeddingClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		cache:      make(map[string][]float32),
	}
}

// SetDebug enables debug logging for embedding calls
func (c *EmbeddingClient) SetDebug(debug bool) {
	c.debug = debug
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Similarity returns the cosine similarity of the two texts' embeddings.
// Empty inputs score 0. When the backend is unreachable the scorer degrades
// to a deterministic lexical score instead of failing the request.
func (c *EmbeddingClient) Similarity(ctx context.Context, a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	vecA, errA := c.embed(ctx, a)
	vecB, errB := c.embed(ctx, b)
	if errA != nil || errB != nil {
		if c.debug {
			log.Printf("[OLLAMA] embed failed, using lexical fallback: %v %v", errA, errB)
		}
		return lexicalSimilarity(a, b)
	}

	return cosineSimilarity(vecA, vecB)
}

// IsHealthy checks whether Ollama is reachable.
func (c *EmbeddingClient) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// embed returns the (possibly cached) embedding vector for text.
func (c *EmbeddingClient) embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	vec, ok := c.cache[text]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	body, err := json.Marshal(embedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed: status %d", resp.StatusCode)
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama returned empty embeddings")
	}

	vec = result.Embeddings[0]
	c.mu.Lock()
	c.cache[text] = vec
	c.mu.Unlock()

	return vec, nil
}

// cosineSimilarity of two vectors; 0 when dimensions mismatch or either
// vector is zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}

// lexicalSimilarity is the deterministic degraded-mode score: substring
// containment (Thai text rarely has word spaces) backed by Jaccard overlap of
// whitespace tokens. Symmetric and bounded to [0, 1].
func lexicalSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	set := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		set[t] = true
	}

	union := make(map[string]bool, len(tokensA)+len(tokensB))
	for _, t := range tokensA {
		union[t] = true
	}

	matched := 0
	counted := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		union[t] = true
		if set[t] && !counted[t] {
			matched++
			counted[t] = true
		}
	}

	return float64(matched) / float64(len(union))
}
