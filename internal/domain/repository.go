package domain

import "context"

// CatalogSource defines the interface for loading the product catalog.
// Implementations must treat a missing source as an empty catalog, not an error.
type CatalogSource interface {
	Load(ctx context.Context) ([]ProductRecord, error)
}

// SimilarityScorer computes the semantic closeness of two texts.
// Scores are cosine similarities in [-1, 1]; the function is symmetric and
// deterministic. Implementations degrade to a lexical score rather than fail
// when the embedding backend is down.
type SimilarityScorer interface {
	Similarity(ctx context.Context, a, b string) float64
}

// TextGenerator produces a conversational reply for messages that match no
// product intent. Implementations must return a safe fallback string on any
// transport error rather than an error.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, promptContext string) string
}

// Summarizer condenses a long product description. Implementations fall back
// to a deterministic rule-based shortener when the backend is unreachable.
type Summarizer interface {
	Summarize(ctx context.Context, description string) string
}
