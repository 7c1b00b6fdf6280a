package usecase

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// Descriptions shorter than this pass through untouched.
const minSummarizableRunes = 50

// Backend results at or below this length are considered degenerate and the
// rule-based shortener runs instead.
const minUsableSummaryRunes = 20

// maxShortenedRunes caps the rule-based shortener output.
const maxShortenedRunes = 300

// SummaryBackend produces a model-generated summary; an error means the
// backend was unreachable or returned garbage.
type SummaryBackend interface {
	Summarize(ctx context.Context, text string) (string, error)
}

var (
	symbolRegex  = regexp.MustCompile(`[❤️✅‼️⭐️🔥]`)
	hashtagRegex = regexp.MustCompile(`#\S+`)
	dashRunRegex = regexp.MustCompile(`-{3,}`)
)

// descriptionKeywords mark sentences worth keeping when shortening scraped
// product descriptions.
var descriptionKeywords = []string{
	"ส่วนผสม", "โปรตีน", "วิตามิน", "พลังงาน", "ซุป", "อาหาร",
}

// SummaryService condenses product descriptions. It prefers the generative
// backend and falls back to a deterministic rule-based shortener whenever the
// backend is unavailable or returns a too-short result.
type SummaryService struct {
	backend            SummaryBackend // nil disables the backend entirely
	enableDebugLogging bool
}

// NewSummaryService creates a new summary service; backend may be nil.
func NewSummaryService(backend SummaryBackend, enableDebugLogging bool) *SummaryService {
	return &SummaryService{
		backend:            backend,
		enableDebugLogging: enableDebugLogging,
	}
}

// Summarize returns a condensed form of the description. Never fails: every
// error path degrades to ShortenDescription.
func (s *SummaryService) Summarize(ctx context.Context, description string) string {
	description = strings.TrimSpace(description)
	if len([]rune(description)) < minSummarizableRunes {
		return description
	}

	if s.backend != nil {
		summary, err := s.backend.Summarize(ctx, description)
		if err == nil {
			summary = strings.TrimSpace(summary)
			if len([]rune(summary)) > minUsableSummaryRunes {
				return summary
			}
		} else if s.enableDebugLogging {
			log.Printf("[SUMMARY] backend error, using rule-based shortener: %v", err)
		}
	}

	return ShortenDescription(description)
}

// ShortenDescription is the deterministic fallback: strips symbols, hashtags
// and dash runs, keeps up to four sentences containing domain keywords (else
// the first two), and caps the result at 300 characters.
func ShortenDescription(description string) string {
	if strings.TrimSpace(description) == "" {
		return "ไม่มีรายละเอียด"
	}

	clean := symbolRegex.ReplaceAllString(description, "")
	clean = hashtagRegex.ReplaceAllString(clean, "")
	clean = dashRunRegex.ReplaceAllString(clean, "")

	var sentences []string
	for _, part := range strings.Split(clean, ".") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	limit := len(sentences)
	if limit > 4 {
		limit = 4
	}

	var important []string
	for _, sentence := range sentences[:limit] {
		for _, keyword := range descriptionKeywords {
			if strings.Contains(sentence, keyword) {
				important = append(important, sentence)
				break
			}
		}
	}

	if len(important) == 0 {
		if len(sentences) > 2 {
			important = sentences[:2]
		} else {
			important = sentences
		}
	}

	result := strings.TrimSpace(strings.Join(important, ". "))
	if runes := []rune(result); len(runes) > maxShortenedRunes {
		result = string(runes[:maxShortenedRunes]) + "..."
	}

	if result == "" {
		return "ไม่มีรายละเอียดเพิ่มเติม"
	}
	return result
}
