package usecase

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// SearchConfig holds configuration for the search service
type SearchConfig struct {
	DefaultTopK        int
	DefaultThreshold   float64
	IncludeUnpriced    bool
	EnableDebugLogging bool
}

// SearchService filters catalog records by parsed price constraints and ranks
// the remainder by semantic similarity to the query keywords.
type SearchService struct {
	scorer             domain.SimilarityScorer
	parser             *PriceParser
	defaultTopK        int
	defaultThreshold   float64
	includeUnpriced    bool
	enableDebugLogging bool
}

// NewSearchService creates a new search service with the given configuration
func NewSearchService(scorer domain.SimilarityScorer, parser *PriceParser, config SearchConfig) *SearchService {
	topK := config.DefaultTopK
	if topK <= 0 {
		topK = 5
	}

	threshold := config.DefaultThreshold
	if threshold == 0 {
		threshold = 0.3
	}

	return &SearchService{
		scorer:             scorer,
		parser:             parser,
		defaultTopK:        topK,
		defaultThreshold:   threshold,
		includeUnpriced:    config.IncludeUnpriced,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Search parses the query, applies its price constraints and returns up to
// topK records ranked by similarity. The result never contains two records
// with the same name. topK/threshold <= 0 fall back to the configured defaults.
func (s *SearchService) Search(
	ctx context.Context,
	query string,
	catalog []domain.ProductRecord,
	topK int,
	threshold float64,
) ([]domain.ProductRecord, error) {
	if len(catalog) == 0 {
		return nil, nil
	}

	if topK <= 0 {
		topK = s.defaultTopK
	}
	if threshold <= 0 {
		threshold = s.defaultThreshold
	}

	info := s.parser.Parse(query)
	filtered := s.filterByPrice(catalog, info)

	if len(filtered) == 0 {
		return nil, nil
	}

	if len(info.Keywords) > 0 {
		return s.rankByKeywords(ctx, info, filtered, topK, threshold)
	}

	return sortByPrice(filtered, info, topK), nil
}

// filterByPrice keeps records whose extracted price satisfies the query's
// bounds. With IncludeUnpriced set (the default), a record whose price cannot
// be parsed extracts to 0 and so passes any upper bound; disabling the flag
// excludes unpriced records from price-constrained queries instead.
func (s *SearchService) filterByPrice(catalog []domain.ProductRecord, info *domain.QueryInfo) []domain.ProductRecord {
	if !info.HasPriceConstraint() {
		return catalog
	}

	var filtered []domain.ProductRecord
	for _, record := range catalog {
		price := ExtractPrice(record.Price)

		if price == 0 && !s.includeUnpriced {
			continue
		}
		if info.MaxPrice != nil && price > *info.MaxPrice {
			continue
		}
		if info.MinPrice != nil && price < *info.MinPrice {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// rankByKeywords scores each record's name against the joined keywords,
// keeps scores at or above threshold, orders descending (catalog order breaks
// ties) and deduplicates by name keeping the first occurrence.
func (s *SearchService) rankByKeywords(
	ctx context.Context,
	info *domain.QueryInfo,
	records []domain.ProductRecord,
	topK int,
	threshold float64,
) ([]domain.ProductRecord, error) {
	searchText := strings.Join(info.Keywords, " ")

	var matches []domain.ScoredMatch
	for _, record := range records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score := s.scorer.Similarity(ctx, searchText, strings.ToLower(record.Name))

		if s.enableDebugLogging {
			log.Printf("[SEARCH] %q vs %q -> %.3f", searchText, record.Name, score)
		}

		if score >= threshold {
			matches = append(matches, domain.ScoredMatch{Record: record, Score: score})
		}
	}

	// Stable sort: equal scores keep catalog order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	seen := make(map[string]bool, len(matches))
	results := make([]domain.ProductRecord, 0, topK)
	for _, match := range matches {
		if seen[match.Record.Name] {
			continue
		}
		seen[match.Record.Name] = true
		results = append(results, match.Record)
		if len(results) == topK {
			break
		}
	}

	return results, nil
}

// sortByPrice orders price-only queries by extracted price: ascending when the
// user asked for a ceiling, descending otherwise. Dedupes by name and caps at
// topK.
func sortByPrice(records []domain.ProductRecord, info *domain.QueryInfo, topK int) []domain.ProductRecord {
	sorted := make([]domain.ProductRecord, len(records))
	copy(sorted, records)

	ascending := info.MaxPrice != nil
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := ExtractPrice(sorted[i].Price), ExtractPrice(sorted[j].Price)
		if ascending {
			return pi < pj
		}
		return pi > pj
	})

	seen := make(map[string]bool, len(sorted))
	results := make([]domain.ProductRecord, 0, topK)
	for _, record := range sorted {
		if seen[record.Name] {
			continue
		}
		seen[record.Name] = true
		results = append(results, record)
		if len(results) == topK {
			break
		}
	}
	return results
}
