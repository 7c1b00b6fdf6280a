package usecase

import (
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// Price plausibility band: numbers outside this range are not treated as
// prices (they are more likely weights, counts or product codes).
const (
	minPlausiblePrice = 10
	maxPlausiblePrice = 9999
)

// aroundMargin is the half-width of the band applied to "around N" queries.
const aroundMargin = 0.25

// constraintKind is the shape of price constraint a rule produces.
type constraintKind int

const (
	constraintMax constraintKind = iota
	constraintMin
	constraintAround
)

// priceRule binds a compiled pattern to the constraint it produces. The first
// capture group is the numeric value; unitGroup, when non-zero, is the index
// of a trailing-unit capture group whose presence disqualifies the match
// (e.g. "ราคา 100 กรัม" names a weight, not a price).
type priceRule struct {
	pattern   *regexp.Regexp
	kind      constraintKind
	unitGroup int
}

// priceRules are evaluated in order; the first in-band match wins and no
// further rules apply. A query carrying both "below 100" and "above 50"
// therefore only honors the max constraint. Thai forms precede English ones.
var priceRules = []priceRule{
	{pattern: regexp.MustCompile(`(?:ราคา)?(?:ต่ำกว่า|น้อยกว่า|ไม่เกิน)\s*(\d+)\s*(?:บาท)?`), kind: constraintMax},
	{pattern: regexp.MustCompile(`(?:ราคา)?(?:สูงกว่า|มากกว่า|เกิน)\s*(\d+)\s*(?:บาท)?`), kind: constraintMin},
	{pattern: regexp.MustCompile(`(?:ราคา)?(?:ประมาณ|รอบๆ|รอบ)\s*(\d+)\s*(?:บาท)?`), kind: constraintAround},
	{pattern: regexp.MustCompile(`ราคา\s*(\d+)\s*บาท`), kind: constraintAround},
	{pattern: regexp.MustCompile(`ราคา\s*(\d+)\s*(กรัม|มล\.?|กก\.?|ชิ้น|ก\.)?`), kind: constraintAround, unitGroup: 2},
	{pattern: regexp.MustCompile(`(?:price\s+)?(?:below|under|less\s+than|at\s+most|no\s+more\s+than)\s*(\d+)\s*(?:baht)?`), kind: constraintMax},
	{pattern: regexp.MustCompile(`(?:price\s+)?(?:above|over|more\s+than|exceeding|at\s+least)\s*(\d+)\s*(?:baht)?`), kind: constraintMin},
	{pattern: regexp.MustCompile(`(?:price\s+)?(?:around|about|approximately)\s*(\d+)\s*(?:baht)?`), kind: constraintAround},
	{pattern: regexp.MustCompile(`price\s+(\d+)\s*(?:baht)?`), kind: constraintAround},
}

// stripPatterns remove recognized price phrases, unit-bearing numbers and
// filler request verbs before keyword extraction.
var stripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ราคา(?:ต่ำกว่า|น้อยกว่า|สูงกว่า|มากกว่า|ไม่เกิน|เกิน|ประมาณ|รอบๆ|รอบ)?\s*\d+\s*(?:บาท)?`),
	regexp.MustCompile(`(?:ต่ำกว่า|น้อยกว่า|สูงกว่า|มากกว่า|ไม่เกิน|เกิน|ประมาณ|รอบๆ|รอบ)\s*\d+\s*(?:บาท)?`),
	regexp.MustCompile(`(?:price\s+)?(?:below|under|less\s+than|at\s+most|no\s+more\s+than|above|over|more\s+than|exceeding|at\s+least|around|about|approximately)\s*\d+\s*(?:baht)?`),
	regexp.MustCompile(`price\s+\d+\s*(?:baht)?`),
	regexp.MustCompile(`\bbaht\b`),
	regexp.MustCompile(`บาท`),
	regexp.MustCompile(`\d+\s*(?:กรัม|มล\.?|กก\.?|ชิ้น|ก\.|grams?|ml|kg|pcs?|pieces?)`),
	regexp.MustCompile(`อยาก|ต้องการ|ขอ|หา|ให้`),
	regexp.MustCompile(`\b(?:i\s+want|i\s+need|show\s+me|find|want|need)\b`),
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// PriceParser extracts price constraints and residual keywords from free-form
// queries.
type PriceParser struct {
	enableDebugLogging bool
}

// NewPriceParser creates a new price parser
func NewPriceParser(enableDebugLogging bool) *PriceParser {
	return &PriceParser{enableDebugLogging: enableDebugLogging}
}

// Parse analyzes a user query and returns the constraints it carries.
// Exactly one constraint shape is applied per query (first-match-wins).
func (p *PriceParser) Parse(query string) *domain.QueryInfo {
	normalized := strings.ToLower(strings.TrimSpace(query))

	info := &domain.QueryInfo{OriginalQuery: normalized}

	p.applyPriceRules(normalized, info)
	info.Keywords = p.extractKeywords(normalized)

	if p.enableDebugLogging {
		log.Printf("[PARSE] %q -> keywords=%v min=%v max=%v",
			query, info.Keywords, formatBound(info.MinPrice), formatBound(info.MaxPrice))
	}

	return info
}

// applyPriceRules walks the ordered rule table and applies the first in-band
// match. Matches whose trailing-unit group fired are skipped: they describe
// sizes, not prices.
func (p *PriceParser) applyPriceRules(query string, info *domain.QueryInfo) {
	for _, rule := range priceRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(query, -1) {
			if rule.unitGroup > 0 && rule.unitGroup < len(m) && m[rule.unitGroup] != "" {
				continue
			}

			value, err := strconv.Atoi(m[1])
			if err != nil || value < minPlausiblePrice || value > maxPlausiblePrice {
				continue
			}

			applyConstraint(info, rule.kind, float64(value))
			return
		}
	}
}

// applyConstraint sets the bounds on info for one matched rule.
func applyConstraint(info *domain.QueryInfo, kind constraintKind, value float64) {
	switch kind {
	case constraintMax:
		info.MaxPrice = &value
	case constraintMin:
		info.MinPrice = &value
	case constraintAround:
		// ±25% band, margin truncated to an integer, floored at 0.
		margin := math.Trunc(value * aroundMargin)
		low := math.Max(0, value-margin)
		high := value + margin
		info.MinPrice = &low
		info.MaxPrice = &high
	}
}

// extractKeywords strips recognized price phrases and unit-bearing numbers,
// then splits the remainder on whitespace keeping tokens longer than one rune.
func (p *PriceParser) extractKeywords(query string) []string {
	text := query
	for _, pattern := range stripPatterns {
		text = pattern.ReplaceAllString(text, " ")
	}
	text = strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))

	if text == "" {
		return nil
	}

	var keywords []string
	for _, token := range strings.Fields(text) {
		if utf8.RuneCountInString(token) > 1 {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

func formatBound(v *float64) string {
	if v == nil {
		return "<nil>"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
