package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// detailPrefix marks a detail request; the trailing text is the product name.
const detailPrefix = "รายละเอียด "

// menuProbes are compared against the whole message to detect a menu request.
var menuProbes = []string{"menu", "เมนู"}

// menuKeywordFamily widens the product-related check beyond the two probes.
var menuKeywordFamily = []string{"เมนู", "menu", "สินค้า", "ของ", "อาหาร"}

// priceVocabulary marks a message as a constrained search even when the
// similarity check misses.
var priceVocabulary = []string{
	"ราคา", "บาท", "ต่ำกว่า", "น้อยกว่า", "สูงกว่า", "มากกว่า", "ไม่เกิน", "เกิน", "ประมาณ",
	"price", "baht", "below", "under", "above", "over", "around", "about",
}

// Canned reply texts.
const (
	textCatalogUnavailable = "⚠️ ไม่พบข้อมูลเมนู"
	textMenuUnavailable    = "⚠️ ไม่สามารถแสดงเมนูได้ในขณะนี้"
	menuCarouselTitle      = "เมนูแนะนำ"

	suggestionList = "💡 ลองใช้คำค้นหาเช่น:\n" +
		"• ข้าว\n" +
		"• น้ำจิ้ม\n" +
		"• ซุป\n" +
		"• หรือพิมพ์ 'เมนู' เพื่อดูเมนูทั้งหมด"
)

// ChatConfig holds configuration for the chat service
type ChatConfig struct {
	MenuThreshold      float64
	SearchThreshold    float64
	RelatedThreshold   float64
	TopK               int
	MenuSize           int
	EnableDebugLogging bool
}

// ChatService classifies one incoming message into an intent and produces a
// transport-neutral reply. Classification is pure given the catalog and the
// message; no state survives between messages.
type ChatService struct {
	catalog    domain.CatalogSource
	scorer     domain.SimilarityScorer
	generator  domain.TextGenerator // nil disables generative fallbacks
	summarizer domain.Summarizer
	search     *SearchService
	parser     *PriceParser
	composer   *ReplyComposer

	menuThreshold      float64
	searchThreshold    float64
	relatedThreshold   float64
	topK               int
	menuSize           int
	enableDebugLogging bool
}

// NewChatService creates a new chat service with dependencies
func NewChatService(
	catalog domain.CatalogSource,
	scorer domain.SimilarityScorer,
	generator domain.TextGenerator,
	summarizer domain.Summarizer,
	search *SearchService,
	parser *PriceParser,
	config ChatConfig,
) *ChatService {
	menuThreshold := config.MenuThreshold
	if menuThreshold <= 0 {
		menuThreshold = 0.65
	}

	searchThreshold := config.SearchThreshold
	if searchThreshold <= 0 {
		searchThreshold = 0.3
	}

	relatedThreshold := config.RelatedThreshold
	if relatedThreshold <= 0 {
		relatedThreshold = searchThreshold
	}

	topK := config.TopK
	if topK <= 0 {
		topK = 5
	}

	menuSize := config.MenuSize
	if menuSize <= 0 {
		menuSize = 10
	}

	return &ChatService{
		catalog:            catalog,
		scorer:             scorer,
		generator:          generator,
		summarizer:         summarizer,
		search:             search,
		parser:             parser,
		composer:           NewReplyComposer(),
		menuThreshold:      menuThreshold,
		searchThreshold:    searchThreshold,
		relatedThreshold:   relatedThreshold,
		topK:               topK,
		menuSize:           menuSize,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Handle processes one user message end to end. Every user-facing failure
// degrades to a text reply; the only returned errors are ErrInvalidRequest
// for blank input and context cancellation.
func (s *ChatService) Handle(ctx context.Context, message string) (*domain.Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrInvalidRequest
	}

	catalog, err := s.catalog.Load(ctx)
	if err != nil || len(catalog) == 0 {
		if err != nil {
			log.Printf("[CHAT] catalog load failed: %v", err)
		}
		return domain.NewTextReply(domain.IntentFallback, textCatalogUnavailable), nil
	}

	switch {
	case s.isMenuRequest(ctx, message):
		return s.handleMenu(catalog), nil

	case strings.HasPrefix(message, detailPrefix):
		return s.handleDetail(ctx, message, catalog), nil

	case s.isProductRelated(ctx, message, catalog):
		return s.handleSearch(ctx, message, catalog)

	default:
		return s.handleFallback(ctx, message, catalog), nil
	}
}

// isMenuRequest fires when the message is semantically close to "menu" in
// either language.
func (s *ChatService) isMenuRequest(ctx context.Context, message string) bool {
	for _, probe := range menuProbes {
		if s.scorer.Similarity(ctx, probe, message) > s.menuThreshold {
			return true
		}
	}
	return false
}

// isProductRelated decides whether the message should go through product
// search: price vocabulary, a menu-keyword family match, or at least one
// search hit.
func (s *ChatService) isProductRelated(ctx context.Context, message string, catalog []domain.ProductRecord) bool {
	lower := strings.ToLower(message)
	for _, word := range priceVocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}

	for _, keyword := range menuKeywordFamily {
		if s.scorer.Similarity(ctx, keyword, message) > s.menuThreshold {
			return true
		}
	}

	hits, err := s.search.Search(ctx, message, catalog, 1, s.relatedThreshold)
	return err == nil && len(hits) > 0
}

// handleMenu returns the first N catalog items as a browse listing.
func (s *ChatService) handleMenu(catalog []domain.ProductRecord) *domain.Reply {
	size := s.menuSize
	if size > len(catalog) {
		size = len(catalog)
	}

	carousel, err := s.composer.Carousel(catalog[:size], menuCarouselTitle)
	if err != nil {
		return domain.NewTextReply(domain.IntentMenu, textMenuUnavailable)
	}
	return domain.NewCarouselReply(domain.IntentMenu, carousel)
}

// handleDetail looks up an exact case-insensitive name match and replies with
// its summarized description.
func (s *ChatService) handleDetail(ctx context.Context, message string, catalog []domain.ProductRecord) *domain.Reply {
	name := strings.TrimSpace(strings.TrimPrefix(message, detailPrefix))

	record, found := findByName(catalog, name)
	if !found {
		return domain.NewTextReply(domain.IntentDetail,
			fmt.Sprintf("❌ ไม่พบรายละเอียดของ '%s'", name))
	}

	var summary string
	if record.Description != "" {
		summary = s.summarizer.Summarize(ctx, record.Description)
	}

	payload := s.composer.Detail(record.Name, summary)
	return &domain.Reply{Type: domain.ReplyTypeText, Intent: domain.IntentDetail, Text: payload}
}

// handleSearch runs the filter/ranker and renders the hits as a carousel,
// titled with the active price constraint when one was parsed.
func (s *ChatService) handleSearch(ctx context.Context, message string, catalog []domain.ProductRecord) (*domain.Reply, error) {
	results, err := s.search.Search(ctx, message, catalog, s.topK, s.searchThreshold)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		log.Printf("[CHAT] search failed: %v", err)
		results = nil
	}

	info := s.parser.Parse(message)

	if len(results) == 0 {
		return domain.NewTextReply(domain.IntentSearch, s.noResultsText(ctx, message, info)), nil
	}

	carousel, err := s.composer.Carousel(results, searchTitle(message, info))
	if err != nil {
		return domain.NewTextReply(domain.IntentSearch,
			fmt.Sprintf("❌ ไม่สามารถแสดงผลการค้นหา '%s' ได้", message)), nil
	}
	return domain.NewCarouselReply(domain.IntentSearch, carousel), nil
}

// handleFallback forwards general conversation to the generative backend with
// a short catalog context, or falls back to the canned suggestion.
func (s *ChatService) handleFallback(ctx context.Context, message string, catalog []domain.ProductRecord) *domain.Reply {
	if s.generator == nil {
		return domain.NewTextReply(domain.IntentFallback, cannedSuggestion(message))
	}

	size := 20
	if size > len(catalog) {
		size = len(catalog)
	}
	names := make([]string, 0, size)
	for _, record := range catalog[:size] {
		names = append(names, record.Name)
	}
	promptContext := fmt.Sprintf("สินค้าในร้าน CP: %s", strings.Join(names, ", "))

	return domain.NewTextReply(domain.IntentFallback, s.generator.Generate(ctx, message, promptContext))
}

// noResultsText builds the suggestion reply for searches with no hits.
func (s *ChatService) noResultsText(ctx context.Context, message string, info *domain.QueryInfo) string {
	if s.generator == nil {
		return cannedSuggestion(message)
	}

	promptContext := "ไม่พบสินค้าที่ตรงกับเงื่อนไขที่ต้องการ "
	if info.MaxPrice != nil {
		promptContext += fmt.Sprintf("ราคาไม่เกิน %.0f บาท ", *info.MaxPrice)
	} else if info.MinPrice != nil {
		promptContext += fmt.Sprintf("ราคาตั้งแต่ %.0f บาท ขึ้นไป ", *info.MinPrice)
	}
	promptContext += "สินค้าที่มีในร้าน ได้แก่ ข้าว, น้ำจิ้ม, ซุป"

	return s.generator.Generate(ctx, message, promptContext) + "\n\n" + suggestionList
}

// searchTitle labels the carousel with the active price constraint.
func searchTitle(message string, info *domain.QueryInfo) string {
	switch {
	case info.MinPrice != nil && info.MaxPrice != nil:
		return fmt.Sprintf("สินค้าราคา %.0f-%.0f บาท", *info.MinPrice, *info.MaxPrice)
	case info.MaxPrice != nil:
		return fmt.Sprintf("สินค้าราคาไม่เกิน %.0f บาท", *info.MaxPrice)
	case info.MinPrice != nil:
		return fmt.Sprintf("สินค้าราคาตั้งแต่ %.0f บาท", *info.MinPrice)
	default:
		return message
	}
}

// cannedSuggestion is the deterministic no-match reply used when the
// generative backend is disabled.
func cannedSuggestion(message string) string {
	return fmt.Sprintf("❌ ไม่พบสินค้าที่เกี่ยวข้องกับ '%s'\n\n%s", message, suggestionList)
}

// findByName returns the record whose name equals the given name,
// case-insensitively and ignoring surrounding whitespace.
func findByName(catalog []domain.ProductRecord, name string) (domain.ProductRecord, bool) {
	for _, record := range catalog {
		if strings.EqualFold(strings.TrimSpace(record.Name), name) {
			return record, true
		}
	}
	return domain.ProductRecord{}, false
}
