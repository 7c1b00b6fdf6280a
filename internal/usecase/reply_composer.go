package usecase

import (
	"fmt"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// Carousel template limits of the chat transport.
const (
	maxCarouselTitleRunes = 40
	maxCarouselTextRunes  = 60
	maxDetailTextRunes    = 1000
)

// placeholderLink backs the order action when a record has no link.
const placeholderLink = "https://example.com"

// ReplyComposer turns ranked records into transport-neutral reply payloads.
type ReplyComposer struct{}

// NewReplyComposer creates a new reply composer
func NewReplyComposer() *ReplyComposer {
	return &ReplyComposer{}
}

// Carousel renders products as a carousel payload. Returns ErrNothingToShow
// for an empty product list; callers must not render an empty carousel.
func (c *ReplyComposer) Carousel(products []domain.ProductRecord, searchTitle string) (*domain.CarouselPayload, error) {
	if len(products) == 0 {
		return nil, domain.ErrNothingToShow
	}

	columns := make([]domain.CarouselColumn, 0, len(products))
	for _, product := range products {
		columns = append(columns, domain.CarouselColumn{
			ThumbnailImageURL: product.ImageURL,
			Title:             truncateRunes(product.Name, maxCarouselTitleRunes),
			Text:              truncateRunes(fmt.Sprintf("ราคา: %s", product.Price), maxCarouselTextRunes),
			Actions: []domain.CarouselAction{
				{
					Type:  domain.ActionTypeMessage,
					Label: "รายละเอียด",
					Text:  fmt.Sprintf("รายละเอียด %s", product.Name),
				},
				{
					Type:  domain.ActionTypeURI,
					Label: "สั่งซื้อ",
					URI:   linkOrPlaceholder(product.Link),
				},
			},
		})
	}

	return &domain.CarouselPayload{
		AltText: fmt.Sprintf("ผลการค้นหา: %s", searchTitle),
		Columns: columns,
	}, nil
}

// Detail renders a single matched record as a text block, capped at 1000
// characters.
func (c *ReplyComposer) Detail(name, summary string) *domain.TextPayload {
	var text string
	if summary != "" {
		text = fmt.Sprintf("📦 %s:\n\n%s", name, summary)
	} else {
		text = fmt.Sprintf("📦 %s:\nไม่มีรายละเอียดเพิ่มเติม", name)
	}

	if runes := []rune(text); len(runes) > maxDetailTextRunes {
		text = string(runes[:maxDetailTextRunes-3]) + "..."
	}

	return &domain.TextPayload{Text: text}
}

// truncateRunes caps s at n runes. Truncation counts runes, not bytes: Thai
// product names are multi-byte and byte slicing would split characters.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func linkOrPlaceholder(link string) string {
	if link == "" {
		return placeholderLink
	}
	return link
}
