package domain

// ProductRecord represents one catalog item scraped from the CP online store.
// Records are immutable once loaded; Name is the unique key for matching.
type ProductRecord struct {
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Price       string `json:"price"` // raw string, may contain ฿, ranges or two amounts
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// QueryInfo holds the constraints parsed out of one user message.
// MinPrice/MaxPrice are nil when the query carries no such constraint.
type QueryInfo struct {
	Keywords      []string `json:"keywords"`
	MinPrice      *float64 `json:"minPrice,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty"`
	OriginalQuery string   `json:"originalQuery"`
}

// HasPriceConstraint reports whether either bound is set.
func (q *QueryInfo) HasPriceConstraint() bool {
	return q.MinPrice != nil || q.MaxPrice != nil
}

// ScoredMatch pairs a catalog record with its similarity score for ranking.
// Scores are cosine similarities in [-1, 1].
type ScoredMatch struct {
	Record ProductRecord `json:"record"`
	Score  float64       `json:"score"`
}

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentMenu     Intent = "menu"
	IntentDetail   Intent = "detail"
	IntentSearch   Intent = "search"
	IntentFallback Intent = "fallback"
)

// ReplyType discriminates the transport-neutral reply payloads.
type ReplyType string

const (
	ReplyTypeCarousel ReplyType = "carousel"
	ReplyTypeText     ReplyType = "text"
)

// Reply is the transport-neutral response to one user message.
// Exactly one of Carousel or Text is set, per Type.
type Reply struct {
	Type     ReplyType        `json:"type"`
	Intent   Intent           `json:"intent"`
	Carousel *CarouselPayload `json:"carousel,omitempty"`
	Text     *TextPayload     `json:"text,omitempty"`
}

// CarouselPayload renders a browsable set of product cards.
type CarouselPayload struct {
	AltText string           `json:"altText"`
	Columns []CarouselColumn `json:"columns"`
}

// CarouselColumn is one product card. Title is capped at 40 characters and
// Text at 60, matching the carousel template limits of the chat transport.
type CarouselColumn struct {
	ThumbnailImageURL string           `json:"thumbnailImageUrl"`
	Title             string           `json:"title"`
	Text              string           `json:"text"`
	Actions           []CarouselAction `json:"actions"`
}

// CarouselActionType distinguishes message-sending actions from link actions.
type CarouselActionType string

const (
	ActionTypeMessage CarouselActionType = "message"
	ActionTypeURI     CarouselActionType = "uri"
)

// CarouselAction is one button on a product card.
type CarouselAction struct {
	Type  CarouselActionType `json:"type"`
	Label string             `json:"label"`
	Text  string             `json:"text,omitempty"` // for message actions
	URI   string             `json:"uri,omitempty"`  // for uri actions
}

// TextPayload is a plain text reply.
type TextPayload struct {
	Text string `json:"text"`
}

// NewTextReply builds a text reply for the given intent.
func NewTextReply(intent Intent, text string) *Reply {
	return &Reply{
		Type:   ReplyTypeText,
		Intent: intent,
		Text:   &TextPayload{Text: text},
	}
}

// NewCarouselReply builds a carousel reply for the given intent.
func NewCarouselReply(intent Intent, carousel *CarouselPayload) *Reply {
	return &Reply{
		Type:     ReplyTypeCarousel,
		Intent:   intent,
		Carousel: carousel,
	}
}
