package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Fallback strings returned instead of errors; the transport layer never sees
// a generation failure.
const (
	fallbackEmptyResponse = "ขออภัย ไม่สามารถตอบได้ในขณะนี้"
	fallbackBadStatus     = "ขออภัย ระบบขัดข้อง กรุณาลองใหม่อีกครั้ง"
	fallbackUnreachable   = "ขออภัย ไม่สามารถเชื่อมต่อกับระบบได้ กรุณาลองใหม่อีกครั้ง"
)

// GenerateClient talks to the Ollama /api/generate endpoint for the
// conversational fallback and description summaries.
type GenerateClient struct {
	httpClient      *http.Client
	baseURL         string
	model           string
	generateTimeout time.Duration
	summaryTimeout  time.Duration
	rateLimiter     *rate.Limiter
	debug           bool
}

// NewGenerateClient creates a generation client. Timeouts <= 0 fall back to
// 30s for generation and 15s for summaries.
func NewGenerateClient(baseURL, model string, generateTimeout, summaryTimeout time.Duration) *GenerateClient {
	if generateTimeout <= 0 {
		generateTimeout = 30 * time.Second
	}
	if summaryTimeout <= 0 {
		summaryTimeout = 15 * time.Second
	}

	// A local model serves one completion at a time; cap concurrent pressure.
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &GenerateClient{
		httpClient:      &http.Client{Timeout: generateTimeout},
		baseURL:         strings.TrimRight(baseURL, "/"),
		model:           model,
		generateTimeout: generateTimeout,
		summaryTimeout:  summaryTimeout,
		rateLimiter:     limiter,
	}
}

// SetDebug enables debug logging for generation calls
func (c *GenerateClient) SetDebug(debug bool) {
	c.debug = debug
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate produces a conversational reply in the shop-assistant persona.
// Always returns a usable string; transport failures map to canned apologies.
func (c *GenerateClient) Generate(ctx context.Context, prompt, promptContext string) string {
	fullPrompt := fmt.Sprintf(`คุณเป็นผู้ช่วยในร้านอาหาร CP ที่ให้คำแนะนำเกี่ยวกับสินค้าและตอบคำถามของลูกค้า

ข้อมูลบริบท: %s

คำถามของลูกค้า: %s

กรุณาตอบด้วยภาษาไทยในลักษณะที่เป็นมิตรและให้ข้อมูลที่เป็นประโยชน์ หากไม่มีข้อมูลที่เกี่ยวข้อง ให้แนะนำให้ลูกค้าดูเมนูหรือสินค้าที่มี
ตอบแค่ข้อความสั้นๆ ไม่เกิน 200 คำ`, promptContext, prompt)

	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	response, err := c.complete(ctx, fullPrompt, 0.7, 300)
	if err != nil {
		if c.debug {
			log.Printf("[OLLAMA] generate failed: %v", err)
		}
		return fallbackFor(err)
	}
	if response == "" {
		return fallbackEmptyResponse
	}
	return response
}

// Summarize condenses a product description. Unlike Generate it returns an
// error so the caller can run its deterministic rule-based shortener.
func (c *GenerateClient) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`กรุณาสรุปคำอธิบายสินค้านี้ให้กระชับและเข้าใจง่าย โดย:
- ลบ emoji และสัญลักษณ์พิเศษออก
- เน้นข้อมูลสำคัญเช่น ส่วนผสม คุณประโยชน์ ขนาด
- ใช้ภาษาไทยง่ายๆ ไม่เกิน 3-4 บรรทัด
- ไม่ต้องมีข้อมูลการจัดส่งหรือเงื่อนไขการสั่งซื้อ

คำอธิบายเดิม: %s

สรุป:`, text)

	ctx, cancel := context.WithTimeout(ctx, c.summaryTimeout)
	defer cancel()

	return c.complete(ctx, prompt, 0.3, 200)
}

// complete executes one non-streaming generate call.
func (c *GenerateClient) complete(ctx context.Context, prompt string, temperature float64, numPredict int) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: temperature,
			NumPredict:  numPredict,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode}
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return strings.TrimSpace(result.Response), nil
}

// statusError marks a non-200 reply so Generate can pick the matching
// fallback string.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama generate: status %d", e.code)
}

func fallbackFor(err error) string {
	if _, ok := err.(*statusError); ok {
		return fallbackBadStatus
	}
	return fallbackUnreachable
}
