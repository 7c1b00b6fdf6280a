package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

type stubSummaryBackend struct {
	summary string
	err     error
}

func (s stubSummaryBackend) Summarize(_ context.Context, _ string) (string, error) {
	return s.summary, s.err
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	longDescription := strings.Repeat("อาหารอร่อยมาก ", 10)

	t.Run("short descriptions pass through untouched", func(t *testing.T) {
		svc := NewSummaryService(stubSummaryBackend{summary: "should not be used"}, false)
		if got := svc.Summarize(ctx, "ซุปรสจัดจ้าน"); got != "ซุปรสจัดจ้าน" {
			t.Errorf("Summarize = %q, want pass-through", got)
		}
	})

	t.Run("uses backend summary when usable", func(t *testing.T) {
		svc := NewSummaryService(stubSummaryBackend{summary: "ซุปต้มยำรสจัดจ้าน เสิร์ฟร้อน พร้อมเครื่องเคียง"}, false)
		got := svc.Summarize(ctx, longDescription)
		if got != "ซุปต้มยำรสจัดจ้าน เสิร์ฟร้อน พร้อมเครื่องเคียง" {
			t.Errorf("Summarize = %q, want backend summary", got)
		}
	})

	t.Run("backend error falls back to rule-based shortener", func(t *testing.T) {
		svc := NewSummaryService(stubSummaryBackend{err: errors.New("unreachable")}, false)
		got := svc.Summarize(ctx, longDescription)
		if got == "" {
			t.Fatal("Summarize = empty, want shortened text")
		}
		if got != ShortenDescription(longDescription) {
			t.Errorf("Summarize = %q, want shortener output", got)
		}
	})

	t.Run("degenerate backend result falls back too", func(t *testing.T) {
		svc := NewSummaryService(stubSummaryBackend{summary: "สั้นไป"}, false)
		got := svc.Summarize(ctx, longDescription)
		if got != ShortenDescription(longDescription) {
			t.Errorf("Summarize = %q, want shortener output for too-short summary", got)
		}
	})

	t.Run("nil backend goes straight to shortener", func(t *testing.T) {
		svc := NewSummaryService(nil, false)
		got := svc.Summarize(ctx, longDescription)
		if got != ShortenDescription(longDescription) {
			t.Errorf("Summarize = %q, want shortener output", got)
		}
	})
}

func TestShortenDescription(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := ShortenDescription("   "); got != "ไม่มีรายละเอียด" {
			t.Errorf("ShortenDescription = %q, want stock empty line", got)
		}
	})

	t.Run("strips hashtags and dash runs", func(t *testing.T) {
		got := ShortenDescription("ซุปต้มยำแสนอร่อย #อาหารไทย -----. เสิร์ฟพร้อมข้าวสวยร้อน")
		if strings.Contains(got, "#") || strings.Contains(got, "---") {
			t.Errorf("ShortenDescription = %q, want hashtags and dash runs removed", got)
		}
	})

	t.Run("keeps sentences containing domain keywords", func(t *testing.T) {
		description := "เปิดตัวใหม่ล่าสุดจ้า. ซุปไก่สกัดเข้มข้น. มีโปรตีนสูงถึง 20 กรัม. สั่งเลยวันนี้"
		got := ShortenDescription(description)
		if !strings.Contains(got, "ซุปไก่สกัดเข้มข้น") {
			t.Errorf("ShortenDescription = %q, want keyword sentence kept", got)
		}
		if !strings.Contains(got, "โปรตีน") {
			t.Errorf("ShortenDescription = %q, want protein sentence kept", got)
		}
		if strings.Contains(got, "สั่งเลยวันนี้") {
			t.Errorf("ShortenDescription = %q, want filler sentence dropped", got)
		}
	})

	t.Run("falls back to first two sentences without keywords", func(t *testing.T) {
		got := ShortenDescription("ของใหม่มาแล้ว. สดจากฟาร์ม. ส่งไวทันใจ. โปรพิเศษ")
		if !strings.Contains(got, "ของใหม่มาแล้ว") || !strings.Contains(got, "สดจากฟาร์ม") {
			t.Errorf("ShortenDescription = %q, want first two sentences", got)
		}
		if strings.Contains(got, "ส่งไวทันใจ") {
			t.Errorf("ShortenDescription = %q, want later sentences dropped", got)
		}
	})

	t.Run("caps output length with ellipsis", func(t *testing.T) {
		got := ShortenDescription(strings.Repeat("ซุป", 400))
		if runes := utf8.RuneCountInString(got); runes > maxShortenedRunes+3 {
			t.Errorf("ShortenDescription length = %d runes, want <= %d", runes, maxShortenedRunes+3)
		}
		if !strings.HasSuffix(got, "...") {
			t.Error("capped output should end with ellipsis")
		}
	})
}
