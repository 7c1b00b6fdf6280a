package usecase

import "testing"

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"baht symbol", "฿120.00", 120},
		{"baht symbol with space", "฿ 1,250.00", 1250},
		{"original and discounted amounts takes the latter", "฿150.00 ฿120.00", 120},
		{"baht word form", "120 บาท", 120},
		{"thousands separator in baht word form", "1,050.00 บาท", 1050},
		{"slash form takes second value", "150/120", 120},
		{"bare number in plausible band", "ราคาพิเศษ 89", 89},
		{"largest plausible bare number", "ชุด 2 ชิ้น 159", 159},
		{"implausible bare numbers ignored", "โปร 5 แถม 3", 0},
		{"empty string", "", 0},
		{"no digits", "สอบถามราคา", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPrice(tt.input)
			if got != tt.want {
				t.Errorf("ExtractPrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got < 0 {
				t.Errorf("ExtractPrice(%q) = %v, want non-negative", tt.input, got)
			}
		})
	}

	t.Run("deterministic for repeated calls", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if got := ExtractPrice("฿150.00 ฿120.00"); got != 120 {
				t.Fatalf("call %d: ExtractPrice = %v, want 120", i, got)
			}
		}
	})
}
