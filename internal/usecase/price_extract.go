package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// Catalog price strings are scraped and messy: "฿120.00", "฿ 1,250.00",
// "ราคาเดิม ฿150 ราคาใหม่ ฿120", "150/120", "120 บาท". Extraction prefers
// explicit currency-marked amounts and treats the last of two amounts as the
// current (discounted) price.
var (
	bahtAmountRegex = regexp.MustCompile(`฿\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)
	bahtWordRegex   = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d{2})?)\s*บาท`)
	slashPriceRegex = regexp.MustCompile(`(\d+)/(\d+)`)
	bareNumberRegex = regexp.MustCompile(`\d+(?:\.\d{2})?`)
)

// Bare numbers outside this band are not plausible prices.
const (
	minBarePrice = 15
	maxBarePrice = 9999
)

// ExtractPrice pulls a numeric price out of a raw catalog price string.
// Returns 0 when no pattern yields a plausible price; callers decide whether
// unpriced records participate in price-constrained filtering.
func ExtractPrice(priceString string) float64 {
	price := strings.TrimSpace(priceString)
	if price == "" {
		return 0
	}

	// Currency-marked amounts; the last of several is the discounted price.
	if matches := bahtAmountRegex.FindAllStringSubmatch(price, -1); len(matches) > 0 {
		return parseAmount(matches[len(matches)-1][1])
	}

	// "N บาท" form.
	if m := bahtWordRegex.FindStringSubmatch(price); m != nil {
		return parseAmount(m[1])
	}

	// "X/Y" form lists original/discounted; take Y.
	if m := slashPriceRegex.FindStringSubmatch(price); m != nil {
		return parseAmount(m[2])
	}

	// Best-effort: the largest bare number in the plausible band.
	best := 0.0
	for _, m := range bareNumberRegex.FindAllString(strings.ReplaceAll(price, ",", ""), -1) {
		n := parseAmount(m)
		if n >= minBarePrice && n <= maxBarePrice && n > best {
			best = n
		}
	}
	return best
}

func parseAmount(s string) float64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return n
}
