package product

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

var simulatedNames = []string{
	"Wireless Noise Cancelling Headphones",
	"Stainless Steel Insulated Water Bottle",
	"Mechanical Keyboard with RGB Backlight",
	"Smart Fitness Tracker Watch",
	"Portable Bluetooth Speaker",
	"Ergonomic Office Chair",
	"4K Action Camera",
	"Cast Iron Skillet",
}

// simulatedDraft 네트워크 요청 없이 식별자의 해시로 결정되는 데모용 상품 정보를 만듭니다.
// 같은 식별자와 호스트에 대해서는 항상 같은 값을 반환합니다.
func simulatedDraft(identifier, canonicalURL, host string, now time.Time) Draft {
	h := fnv.New64a()
	_, _ = h.Write([]byte(identifier))
	sum := h.Sum64()

	name := simulatedNames[sum%uint64(len(simulatedNames))]
	cents := 999 + int((sum>>8)%20000)       // 9.99 - 209.98
	discount := int((sum>>24)%5) * 10        // 0, 10, 20, 30, 40
	rating := 3.5 + float64((sum>>32)%16)/10 // 3.5 - 5.0
	reviews := int((sum >> 40) % 5000)

	d := Draft{
		Identifier:   identifier,
		CanonicalURL: canonicalURL,
		Title:        fmt.Sprintf("%s (%s)", name, identifier),
		PriceDisplay: formatPrice(host, cents),
		Description:  "Simulated product for preview and testing. Prices and ratings are generated.",
		ImageURL:     imageProbeURL(identifier),
		Rating:       &rating,
		ReviewCount:  &reviews,
		Source:       SourceSimulated,
		FetchedAt:    now,
	}
	if discount > 0 {
		original := cents * 100 / (100 - discount)
		d.OriginalPriceDisplay = formatPrice(host, original)
		d.SavingsFlag = true
	}

	return d
}

// formatPrice 마켓플레이스 관례에 맞는 가격 표시 문자열을 만듭니다.
func formatPrice(host string, cents int) string {
	whole, frac := cents/100, cents%100

	switch {
	case strings.HasSuffix(host, ".co.uk"):
		return fmt.Sprintf("£%d.%02d", whole, frac)
	case strings.HasSuffix(host, ".co.jp"):
		return fmt.Sprintf("¥%d", whole*150)
	case strings.HasSuffix(host, ".es"), strings.HasSuffix(host, ".de"),
		strings.HasSuffix(host, ".fr"), strings.HasSuffix(host, ".it"), strings.HasSuffix(host, ".nl"):
		return fmt.Sprintf("%d,%02d €", whole, frac)
	default:
		return fmt.Sprintf("$%d.%02d", whole, frac)
	}
}
