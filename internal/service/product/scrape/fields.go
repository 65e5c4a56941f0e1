package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	titleExtractors = []FieldExtractor{
		Text("#productTitle"),
		Text("#title"),
		Text("#ebooksProductTitle"),
		Attr{Selector: `meta[name="title"]`, Name: "content"},
		JSONLD{Type: "Product", Path: "name"},
		Attr{Selector: `meta[property="og:title"]`, Name: "content"},
	}

	priceExtractors = []FieldExtractor{
		Text("#corePrice_feature_div .a-price .a-offscreen"),
		Text("#corePriceDisplay_desktop_feature_div .priceToPay .a-offscreen"),
		Text("#corePriceDisplay_desktop_feature_div .a-price .a-offscreen"),
		Text("#priceblock_dealprice"),
		Text("#priceblock_saleprice"),
		Text("#priceblock_ourprice"),
		Text("#price_inside_buybox"),
		Text("#newBuyBoxPrice"),
		Text("#kindle-price"),
		Text("#apex_desktop .a-price .a-offscreen"),
		Regex{Pattern: regexp.MustCompile(`"displayPrice"\s*:\s*"([^"]+)"`)},
	}

	originalPriceExtractors = []FieldExtractor{
		Text("#corePriceDisplay_desktop_feature_div .basisPrice .a-offscreen"),
		Text(".basisPrice .a-offscreen"),
		Text("#corePriceDisplay_desktop_feature_div .a-text-price .a-offscreen"),
		Text("#priceblock_listprice"),
		Text("#listPrice"),
		Text(".priceBlockStrikePriceString"),
		Text("span.a-price.a-text-price .a-offscreen"),
	}

	discountBadgeExtractors = []FieldExtractor{
		Text("#corePriceDisplay_desktop_feature_div .savingsPercentage"),
		Text(".savingsPercentage"),
		Text("#regularprice_savings .a-color-price"),
		Text("#dealprice_savings .a-color-price"),
	}

	specialOfferExtractors = []FieldExtractor{
		Text("#dealBadge_feature_div .a-badge-text"),
		Text("#dealBadgeSupportingText"),
		Text(".dealBadge .a-badge-text"),
		Text("#couponBadgeRegularVpc"),
		Text("#promoPriceBlockMessage_feature_div .a-color-success"),
	}

	ratingExtractors = []FieldExtractor{
		Attr{Selector: "#acrPopover", Name: "title"},
		Text("#acrPopover .a-icon-alt"),
		Text(`span[data-hook="rating-out-of-text"]`),
		Text("i.a-icon-star .a-icon-alt"),
		JSONLD{Type: "Product", Path: "aggregateRating.ratingValue"},
	}

	reviewCountExtractors = []FieldExtractor{
		Text("#acrCustomerReviewText"),
		Text(`span[data-hook="total-review-count"]`),
		JSONLD{Type: "Product", Path: "aggregateRating.reviewCount"},
	}

	featureSelectors = []string{
		"#feature-bullets ul li span.a-list-item",
		"#feature-bullets li",
		"#featurebullets_feature_div li",
		"#productFactsDesktopExpander li",
	}

	descriptionExtractors = []FieldExtractor{
		Text("#productDescription"),
		Text("#bookDescription_feature_div noscript"),
		JSONLD{Type: "Product", Path: "description"},
		Attr{Selector: `meta[name="description"]`, Name: "content"},
	}
)

var (
	discountBadgePattern = regexp.MustCompile(`\d{1,2}\s*%`)
	leadingNumberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	groupedNumberPattern = regexp.MustCompile(`\d[\d.,\s]*`)
	genericTitles        = map[string]bool{"amazon.com": true, "amazon": true, "page not found": true}
)

func plausibleTitle(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 3 && n <= 500 && !genericTitles[strings.ToLower(s)]
}

func plausiblePrice(s string) bool {
	return utf8.RuneCountInString(s) <= 40 && strings.ContainsAny(s, "0123456789")
}

func plausibleDiscountBadge(s string) bool {
	return discountBadgePattern.MatchString(s)
}

func plausibleBadge(s string) bool {
	return utf8.RuneCountInString(s) <= 80
}

func plausibleDescription(s string) bool {
	return utf8.RuneCountInString(s) >= 10
}

// extractFeatures 특징 목록(feature bullet)을 추출합니다. 첫 번째로 항목이 있는 선택자를 사용합니다.
func extractFeatures(p *Page) []string {
	for _, sel := range featureSelectors {
		var features []string
		p.Doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if s.HasClass("aok-hidden") {
				return
			}
			if text := collapseSpace(s.Text()); text != "" {
				features = append(features, text)
			}
		})
		if len(features) > 0 {
			return features
		}
	}
	return nil
}

// parseRating "4.7 out of 5 stars", "4,7 de 5 estrellas" 형식에서 0-5 범위의 평점을 추출합니다.
func parseRating(s string) (*float64, bool) {
	m := leadingNumberPattern.FindString(s)
	if m == "" {
		return nil, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil || v < 0 || v > 5 {
		return nil, false
	}
	return &v, true
}

// parseReviewCount "912,345 ratings", "1.234 valoraciones" 형식에서 숫자만 모아 리뷰 수를 추출합니다.
func parseReviewCount(s string) (*int, bool) {
	m := groupedNumberPattern.FindString(s)
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m)
	if digits == "" {
		return nil, false
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v < 0 {
		return nil, false
	}
	return &v, true
}
