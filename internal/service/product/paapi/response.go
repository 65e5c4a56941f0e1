package paapi

import (
	"bytes"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// Item 상품 광고 API 응답에서 추출한 상품 정보
//
// 가격과 할인 정보는 표시 문자열 그대로 보관하며, 정규화와 할인율 계산은 호출자가 수행합니다.
type Item struct {
	Identifier    string
	DetailPageURL string
	Title         string
	ImageURL      string

	PriceDisplay         string
	OriginalPriceDisplay string

	// RawDiscount 제공자가 계산한 할인율 (Offers.Listings.Price.Savings.Percentage)
	RawDiscount string

	// SavingsFlag 제공자가 할인 금액(Savings)을 명시했는지 여부
	SavingsFlag bool

	Features    []string
	Rating      *float64
	ReviewCount *int
}

// parseGetItemsResponse 응답을 해석합니다.
// 항목이 있으면 첫 번째 항목을 반환하고, 그 외의 모든 형태는 분류된 에러로 반환합니다.
func parseGetItemsResponse(statusCode int, body []byte) (*Item, error) {
	trimmed := bytes.TrimSpace(body)

	// HTTP 500과 함께 XML 본문으로 내려오는 InternalFailure는 일시적인 제공자 측 장애입니다.
	if len(trimmed) > 0 && trimmed[0] == '<' {
		if statusCode == http.StatusInternalServerError && bytes.Contains(trimmed, []byte(CodeInternalFailure)) {
			return nil, newProviderError(&ProviderError{
				StatusCode: statusCode,
				Code:       CodeInternalFailure,
				Message:    "제공자 내부 오류가 발생했습니다. 잠시 후 다시 시도하세요",
			})
		}
		return nil, apperrors.Newf(apperrors.ParsingFailed, "상품 광고 API 응답이 JSON 형식이 아닙니다 (HTTP %d)", statusCode)
	}

	if !gjson.ValidBytes(trimmed) {
		if statusCode >= http.StatusBadRequest {
			return nil, newProviderError(&ProviderError{StatusCode: statusCode, Message: snippet(trimmed)})
		}
		return nil, apperrors.Newf(apperrors.ParsingFailed, "상품 광고 API 응답을 해석할 수 없습니다 (HTTP %d)", statusCode)
	}

	doc := gjson.ParseBytes(trimmed)

	items := doc.Get("ItemsResult.Items")
	if items.IsArray() && len(items.Array()) > 0 && statusCode < http.StatusBadRequest {
		return parseItem(items.Array()[0])
	}

	if errs := doc.Get("Errors"); errs.IsArray() && len(errs.Array()) > 0 {
		first := errs.Array()[0]
		return nil, newProviderError(&ProviderError{
			StatusCode: statusCode,
			Code:       first.Get("Code").String(),
			Message:    first.Get("Message").String(),
		})
	}

	// 에러 목록 대신 최상위 __type/message 형식으로 내려오는 경우
	if code := doc.Get("__type").String(); code != "" {
		if idx := strings.LastIndexAny(code, "#."); idx >= 0 {
			code = code[idx+1:]
		}
		return nil, newProviderError(&ProviderError{
			StatusCode: statusCode,
			Code:       code,
			Message:    doc.Get("message").String(),
		})
	}

	if statusCode >= http.StatusBadRequest {
		return nil, newProviderError(&ProviderError{StatusCode: statusCode})
	}

	return nil, apperrors.New(apperrors.EmptyResult, "상품 광고 API 응답에 상품 정보가 없습니다")
}

func parseItem(v gjson.Result) (*Item, error) {
	item := &Item{
		Identifier:    v.Get("ASIN").String(),
		DetailPageURL: v.Get("DetailPageURL").String(),
		Title:         strings.TrimSpace(v.Get("ItemInfo.Title.DisplayValue").String()),
		ImageURL:      v.Get("Images.Primary.Large.URL").String(),
	}

	if item.Title == "" {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "상품 광고 API 응답에 상품명이 없습니다 (identifier=%s)", item.Identifier)
	}

	listing := v.Get("Offers.Listings.0")
	item.PriceDisplay = listing.Get("Price.DisplayAmount").String()
	item.OriginalPriceDisplay = listing.Get("SavingBasis.DisplayAmount").String()
	if savings := listing.Get("Price.Savings"); savings.Exists() {
		item.SavingsFlag = savings.Get("Amount").Float() > 0
		if pct := savings.Get("Percentage"); pct.Exists() {
			item.RawDiscount = pct.String()
		}
	}

	for _, f := range v.Get("ItemInfo.Features.DisplayValues").Array() {
		if s := strings.TrimSpace(f.String()); s != "" {
			item.Features = append(item.Features, s)
		}
	}

	if rating := v.Get("CustomerReviews.StarRating.Value"); rating.Exists() {
		r := rating.Float()
		if r >= 0 && r <= 5 {
			item.Rating = &r
		}
	}
	if count := v.Get("CustomerReviews.Count"); count.Exists() {
		c := int(count.Int())
		if c >= 0 {
			item.ReviewCount = &c
		}
	}

	return item, nil
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
