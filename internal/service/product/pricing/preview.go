package pricing

// Preview 가격 문자열 하나에 대한 정규화/추출/추론 결과
type Preview struct {
	PriceDisplay         string   `json:"price_display"`
	PriceNumeric         *float64 `json:"price_numeric"`
	OriginalPriceDisplay string   `json:"original_price_display,omitempty"`
	OriginalPriceNumeric *float64 `json:"original_price_numeric"`
	DiscountPercent      *int     `json:"discount_percent"`
}

// Evaluate 입력값 전체에 정규화, 숫자 추출, 할인율 추론을 적용합니다.
// 상품 수집 경로와 미리보기 API가 같은 결과를 내도록 이 함수를 공유합니다.
//
// 할인율은 정가와 판매가가 모두 추출되고 정가 > 판매가 인 경우에만 포함됩니다.
// 명시적 할인율만 있고 가격이 없는 입력은 할인율 없이 반환됩니다.
func (e *Engine) Evaluate(in Input) Preview {
	p := Preview{
		PriceDisplay:         Normalize(in.Price),
		OriginalPriceDisplay: Normalize(in.OriginalPrice),
	}

	if v, ok := ExtractNumeric(in.Price); ok {
		p.PriceNumeric = &v
	}
	if v, ok := ExtractNumeric(in.OriginalPrice); ok {
		p.OriginalPriceNumeric = &v
	}
	if p.PriceNumeric == nil || p.OriginalPriceNumeric == nil || *p.OriginalPriceNumeric <= *p.PriceNumeric {
		return p
	}
	if d, ok := e.Infer(in); ok {
		p.DiscountPercent = &d
	}

	return p
}
