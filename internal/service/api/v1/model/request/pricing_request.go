package request

// PricingPreviewRequest 가격 미리보기 요청
//
// 편집 화면에서 입력한 가격 문자열을 상품 수집 경로와 같은 규칙으로 정규화하고 할인율을 계산합니다.
type PricingPreviewRequest struct {
	// Price 판매가 표시 문자열
	Price string `json:"price" validate:"required,max=256" korean:"판매가" example:"29,99 €"`

	// OriginalPrice 정가 표시 문자열
	OriginalPrice string `json:"original_price" validate:"max=256" korean:"정가" example:"39,99 €"`

	// RawDiscount 출처가 명시한 할인율 표시 (예: "-25%")
	RawDiscount string `json:"raw_discount" validate:"max=32" korean:"할인율" example:"-25%"`

	// Title 상품명. 단위 가격 표기를 판단하는 데 사용합니다.
	Title string `json:"title" validate:"max=1024" korean:"상품명" example:"Café molido 250g"`

	// SavingsFlag 출처가 할인 중임을 명시했는지 여부
	SavingsFlag bool `json:"savings_flag"`
}
