// Package request v1 API의 요청 모델을 정의합니다.
package request

// ProductRequest 상품 정보 조회 요청 (쿼리 파라미터)
type ProductRequest struct {
	// URL 상품 페이지 또는 단축 링크 주소
	URL string `query:"url" validate:"required,max=2048" korean:"url"`

	// ForceRefresh true이면 캐시를 무시하고 새로 수집합니다.
	ForceRefresh bool `query:"force_refresh"`
}
