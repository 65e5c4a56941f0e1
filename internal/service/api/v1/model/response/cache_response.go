// Package response v1 API의 응답 모델을 정의합니다.
package response

// CacheClearResponse 캐시 삭제 결과
type CacheClearResponse struct {
	// ResultCode 처리 결과 코드 (0: 성공)
	ResultCode int `json:"result_code" example:"0"`

	// Deleted 삭제된 캐시 항목 수
	Deleted int `json:"deleted" example:"42"`
}
