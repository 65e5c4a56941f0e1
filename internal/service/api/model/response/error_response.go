package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 400, 401, 500)
	ResultCode int `json:"result_code" example:"422"`

	// Message 에러 메시지
	Message string `json:"message" example:"상품 식별자를 확인할 수 없습니다"`
}
