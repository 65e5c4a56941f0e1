package handler

import (
	"github.com/darkkaiser/product-server/internal/service/api/httputil"
)

// NewErrInvalidRequest 요청 본문이나 쿼리 파라미터를 해석할 수 없을 때 반환하는 400 에러를 생성합니다.
func NewErrInvalidRequest() error {
	return httputil.NewBadRequestError("요청 형식이 올바르지 않습니다. JSON 본문과 쿼리 파라미터 형식을 확인해주세요")
}

// NewErrValidationFailed 요청 값의 유효성 검증에 실패했을 때 반환하는 400 에러를 생성합니다.
func NewErrValidationFailed(msg string) error {
	return httputil.NewBadRequestError(msg)
}
