package middleware

import (
	"github.com/labstack/echo/v4"

	applog "github.com/darkkaiser/product-server/pkg/log"
)

// RequestContext Request ID를 요청 Context의 로깅 필드로 등록하는 함수를 반환합니다.
//
// echo RequestID 미들웨어의 RequestIDHandler로 사용하며, 이후 applog.WithContext로 기록하는
// 모든 로그에 request_id가 포함됩니다.
func RequestContext() func(c echo.Context, requestID string) {
	return func(c echo.Context, requestID string) {
		req := c.Request()
		ctx := applog.ContextWithFields(req.Context(), applog.Fields{
			"request_id": requestID,
		})
		c.SetRequest(req.WithContext(ctx))
	}
}
