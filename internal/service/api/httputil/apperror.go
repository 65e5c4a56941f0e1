package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
)

// statusByErrorType 애플리케이션 에러 분류별 HTTP 상태 코드
var statusByErrorType = map[apperrors.ErrorType]int{
	apperrors.NoIdentifier:   http.StatusUnprocessableEntity,
	apperrors.InvalidInput:   http.StatusBadRequest,
	apperrors.NotFound:       http.StatusNotFound,
	apperrors.Authentication: http.StatusUnauthorized,
	apperrors.RateLimited:    http.StatusTooManyRequests,
	apperrors.Unavailable:    http.StatusServiceUnavailable,
	apperrors.Timeout:        http.StatusServiceUnavailable,
}

// FromAppError 애플리케이션 에러를 HTTP 에러로 변환합니다.
//
// 4xx로 분류되는 에러는 원래 메시지를 그대로 전달하고, 5xx는 내부 정보가 노출되지 않도록
// 표준 메시지로 대체합니다. err가 nil이면 nil을 반환합니다.
func FromAppError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	// 클라이언트가 연결을 끊거나 요청 제한 시간이 지난 경우
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newHTTPError(http.StatusServiceUnavailable, constants.ErrMsgServiceUnavailable)
	}

	// 가장 바깥쪽 에러의 분류가 호출자에게 의미 있는 분류입니다.
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return newHTTPError(http.StatusInternalServerError, constants.ErrMsgInternalServer)
	}

	code, ok := statusByErrorType[appErr.Type()]
	if !ok {
		return newHTTPError(http.StatusInternalServerError, constants.ErrMsgInternalServer)
	}
	if code >= http.StatusInternalServerError {
		return newHTTPError(code, constants.ErrMsgServiceUnavailable)
	}

	return newHTTPError(code, appErr.Message())
}
