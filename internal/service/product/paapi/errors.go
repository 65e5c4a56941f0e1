package paapi

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
)

// 제공자 에러 코드
const (
	CodeInternalFailure     = "InternalFailure"
	CodeInvalidSignature    = "InvalidSignature"
	CodeIncompleteSignature = "IncompleteSignature"
	CodeUnrecognizedClient  = "UnrecognizedClient"
	CodeInvalidPartnerTag   = "InvalidPartnerTag"
	CodeAccessDenied        = "AccessDenied"
	CodeTooManyRequests     = "TooManyRequests"
	CodeItemNotAccessible   = "ItemNotAccessible"
	CodeInvalidParameter    = "InvalidParameterValue"
)

var (
	authenticationCodes = map[string]bool{
		CodeInvalidSignature:         true,
		CodeIncompleteSignature:      true,
		CodeUnrecognizedClient:       true,
		CodeInvalidPartnerTag:        true,
		CodeAccessDenied:             true,
		"InvalidAssociate":           true,
		"MissingAuthenticationToken": true,
	}

	emptyResultCodes = map[string]bool{
		CodeItemNotAccessible: true,
		CodeInvalidParameter:  true,
	}
)

// ProviderError 상품 광고 API가 반환한 에러 응답
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Retryable 잠시 후 다시 시도하면 성공할 수 있는 에러인지 여부를 반환합니다.
func (e *ProviderError) Retryable() bool {
	return e.Code == CodeInternalFailure || e.Code == CodeTooManyRequests ||
		e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// errorType 에러 코드와 HTTP 상태 코드로 에러 종류를 결정합니다. 에러 코드가 우선합니다.
func (e *ProviderError) errorType() apperrors.ErrorType {
	code := strings.TrimSuffix(e.Code, "Exception")

	switch {
	case authenticationCodes[code]:
		return apperrors.Authentication
	case code == CodeTooManyRequests:
		return apperrors.RateLimited
	case code == CodeInternalFailure:
		return apperrors.Unavailable
	case emptyResultCodes[code]:
		return apperrors.EmptyResult
	}

	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return apperrors.Authentication
	case e.StatusCode == http.StatusTooManyRequests:
		return apperrors.RateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return apperrors.Unavailable
	case e.StatusCode >= http.StatusBadRequest:
		return apperrors.InvalidInput
	default:
		return apperrors.EmptyResult
	}
}

func newProviderError(pe *ProviderError) error {
	return apperrors.Wrap(pe, pe.errorType(), "상품 광고 API가 에러를 반환했습니다")
}

// AsProviderError 에러 체인에서 ProviderError를 찾습니다.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if apperrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
