package auth

import (
	"errors"

	"github.com/darkkaiser/product-server/internal/service/api/httputil"
)

var (
	// ErrApplicationMissingInContext Context에서 애플리케이션 정보를 조회할 수 없을 때 반환하는 에러입니다.
	ErrApplicationMissingInContext = errors.New("Context에서 애플리케이션 정보를 찾을 수 없습니다")

	// ErrApplicationTypeMismatch Context에 저장된 값이 *domain.Application 타입이 아닐 때 반환하는 에러입니다.
	ErrApplicationTypeMismatch = errors.New("Context에 저장된 애플리케이션 정보의 타입이 올바르지 않습니다")

	// ErrInvalidAppKey 등록되지 않은 App Key로 요청했을 때 반환하는 인증 에러(401)입니다.
	ErrInvalidAppKey = httputil.NewUnauthorizedError("app_key가 유효하지 않습니다")
)
