// Package constants API 서비스 전반에서 사용하는 상수를 정의합니다.
package constants

import "time"

// 로그 발생 위치(컴포넌트) 식별을 위한 상수입니다.
const (
	ComponentService                 = "api.service"
	ComponentHandler                 = "api.handler"
	ComponentErrorHandler            = "api.error_handler"
	ComponentMiddlewareAuth          = "api.middleware.auth"
	ComponentMiddlewareRateLimit     = "api.middleware.rate_limit"
	ComponentMiddlewarePanicRecovery = "api.middleware.panic_recovery"
	ComponentMiddlewareContentType   = "api.middleware.content_type"
)

// HTTP 헤더 키
const (
	// HeaderAppKey 관리용 API 호출 시 애플리케이션 인증에 사용하는 헤더
	HeaderAppKey = "X-App-Key"

	// HeaderRetryAfter 요청 제한 시 재시도 대기 시간(초)을 알리는 헤더
	HeaderRetryAfter = "Retry-After"
)

// 쿼리 파라미터 키
const (
	QueryParamURL          = "url"
	QueryParamForceRefresh = "force_refresh"
)

// HTTP 서버 기본값
const (
	// DefaultRequestTimeout 요청 하나의 최대 처리 시간
	// 상품 수집은 API 조회와 여러 차례의 스크래핑을 거치므로 넉넉하게 잡습니다.
	DefaultRequestTimeout = 90 * time.Second

	DefaultReadTimeout       = 15 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 120 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultMaxBodySize 요청 본문 최대 크기
	DefaultMaxBodySize = "64K"

	// DefaultRateLimitPerSecond IP별 초당 허용 요청 수
	DefaultRateLimitPerSecond = 10

	// DefaultRateLimitBurst IP별 순간 최대 허용 요청 수
	DefaultRateLimitBurst = 30
)

// SensitiveQueryParams 로그에 기록할 때 값을 가려야 하는 쿼리 파라미터 목록
var SensitiveQueryParams = []string{
	"app_key",
	"api_key",
	"password",
	"token",
	"secret",
}

// 헬스체크 상태
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	HealthStatusDisabled  = "disabled"

	DependencyCache       = "cache"
	DependencyProviderAPI = "provider_api"
)

// 클라이언트에게 반환하는 표준 에러 메시지
const (
	ErrMsgBadRequest         = "잘못된 요청입니다"
	ErrMsgNotFound           = "페이지를 찾을 수 없습니다"
	ErrMsgInternalServer     = "내부 서버 오류가 발생했습니다"
	ErrMsgServiceUnavailable = "서비스를 일시적으로 사용할 수 없습니다. 잠시 후 다시 시도해주세요"
)

// 로그 메시지
const (
	LogMsgServiceStarting                = "API 서비스 시작중..."
	LogMsgServiceStarted                 = "API 서비스 시작됨"
	LogMsgServiceAlreadyStarted          = "API 서비스가 이미 시작됨!!!"
	LogMsgServiceStopping                = "API 서비스 중지중..."
	LogMsgServiceStopped                 = "API 서비스 중지됨"
	LogMsgServiceUnexpectedExit          = "HTTP 서버가 예기치 않게 종료되었습니다"
	LogMsgServiceHTTPServerStarting      = "HTTP 서버 시작"
	LogMsgServiceHTTPServerStopped       = "HTTP 서버 종료됨"
	LogMsgServiceHTTPServerFatalError    = "HTTP 서버를 구성하는 중에 치명적인 오류가 발생하였습니다"
	LogMsgServiceHTTPServerShutdownError = "HTTP 서버를 중지하는 중에 오류가 발생하였습니다"

	LogMsgHTTP4xxClientError = "HTTP 4xx: 클라이언트 요청 오류"
	LogMsgHTTP5xxServerError = "HTTP 5xx: 서버 내부 오류"
)

// ContextKeyApplication 인증된 애플리케이션을 echo.Context에 저장할 때 사용하는 키
const ContextKeyApplication = "darkkaiser/product-server/api/auth/AuthenticatedApplication"
