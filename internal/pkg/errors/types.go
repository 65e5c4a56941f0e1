package errors

//go:generate stringer -type=ErrorType

// ErrorType 에러의 종류를 나타내는 타입입니다.
//
// 공통 분류(Internal, InvalidInput 등) 외에 상품 수집 파이프라인의 실패 유형을 함께 정의합니다.
// 파이프라인의 각 단계는 자신의 실패를 아래 타입 중 하나로 분류하여 반환하며,
// 오케스트레이터는 이 분류를 기준으로 다음 전략으로 넘어갈지 여부를 판단합니다.
type ErrorType int

const (
	// Unknown 알 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// InvalidInput 잘못된 입력값 (유효성 검사 실패)
	InvalidInput

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// Timeout 작업 시간 초과
	Timeout

	// Unavailable 서비스 일시적 사용 불가 (제공자 측 InternalFailure 등)
	Unavailable

	// Configuration 자격 증명 누락, 잘못된 설정, 비활성화된 연동
	Configuration

	// Network 연결 실패, DNS 실패 등 전송 계층 오류
	Network

	// Authentication 서명 또는 자격 증명이 제공자에 의해 거부됨
	Authentication

	// RateLimited 요청 빈도 제한 (HTTP 429)
	RateLimited

	// Blocked 자동화 트래픽 감지로 인한 차단 (CAPTCHA, 로봇 확인 페이지 등)
	Blocked

	// ParsingFailed 응답에서 필수 데이터(상품명 등)를 추출하지 못함
	ParsingFailed

	// EmptyResult 형식은 올바르지만 결과 항목이 없음
	EmptyResult

	// NoIdentifier URL에서 상품 식별자를 찾을 수 없음 (복구 불가능)
	NoIdentifier
)
