package scrape

import (
	"bytes"
	"net/http"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
)

// minPlausiblePageSize 정상 상품 페이지는 이보다 훨씬 크므로, 이보다 작은 응답은 차단 페이지로 간주합니다.
const minPlausiblePageSize = 5000

// blockedMarkers 자동화 트래픽 차단 페이지에 나타나는 문구 (소문자)
var blockedMarkers = [][]byte{
	[]byte("captcha"),
	[]byte("robot check"),
	[]byte("automated access"),
	[]byte("api-services-support@amazon.com"),
	[]byte("type the characters you see"),
	[]byte("/errors/validatecaptcha"),
	[]byte("sorry, we just need to make sure you're not a robot"),
}

// detectBlocked 응답이 차단 페이지인지 판별합니다. 차단이면 Blocked 에러를 반환합니다.
// HTTP 429는 RateLimited로도 분류됩니다. 차단과 무관한 실패 상태 코드(404 등)는 판별하지 않습니다.
func detectBlocked(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return apperrors.Wrap(apperrors.New(apperrors.RateLimited, "HTTP 429 Too Many Requests"), apperrors.Blocked, "요청 빈도 제한으로 차단되었습니다")
	case http.StatusForbidden, http.StatusServiceUnavailable:
		return apperrors.Newf(apperrors.Blocked, "차단 응답 상태 코드입니다 (HTTP %d)", statusCode)
	}

	if statusCode < 200 || statusCode >= 300 {
		return nil
	}

	lower := bytes.ToLower(body)
	for _, marker := range blockedMarkers {
		if bytes.Contains(lower, marker) {
			return apperrors.Newf(apperrors.Blocked, "자동화 트래픽 확인 페이지가 반환되었습니다 (marker=%q)", marker)
		}
	}

	if len(body) < minPlausiblePageSize {
		return apperrors.Newf(apperrors.Blocked, "응답 본문이 정상 페이지로 보기에는 너무 작습니다 (%d bytes)", len(body))
	}

	return nil
}
