package fetcher

import (
	"context"
	"crypto/x509"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

const (
	// maxAllowedRetries 허용 가능한 최대 재시도 횟수
	maxAllowedRetries = 5

	// minAllowedRetryDelay 재시도 대기 시간의 하한
	minAllowedRetryDelay = 100 * time.Millisecond

	// defaultMaxRetryDelay 최대 대기 시간을 지정하지 않았을 때의 기본값
	defaultMaxRetryDelay = 10 * time.Second
)

// RetryPolicy RetryFetcher의 재시도 정책
type RetryPolicy struct {
	// MaxRetries 최초 시도를 제외한 최대 재시도 횟수 (0-5)
	MaxRetries int

	// MinDelay 지수 백오프의 시작값, MaxDelay 대기 시간 상한
	MinDelay time.Duration
	MaxDelay time.Duration

	// Methods 재시도를 허용할 HTTP 메서드. 비어 있으면 멱등 메서드만 재시도합니다.
	// 조회 전용 POST API처럼 서버 상태를 바꾸지 않는 요청은 명시적으로 추가할 수 있습니다.
	Methods []string
}

// RetryFetcher 일시적인 실패를 지수 백오프로 재시도하는 Fetcher입니다.
//
//   - 재시도 대상: 네트워크 오류, 408, 429, 5xx (501/505/511 제외)
//   - Full Jitter: 0 ~ 계산된 대기 시간 사이에서 무작위로 대기
//   - Retry-After 헤더가 있으면 그 값을 우선하며, MaxDelay를 넘으면 더 이상 재시도하지 않습니다.
//   - 요청 Context가 취소되면 대기를 즉시 중단합니다.
//
// 재시도를 모두 소진한 뒤에도 실패 응답을 받았다면 마지막 응답을 그대로 반환합니다.
// 상태 코드와 응답 본문의 해석은 StatusCodeFetcher 또는 호출자가 담당합니다.
type RetryFetcher struct {
	delegate Fetcher

	maxRetries    int
	minRetryDelay time.Duration
	maxRetryDelay time.Duration

	methods map[string]bool
}

var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher 정책 값을 허용 범위로 보정하여 RetryFetcher를 생성합니다.
func NewRetryFetcher(delegate Fetcher, policy RetryPolicy) *RetryFetcher {
	minDelay, maxDelay := normalizeRetryDelays(policy.MinDelay, policy.MaxDelay)

	methods := policy.Methods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete}
	}
	allowed := make(map[string]bool, len(methods))
	for _, m := range methods {
		allowed[strings.ToUpper(m)] = true
	}

	return &RetryFetcher{
		delegate:      delegate,
		maxRetries:    normalizeMaxRetries(policy.MaxRetries),
		minRetryDelay: minDelay,
		maxRetryDelay: maxDelay,
		methods:       allowed,
	}
}

func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	maxRetries := f.maxRetries
	if !f.methods[req.Method] {
		maxRetries = 0
	}

	// 재시도 시 본문을 다시 보내야 하므로 GetBody가 없으면 재시도하지 않는다.
	if maxRetries > 0 && req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		applog.WithContextAndFields(req.Context(), component, applog.Fields{
			"url":    RedactURL(req.URL),
			"method": req.Method,
		}).Warn("재시도 비활성화: 요청 본문을 다시 만들 수 없습니다 (GetBody nil)")

		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, apperrors.Wrap(err, apperrors.Internal, "재시도 요청 본문을 다시 만들 수 없습니다")
			}
			req = req.Clone(req.Context())
			req.Body = body
		}

		resp, err := f.delegate.Do(req)

		// 요청 자체의 Context가 끝났다면 재시도해도 성공할 수 없다.
		if req.Context().Err() != nil {
			return resp, err
		}

		if !shouldRetry(resp, err) {
			return resp, err
		}

		if attempt >= maxRetries {
			if err != nil && maxRetries > 0 {
				return nil, apperrors.Wrapf(err, retryErrorType(err), "최대 재시도 횟수(%d회)를 초과했습니다", maxRetries)
			}
			return resp, err
		}

		delay, retryAfter, ok := f.nextDelay(attempt+1, resp, err)
		if !ok {
			applog.WithContextAndFields(req.Context(), component, applog.Fields{
				"url":                RedactURL(req.URL),
				"retry_after_header": retryAfter,
				"max_retry_delay":    f.maxRetryDelay.String(),
			}).Warn("Retry-After 대기 시간이 허용 범위를 넘어 재시도를 중단합니다")

			return resp, err
		}

		fields := applog.Fields{
			"url":               RedactURL(req.URL),
			"retry":             attempt + 1,
			"remaining_retries": maxRetries - attempt - 1,
			"delay":             delay.String(),
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		if resp != nil {
			fields["status_code"] = resp.StatusCode
			drainAndCloseBody(resp.Body)
		}
		if retryAfter != "" {
			fields["retry_after_header"] = retryAfter
		}
		applog.WithContextAndFields(req.Context(), component, fields).Warn("일시적 오류로 요청을 재시도합니다")

		if err := sleepContext(req.Context(), delay); err != nil {
			return nil, err
		}
	}
}

func (f *RetryFetcher) Close() error {
	return f.delegate.Close()
}

// nextDelay retry번째 재시도 전에 기다릴 시간을 계산합니다.
// Retry-After가 maxRetryDelay보다 길면 ok는 false입니다.
func (f *RetryFetcher) nextDelay(retry int, resp *http.Response, err error) (delay time.Duration, retryAfter string, ok bool) {
	delay = f.minRetryDelay << (retry - 1)
	if delay <= 0 || delay > f.maxRetryDelay {
		delay = f.maxRetryDelay
	}
	delay = time.Duration(rand.Int64N(int64(delay) + 1))
	if delay < time.Millisecond {
		delay = f.minRetryDelay
	}

	if resp != nil {
		retryAfter = resp.Header.Get("Retry-After")
	} else {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.Header != nil {
			retryAfter = statusErr.Header.Get("Retry-After")
		}
	}

	if d, parsed := parseRetryAfter(retryAfter); parsed {
		if d > f.maxRetryDelay {
			return 0, retryAfter, false
		}
		delay = d
	}

	return delay, retryAfter, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeMaxRetries(n int) int {
	return max(0, min(n, maxAllowedRetries))
}

func normalizeRetryDelays(minDelay, maxDelay time.Duration) (time.Duration, time.Duration) {
	if minDelay < minAllowedRetryDelay {
		minDelay = minAllowedRetryDelay
	}
	if maxDelay == 0 {
		maxDelay = defaultMaxRetryDelay
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return minDelay, maxDelay
}

// shouldRetry 응답 상태 코드 또는 에러가 일시적인 실패인지 판단합니다.
func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return isRetriable(err)
	}
	if resp == nil {
		return false
	}
	return retriableStatus(resp.StatusCode)
}

func retriableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
		return false
	}
	return code >= http.StatusInternalServerError
}

// isRetriable 에러가 다시 시도하면 해결될 수 있는 일시적인 오류인지 판단합니다.
//
// 컨텍스트 취소, 리다이렉트 한도 초과, 인증서 오류, 지원하지 않는 스킴처럼 영구적인 실패와
// 입력/인증/차단으로 분류된 에러는 재시도하지 않습니다.
func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrTooManyRedirects) {
		return false
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return retriableStatus(statusErr.StatusCode)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		msg := urlErr.Err.Error()
		if strings.Contains(msg, "unsupported protocol scheme") || strings.Contains(msg, "invalid control character in URL") {
			return false
		}
	}

	var hostnameErr x509.HostnameError
	var authorityErr x509.UnknownAuthorityError
	var certErr x509.CertificateInvalidError
	if errors.As(err, &hostnameErr) || errors.As(err, &authorityErr) || errors.As(err, &certErr) {
		return false
	}

	switch apperrors.UnderlyingType(err) {
	case apperrors.InvalidInput, apperrors.NotFound, apperrors.Authentication, apperrors.Blocked, apperrors.Configuration:
		return false
	}

	return true
}

func retryErrorType(err error) apperrors.ErrorType {
	if t := apperrors.Classify(err); t == apperrors.Timeout {
		return apperrors.Timeout
	}
	return apperrors.Network
}

// parseRetryAfter 초 단위 정수 또는 HTTP-date 형식의 Retry-After 값을 해석합니다.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	if date, err := http.ParseTime(value); err == nil {
		return max(0, time.Until(date)), true
	}

	return 0, false
}
