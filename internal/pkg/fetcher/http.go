package fetcher

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 10
)

// ErrTooManyRedirects 허용된 리다이렉트 횟수를 초과했을 때 반환됩니다.
var ErrTooManyRedirects = errors.New("최대 리다이렉트 횟수를 초과했습니다")

// HTTPFetcher net/http 클라이언트 기반의 기본 Fetcher 구현체입니다.
//
// Accept-Encoding 헤더를 직접 지정한 요청은 Transport의 자동 압축 해제가 적용되지 않으므로,
// 응답 본문의 압축 해제는 호출자의 책임입니다.
type HTTPFetcher struct {
	client *http.Client

	maxRedirects int
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Option HTTPFetcher 설정을 변경합니다.
type Option func(*HTTPFetcher)

// WithTimeout 요청 전체(연결부터 본문 수신까지)에 대한 제한 시간을 설정합니다. 0 이하는 무제한입니다.
func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		h.client.Timeout = timeout
	}
}

// WithMaxRedirects 따라갈 최대 리다이렉트 횟수를 설정합니다. 0이면 리다이렉트를 따르지 않고
// 3xx 응답을 그대로 반환합니다.
func WithMaxRedirects(n int) Option {
	return func(h *HTTPFetcher) {
		h.maxRedirects = n
	}
}

// WithTransport 기본 Transport를 교체합니다. (테스트, 프록시 등)
func WithTransport(rt http.RoundTripper) Option {
	return func(h *HTTPFetcher) {
		h.client.Transport = rt
	}
}

// NewHTTPFetcher 새로운 HTTPFetcher를 생성합니다.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	h := &HTTPFetcher{
		client:       &http.Client{Timeout: defaultTimeout},
		maxRedirects: defaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if h.maxRedirects == 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > h.maxRedirects {
			return fmt.Errorf("%w (max=%d)", ErrTooManyRedirects, h.maxRedirects)
		}
		return nil
	}

	return h
}

func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

func (h *HTTPFetcher) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
