package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// maxBodySnippet 에러 메시지에 포함할 응답 본문 최대 길이
const maxBodySnippet = 512

// HTTPStatusError 허용되지 않은 HTTP 상태 코드 응답을 나타냅니다.
type HTTPStatusError struct {
	StatusCode  int
	Status      string
	URL         string
	Header      http.Header
	BodySnippet string
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += " URL: " + e.URL
	}
	if e.BodySnippet != "" {
		msg += ", Body: " + e.BodySnippet
	}
	return msg
}

// CheckResponseStatus 상태 코드가 2xx 또는 allowed에 포함되면 nil, 아니면 HTTPStatusError를 반환합니다.
// 에러를 반환할 때 본문의 앞부분을 읽어 BodySnippet에 담지만 Body를 닫지는 않습니다.
func CheckResponseStatus(resp *http.Response, allowed ...int) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if slices.Contains(allowed, resp.StatusCode) {
		return nil
	}

	statusErr := &HTTPStatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		statusErr.URL = RedactURL(resp.Request.URL)
	}
	if resp.Body != nil {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
		statusErr.BodySnippet = strings.TrimSpace(string(snippet))
	}

	return statusErr
}

// StatusCodeFetcher 허용되지 않은 상태 코드를 에러로 변환하는 Fetcher입니다.
// 에러를 반환할 때는 응답 본문을 비우고 닫습니다.
type StatusCodeFetcher struct {
	delegate Fetcher
	allowed  []int
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 2xx 외에 allowed 상태 코드도 성공으로 취급합니다.
func NewStatusCodeFetcher(delegate Fetcher, allowed ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate: delegate,
		allowed:  allowed,
	}
}

func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return nil, err
	}

	if statusErr := CheckResponseStatus(resp, f.allowed...); statusErr != nil {
		drainAndCloseBody(resp.Body)
		return nil, statusErr
	}

	return resp, nil
}

func (f *StatusCodeFetcher) Close() error {
	return f.delegate.Close()
}
