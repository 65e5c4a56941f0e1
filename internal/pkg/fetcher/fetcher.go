// Package fetcher 상품 수집 파이프라인이 공유하는 HTTP 전송 계층을 제공합니다.
//
// 기본 구현체(HTTPFetcher)에 User-Agent 주입, 상태 코드 검사, 요청 로깅 기능을
// 데코레이터로 조합하여 사용합니다.
//
//	f := fetcher.NewLoggingFetcher(
//	    fetcher.NewUserAgentFetcher(
//	        fetcher.NewHTTPFetcher(fetcher.WithTimeout(10*time.Second)), nil))
package fetcher

import (
	"context"
	"io"
	"net/http"
)

// component 로깅용 컴포넌트 이름
const component = "fetcher"

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
//
// 반환된 응답의 Body는 호출자가 닫아야 합니다. 에러가 반환되면 응답은 nil입니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)

	// Close 유휴 연결 등 내부 리소스를 정리합니다.
	Close() error
}

// Get GET 요청을 전송합니다.
func Get(ctx context.Context, f Fetcher, url string, header http.Header) (*http.Response, error) {
	return send(ctx, f, http.MethodGet, url, header, nil)
}

// Head HEAD 요청을 전송합니다.
func Head(ctx context.Context, f Fetcher, url string, header http.Header) (*http.Response, error) {
	return send(ctx, f, http.MethodHead, url, header, nil)
}

// Post POST 요청을 전송합니다.
func Post(ctx context.Context, f Fetcher, url string, header http.Header, body io.Reader) (*http.Response, error) {
	return send(ctx, f, http.MethodPost, url, header, body)
}

func send(ctx context.Context, f Fetcher, method, url string, header http.Header, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}
