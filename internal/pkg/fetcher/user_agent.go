package fetcher

import (
	"math/rand/v2"
	"net/http"
)

// 데스크톱 브라우저 User-Agent 목록
var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
}

// 모바일 브라우저 User-Agent 목록
var mobileUserAgents = []string{
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Mobile Safari/537.36",
}

// UserAgentProfile 수집 전략이 사용할 브라우저 종류입니다.
type UserAgentProfile int

const (
	DesktopPrimary UserAgentProfile = iota
	DesktopAlternate
	Mobile
)

// UserAgent 프로필에 해당하는 고정 User-Agent 문자열을 반환합니다.
func UserAgent(p UserAgentProfile) string {
	switch p {
	case DesktopAlternate:
		return desktopUserAgents[1]
	case Mobile:
		return mobileUserAgents[0]
	default:
		return desktopUserAgents[0]
	}
}

// UserAgentFetcher User-Agent가 없는 요청에 목록 중 하나를 무작위로 설정합니다.
// 요청에 이미 User-Agent가 있으면 그대로 전달합니다.
type UserAgentFetcher struct {
	delegate   Fetcher
	userAgents []string
}

var _ Fetcher = (*UserAgentFetcher)(nil)

// NewUserAgentFetcher userAgents가 비어 있으면 기본 데스크톱 목록을 사용합니다.
func NewUserAgentFetcher(delegate Fetcher, userAgents []string) *UserAgentFetcher {
	if len(userAgents) == 0 {
		userAgents = desktopUserAgents
	}
	return &UserAgentFetcher{
		delegate:   delegate,
		userAgents: userAgents,
	}
}

func (f *UserAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return f.delegate.Do(req)
	}

	// 호출자의 요청 객체를 변경하지 않도록 복제한다.
	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", f.userAgents[rand.IntN(len(f.userAgents))])

	return f.delegate.Do(cloned)
}

func (f *UserAgentFetcher) Close() error {
	return f.delegate.Close()
}
