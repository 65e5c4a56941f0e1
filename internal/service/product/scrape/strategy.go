package scrape

import (
	"time"

	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
)

// Strategy 한 번의 수집 시도 방식 (요청 전 대기 시간과 사용할 브라우저 종류)
type Strategy struct {
	Name      string
	Delay     time.Duration
	UserAgent fetcher.UserAgentProfile
}

// DefaultStrategies 기본 전략 목록을 순서대로 반환합니다.
// 앞선 전략이 차단되면 대기 시간을 늘리고 User-Agent를 바꿔 다시 시도합니다.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "immediate", Delay: 0, UserAgent: fetcher.DesktopPrimary},
		{Name: "alternate-agent", Delay: 2 * time.Second, UserAgent: fetcher.DesktopAlternate},
		{Name: "mobile-agent", Delay: 5 * time.Second, UserAgent: fetcher.Mobile},
	}
}
