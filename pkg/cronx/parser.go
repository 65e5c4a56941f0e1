// Package cronx 애플리케이션 전역에서 사용하는 cron 표현식 규칙을 정의합니다.
package cronx

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함하는 6필드 형식과 Descriptor(@hourly, @every 1h 등)를 해석하는 파서를 반환합니다.
// 표준 5필드 형식은 지원하지 않습니다.
//
//	"0 */10 * * * *" : 10분마다 0초에 실행
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate 표현식이 StandardParser 규칙에 맞는지 검사합니다. 앞뒤 공백은 무시합니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패(spec=%q): %w", spec, err)
	}
	return nil
}
