package log

import (
	"fmt"
	"os"
)

// Options 로깅 시스템 설정입니다.
type Options struct {
	Name  string // 로그 파일명 접두어
	Dir   string // 로그 디렉토리 (빈 값이면 "logs")
	Level Level

	// JSON이 true이면 파일과 콘솔 출력에 JSONFormatter를 사용합니다.
	JSON bool

	MaxAge     int // 보관 일수 (0: 삭제 안 함)
	MaxSizeMB  int // 로테이션 기준 크기 (0: 기본값)
	MaxBackups int // 백업 파일 수 (0: 기본값)

	EnableCriticalLog bool // ERROR 이상을 <name>.critical.log에 별도 기록
	EnableVerboseLog  bool // DEBUG 이하를 <name>.verbose.log에만 기록
	EnableConsoleLog  bool // 모든 레벨을 표준 출력에도 기록

	ReportCaller bool

	// 호출자 함수 경로에서 잘라낼 접두어. 예: "github.com/darkkaiser/product-server"
	CallerPathPrefix string
}

// Validate 설정값의 유효성을 검사합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	switch {
	case opts.MaxAge < 0:
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	case opts.MaxSizeMB < 0:
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	case opts.MaxBackups < 0:
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}
