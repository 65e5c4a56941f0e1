package log

import (
	"github.com/sirupsen/logrus"
)

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	// PanicLevel 로그를 기록한 후 panic()을 호출합니다.
	PanicLevel Level = logrus.PanicLevel

	// FatalLevel 로그를 기록한 후 os.Exit(1)을 호출합니다.
	// 설정 로드 실패처럼 프로세스가 더 이상 진행할 수 없을 때만 사용합니다.
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel 관리자의 확인이 필요한 실패입니다. critical 로그 파일에도 함께 기록됩니다.
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel 수집 전략 실패처럼 복구 가능한 이상 상황입니다.
	WarnLevel Level = logrus.WarnLevel

	// InfoLevel 정상 흐름과 상태 전이를 기록합니다.
	InfoLevel Level = logrus.InfoLevel

	// DebugLevel 상세 진단 정보입니다. verbose 로그 파일로만 기록됩니다.
	DebugLevel Level = logrus.DebugLevel

	// TraceLevel 가장 세밀한 추적 정보입니다.
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

// Fields logrus.Fields의 별칭입니다.
type Fields = logrus.Fields

// Entry logrus.Entry의 별칭입니다.
type Entry = logrus.Entry

// Hook logrus.Hook의 별칭입니다.
type Hook = logrus.Hook

// Logger logrus.Logger의 별칭입니다.
type Logger = logrus.Logger

// Formatter logrus.Formatter의 별칭입니다.
type Formatter = logrus.Formatter

// JSONFormatter logrus.JSONFormatter의 별칭입니다.
type JSONFormatter = logrus.JSONFormatter

// TextFormatter logrus.TextFormatter의 별칭입니다.
type TextFormatter = logrus.TextFormatter

// ParseLevel 문자열을 Level로 변환합니다.
func ParseLevel(lvl string) (Level, error) {
	return logrus.ParseLevel(lvl)
}
