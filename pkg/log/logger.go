package log

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// fieldComponent 로그를 남긴 구성 요소를 식별하는 필드명입니다.
const fieldComponent = "component"

// StandardLogger 전역 로거를 반환합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

// SetOutput 전역 로거의 기본 출력 대상을 변경합니다. (주로 테스트에서 사용)
func SetOutput(out io.Writer) {
	logrus.SetOutput(out)
}

// SetLevel 전역 로거의 로그 레벨을 변경합니다.
func SetLevel(level Level) {
	logrus.SetLevel(level)
}

// SetFormatter 전역 로거의 포맷터를 변경합니다.
func SetFormatter(formatter Formatter) {
	logrus.SetFormatter(formatter)
}

// WithFields 필드가 포함된 Entry를 생성합니다.
func WithFields(fields Fields) *Entry {
	return logrus.WithFields(fields)
}

// WithComponent 구성 요소 이름이 포함된 Entry를 생성합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField(fieldComponent, component)
}

// WithComponentAndFields 구성 요소 이름과 추가 필드가 포함된 Entry를 생성합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged[fieldComponent] = component
	return logrus.WithFields(merged)
}

// WithContext 컨텍스트에 저장된 요청 단위 필드(request_id 등)를 포함한 Entry를 생성합니다.
func WithContext(ctx context.Context) *Entry {
	entry := logrus.WithContext(ctx)
	if fields := FieldsFromContext(ctx); len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	return entry
}

// WithContextAndFields 컨텍스트 필드, 구성 요소 이름, 추가 필드가 모두 포함된 Entry를 생성합니다.
func WithContextAndFields(ctx context.Context, component string, fields Fields) *Entry {
	return WithContext(ctx).WithFields(fields).WithField(fieldComponent, component)
}
