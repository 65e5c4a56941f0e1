// Package notification 운영자에게 보내는 알림(API 연결 장애, 캐시 정리 결과 등)을 비동기로 발송합니다.
//
// 알림 요청은 내부 큐에 적재된 뒤 단일 워커 고루틴이 순차적으로 Sender에 전달합니다.
// 텔레그램 봇 토큰이 설정되지 않은 경우 메시지는 로그로만 기록됩니다.
package notification

import (
	"context"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
)

// component Notification 서비스의 로깅용 컴포넌트 이름
const component = "notification.service"

const (
	// queueSize 발송 대기열 크기. 초당 1건 발송 기준으로 종료 대기 시간 안에 모두 처리할 수 있는 크기입니다.
	queueSize = 30

	// enqueueTimeout 대기열이 가득 찼을 때 요청을 버리기 전까지 기다리는 최대 시간
	enqueueTimeout = 5 * time.Second

	// sendTimeout 메시지 한 건을 발송할 때 허용하는 최대 시간 (Rate Limit 대기 포함)
	sendTimeout = 30 * time.Second

	// shutdownTimeout 종료 시 대기열에 남은 메시지를 처리하기 위해 대기하는 최대 시간
	shutdownTimeout = 60 * time.Second
)

var (
	// ErrQueueFull 대기열이 포화 상태여서 알림 요청을 수락할 수 없을 때 반환됩니다.
	ErrQueueFull = apperrors.New(apperrors.Unavailable, "현재 알림 발송 대기열이 가득 차서 요청을 처리할 수 없습니다. 잠시 후 다시 시도해 주세요")

	// ErrServiceNotRunning 서비스가 시작되지 않았거나 종료 절차가 진행 중일 때 반환됩니다.
	ErrServiceNotRunning = apperrors.New(apperrors.Unavailable, "알림 서비스가 실행 중이 아니어서 알림을 보낼 수 없습니다")
)

// Sender 메시지를 실제 알림 채널로 전달하는 구현체입니다.
type Sender interface {
	Send(ctx context.Context, message string) error
}

// Notifier 다른 서비스가 운영 알림을 요청할 때 의존하는 인터페이스입니다.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
