package notification

import (
	"context"

	applog "github.com/darkkaiser/product-server/pkg/log"
)

// logSender 알림 채널이 설정되지 않았을 때 메시지를 로그로만 남기는 Sender입니다.
type logSender struct{}

func (logSender) Send(ctx context.Context, message string) error {
	applog.WithContextAndFields(ctx, component, applog.Fields{
		"channel": "log",
		"message": message,
	}).Info("운영 알림")
	return nil
}
