package notification

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/darkkaiser/product-server/internal/config"
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	applog "github.com/darkkaiser/product-server/pkg/log"
	"github.com/darkkaiser/product-server/pkg/strutil"
)

const (
	// messageMaxLength 텔레그램 공식 제한(4096자)에서 여유를 둔 메시지 최대 길이
	messageMaxLength = 3900

	// telegramHTTPTimeout 봇 API 호출에 사용하는 HTTP 클라이언트 타임아웃
	telegramHTTPTimeout = 30 * time.Second

	// telegramRateLimit 채팅방당 초당 1회 권장 정책에 맞춘 발송 속도
	telegramRateLimit = 1
	telegramRateBurst = 5

	telegramMaxAttempts = 3
	telegramRetryDelay  = 1 * time.Second
)

// botClient 텔레그램 봇 API 중 발송에 필요한 부분만 추상화한 인터페이스입니다.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// telegramSender 지정된 채팅방으로 텍스트 메시지를 전송하는 Sender입니다.
type telegramSender struct {
	chatID int64
	client botClient

	// limiter 텔레그램 API 발송 속도 제한을 준수하기 위한 Rate Limiter
	limiter *rate.Limiter

	retryDelay time.Duration
}

func newTelegramSender(cfg config.TelegramConfig, debug bool) (*telegramSender, error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"bot_token": strutil.MaskSensitiveData(cfg.BotToken),
		"chat_id":   cfg.ChatID,
	}).Debug("텔레그램 봇 클라이언트 초기화")

	// http.DefaultClient에는 타임아웃이 없으므로 명시적으로 설정한다.
	client := &http.Client{Timeout: telegramHTTPTimeout}

	botAPI, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Configuration, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다. BotToken이 올바른지 확인해주세요")
	}
	botAPI.Debug = debug

	return newTelegramSenderWithClient(cfg.ChatID, botAPI), nil
}

func newTelegramSenderWithClient(chatID int64, client botClient) *telegramSender {
	return &telegramSender{
		chatID:     chatID,
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(telegramRateLimit), telegramRateBurst),
		retryDelay: telegramRetryDelay,
	}
}

// Send 메시지를 전송합니다. 429 또는 5xx 응답은 최대 telegramMaxAttempts회까지 재시도합니다.
func (s *telegramSender) Send(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(s.chatID, strutil.Truncate(message, messageMaxLength))
	msg.DisableWebPagePreview = true

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return apperrors.Wrap(err, apperrors.Timeout, "텔레그램 발송 대기 중 요청이 취소되었습니다")
		}
	}

	var lastErr error
	for attempt := 1; attempt <= telegramMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return apperrors.Wrap(err, apperrors.Timeout, "텔레그램 발송이 취소되었습니다")
		}

		_, err := s.client.Send(msg)
		if err == nil {
			applog.WithContextAndFields(ctx, component, applog.Fields{
				"chat_id": s.chatID,
				"attempt": attempt,
			}).Debug("텔레그램 메시지 발송 성공")
			return nil
		}

		lastErr = err
		code, retryAfter := telegramErrorCode(err)

		applog.WithContextAndFields(ctx, component, applog.Fields{
			"chat_id": s.chatID,
			"attempt": attempt,
			"code":    code,
			"error":   err,
		}).Warn("텔레그램 메시지 발송 실패")

		if !shouldRetry(code) || attempt == telegramMaxAttempts {
			break
		}

		wait := s.retryDelay
		if retryAfter > 0 {
			wait = time.Duration(retryAfter) * time.Second
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return apperrors.Wrap(ctx.Err(), apperrors.Timeout, "텔레그램 발송 재시도 대기 중 요청이 취소되었습니다")
		case <-timer.C:
		}
	}

	code, _ := telegramErrorCode(lastErr)
	errType := apperrors.Unavailable
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		errType = apperrors.Authentication
	case code == http.StatusTooManyRequests:
		errType = apperrors.RateLimited
	case code >= 400 && code < 500:
		errType = apperrors.InvalidInput
	}
	return apperrors.Wrap(lastErr, errType, "텔레그램 메시지 발송에 실패했습니다")
}

// telegramErrorCode 봇 API 에러에서 응답 코드와 Retry-After 값을 추출합니다.
func telegramErrorCode(err error) (code int, retryAfter int) {
	if apiErr, ok := err.(tgbotapi.Error); ok {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}
	if apiErr, ok := err.(*tgbotapi.Error); ok {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}
	return 0, 0
}

// shouldRetry 4xx 중에서는 429만 재시도하고, 그 외(5xx, 네트워크 오류)는 재시도합니다.
func shouldRetry(code int) bool {
	if code >= 400 && code < 500 {
		return code == http.StatusTooManyRequests
	}
	return true
}
