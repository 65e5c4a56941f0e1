package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/darkkaiser/product-server/internal/config"
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// Service 알림 요청을 대기열에 적재하고 워커 고루틴에서 순차적으로 발송하는 서비스입니다.
type Service struct {
	sender Sender

	queue chan string

	enqueueTimeout  time.Duration
	shutdownTimeout time.Duration

	// mu running, closed 상태와 done 채널 접근을 보호합니다.
	mu      sync.RWMutex
	running bool
	closed  bool
	done    chan struct{}

	// pendingSendsWG 대기열 적재를 시도 중인 Notify 호출을 추적합니다.
	// 워커는 종료 전에 이 카운터가 0이 될 때까지 기다린 뒤 대기열을 비웁니다.
	pendingSendsWG sync.WaitGroup
}

// NewService 설정에 따라 텔레그램 또는 로그 Sender를 사용하는 서비스를 생성합니다.
func NewService(appConfig *config.AppConfig) (*Service, error) {
	if appConfig == nil {
		return nil, apperrors.New(apperrors.Internal, "AppConfig가 초기화되지 않았습니다")
	}

	if !appConfig.Notifier.Telegram.Enabled() {
		applog.WithComponent(component).Info("텔레그램 알림이 설정되지 않아 운영 알림을 로그로 기록합니다")
		return NewServiceWithSender(logSender{}), nil
	}

	sender, err := newTelegramSender(appConfig.Notifier.Telegram, appConfig.Debug)
	if err != nil {
		return nil, err
	}
	return NewServiceWithSender(sender), nil
}

// NewServiceWithSender 주어진 Sender로 메시지를 발송하는 서비스를 생성합니다.
func NewServiceWithSender(sender Sender) *Service {
	if sender == nil {
		sender = logSender{}
	}

	return &Service{
		sender: sender,

		queue: make(chan string, queueSize),

		enqueueTimeout:  enqueueTimeout,
		shutdownTimeout: shutdownTimeout,

		done: make(chan struct{}),
	}
}

// Start 발송 워커를 시작합니다. 종료 완료 시 serviceStopWG.Done()이 호출됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	applog.WithComponent(component).Info("Notification 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("Notification 서비스가 이미 시작됨!!!")
		return nil
	}
	if s.closed {
		defer serviceStopWG.Done()
		return apperrors.New(apperrors.Internal, "종료된 Notification 서비스는 다시 시작할 수 없습니다")
	}

	s.running = true

	go s.run(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("Notification 서비스 시작됨")

	return nil
}

// Notify 메시지를 발송 대기열에 적재합니다. 실제 발송 결과는 기다리지 않습니다.
func (s *Service) Notify(ctx context.Context, message string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.RLock()
	if !s.running || s.closed {
		s.mu.RUnlock()
		return ErrServiceNotRunning
	}
	s.pendingSendsWG.Add(1)
	done := s.done
	s.mu.RUnlock()

	defer s.pendingSendsWG.Done()

	timer := time.NewTimer(s.enqueueTimeout)
	defer timer.Stop()

	select {
	case s.queue <- message:
		return nil

	case <-done:
		return ErrServiceNotRunning

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"queue_size": cap(s.queue),
		}).Warn("알림 대기열이 가득 차서 메시지를 버립니다")
		return ErrQueueFull
	}
}

func (s *Service) run(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case message := <-s.queue:
			s.deliver(serviceStopCtx, message)

		case <-serviceStopCtx.Done():
			applog.WithComponent(component).Info("Notification 서비스 중지중...")

			s.mu.Lock()
			s.closed = true
			close(s.done)
			s.mu.Unlock()

			// 이미 적재를 시작한 Notify 호출이 끝난 뒤에 대기열을 비운다.
			s.pendingSendsWG.Wait()
			s.drain()

			s.mu.Lock()
			s.running = false
			s.mu.Unlock()

			applog.WithComponent(component).Info("Notification 서비스 중지됨")
			return
		}
	}
}

// drain 대기열에 남은 메시지를 shutdownTimeout 안에서 최대한 발송합니다.
func (s *Service) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	for {
		select {
		case message := <-s.queue:
			if ctx.Err() != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"dropped": len(s.queue) + 1,
				}).Warn("종료 대기 시간이 초과되어 남은 알림을 버립니다")
				return
			}
			s.deliver(ctx, message)

		default:
			return
		}
	}
}

// deliver 메시지 한 건을 발송합니다. Sender의 패닉은 워커를 중단시키지 않습니다.
func (s *Service) deliver(parent context.Context, message string) {
	ctx, cancel := context.WithTimeout(parent, sendTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"panic": fmt.Sprint(r),
			}).Error("알림 발송 중 패닉 발생")
		}
	}()

	if err := s.sender.Send(ctx, message); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error":      err,
			"error_type": apperrors.Classify(err).String(),
		}).Error("알림 발송 실패")
	}
}
