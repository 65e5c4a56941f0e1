package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	_ "github.com/darkkaiser/product-server/docs"
	"github.com/darkkaiser/product-server/internal/config"
	"github.com/darkkaiser/product-server/internal/pkg/version"
	apiauth "github.com/darkkaiser/product-server/internal/service/api/auth"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/product-server/internal/service/api/v1"
	v1handler "github.com/darkkaiser/product-server/internal/service/api/v1/handler"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

const (
	// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
	shutdownTimeout = 5 * time.Second

	// notifyTimeout 서버 오류 알림 요청의 최대 대기 시간
	notifyTimeout = 3 * time.Second
)

// ProductService API 엔드포인트가 사용하는 상품 서비스 기능입니다.
type ProductService interface {
	v1handler.ProductService

	APIEnabled() bool
}

// Notifier 서버 오류를 운영자에게 전달합니다.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Service 상품 조회 API 서버의 생명주기를 관리하는 서비스입니다.
//
// Start()로 시작하며 별도의 고루틴에서 HTTP(S) 서버를 실행합니다.
// 전달받은 Context가 취소되면 Graceful Shutdown을 수행합니다.
type Service struct {
	appConfig *config.AppConfig

	products ProductService
	notifier Notifier

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, products ProductService, notifier Notifier, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}

	return &Service{
		appConfig: appConfig,

		products: products,
		notifier: notifier,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다. 실제 서버는 고루틴에서 실행되며 이 함수는 즉시 반환됩니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.products == nil {
		defer serviceStopWG.Done()
		return ErrProductServiceNotInitialized
	}
	if s.notifier == nil {
		defer serviceStopWG.Done()
		return ErrNotifierNotInitialized
	}

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Authenticator, 핸들러, 미들웨어 체인, 라우트를 구성한 Echo 인스턴스를 생성합니다.
func (s *Service) setupServer() *echo.Echo {
	authenticator := apiauth.NewAuthenticator(s.appConfig.API)

	systemHandler := system.New(s.products, s.buildInfo)
	v1Handler := v1handler.New(s.products)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:        s.appConfig.Debug,
		EnableHSTS:   s.appConfig.API.TLSServer,
		AllowOrigins: s.appConfig.API.CORS.AllowOrigins,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, v1Handler, authenticator)

	return e
}

// startHTTPServer HTTP(S) 서버를 실행하고, 서버가 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": port,
		"tls":  s.appConfig.API.TLSServer,
	}).Info(constants.LogMsgServiceHTTPServerStarting)

	var err error
	if s.appConfig.API.TLSServer {
		err = e.StartTLS(fmt.Sprintf(":%d", port), s.appConfig.API.TLSCertFile, s.appConfig.API.TLSKeyFile)
	} else {
		err = e.Start(fmt.Sprintf(":%d", port))
	}

	s.handleServerError(err)
}

// handleServerError 서버 종료 원인을 처리합니다.
//   - nil: 무시
//   - http.ErrServerClosed: Graceful Shutdown 완료
//   - 그 외: Error 로깅 후 운영자 알림
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
		return
	}

	message := constants.LogMsgServiceHTTPServerFatalError
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.appConfig.API.ListenPort,
		"error": err,
	}).Error(message)

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if notifyErr := s.notifier.Notify(ctx, fmt.Sprintf("[상품 수집 서버] %s\n\n%s", message, err)); notifyErr != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": notifyErr,
		}).Warn("운영 알림 요청 실패")
	}
}

// waitForShutdown 종료 신호 또는 서버 조기 종료를 기다린 뒤 서비스를 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)

	case <-httpServerDone:
		// 포트 바인딩 실패 등으로 서버가 이미 종료된 상태이므로 Shutdown 없이 상태만 정리합니다.
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}
