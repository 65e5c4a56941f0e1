// Package scheduler 만료 캐시 정리, 상품 API 연결 점검 같은 주기 작업을 Cron 스케줄에 맞춰 실행합니다.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/darkkaiser/product-server/internal/config"
	"github.com/darkkaiser/product-server/internal/service/product"
	"github.com/darkkaiser/product-server/pkg/cronx"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

const (
	jobCachePurge     = "cache_purge"
	jobAPIHealthCheck = "api_health_check"
)

const (
	// cachePurgeTimeout 만료 캐시 정리 작업의 최대 실행 시간
	cachePurgeTimeout = 1 * time.Minute

	// healthCheckTimeout API 연결 점검 작업의 최대 실행 시간
	healthCheckTimeout = 30 * time.Second
)

// ProductService 스케줄 작업이 사용하는 상품 서비스 기능입니다.
type ProductService interface {
	APIEnabled() bool
	TestAPIConnection(ctx context.Context) product.Diagnosis
	PurgeExpiredCache(ctx context.Context) (int, error)
}

// Notifier 작업 결과를 운영자에게 전달합니다.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Scheduler 설정에 정의된 주기 작업을 Cron 엔진에 등록하여 실행하는 서비스입니다.
type Scheduler struct {
	config config.SchedulerConfig

	products ProductService
	notifier Notifier

	cron *cron.Cron

	// apiHealthy 직전 API 연결 점검 결과. 상태가 바뀔 때만 알림을 보냅니다.
	apiMu      sync.Mutex
	apiChecked bool
	apiHealthy bool

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(cfg config.SchedulerConfig, products ProductService, notifier Notifier) *Scheduler {
	return &Scheduler{
		config: cfg,

		products: products,

		notifier: notifier,
	}
}

// Start 스케줄러를 시작하고 설정된 작업들을 Cron 엔진에 등록합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Scheduler 서비스 시작중...")

	if s.products == nil {
		serviceStopWG.Done()
		return ErrProductServiceNotInitialized
	}
	if s.notifier == nil {
		serviceStopWG.Done()
		return ErrNotifierNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: 작업 패닉이 다른 작업에 영향을 주지 않도록 복구
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 이번 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	if err := s.registerJobs(); err != nil {
		s.cron = nil
		serviceStopWG.Done()
		return err
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_schedules": len(s.cron.Entries()),
	}).Info("Scheduler 서비스 시작됨")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 중지하고 실행 중인 작업이 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("Scheduler 서비스 중지중...")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 중지됨")
}

// registerJobs 빈 스케줄은 비활성화로 간주하여 건너뜁니다.
func (s *Scheduler) registerJobs() error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{jobCachePurge, s.config.CachePurge, s.runCachePurge},
		{jobAPIHealthCheck, s.config.APIHealthCheck, s.runAPIHealthCheck},
	}

	for _, job := range jobs {
		spec := strings.TrimSpace(job.spec)
		if spec == "" {
			applog.WithComponentAndFields(component, applog.Fields{
				"job": job.name,
			}).Debug("스케줄이 설정되지 않아 작업을 등록하지 않습니다")
			continue
		}

		if _, err := s.cron.AddFunc(spec, job.run); err != nil {
			return newErrInvalidCronSpec(job.name, spec, err)
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"job":  job.name,
			"spec": spec,
		}).Info("주기 작업 등록")
	}

	return nil
}

// runCachePurge 만료된 캐시 항목을 정리합니다. 실패 시 운영자에게 알립니다.
//
// 작업 컨텍스트는 서비스 종료 시그널과 분리합니다. cron.Stop()이 실행 중인 작업의 완료를 기다리기 때문입니다.
func (s *Scheduler) runCachePurge() {
	ctx, cancel := context.WithTimeout(context.Background(), cachePurgeTimeout)
	defer cancel()

	ctx = applog.ContextWithFields(ctx, applog.Fields{"job": jobCachePurge})

	removed, err := s.products.PurgeExpiredCache(ctx)
	if err != nil {
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"error": err,
		}).Error("만료 캐시 정리 실패")
		s.notify(ctx, fmt.Sprintf("[상품 수집 서버] 만료 캐시 정리에 실패했습니다: %v", err))
		return
	}

	applog.WithContextAndFields(ctx, component, applog.Fields{
		"removed": removed,
	}).Info("만료 캐시 정리 완료")
}

// runAPIHealthCheck 상품 API 연결을 점검하고 상태가 바뀌었을 때만 알림을 보냅니다.
func (s *Scheduler) runAPIHealthCheck() {
	if !s.products.APIEnabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	ctx = applog.ContextWithFields(ctx, applog.Fields{"job": jobAPIHealthCheck})

	d := s.products.TestAPIConnection(ctx)

	s.apiMu.Lock()
	// 최초 점검은 실패한 경우에만 알린다.
	changed := (s.apiChecked && s.apiHealthy != d.OK) || (!s.apiChecked && !d.OK)
	s.apiChecked = true
	s.apiHealthy = d.OK
	s.apiMu.Unlock()

	if !changed {
		return
	}

	if d.OK {
		s.notify(ctx, fmt.Sprintf("[상품 수집 서버] 상품 API 연결이 정상입니다 (응답 %dms)", d.ElapsedMS))
		return
	}
	s.notify(ctx, fmt.Sprintf("[상품 수집 서버] 상품 API 연결 점검 실패\n분류: %s\n원인: %s", d.Kind, d.Cause))
}

func (s *Scheduler) notify(ctx context.Context, message string) {
	if err := s.notifier.Notify(ctx, message); err != nil {
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"error": err,
		}).Warn("운영 알림 요청 실패")
	}
}
