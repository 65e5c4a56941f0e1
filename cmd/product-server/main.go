package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/darkkaiser/product-server/internal/config"
	"github.com/darkkaiser/product-server/internal/pkg/version"
	"github.com/darkkaiser/product-server/internal/service/api"
	"github.com/darkkaiser/product-server/internal/service/notification"
	"github.com/darkkaiser/product-server/internal/service/product"
	"github.com/darkkaiser/product-server/internal/service/scheduler"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// @title Product Server API
// @version 1.0.0
// @description 상품 페이지 URL로부터 상품 정보(가격, 할인율, 이미지 등)를 수집하여 제공하는 API 서버입니다.
// @description
// @description ## 수집 순서
// @description 1. 캐시 조회
// @description 2. 상품 API(PA-API 5.0) 호출 (자격 증명이 설정된 경우)
// @description 3. 상품 페이지 스크래핑
// @description 4. 모두 실패하면 식별자만 채운 대체 레코드 반환
// @description
// @description ## 인증 방법
// @description 조회 API는 인증 없이 사용할 수 있습니다.
// @description 캐시 관리와 진단 API는 설정 파일(product-server.json)의 api.applications에 등록한 app_key를 X-App-Key 헤더로 전달해야 합니다.

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-App-Key
// @description 관리용 API 호출 시 발급받은 Application Key를 전달합니다.

const (
	component = "main"

	// envFilename 비밀 값(API 키, 봇 토큰 등)을 담는 로컬 환경 변수 파일
	envFilename = ".env"
)

const banner = `
  ____                _            _     ____
 |  _ \ _ __ ___   __| |_   _  ___| |_  / ___|  ___ _ ____   _____ _ __
 | |_) | '__/ _ \ / _' | | | |/ __| __| \___ \ / _ \ '__\ \ / / _ \ '__|
 |  __/| | | (_) | (_| | |_| | (__| |_   ___) |  __/ |   \ V /  __/ |
 |_|   |_|  \___/ \__,_|\__,_|\___|\__| |____/ \___|_|    \_/ \___|_|
                                                               %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`

// service 메인 함수가 생명주기를 관리하는 서비스입니다.
type service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}

func main() {
	configFile := flag.String("config", config.DefaultFilename, "설정 파일 경로")
	flag.Parse()

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	os.Exit(run(*configFile, termC, os.Stdout))
}

// run 서버를 구동하고 종료 신호를 받을 때까지 대기합니다. 반환값은 프로세스 종료 코드입니다.
func run(configFile string, termC <-chan os.Signal, stdout io.Writer) int {
	// 1. .env 파일이 있으면 환경 변수로 먼저 등록한다 (설정 로드 시 환경 변수가 파일 값을 덮어쓴다)
	if err := loadEnvFile(envFilename); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %s 파일 로드 실패: %v\n", envFilename, err)
		return 1
	}

	// 2. 환경설정 로드 (로그 설정에 필요하므로 로거보다 먼저 수행한다)
	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		return 1
	}

	// 3. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		return 1
	}
	defer appLogCloser.Close()

	buildInfo := version.Get()

	fmt.Fprintf(stdout, banner, buildInfo.Version)

	applog.WithComponentAndFields(component, applog.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent(component).Warn(warning)
	}

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. 서비스 생성
	productService, err := product.NewServiceFromConfig(serviceStopCtx, appConfig)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("상품 서비스 초기화 실패")
		return 1
	}
	defer func() {
		if err := productService.Close(); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Warn("상품 서비스 자원 정리 실패")
		}
	}()

	notificationService, err := notification.NewService(appConfig)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("알림 서비스 초기화 실패")
		return 1
	}

	schedulerService := scheduler.NewService(appConfig.Scheduler, productService, notificationService)
	apiService := api.NewService(appConfig, productService, notificationService, buildInfo)

	// 5. 서비스 시작 (알림 서비스가 먼저 떠 있어야 다른 서비스의 오류를 전달할 수 있다)
	serviceStopWG := &sync.WaitGroup{}

	services := []service{notificationService, schedulerService, apiService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel()
			serviceStopWG.Wait()

			return 1
		}
	}

	applog.WithComponent(component).Info("서버 가동 완료")

	<-termC

	applog.WithComponent(component).Info("종료 신호 수신")

	cancel()
	serviceStopWG.Wait()

	applog.WithComponent(component).Info("서버 종료 완료")

	return 0
}

// loadEnvFile 파일이 없으면 아무 일도 하지 않습니다. 이미 설정된 환경 변수는 덮어쓰지 않습니다.
func loadEnvFile(filename string) error {
	if err := godotenv.Load(filename); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
