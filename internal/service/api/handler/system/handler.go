// Package system 헬스체크, 버전 정보 등 인증이 필요 없는 시스템 엔드포인트 핸들러를 제공합니다.
package system

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/product-server/internal/pkg/version"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/api/model/system"
	"github.com/darkkaiser/product-server/internal/service/product/cache"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// cacheCheckTimeout 헬스체크 시 캐시 저장소 응답을 기다리는 최대 시간
const cacheCheckTimeout = 2 * time.Second

// HealthChecker 헬스체크에 필요한 상품 서비스 기능입니다.
type HealthChecker interface {
	APIEnabled() bool
	GetCacheStats(ctx context.Context) (cache.Stats, error)
}

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	healthChecker HealthChecker

	buildInfo version.Info

	serverStartTime time.Time
}

// New Handler 인스턴스를 생성합니다.
func New(healthChecker HealthChecker, buildInfo version.Info) *Handler {
	if healthChecker == nil {
		panic("HealthChecker는 필수입니다")
	}

	return &Handler{
		healthChecker: healthChecker,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler godoc
// @Summary 서버 헬스체크
// @Description 서버와 의존성의 상태를 확인합니다.
// @Description 인증 없이 호출 가능하며, 모니터링 시스템에서 사용됩니다.
// @Description
// @Description 응답 필드:
// @Description - status: 전체 서버 상태 (healthy, unhealthy)
// @Description - uptime: 서버 가동 시간(초)
// @Description - dependencies: 의존성별 상태 (cache, provider_api)
// @Tags System
// @Produce json
// @Success 200 {object} system.HealthResponse "헬스체크 결과"
// @Router /health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithContextAndFields(c.Request().Context(), constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	deps := map[string]system.DependencyStatus{
		constants.DependencyCache:       h.checkCache(c.Request().Context()),
		constants.DependencyProviderAPI: h.checkProviderAPI(),
	}

	// disabled는 설정에 의한 상태이므로 전체 상태에 영향을 주지 않습니다.
	serverStatus := constants.HealthStatusHealthy
	for _, dep := range deps {
		if dep.Status == constants.HealthStatusUnhealthy {
			serverStatus = constants.HealthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       serverStatus,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		Dependencies: deps,
	})
}

func (h *Handler) checkCache(ctx context.Context) system.DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, cacheCheckTimeout)
	defer cancel()

	start := time.Now()
	stats, err := h.healthChecker.GetCacheStats(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return system.DependencyStatus{
			Status:    constants.HealthStatusUnhealthy,
			LatencyMs: latency,
			Message:   err.Error(),
		}
	}

	return system.DependencyStatus{
		Status:    constants.HealthStatusHealthy,
		LatencyMs: latency,
		Message:   fmt.Sprintf("%s: %d entries", stats.Backend, stats.Entries),
	}
}

// checkProviderAPI 설정 상태만 보고합니다. 실제 연결 점검은 진단 API와 스케줄러가 담당합니다.
func (h *Handler) checkProviderAPI() system.DependencyStatus {
	if !h.healthChecker.APIEnabled() {
		return system.DependencyStatus{
			Status:  constants.HealthStatusDisabled,
			Message: "상품 API가 비활성화되어 스크래핑만 사용합니다",
		}
	}
	return system.DependencyStatus{
		Status:  constants.HealthStatusHealthy,
		Message: "상품 API 사용",
	}
}

// VersionHandler godoc
// @Summary 서버 버전 정보
// @Description 서버의 버전, Git 커밋 해시, 빌드 날짜, 빌드 번호, Go 버전을 반환합니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.VersionResponse "버전 정보"
// @Router /version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:     h.buildInfo.Version,
		Commit:      h.buildInfo.Commit,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   h.buildInfo.GoVersion,
		OS:          h.buildInfo.OS,
		Arch:        h.buildInfo.Arch,
	})
}
