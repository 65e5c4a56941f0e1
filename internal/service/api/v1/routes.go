// Package v1 상품 수집 API의 v1 버전 라우트를 정의합니다.
//
// 주요 엔드포인트:
//   - GET    /api/v1/products                     - 상품 정보 조회
//   - POST   /api/v1/pricing/preview              - 가격 미리보기
//   - GET    /api/v1/pricing/conformance          - 가격 규칙 기준 테이블
//   - DELETE /api/v1/cache                        - 상품 캐시 삭제 (관리용)
//   - GET    /api/v1/cache/stats                  - 상품 캐시 통계 (관리용)
//   - POST   /api/v1/diagnostics/api-connection   - 상품 API 연결 진단 (관리용)
//
// 관리용 엔드포인트는 X-App-Key 헤더로 애플리케이션 인증을 요구합니다.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/product-server/internal/service/api/auth"
	"github.com/darkkaiser/product-server/internal/service/api/middleware"
	"github.com/darkkaiser/product-server/internal/service/api/v1/handler"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 등록합니다.
//
// 인증 미들웨어는 그룹이 아닌 관리용 라우트에 개별 적용합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, authenticator *auth.Authenticator) {
	v1Group := e.Group("/api/v1")

	v1Group.GET("/products", h.GetProductHandler)

	v1Group.POST("/pricing/preview", h.PricingPreviewHandler,
		middleware.ValidateContentType(echo.MIMEApplicationJSON),
	)
	v1Group.GET("/pricing/conformance", h.PricingConformanceHandler)

	requireAppKey := middleware.RequireAppKey(authenticator)

	v1Group.DELETE("/cache", h.ClearCacheHandler, requireAppKey)
	v1Group.GET("/cache/stats", h.CacheStatsHandler, requireAppKey)
	v1Group.POST("/diagnostics/api-connection", h.APIConnectionHandler, requireAppKey)
}
