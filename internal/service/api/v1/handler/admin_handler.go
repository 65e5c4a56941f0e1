package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/product-server/internal/service/api/auth"
	"github.com/darkkaiser/product-server/internal/service/api/httputil"
	"github.com/darkkaiser/product-server/internal/service/api/v1/model/response"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// ClearCacheHandler godoc
// @Summary 상품 캐시 삭제
// @Description 현재 네임스페이스의 상품 캐시를 모두 삭제합니다.
// @Tags Admin
// @Produce json
// @Param X-App-Key header string true "Application Key"
// @Success 200 {object} response.CacheClearResponse "삭제 결과"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 503 {object} response.ErrorResponse "캐시 저장소 장애"
// @Security ApiKeyAuth
// @Router /api/v1/cache [delete]
func (h *Handler) ClearCacheHandler(c echo.Context) error {
	app := auth.MustGetApplication(c)

	deleted, err := h.products.ClearCache(c.Request().Context())
	if err != nil {
		h.log(c).WithFields(applog.Fields{
			"application_id": app.ID,
			"error":          err,
		}).Error("상품 캐시 삭제 실패")

		return httputil.FromAppError(err)
	}

	h.log(c).WithFields(applog.Fields{
		"application_id": app.ID,
		"deleted":        deleted,
	}).Info("관리자 요청으로 상품 캐시 삭제")

	return c.JSON(http.StatusOK, response.CacheClearResponse{
		ResultCode: 0,
		Deleted:    deleted,
	})
}

// CacheStatsHandler godoc
// @Summary 상품 캐시 통계
// @Description 캐시 저장소 종류, 항목 수, 전체 크기(byte)를 반환합니다.
// @Tags Admin
// @Produce json
// @Param X-App-Key header string true "Application Key"
// @Success 200 {object} cache.Stats "캐시 통계"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 503 {object} response.ErrorResponse "캐시 저장소 장애"
// @Security ApiKeyAuth
// @Router /api/v1/cache/stats [get]
func (h *Handler) CacheStatsHandler(c echo.Context) error {
	stats, err := h.products.GetCacheStats(c.Request().Context())
	if err != nil {
		h.log(c).WithField("error", err).Error("상품 캐시 통계 조회 실패")
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

// APIConnectionHandler godoc
// @Summary 상품 API 연결 진단
// @Description 진단용 상품 식별자로 상품 API를 한 번 호출하고 결과를 분류합니다.
// @Description 진단 실패도 200으로 응답하며, ok 필드와 kind, cause 필드로 결과를 확인합니다.
// @Tags Admin
// @Produce json
// @Param X-App-Key header string true "Application Key"
// @Success 200 {object} product.Diagnosis "진단 결과"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Security ApiKeyAuth
// @Router /api/v1/diagnostics/api-connection [post]
func (h *Handler) APIConnectionHandler(c echo.Context) error {
	app := auth.MustGetApplication(c)

	d := h.products.TestAPIConnection(c.Request().Context())

	h.log(c).WithFields(applog.Fields{
		"application_id": app.ID,
		"ok":             d.OK,
		"kind":           d.Kind,
		"retryable":      d.Retryable,
		"elapsed_ms":     d.ElapsedMS,
	}).Info("상품 API 연결 진단")

	return c.JSON(http.StatusOK, d)
}
