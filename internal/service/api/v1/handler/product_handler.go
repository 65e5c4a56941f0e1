package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/pkg/validator"
	"github.com/darkkaiser/product-server/internal/service/api/httputil"
	"github.com/darkkaiser/product-server/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// GetProductHandler godoc
// @Summary 상품 정보 조회
// @Description 상품 페이지 URL(또는 단축 링크)에서 상품 정보를 수집합니다.
// @Description
// @Description 캐시, 상품 API, 스크래핑을 차례로 시도하며 모두 실패해도 식별자만 확인되면 대체 상품 정보로 응답합니다.
// @Description 응답의 source 필드로 어떤 경로에서 수집되었는지 확인할 수 있습니다 (api, scrape, fallback, simulated).
// @Description
// @Description ## 사용 예시
// @Description ```bash
// @Description curl "http://localhost:8080/api/v1/products?url=https%3A%2F%2Fwww.amazon.es%2Fdp%2FB08N5WRWNW"
// @Description ```
// @Tags Product
// @Produce json
// @Param url query string true "상품 페이지 URL"
// @Param force_refresh query bool false "캐시를 무시하고 새로 수집"
// @Success 200 {object} product.Record "상품 정보"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청 (url 누락 등)"
// @Failure 422 {object} response.ErrorResponse "상품 식별자를 확인할 수 없는 URL"
// @Failure 429 {object} response.ErrorResponse "요청 제한 초과"
// @Router /api/v1/products [get]
func (h *Handler) GetProductHandler(c echo.Context) error {
	req := new(request.ProductRequest)
	if err := c.Bind(req); err != nil {
		return NewErrInvalidRequest()
	}
	if err := validator.Struct(req); err != nil {
		return NewErrValidationFailed(validator.FormatValidationError(err))
	}

	record, err := h.products.GetProductData(c.Request().Context(), req.URL, req.ForceRefresh)
	if err != nil {
		h.log(c).WithFields(applog.Fields{
			"url":        req.URL,
			"error_type": apperrors.Classify(err).String(),
			"error":      err,
		}).Info("상품 정보 조회 실패")

		return httputil.FromAppError(err)
	}

	h.log(c).WithFields(applog.Fields{
		"identifier":    record.Identifier(),
		"source":        record.Source(),
		"force_refresh": req.ForceRefresh,
	}).Debug("상품 정보 조회 완료")

	return c.JSON(http.StatusOK, record)
}
