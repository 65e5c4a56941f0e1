package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/product-server/internal/pkg/validator"
	"github.com/darkkaiser/product-server/internal/service/api/v1/model/request"
	"github.com/darkkaiser/product-server/internal/service/product/pricing"
)

// PricingPreviewHandler godoc
// @Summary 가격 미리보기
// @Description 편집 중인 가격 문자열에 상품 수집과 같은 정규화, 숫자 추출, 할인율 추론 규칙을 적용한 결과를 반환합니다.
// @Description 할인율은 정가와 판매가가 모두 숫자로 추출되고 정가가 판매가보다 클 때만 포함됩니다.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body request.PricingPreviewRequest true "가격 입력값"
// @Success 200 {object} pricing.Preview "미리보기 결과"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청"
// @Failure 415 {object} response.ErrorResponse "지원하지 않는 Content-Type"
// @Router /api/v1/pricing/preview [post]
func (h *Handler) PricingPreviewHandler(c echo.Context) error {
	req := new(request.PricingPreviewRequest)
	if err := c.Bind(req); err != nil {
		return NewErrInvalidRequest()
	}
	if err := validator.Struct(req); err != nil {
		return NewErrValidationFailed(validator.FormatValidationError(err))
	}

	preview := h.products.Engine().Evaluate(pricing.Input{
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		RawDiscount:   req.RawDiscount,
		Title:         req.Title,
		SavingsFlag:   req.SavingsFlag,
	})

	return c.JSON(http.StatusOK, preview)
}

// PricingConformanceHandler godoc
// @Summary 가격 규칙 기준 테이블
// @Description 가격 정규화와 할인율 추론의 기준 입력/출력 테이블을 반환합니다.
// @Description 편집 화면의 미리보기 구현이 서버와 같은 결과를 내는지 확인하는 데 사용합니다.
// @Tags Pricing
// @Produce json
// @Success 200 {object} pricing.ConformanceTable "기준 테이블"
// @Router /api/v1/pricing/conformance [get]
func (h *Handler) PricingConformanceHandler(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, pricing.ConformanceJSON())
}
