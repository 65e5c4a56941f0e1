// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
//
// 요청을 바인딩하고 검증한 뒤 상품 서비스를 호출하고, 결과를 JSON으로 응답합니다.
package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/product"
	"github.com/darkkaiser/product-server/internal/service/product/cache"
	"github.com/darkkaiser/product-server/internal/service/product/pricing"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// ProductService v1 API가 사용하는 상품 서비스 기능입니다.
type ProductService interface {
	GetProductData(ctx context.Context, rawURL string, forceRefresh bool) (*product.Record, error)
	Engine() *pricing.Engine

	ClearCache(ctx context.Context) (int, error)
	GetCacheStats(ctx context.Context) (cache.Stats, error)
	TestAPIConnection(ctx context.Context) product.Diagnosis
}

// Handler v1 API 요청을 처리합니다.
type Handler struct {
	products ProductService
}

// New Handler 인스턴스를 생성합니다.
func New(products ProductService) *Handler {
	if products == nil {
		panic("ProductService는 필수입니다")
	}

	return &Handler{
		products: products,
	}
}

// log 요청 Context의 필드와 엔드포인트가 설정된 로거 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *applog.Entry {
	return applog.WithContextAndFields(c.Request().Context(), constants.ComponentHandler, applog.Fields{
		"endpoint": c.Path(),
	})
}
