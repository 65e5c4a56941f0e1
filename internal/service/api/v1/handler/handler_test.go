package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/service/api/auth"
	"github.com/darkkaiser/product-server/internal/service/api/httputil"
	"github.com/darkkaiser/product-server/internal/service/api/model/domain"
	"github.com/darkkaiser/product-server/internal/service/product"
	"github.com/darkkaiser/product-server/internal/service/product/cache"
	"github.com/darkkaiser/product-server/internal/service/product/pricing"
)

// =============================================================================
// Test Helpers
// =============================================================================

type mockProductService struct {
	mock.Mock
	engine *pricing.Engine
}

func newMockProductService() *mockProductService {
	return &mockProductService{engine: pricing.NewEngine(pricing.DefaultThresholds())}
}

func (m *mockProductService) GetProductData(ctx context.Context, rawURL string, forceRefresh bool) (*product.Record, error) {
	args := m.Called(ctx, rawURL, forceRefresh)
	rec, _ := args.Get(0).(*product.Record)
	return rec, args.Error(1)
}

func (m *mockProductService) Engine() *pricing.Engine {
	return m.engine
}

func (m *mockProductService) ClearCache(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockProductService) GetCacheStats(ctx context.Context) (cache.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(cache.Stats), args.Error(1)
}

func (m *mockProductService) TestAPIConnection(ctx context.Context) product.Diagnosis {
	return m.Called(ctx).Get(0).(product.Diagnosis)
}

func newTestRecord(t *testing.T) *product.Record {
	t.Helper()

	rec, err := product.NewRecord(product.Draft{
		Identifier:           "B08N5WRWNW",
		CanonicalURL:         "https://www.amazon.es/dp/B08N5WRWNW",
		Title:                "Echo Dot (4.ª generación)",
		PriceDisplay:         "29,99 €",
		OriginalPriceDisplay: "59,99 €",
		Source:               product.SourceScrape,
	}, nil)
	require.NoError(t, err)
	return rec
}

// newContext 요청을 만들고, app이 주어지면 인증 미들웨어를 통과한 것처럼 Context에 저장합니다.
func newContext(method, target, body string, app *domain.Application) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if app != nil {
		auth.SetApplication(c, app)
	}
	return c, rec
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestNew(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, New(newMockProductService()))
	assert.PanicsWithValue(t, "ProductService는 필수입니다", func() { New(nil) })
}

// =============================================================================
// GetProductHandler
// =============================================================================

func TestGetProductHandler(t *testing.T) {
	t.Parallel()

	const productURL = "https://www.amazon.es/dp/B08N5WRWNW"

	t.Run("성공", func(t *testing.T) {
		t.Parallel()

		svc := newMockProductService()
		svc.On("GetProductData", mock.Anything, productURL, true).Return(newTestRecord(t), nil).Once()

		c, rec := newContext(http.MethodGet, "/api/v1/products?url="+productURL+"&force_refresh=true", "", nil)
		require.NoError(t, New(svc).GetProductHandler(c))

		svc.AssertExpectations(t)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "B08N5WRWNW", body["identifier"])
		assert.Equal(t, "scrape", body["source"])
		assert.EqualValues(t, 50, body["discount_percent"])
	})

	t.Run("url 누락", func(t *testing.T) {
		t.Parallel()

		svc := newMockProductService()
		c, _ := newContext(http.MethodGet, "/api/v1/products", "", nil)

		err := New(svc).GetProductHandler(c)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		svc.AssertNotCalled(t, "GetProductData", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("force_refresh 형식 오류", func(t *testing.T) {
		t.Parallel()

		c, _ := newContext(http.MethodGet, "/api/v1/products?url=x&force_refresh=maybe", "", nil)

		err := New(newMockProductService()).GetProductHandler(c)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("식별자 없음은 422", func(t *testing.T) {
		t.Parallel()

		svc := newMockProductService()
		svc.On("GetProductData", mock.Anything, "https://example.com/item", false).
			Return(nil, apperrors.New(apperrors.NoIdentifier, "상품 식별자를 확인할 수 없습니다")).Once()

		c, _ := newContext(http.MethodGet, "/api/v1/products?url=https://example.com/item", "", nil)

		err := New(svc).GetProductHandler(c)
		assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
	})
}

// =============================================================================
// Pricing
// =============================================================================

func TestPricingPreviewHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantDiscount any
		wantDisplay  string
	}{
		{
			name:         "할인율 계산",
			body:         `{"price":"29,99  €","original_price":"59,99 €"}`,
			wantStatus:   http.StatusOK,
			wantDiscount: float64(50),
			wantDisplay:  "29,99€",
		},
		{
			name:         "정가 없음",
			body:         `{"price":"$19.99","raw_discount":"-30%"}`,
			wantStatus:   http.StatusOK,
			wantDiscount: nil,
			wantDisplay:  "$19.99",
		},
		{
			name:       "판매가 누락",
			body:       `{"original_price":"59,99 €"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "잘못된 JSON",
			body:       `{"price":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, rec := newContext(http.MethodPost, "/api/v1/pricing/preview", tt.body, nil)
			err := New(newMockProductService()).PricingPreviewHandler(c)

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}

			require.NoError(t, err)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDisplay, body["price_display"])
			assert.Equal(t, tt.wantDiscount, body["discount_percent"])
		})
	}
}

func TestPricingConformanceHandler(t *testing.T) {
	t.Parallel()

	c, rec := newContext(http.MethodGet, "/api/v1/pricing/conformance", "", nil)
	require.NoError(t, New(newMockProductService()).PricingConformanceHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var table pricing.ConformanceTable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.NotEmpty(t, table.Cases)
}

// TestPricingPreviewHandler_MatchesConformance 미리보기 API가 기준 테이블과 같은 결과를 내는지 검증합니다.
func TestPricingPreviewHandler_MatchesConformance(t *testing.T) {
	t.Parallel()

	table, err := pricing.LoadConformance()
	require.NoError(t, err)

	h := New(newMockProductService())
	for _, tc := range table.Cases {
		if tc.Price == "" {
			continue
		}

		body, err := json.Marshal(map[string]any{
			"price":          tc.Price,
			"original_price": tc.OriginalPrice,
			"raw_discount":   tc.RawDiscount,
			"title":          tc.Title,
			"savings_flag":   tc.SavingsFlag,
		})
		require.NoError(t, err)

		c, rec := newContext(http.MethodPost, "/api/v1/pricing/preview", string(body), nil)
		require.NoError(t, h.PricingPreviewHandler(c), tc.Name)

		var got pricing.Preview
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, tc.Expected.PriceDisplay, got.PriceDisplay, tc.Name)
		assert.Equal(t, tc.Expected.DiscountPercent, got.DiscountPercent, tc.Name)
	}
}

// =============================================================================
// Admin
// =============================================================================

func TestClearCacheHandler(t *testing.T) {
	t.Parallel()

	app := &domain.Application{ID: "cms", Title: "CMS"}

	t.Run("성공", func(t *testing.T) {
		t.Parallel()

		svc := newMockProductService()
		svc.On("ClearCache", mock.Anything).Return(7, nil).Once()

		c, rec := newContext(http.MethodDelete, "/api/v1/cache", "", app)
		require.NoError(t, New(svc).ClearCacheHandler(c))

		assert.JSONEq(t, `{"result_code":0,"deleted":7}`, rec.Body.String())
	})

	t.Run("저장소 장애는 503", func(t *testing.T) {
		t.Parallel()

		svc := newMockProductService()
		svc.On("ClearCache", mock.Anything).Return(0, apperrors.New(apperrors.Unavailable, "redis down")).Once()

		c, _ := newContext(http.MethodDelete, "/api/v1/cache", "", app)
		err := New(svc).ClearCacheHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	})
}

func TestCacheStatsHandler(t *testing.T) {
	t.Parallel()

	svc := newMockProductService()
	svc.On("GetCacheStats", mock.Anything).Return(cache.Stats{Backend: "sqlite", Entries: 2, Bytes: 512}, nil).Once()
	svc.On("GetCacheStats", mock.Anything).Return(cache.Stats{}, errors.New("disk I/O error")).Once()

	h := New(svc)

	c, rec := newContext(http.MethodGet, "/api/v1/cache/stats", "", nil)
	require.NoError(t, h.CacheStatsHandler(c))
	assert.JSONEq(t, `{"backend":"sqlite","entries":2,"bytes":512}`, rec.Body.String())

	c, _ = newContext(http.MethodGet, "/api/v1/cache/stats", "", nil)
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, h.CacheStatsHandler(c)))
}

func TestAPIConnectionHandler(t *testing.T) {
	t.Parallel()

	d := product.Diagnosis{
		Kind:       apperrors.Authentication.String(),
		Cause:      product.CauseFor(apperrors.Authentication),
		Identifier: "B08N5WRWNW",
		Source:     product.SourceAPI,
		ElapsedMS:  85,
	}

	svc := newMockProductService()
	svc.On("TestAPIConnection", mock.Anything).Return(d).Once()

	c, rec := newContext(http.MethodPost, "/api/v1/diagnostics/api-connection", "", &domain.Application{ID: "ops"})
	require.NoError(t, New(svc).APIConnectionHandler(c))

	// 진단 실패도 200으로 응답합니다.
	assert.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, false, got["ok"])
	assert.Equal(t, "Authentication", got["kind"])
	assert.EqualValues(t, 85, got["elapsed_ms"])
}

// 핸들러 에러는 ErrorHandler를 거쳐 표준 응답으로 변환됩니다.
func TestHandlerErrorsThroughErrorHandler(t *testing.T) {
	t.Parallel()

	c, rec := newContext(http.MethodGet, "/api/v1/products", "", nil)
	err := New(newMockProductService()).GetProductHandler(c)
	require.Error(t, err)

	httputil.ErrorHandler(err, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "url는 필수입니다")
}
