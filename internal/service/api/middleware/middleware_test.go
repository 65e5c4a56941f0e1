package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/product-server/internal/config"
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/service/api/auth"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/api/httputil"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// =============================================================================
// Test Helpers
// =============================================================================

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// PanicRecovery
// =============================================================================

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
	}{
		{"문자열 패닉", "something bad"},
		{"에러 패닉", errors.New("nil map write")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEcho()
			e.Use(PanicRecovery())
			e.GET("/panic", func(echo.Context) error { panic(tt.value) })

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/panic", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), constants.ErrMsgInternalServer)
		})
	}
}

func TestNewErrPanicRecovered(t *testing.T) {
	t.Parallel()

	cause := errors.New("index out of range")
	err := NewErrPanicRecovered(cause)
	assert.True(t, apperrors.Is(err, apperrors.Internal))
	assert.ErrorIs(t, err, cause)

	assert.Contains(t, NewErrPanicRecovered(42).Error(), "42")
}

// =============================================================================
// RequestContext
// =============================================================================

func TestRequestContext(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	RequestContext()(c, "req-123")

	fields := applog.FieldsFromContext(c.Request().Context())
	assert.Equal(t, "req-123", fields["request_id"])
}

// =============================================================================
// HTTPLogger
// =============================================================================

func TestMaskSensitiveQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		uri      string
		contains []string
		excludes []string
	}{
		{
			name:     "민감 파라미터 없음",
			uri:      "/api/v1/products?url=https%3A%2F%2Fwww.amazon.com%2Fdp%2FB08N5WRWNW",
			contains: []string{"url=https%3A%2F%2Fwww.amazon.com%2Fdp%2FB08N5WRWNW"},
		},
		{
			name:     "app_key 마스킹",
			uri:      "/api/v1/cache/stats?app_key=supersecretvalue&x=1",
			contains: []string{"app_key=supe", "x=1"},
			excludes: []string{"supersecretvalue"},
		},
		{
			name:     "여러 파라미터 마스킹",
			uri:      "/?token=abcdefgh12345678&password=pw",
			excludes: []string{"abcdefgh12345678", "password=pw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := maskSensitiveQueryParams(tt.uri)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestHTTPLogger_PassesErrorToHandler(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	e.Use(HTTPLogger())
	e.GET("/fail", func(echo.Context) error {
		return httputil.NewBadRequestError("url은 필수입니다")
	})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "url은 필수입니다")
}

// =============================================================================
// RateLimit
// =============================================================================

func TestRateLimit(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	e.Use(RateLimit(1, 2))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	request := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":12345"
		return serve(e, req)
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)

	rec := request("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, retryAfterSeconds, rec.Header().Get(constants.HeaderRetryAfter))

	// 다른 IP는 독립적으로 제한됩니다.
	assert.Equal(t, http.StatusOK, request("10.0.0.2").Code)
}

func TestRateLimit_InvalidArguments(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { RateLimit(0, 1) })
	assert.Panics(t, func() { RateLimit(1, 0) })
}

func TestIPRateLimiter_EvictsLeastRecentlySeen(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0

	l := newIPRateLimiter(1, 1)
	l.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	for i := 0; i < maxIPRateLimiters; i++ {
		l.allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Len(t, l.visitors, maxIPRateLimiters)

	// 가장 먼저 등록된 IP를 다시 사용하여 최근 사용 상태로 만든다.
	l.allow("10.0.0.0")

	l.allow("192.0.2.1")

	assert.Len(t, l.visitors, maxIPRateLimiters)
	assert.Contains(t, l.visitors, "10.0.0.0")
	assert.NotContains(t, l.visitors, "10.0.0.1", "가장 오래 요청이 없던 IP가 제거되어야 합니다")
	assert.Contains(t, l.visitors, "192.0.2.1")
}

// =============================================================================
// RequireAppKey
// =============================================================================

func TestRequireAppKey(t *testing.T) {
	t.Parallel()

	authenticator := auth.NewAuthenticator(config.APIConfig{
		Applications: []config.ApplicationConfig{{ID: "cms", Title: "CMS", AppKey: "valid-key"}},
	})

	e := newTestEcho()
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, auth.MustGetApplication(c).ID)
	}, RequireAppKey(authenticator))

	tests := []struct {
		name       string
		appKey     string
		wantStatus int
		wantBody   string
	}{
		{"유효한 키", "valid-key", http.StatusOK, "cms"},
		{"헤더 누락", "", http.StatusUnauthorized, "X-App-Key"},
		{"잘못된 키", "wrong-key", http.StatusUnauthorized, "app_key가 유효하지 않습니다"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.appKey != "" {
				req.Header.Set(constants.HeaderAppKey, tt.appKey)
			}

			rec := serve(e, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireAppKey_NilAuthenticator(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { RequireAppKey(nil) })
}

// =============================================================================
// ValidateContentType
// =============================================================================

func TestValidateContentType(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	e.POST("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, ValidateContentType(echo.MIMEApplicationJSON))

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
	}{
		{"JSON", `{"price":"$10"}`, echo.MIMEApplicationJSON, http.StatusOK},
		{"charset 파라미터 포함", `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"대소문자 무시", `{}`, "Application/JSON", http.StatusOK},
		{"본문 없음", "", "", http.StatusOK},
		{"폼 데이터", "price=10", echo.MIMEApplicationForm, http.StatusUnsupportedMediaType},
		{"헤더 누락", `{}`, "", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}

			assert.Equal(t, tt.wantStatus, serve(e, req).Code)
		})
	}
}

// =============================================================================
// Logger Adapter
// =============================================================================

func TestLogger_Level(t *testing.T) {
	t.Parallel()

	l := Logger{Logger: logrus.New()}

	for _, lvl := range []log.Lvl{log.DEBUG, log.INFO, log.WARN, log.ERROR} {
		l.SetLevel(lvl)
		assert.Equal(t, lvl, l.Level())
	}

	// OFF는 대응하는 레벨이 없으므로 무시합니다.
	l.SetLevel(log.ERROR)
	l.SetLevel(log.OFF)
	assert.Equal(t, log.ERROR, l.Level())

	l.Logger.SetLevel(applog.TraceLevel)
	assert.Equal(t, log.OFF, l.Level())
}

func TestLogger_Output(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	l := Logger{Logger: logrus.New()}
	l.SetOutput(&sb)
	l.SetLevel(log.INFO)

	l.Infof("listening on %d", 8080)
	l.Infoj(log.JSON{"port": 8080})
	l.Debug("hidden")

	require.Same(t, &sb, l.Output())
	assert.Contains(t, sb.String(), "listening on 8080")
	assert.Contains(t, sb.String(), "port=8080")
	assert.NotContains(t, sb.String(), "hidden")
	assert.Empty(t, l.Prefix())
}
