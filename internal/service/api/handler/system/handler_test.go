package system

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/product-server/internal/pkg/version"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/api/model/system"
	"github.com/darkkaiser/product-server/internal/service/product/cache"
)

// =============================================================================
// Test Helpers
// =============================================================================

type stubHealthChecker struct {
	apiEnabled bool
	stats      cache.Stats
	statsErr   error
}

func (s stubHealthChecker) APIEnabled() bool { return s.apiEnabled }

func (s stubHealthChecker) GetCacheStats(context.Context) (cache.Stats, error) {
	return s.stats, s.statsErr
}

func callHandler(t *testing.T, fn echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)
	require.NoError(t, fn(c))
	return rec
}

// =============================================================================
// Constructor
// =============================================================================

func TestNew(t *testing.T) {
	t.Parallel()

	h := New(stubHealthChecker{}, version.Info{Version: "1.0.0"})
	assert.Equal(t, "1.0.0", h.buildInfo.Version)
	assert.WithinDuration(t, time.Now(), h.serverStartTime, time.Second)

	assert.PanicsWithValue(t, "HealthChecker는 필수입니다", func() {
		New(nil, version.Info{})
	})
}

// =============================================================================
// Health Check
// =============================================================================

func TestHandler_HealthCheckHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		checker      stubHealthChecker
		wantStatus   string
		wantCache    string
		wantProvider string
	}{
		{
			name:         "모두 정상",
			checker:      stubHealthChecker{apiEnabled: true, stats: cache.Stats{Backend: "memory", Entries: 3}},
			wantStatus:   constants.HealthStatusHealthy,
			wantCache:    constants.HealthStatusHealthy,
			wantProvider: constants.HealthStatusHealthy,
		},
		{
			name:         "API 비활성화는 전체 상태에 영향 없음",
			checker:      stubHealthChecker{stats: cache.Stats{Backend: "sqlite"}},
			wantStatus:   constants.HealthStatusHealthy,
			wantCache:    constants.HealthStatusHealthy,
			wantProvider: constants.HealthStatusDisabled,
		},
		{
			name:         "캐시 장애",
			checker:      stubHealthChecker{apiEnabled: true, statsErr: errors.New("redis: connection refused")},
			wantStatus:   constants.HealthStatusUnhealthy,
			wantCache:    constants.HealthStatusUnhealthy,
			wantProvider: constants.HealthStatusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := New(tt.checker, version.Info{})
			rec := callHandler(t, h.HealthCheckHandler, "/health")

			require.Equal(t, http.StatusOK, rec.Code)

			var resp system.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantCache, resp.Dependencies[constants.DependencyCache].Status)
			assert.Equal(t, tt.wantProvider, resp.Dependencies[constants.DependencyProviderAPI].Status)
			assert.GreaterOrEqual(t, resp.Uptime, int64(0))
		})
	}
}

func TestHandler_HealthCheckHandler_CacheMessage(t *testing.T) {
	t.Parallel()

	h := New(stubHealthChecker{stats: cache.Stats{Backend: "file", Entries: 12}}, version.Info{})
	rec := callHandler(t, h.HealthCheckHandler, "/health")

	var resp system.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "file: 12 entries", resp.Dependencies[constants.DependencyCache].Message)
}

// =============================================================================
// Version
// =============================================================================

func TestHandler_VersionHandler(t *testing.T) {
	t.Parallel()

	info := version.Info{
		Version:     "1.2.0",
		Commit:      "abc1234",
		BuildDate:   "2025-12-01T14:00:00Z",
		BuildNumber: "100",
		GoVersion:   "go1.24.0",
		OS:          "linux",
		Arch:        "amd64",
	}
	h := New(stubHealthChecker{}, info)

	rec := callHandler(t, h.VersionHandler, "/version")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp system.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, system.VersionResponse{
		Version:     "1.2.0",
		Commit:      "abc1234",
		BuildDate:   "2025-12-01T14:00:00Z",
		BuildNumber: "100",
		GoVersion:   "go1.24.0",
		OS:          "linux",
		Arch:        "amd64",
	}, resp)
}
