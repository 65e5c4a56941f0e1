package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/darkkaiser/product-server/internal/config"
	"github.com/darkkaiser/product-server/internal/pkg/version"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/api/model/system"
	"github.com/darkkaiser/product-server/internal/service/product"
	"github.com/darkkaiser/product-server/internal/service/product/cache"
	"github.com/darkkaiser/product-server/internal/service/product/pricing"
	"github.com/darkkaiser/product-server/internal/testutil"
)

// TestMain runs tests and checks for goroutine leaks.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Test Helpers & Stubs
// =============================================================================

type stubProductService struct {
	apiEnabled bool
}

func (s stubProductService) APIEnabled() bool { return s.apiEnabled }

func (stubProductService) GetProductData(_ context.Context, rawURL string, _ bool) (*product.Record, error) {
	return product.NewRecord(product.Draft{
		Identifier:   "B08N5WRWNW",
		CanonicalURL: rawURL,
		Title:        "Echo Dot",
		PriceDisplay: "29,99 €",
		Source:       product.SourceFallback,
	}, nil)
}

func (stubProductService) Engine() *pricing.Engine {
	return pricing.NewEngine(pricing.DefaultThresholds())
}

func (stubProductService) ClearCache(context.Context) (int, error) { return 0, nil }

func (stubProductService) GetCacheStats(context.Context) (cache.Stats, error) {
	return cache.Stats{Backend: "memory", Entries: 1}, nil
}

func (stubProductService) TestAPIConnection(context.Context) product.Diagnosis {
	return product.Diagnosis{OK: true}
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func newTestAppConfig(port int) *config.AppConfig {
	appConfig := &config.AppConfig{Debug: true}
	appConfig.API.ListenPort = port
	appConfig.API.CORS.AllowOrigins = []string{"*"}
	appConfig.API.Applications = []config.ApplicationConfig{
		{ID: "cms", Title: "CMS", AppKey: "admin-key"},
	}
	return appConfig
}

func setupServiceHelper(t *testing.T) (*Service, *config.AppConfig, *recordingNotifier) {
	t.Helper()

	port, err := testutil.GetFreePort()
	require.NoError(t, err, "사용 가능한 포트를 가져오는데 실패했습니다")

	appConfig := newTestAppConfig(port)
	notifier := &recordingNotifier{}

	service := NewService(appConfig, stubProductService{}, notifier, version.Info{
		Version:     "1.0.0",
		BuildDate:   "2026-01-01",
		BuildNumber: "100",
	})

	return service, appConfig, notifier
}

func waitGroupDone(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("서비스 종료 대기 시간 초과")
	}
}

func newTestHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 2 * time.Second,
		Transport: &http.Transport{
			DisableKeepAlives: true,
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // 테스트용 자체 서명 인증서
		},
	}
}

// =============================================================================
// Constructor
// =============================================================================

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("필드 초기화", func(t *testing.T) {
		t.Parallel()

		appConfig := newTestAppConfig(8080)
		notifier := &recordingNotifier{}
		buildInfo := version.Info{Version: "1.2.3"}

		service := NewService(appConfig, stubProductService{}, notifier, buildInfo)

		assert.Equal(t, appConfig, service.appConfig)
		assert.Equal(t, notifier, service.notifier)
		assert.Equal(t, buildInfo, service.buildInfo)
		assert.False(t, service.running)
	})

	t.Run("AppConfig 누락 시 패닉", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			NewService(nil, stubProductService{}, &recordingNotifier{}, version.Info{})
		})
	})
}

func TestService_StartValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		products ProductService
		notifier Notifier
		wantErr  error
	}{
		{name: "상품 서비스 누락", notifier: &recordingNotifier{}, wantErr: ErrProductServiceNotInitialized},
		{name: "Notifier 누락", products: stubProductService{}, wantErr: ErrNotifierNotInitialized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := NewService(newTestAppConfig(8080), tt.products, tt.notifier, version.Info{})

			wg := &sync.WaitGroup{}
			wg.Add(1)
			err := service.Start(context.Background(), wg)

			assert.ErrorIs(t, err, tt.wantErr)
			waitGroupDone(t, wg, time.Second)
			assert.False(t, service.running)
		})
	}
}

// =============================================================================
// Server Setup
// =============================================================================

func TestService_setupServer(t *testing.T) {
	t.Parallel()

	service := NewService(newTestAppConfig(8080), stubProductService{}, &recordingNotifier{}, version.Info{})

	e := service.setupServer()
	require.NotNil(t, e)
	assert.True(t, e.Debug)

	routes := make(map[string]bool)
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /version",
		"GET /swagger/*",
		"GET /api/v1/products",
		"POST /api/v1/pricing/preview",
		"GET /api/v1/pricing/conformance",
		"DELETE /api/v1/cache",
		"GET /api/v1/cache/stats",
		"POST /api/v1/diagnostics/api-connection",
	} {
		assert.True(t, routes[want], "%s 라우트가 등록되어야 합니다", want)
	}
}

// =============================================================================
// Error Handling
// =============================================================================

func TestService_handleServerError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		expectNotify bool
	}{
		{name: "nil 에러는 무시", err: nil},
		{name: "정상 종료는 알리지 않음", err: http.ErrServerClosed},
		{name: "예상치 못한 에러는 알림", err: assert.AnError, expectNotify: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			notifier := &recordingNotifier{}
			service := NewService(newTestAppConfig(8080), stubProductService{}, notifier, version.Info{})

			service.handleServerError(tt.err)

			if tt.expectNotify {
				require.Len(t, notifier.Messages(), 1)
				assert.Contains(t, notifier.Messages()[0], constants.LogMsgServiceHTTPServerFatalError)
				assert.Contains(t, notifier.Messages()[0], assert.AnError.Error())
			} else {
				assert.Empty(t, notifier.Messages())
			}
		})
	}
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestService_Lifecycle(t *testing.T) {
	service, appConfig, notifier := setupServiceHelper(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))
	require.NoError(t, testutil.WaitForServer(appConfig.API.ListenPort, 2*time.Second))

	service.runningMu.Lock()
	assert.True(t, service.running)
	service.runningMu.Unlock()

	resp, err := newTestHTTPClient().Get(fmt.Sprintf("http://127.0.0.1:%d/health", appConfig.API.ListenPort))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var health system.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, constants.HealthStatusHealthy, health.Status)

	shutdownStart := time.Now()
	cancel()
	waitGroupDone(t, wg, 6*time.Second)
	assert.Less(t, time.Since(shutdownStart), 6*time.Second)

	service.runningMu.Lock()
	assert.False(t, service.running)
	service.runningMu.Unlock()

	assert.Empty(t, notifier.Messages(), "정상 종료는 알리지 않아야 합니다")
}

func TestService_DuplicateStart(t *testing.T) {
	service, appConfig, _ := setupServiceHelper(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))
	require.NoError(t, testutil.WaitForServer(appConfig.API.ListenPort, 2*time.Second))

	// 중복 호출은 WaitGroup을 즉시 해제하고 무시된다.
	wg.Add(1)
	assert.NoError(t, service.Start(ctx, wg))

	service.runningMu.Lock()
	assert.True(t, service.running)
	service.runningMu.Unlock()

	cancel()
	waitGroupDone(t, wg, 6*time.Second)
}

func TestService_ConcurrentStart(t *testing.T) {
	service, appConfig, _ := setupServiceHelper(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	const goroutines = 10
	startErrs := make(chan error, goroutines)
	startWg := &sync.WaitGroup{}

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		startWg.Add(1)
		go func() {
			defer startWg.Done()
			startErrs <- service.Start(ctx, wg)
		}()
	}

	require.NoError(t, testutil.WaitForServer(appConfig.API.ListenPort, 5*time.Second))

	startWg.Wait()
	close(startErrs)
	for err := range startErrs {
		assert.NoError(t, err)
	}

	cancel()
	waitGroupDone(t, wg, 10*time.Second)
}

func TestService_UnexpectedExitOnPortConflict(t *testing.T) {
	l, port, err := testutil.OccupyPort()
	require.NoError(t, err)
	defer l.Close()

	notifier := &recordingNotifier{}
	service := NewService(newTestAppConfig(port), stubProductService{}, notifier, version.Info{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))

	// 종료 신호 없이도 서비스 루프가 스스로 정리되어야 한다.
	waitGroupDone(t, wg, 3*time.Second)

	service.runningMu.Lock()
	assert.False(t, service.running)
	service.runningMu.Unlock()

	require.Len(t, notifier.Messages(), 1)
	assert.Contains(t, notifier.Messages()[0], constants.LogMsgServiceHTTPServerFatalError)
}

func TestService_StartTLS(t *testing.T) {
	service, appConfig, _ := setupServiceHelper(t)
	appConfig.API.TLSServer = true
	appConfig.API.TLSCertFile, appConfig.API.TLSKeyFile = testutil.GenerateSelfSignedCert(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))
	require.NoError(t, testutil.WaitForServer(appConfig.API.ListenPort, 2*time.Second))

	resp, err := newTestHTTPClient().Get(fmt.Sprintf("https://127.0.0.1:%d/version", appConfig.API.ListenPort))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Strict-Transport-Security"), "max-age=")

	cancel()
	waitGroupDone(t, wg, 6*time.Second)
}

func TestService_StartTLS_InvalidCertificate(t *testing.T) {
	service, appConfig, notifier := setupServiceHelper(t)
	appConfig.API.TLSServer = true
	appConfig.API.TLSCertFile = "invalid/cert.pem"
	appConfig.API.TLSKeyFile = "invalid/key.pem"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))

	waitGroupDone(t, wg, 3*time.Second)
	assert.Len(t, notifier.Messages(), 1, "인증서 로드 실패 시 알림이 전송되어야 합니다")
}
