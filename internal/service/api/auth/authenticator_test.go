package auth

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/product-server/internal/config"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/api/model/domain"
)

func newTestAuthenticator() *Authenticator {
	return NewAuthenticator(config.APIConfig{
		Applications: []config.ApplicationConfig{
			{ID: "cms", Title: "CMS", AppKey: "cms-secret-key"},
			{ID: "ops", Title: "운영 도구", AppKey: "ops-secret-key"},
		},
	})
}

// =============================================================================
// Authenticator
// =============================================================================

func TestNewAuthenticator_DoesNotKeepPlainKey(t *testing.T) {
	t.Parallel()

	a := newTestAuthenticator()

	require.Equal(t, 2, a.Count())
	for _, c := range a.credentials {
		assert.NotEqual(t, []byte("cms-secret-key"), c.keyHash[:])
		assert.NotEqual(t, []byte("ops-secret-key"), c.keyHash[:])
	}
}

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	a := newTestAuthenticator()

	tests := []struct {
		name    string
		appKey  string
		wantID  string
		wantErr bool
	}{
		{name: "첫 번째 애플리케이션", appKey: "cms-secret-key", wantID: "cms"},
		{name: "두 번째 애플리케이션", appKey: "ops-secret-key", wantID: "ops"},
		{name: "등록되지 않은 키", appKey: "unknown", wantErr: true},
		{name: "빈 키", appKey: "", wantErr: true},
		{name: "대소문자가 다른 키", appKey: "CMS-SECRET-KEY", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, err := a.Authenticate(tt.appKey)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, app)

				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, http.StatusUnauthorized, he.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, app.ID)
		})
	}
}

func TestAuthenticator_NoApplications(t *testing.T) {
	t.Parallel()

	a := NewAuthenticator(config.APIConfig{})

	_, err := a.Authenticate("anything")
	assert.ErrorIs(t, err, ErrInvalidAppKey)
}

func TestAuthenticator_Concurrency(t *testing.T) {
	t.Parallel()

	a := newTestAuthenticator()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app, err := a.Authenticate("ops-secret-key")
			assert.NoError(t, err)
			assert.Equal(t, "ops", app.ID)
		}()
	}
	wg.Wait()
}

// =============================================================================
// Context
// =============================================================================

func TestApplicationContext(t *testing.T) {
	t.Parallel()

	newContext := func() echo.Context {
		return echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	}

	t.Run("저장 후 조회", func(t *testing.T) {
		t.Parallel()

		c := newContext()
		app := &domain.Application{ID: "cms", Title: "CMS"}
		SetApplication(c, app)

		got, err := GetApplication(c)
		require.NoError(t, err)
		assert.Same(t, app, got)
		assert.Same(t, app, MustGetApplication(c))
	})

	t.Run("저장되지 않은 경우", func(t *testing.T) {
		t.Parallel()

		c := newContext()

		_, err := GetApplication(c)
		assert.ErrorIs(t, err, ErrApplicationMissingInContext)
		assert.Panics(t, func() { MustGetApplication(c) })
	})

	t.Run("타입이 다른 경우", func(t *testing.T) {
		t.Parallel()

		c := newContext()
		c.Set(constants.ContextKeyApplication, "not-an-app")

		_, err := GetApplication(c)
		assert.ErrorIs(t, err, ErrApplicationTypeMismatch)
	})
}
