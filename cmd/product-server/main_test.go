package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/product-server/internal/config"
)

// =============================================================================
// Metadata
// =============================================================================

func TestAppMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "product-server", config.AppName)
	assert.NotContains(t, config.AppName, " ")
	assert.Equal(t, "product-server.json", config.DefaultFilename)
}

// =============================================================================
// Environment File
// =============================================================================

func TestLoadEnvFile(t *testing.T) {
	t.Run("파일이 없으면 무시", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("환경 변수 등록", func(t *testing.T) {
		const key = "PRODUCT_TEST_ENV_FILE_VALUE"
		t.Cleanup(func() { os.Unsetenv(key) })

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "from-file", os.Getenv(key))
	})

	t.Run("기존 환경 변수는 덮어쓰지 않음", func(t *testing.T) {
		const key = "PRODUCT_TEST_ENV_FILE_PRESET"
		t.Setenv(key, "preset")

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "preset", os.Getenv(key))
	})
}

// =============================================================================
// Startup
// =============================================================================

func TestRun_ConfigLoadFailure(t *testing.T) {
	stdout := new(bytes.Buffer)

	code := run(filepath.Join(t.TempDir(), "missing.json"), make(chan os.Signal), stdout)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String(), "설정 로드 실패 시 배너를 출력하지 않아야 합니다")
}
