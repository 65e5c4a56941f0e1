package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })

	t.Run("VCS 메타데이터로 보강", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Main: debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "f25b8bf0123456789"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			}, true
		}

		bi := resolve(Info{})
		assert.Equal(t, "v1.4.0", bi.Version)
		assert.Equal(t, "f25b8bf0123456789", bi.Commit)
		assert.Equal(t, "2026-01-02T03:04:05Z", bi.BuildDate)
		assert.True(t, bi.DirtyBuild)
		assert.Equal(t, runtime.Version(), bi.GoVersion)
	})

	t.Run("주입된 값 우선", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}}}, true
		}

		bi := resolve(Info{Version: "v2.0.0", Commit: "abc1234"})
		assert.Equal(t, "v2.0.0", bi.Version)
		assert.Equal(t, "abc1234", bi.Commit)
	})

	t.Run("정보 없음", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

		bi := resolve(Info{})
		assert.Equal(t, unknown, bi.Version)
		assert.Equal(t, unknown, bi.Commit)
		assert.Equal(t, unknown, bi.BuildDate)
	})
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	bi := Info{Version: "v1.2.0", Commit: "f25b8bf0123", BuildNumber: "42", GoVersion: "go1.24.11", OS: "linux", Arch: "amd64", DirtyBuild: true}
	assert.Equal(t, "v1.2.0+dirty (commit: f25b8bf, build: 42, go1.24.11 linux/amd64)", bi.String())
	assert.Equal(t, "v1.0.0", Info{Version: "v1.0.0", Commit: unknown}.String())
}

func TestInfo_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Info{Version: "v1", DirtyBuild: true})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dirty_build":true`)
	assert.Equal(t, "v1", Info{Version: "v1"}.ToMap()["version"])
}

func TestGet_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	results := make([]Info, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Get()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
		assert.NotEmpty(t, r.Version)
	}
}
