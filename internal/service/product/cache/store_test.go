package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/product-server/internal/config"
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 테스트에서 시간을 임의로 진행시키기 위한 시계
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type storeFactory func(t *testing.T, clock *fakeClock) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		BackendMemory: func(t *testing.T, clock *fakeClock) Store {
			return NewMemoryStore(WithClock(clock.Now))
		},
		BackendFile: func(t *testing.T, clock *fakeClock) Store {
			s, err := NewFileStore(t.TempDir(), WithClock(clock.Now))
			require.NoError(t, err)
			return s
		},
		BackendSQLite: func(t *testing.T, clock *fakeClock) Store {
			dsn := "file:" + filepath.Join(t.TempDir(), "cache.db")
			s, err := NewSQLiteStore(dsn, WithClock(clock.Now))
			require.NoError(t, err)
			return s
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func TestClampTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"0은 최소값", 0, MinTTL},
		{"음수는 최소값", -time.Minute, MinTTL},
		{"최소값 미만", time.Minute, MinTTL},
		{"범위 내", time.Hour, time.Hour},
		{"최소 경계", MinTTL, MinTTL},
		{"최대 경계", MaxTTL, MaxTTL},
		{"최대값 초과", 48 * time.Hour, MaxTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClampTTL(tt.in))
		})
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "product:B08N5WRWNW", Key("product", "B08N5WRWNW"))
	assert.Equal(t, "product:", Prefix("product"))
	assert.Contains(t, Key("product", "X"), Prefix("product"))
}

func TestEntryFilename(t *testing.T) {
	t.Parallel()

	a := entryFilename("product:B08N5WRWNW")
	b := entryFilename("product:b08n5wrwnw")

	assert.Regexp(t, `^entry-[a-z0-9-]+-[0-9a-f]{16}\.json$`, a)
	assert.NotEqual(t, a, b, "대소문자만 다른 키도 서로 다른 파일이어야 합니다")
	assert.NotContains(t, entryFilename("../../etc/passwd"), "/")
	assert.LessOrEqual(t, len(entryFilename(string(make([]byte, 500)))), 120)
}

// =============================================================================
// Store Behavior (모든 백엔드 공통)
// =============================================================================

func TestStore_SetGet(t *testing.T) {
	t.Parallel()

	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := factory(t, newFakeClock())
			defer s.Close()

			_, found, err := s.Get(ctx, "product:missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Set(ctx, "product:A", []byte(`{"title":"a"}`), time.Hour))

			got, found, err := s.Get(ctx, "product:A")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `{"title":"a"}`, string(got))

			// 덮어쓰기
			require.NoError(t, s.Set(ctx, "product:A", []byte(`{"title":"b"}`), time.Hour))
			got, _, err = s.Get(ctx, "product:A")
			require.NoError(t, err)
			assert.Equal(t, `{"title":"b"}`, string(got))
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := newFakeClock()
			s := factory(t, clock)
			defer s.Close()

			require.NoError(t, s.Set(ctx, "product:A", []byte("v"), 10*time.Minute))
			require.NoError(t, s.Set(ctx, "product:B", []byte("vv"), time.Hour))

			clock.Advance(10*time.Minute - time.Second)
			_, found, err := s.Get(ctx, "product:A")
			require.NoError(t, err)
			assert.True(t, found, "만료 직전에는 조회되어야 합니다")

			clock.Advance(time.Second)
			_, found, err = s.Get(ctx, "product:A")
			require.NoError(t, err)
			assert.False(t, found, "만료 시각 이후에는 조회되지 않아야 합니다")

			stats, err := s.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, stats.Entries)
			assert.Equal(t, int64(2), stats.Bytes)
			assert.Equal(t, name, stats.Backend)

			purged, err := s.Purge(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, purged)

			purged, err = s.Purge(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, purged)
		})
	}
}

func TestStore_DeleteByPrefix(t *testing.T) {
	t.Parallel()

	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := factory(t, newFakeClock())
			defer s.Close()

			for i := range 3 {
				require.NoError(t, s.Set(ctx, Key("product", fmt.Sprintf("ID%d", i)), []byte("x"), time.Hour))
			}
			require.NoError(t, s.Set(ctx, Key("other", "ID0"), []byte("y"), time.Hour))
			require.NoError(t, s.Set(ctx, "product_like:ID0", []byte("z"), time.Hour))

			n, err := s.DeleteByPrefix(ctx, Prefix("product"))
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			_, found, err := s.Get(ctx, Key("other", "ID0"))
			require.NoError(t, err)
			assert.True(t, found, "다른 네임스페이스는 유지되어야 합니다")

			_, found, err = s.Get(ctx, "product_like:ID0")
			require.NoError(t, err)
			assert.True(t, found, "접두사가 정확히 일치하지 않는 키는 유지되어야 합니다")

			n, err = s.DeleteByPrefix(ctx, Prefix("product"))
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := factory(t, newFakeClock())
			defer s.Close()

			var wg sync.WaitGroup
			for i := range 20 {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					key := Key("product", fmt.Sprintf("ID%d", i%4))
					assert.NoError(t, s.Set(ctx, key, []byte(fmt.Sprintf("value-%d", i)), time.Hour))
					_, _, err := s.Get(ctx, key)
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()

			stats, err := s.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, 4, stats.Entries)
		})
	}
}

// =============================================================================
// Backend Specific
// =============================================================================

func TestMemoryStore_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("original")
	require.NoError(t, s.Set(ctx, "k", value, time.Hour))
	value[0] = 'X'

	got, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "original", string(again))
}

func TestFileStore_Persistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "product:A", []byte("persisted"), time.Hour))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, found, err := s2.Get(ctx, "product:A")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "persisted", string(got))

	matches, err := filepath.Glob(filepath.Join(s2.Dir(), tempFilePattern))
	require.NoError(t, err)
	assert.Empty(t, matches, "저장 후 임시 파일이 남지 않아야 합니다")
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	t.Parallel()

	_, err := NewFileStore("  ")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Configuration))
}

func TestNewSQLiteStore_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := NewSQLiteStore("")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Configuration))
}

func TestSQLiteStore_Persistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "cache.db")

	s1, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "product:A", []byte("persisted"), time.Hour))
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	defer s2.Close()

	got, found, err := s2.Get(ctx, "product:A")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "persisted", string(got))
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "product:*", matchPattern("product:"))
	assert.Equal(t, `a\*b\?\[c\]:*`, matchPattern("a*b?[c]:"))
	assert.Equal(t, "*", matchPattern(""))
}

// =============================================================================
// Factory
// =============================================================================

func TestNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		s, err := New(ctx, config.CacheConfig{Backend: config.CacheBackendMemory})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		s, err := New(ctx, config.CacheConfig{Backend: config.CacheBackendFile, Dir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &FileStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		dsn := "file:" + filepath.Join(t.TempDir(), "cache.db")
		s, err := New(ctx, config.CacheConfig{Backend: config.CacheBackendSQLite, DSN: dsn})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("redis 연결 실패", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		_, err := New(cctx, config.CacheConfig{
			Backend: config.CacheBackendRedis,
			Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})

	t.Run("지원하지 않는 백엔드", func(t *testing.T) {
		t.Parallel()
		_, err := New(ctx, config.CacheConfig{Backend: "memcached"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Configuration))
	})
}
