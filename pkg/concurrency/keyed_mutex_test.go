package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SameKeySerialized(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = km.WithLock("B08N5WRWNW", func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
	assert.Zero(t, km.Len(), "모든 잠금이 해제되면 키가 정리되어야 합니다")
}

func TestKeyedMutex_DifferentKeysParallel(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex()
	km.Lock("a")
	defer km.Unlock("a")

	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("다른 키의 잠금이 차단되었습니다")
	}
	assert.Equal(t, 1, km.Len())
}

func TestKeyedMutex_WithLockError(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex()
	errBoom := errors.New("boom")
	assert.ErrorIs(t, km.WithLock("k", func() error { return errBoom }), errBoom)
	assert.Zero(t, km.Len())
}

func TestKeyedMutex_UnlockWithoutLock(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewKeyedMutex().Unlock("missing") })
}
