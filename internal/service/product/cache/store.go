// Package cache 상품 수집 결과를 TTL과 함께 보관하는 저장소를 제공합니다.
//
// 백엔드는 memory, file, sqlite, redis 중 하나를 설정으로 선택하며, 모두 Store 인터페이스를 구현합니다.
// 키 단위의 원자성은 각 백엔드가 보장합니다.
package cache

import (
	"context"
	"time"
)

const component = "product.cache"

const (
	// MinTTL, MaxTTL 저장 TTL의 허용 범위
	MinTTL = 300 * time.Second
	MaxTTL = 86400 * time.Second
)

// Store 캐시 저장소 인터페이스
type Store interface {
	// Get 키에 해당하는 값을 반환합니다. 없거나 만료되었으면 found는 false입니다.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set 값을 저장합니다. 같은 키의 기존 값은 교체됩니다.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeleteByPrefix prefix로 시작하는 모든 키를 삭제하고 삭제한 개수를 반환합니다.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// Stats 만료되지 않은 항목의 개수와 크기를 반환합니다.
	Stats(ctx context.Context) (Stats, error)

	// Purge 만료된 항목을 정리하고 정리한 개수를 반환합니다. 만료를 자체 처리하는 백엔드는 0을 반환합니다.
	Purge(ctx context.Context) (int, error)

	Close() error
}

// Stats 캐시 통계
type Stats struct {
	Backend string `json:"backend"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
}

// Entry 저장된 항목 하나
type Entry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired now 시점에 만료되었는지 여부를 반환합니다.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// ClampTTL TTL을 허용 범위(300-86400초)로 보정합니다.
func ClampTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl < MinTTL:
		return MinTTL
	case ttl > MaxTTL:
		return MaxTTL
	}
	return ttl
}

// Key 네임스페이스와 식별자로 캐시 키를 생성합니다.
func Key(namespace, identifier string) string {
	return Prefix(namespace) + identifier
}

// Prefix 네임스페이스에 속한 모든 키의 공통 접두사를 반환합니다.
func Prefix(namespace string) string {
	return namespace + ":"
}

// Option 저장소 생성 옵션
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock 만료 판정에 사용할 시계를 교체합니다. (테스트용)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
