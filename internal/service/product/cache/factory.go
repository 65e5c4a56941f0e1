package cache

import (
	"context"

	"github.com/darkkaiser/product-server/internal/config"
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// 백엔드 이름. Stats.Backend 값으로도 사용됩니다.
const (
	BackendMemory = config.CacheBackendMemory
	BackendFile   = config.CacheBackendFile
	BackendSQLite = config.CacheBackendSQLite
	BackendRedis  = config.CacheBackendRedis
)

// New 설정에 지정된 백엔드의 저장소를 생성합니다.
func New(ctx context.Context, cfg config.CacheConfig, opts ...Option) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case "", BackendMemory:
		store = NewMemoryStore(opts...)
	case BackendFile:
		store, err = NewFileStore(cfg.Dir, opts...)
	case BackendSQLite:
		store, err = NewSQLiteStore(cfg.DSN, opts...)
	case BackendRedis:
		store, err = NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, apperrors.Newf(apperrors.Configuration, "지원하지 않는 캐시 저장소입니다: '%s'", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"backend":   cfg.Backend,
		"namespace": cfg.Namespace,
	}).Info("캐시 저장소 초기화 완료")

	return store, nil
}
