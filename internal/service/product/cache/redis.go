package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/go-redis/redis/v8"
)

// scanBatchSize SCAN 한 번에 요청하는 키 개수 힌트
const scanBatchSize = 200

// globReplacer SCAN MATCH 패턴에서 특수 의미를 갖는 문자를 이스케이프합니다.
var globReplacer = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// RedisOptions Redis 접속 정보
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore Redis 기반 저장소
//
// 만료는 Redis의 키 TTL로 처리되므로 Purge는 항상 0을 반환합니다.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore Redis 클라이언트를 생성하고 연결을 확인합니다.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.Wrapf(err, apperrors.Unavailable, "Redis 캐시 연결 실패: '%s'", opts.Addr)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient 이미 생성된 클라이언트로 저장소를 생성합니다.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, apperrors.Unavailable, "Redis 캐시 조회 실패")
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "Redis 캐시 저장 실패")
	}
	return nil
}

func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	err := s.scan(ctx, prefix, func(keys []string) error {
		deleted, err := s.client.Del(ctx, keys...).Result()
		if err != nil {
			return err
		}
		n += int(deleted)
		return nil
	})
	if err != nil {
		return n, apperrors.Wrap(err, apperrors.Unavailable, "Redis 캐시 삭제 실패")
	}
	return n, nil
}

// Stats 선택된 데이터베이스의 모든 키를 집계합니다. 캐시 전용 데이터베이스(db 번호) 사용을 전제로 합니다.
func (s *RedisStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Backend: BackendRedis}

	err := s.scan(ctx, "", func(keys []string) error {
		pipe := s.client.Pipeline()
		cmds := make([]*redis.IntCmd, len(keys))
		for i, k := range keys {
			cmds[i] = pipe.StrLen(ctx, k)
		}
		if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		for _, cmd := range cmds {
			size, err := cmd.Result()
			if err != nil {
				continue
			}
			stats.Entries++
			stats.Bytes += size
		}
		return nil
	})
	if err != nil {
		return Stats{}, apperrors.Wrap(err, apperrors.Unavailable, "Redis 캐시 통계 조회 실패")
	}
	return stats, nil
}

func (s *RedisStore) Purge(context.Context) (int, error) {
	return 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) scan(ctx context.Context, prefix string, fn func(keys []string) error) error {
	match := matchPattern(prefix)

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// matchPattern 접두사를 SCAN MATCH 패턴으로 변환합니다.
func matchPattern(prefix string) string {
	return globReplacer.Replace(prefix) + "*"
}
