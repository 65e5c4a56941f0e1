package cache

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT    NOT NULL PRIMARY KEY,
	value      BLOB    NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries (expires_at);
`

// SQLiteStore SQLite 데이터베이스 기반 저장소
//
// 만료 시각은 유닉스 밀리초로 저장하며, 조회 시 만료된 행은 결과에서 제외합니다.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore dsn으로 데이터베이스를 열고 스키마를 준비합니다.
func NewSQLiteStore(dsn string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, apperrors.New(apperrors.Configuration, "SQLite 캐시 데이터베이스 경로가 지정되지 않았습니다")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Configuration, "SQLite 캐시 데이터베이스 열기 실패: '%s'", dsn)
	}

	// SQLite는 쓰기 잠금이 데이터베이스 단위이므로 커넥션 하나로 직렬화한다.
	// ":memory:" DSN도 커넥션마다 별도의 데이터베이스가 생기지 않는다.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, apperrors.Configuration, "SQLite 캐시 스키마 생성 실패")
	}

	o := newOptions(opts)
	return &SQLiteStore{db: db, now: o.now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ? AND expires_at > ?`,
		key, s.now().UnixMilli(),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, apperrors.Internal, "SQLite 캐시 조회 실패")
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key)
		 DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, s.now().Add(ttl).UnixMilli(),
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "SQLite 캐시 저장 실패")
	}
	return nil
}

func (s *SQLiteStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	// LIKE의 와일드카드 이스케이프를 피하기 위해 접두사 길이만큼 잘라 비교한다.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE substr(key, 1, length(?)) = ?`,
		prefix, prefix,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.Internal, "SQLite 캐시 삭제 실패")
	}
	return rowsAffected(res), nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Backend: BackendSQLite}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(length(value)), 0) FROM cache_entries WHERE expires_at > ?`,
		s.now().UnixMilli(),
	).Scan(&stats.Entries, &stats.Bytes)
	if err != nil {
		return Stats{}, apperrors.Wrap(err, apperrors.Internal, "SQLite 캐시 통계 조회 실패")
	}
	return stats, nil
}

func (s *SQLiteStore) Purge(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at <= ?`,
		s.now().UnixMilli(),
	)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.Internal, "SQLite 만료 항목 정리 실패")
	}
	return rowsAffected(res), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func rowsAffected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
