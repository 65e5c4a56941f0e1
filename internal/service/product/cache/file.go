package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/pkg/concurrency"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

const (
	entryFilePattern = "entry-*.json"
	tempFilePattern  = "entry-*.tmp"

	// staleTempAge 이보다 오래된 임시 파일은 비정상 종료의 잔존물로 간주합니다.
	staleTempAge = time.Hour
)

// FileStore 항목 하나를 JSON 파일 하나로 저장하는 파일 시스템 기반 저장소
//
// [파일 구조]
//   - entry-{키}-{hash}.json: 키, 값, 만료 시각
//   - entry-*.tmp: 저장 중 생성되는 임시 파일
type FileStore struct {
	baseDir string

	// locks 동일한 파일에 대한 동시 읽기/쓰기를 직렬화합니다.
	locks *concurrency.KeyedMutex

	now func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore 파일 저장소를 생성합니다. 디렉토리가 없으면 생성하며, 이전 실행에서 남은 임시 파일은 백그라운드에서 정리합니다.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, apperrors.New(apperrors.Configuration, "파일 캐시 디렉토리가 지정되지 않았습니다")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Configuration, "파일 캐시 디렉토리 경로 변환 실패: '%s'", dir)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Configuration, "파일 캐시 디렉토리 생성 실패: '%s'", absDir)
	}

	o := newOptions(opts)
	s := &FileStore{
		baseDir: absDir,
		locks:   concurrency.NewKeyedMutex(),
		now:     o.now,
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"base_dir": s.baseDir,
					"panic":    r,
				}).Error("임시 파일 정리 중단: 백그라운드 작업 패닉 발생")
			}
		}()

		s.cleanupStaleTempFiles()
	}()

	return s, nil
}

// Dir 저장소의 절대 경로를 반환합니다.
func (s *FileStore) Dir() string {
	return s.baseDir
}

func (s *FileStore) cleanupStaleTempFiles() {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, tempFilePattern))
	if err != nil {
		return
	}

	threshold := time.Now().Add(-staleTempAge)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.ModTime().After(threshold) {
			continue
		}

		if err := os.Remove(path); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  path,
				"error": err,
			}).Warn("임시 파일 삭제 실패")
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"file": path,
			}).Info("임시 파일 삭제 완료: 이전 실행 잔존 파일 정리")
		}
	}
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.resolveSafePath(key)
	if err != nil {
		return nil, false, err
	}

	var data []byte
	err = s.locks.WithLock(strings.ToLower(path), func() error {
		var readErr error
		data, readErr = os.ReadFile(path)
		return readErr
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, apperrors.Internal, "캐시 파일 읽기 실패")
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// 손상된 파일은 없는 것으로 취급하고 다음 저장 시 덮어쓴다.
		applog.WithComponentAndFields(component, applog.Fields{
			"file":  path,
			"error": err,
		}).Warn("손상된 캐시 파일 무시")
		return nil, false, nil
	}

	if e.Key != key || e.Expired(s.now()) {
		return nil, false, nil
	}
	return e.Value, true, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	path, err := s.resolveSafePath(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(Entry{
		Key:       key,
		Value:     value,
		ExpiresAt: s.now().Add(ttl),
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "캐시 항목 직렬화 실패")
	}

	return s.locks.WithLock(strings.ToLower(path), func() error {
		return s.writeAtomic(path, data)
	})
}

func (s *FileStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	var n int
	err := s.forEachEntry(func(path string, e Entry) error {
		if !strings.HasPrefix(e.Key, prefix) {
			return nil
		}
		if err := s.remove(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (s *FileStore) Stats(_ context.Context) (Stats, error) {
	now := s.now()
	stats := Stats{Backend: BackendFile}

	err := s.forEachEntry(func(_ string, e Entry) error {
		if e.Expired(now) {
			return nil
		}
		stats.Entries++
		stats.Bytes += int64(len(e.Value))
		return nil
	})
	return stats, err
}

func (s *FileStore) Purge(_ context.Context) (int, error) {
	now := s.now()

	var n int
	err := s.forEachEntry(func(path string, e Entry) error {
		if !e.Expired(now) {
			return nil
		}
		if err := s.remove(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (s *FileStore) Close() error {
	return nil
}

// forEachEntry 저장된 모든 항목 파일을 읽어 fn을 호출합니다. 읽을 수 없는 파일은 건너뜁니다.
func (s *FileStore) forEachEntry(fn func(path string, e Entry) error) error {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, entryFilePattern))
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "캐시 디렉토리 조회 실패")
	}

	for _, path := range matches {
		var data []byte
		readErr := s.locks.WithLock(strings.ToLower(path), func() error {
			var err error
			data, err = os.ReadFile(path)
			return err
		})
		if readErr != nil {
			continue
		}

		var e Entry
		if json.Unmarshal(data, &e) != nil {
			continue
		}

		if err := fn(path, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) remove(path string) error {
	return s.locks.WithLock(strings.ToLower(path), func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return apperrors.Wrap(err, apperrors.Internal, "캐시 파일 삭제 실패")
		}
		return nil
	})
}

// resolveSafePath 키에 대응하는 파일 경로를 생성하고 저장소 디렉토리를 벗어나지 않는지 검증합니다.
func (s *FileStore) resolveSafePath(key string) (string, error) {
	cleanPath := filepath.Clean(filepath.Join(s.baseDir, entryFilename(key)))

	rel, err := filepath.Rel(s.baseDir, cleanPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Internal, "캐시 파일 경로 계산 실패")
	}
	if strings.HasPrefix(rel, "..") {
		applog.WithComponentAndFields(component, applog.Fields{
			"key":      key,
			"base_dir": s.baseDir,
			"path":     cleanPath,
		}).Error("캐시 파일 경로 생성 차단: 경로 이탈 시도 감지")

		return "", apperrors.New(apperrors.InvalidInput, "허용되지 않은 캐시 키입니다")
	}

	return cleanPath, nil
}

// writeAtomic 임시 파일 쓰기 → fsync → rename 순서로 파일을 원자적으로 교체합니다.
func (s *FileStore) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "임시 파일 생성 실패")
	}
	tmpPath := tmpFile.Name()

	// Windows에서는 열린 파일을 삭제할 수 없으므로 Close가 Remove보다 먼저 실행되어야 한다.
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "임시 파일 쓰기 실패")
	}
	if err := tmpFile.Sync(); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "임시 파일 동기화 실패")
	}
	if err := tmpFile.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "임시 파일 닫기 실패")
	}

	if err := renameWithRetry(tmpPath, path); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "캐시 파일 이름 변경 실패")
	}

	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		dirFile.Close()
	}

	return nil
}

// renameWithRetry 백신이나 인덱서가 파일을 잠시 점유하는 경우를 위해 짧게 재시도합니다.
func renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 5
	const retryDelay = 10 * time.Millisecond

	var lastErr error
	for range maxRetries {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}

		lastErr = err
		time.Sleep(retryDelay)
	}
	return lastErr
}
