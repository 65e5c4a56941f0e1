package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateFile 경로가 읽을 수 있는 일반 파일인지 검증합니다.
func ValidateFile(path string) error {
	info, err := statPath(path, "파일")
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("일반 파일이어야 합니다 (path=%q, mode=%s)", path, info.Mode())
	}
	return checkReadable(path, "파일")
}

// ValidateDir 경로가 읽을 수 있는 디렉터리인지 검증합니다.
func ValidateDir(path string) error {
	info, err := statPath(path, "디렉터리")
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("디렉터리가 아닙니다 (path=%q)", path)
	}
	return checkReadable(path, "디렉터리")
}

func statPath(path, kind string) (os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%s 경로가 비어 있습니다", kind)
	}

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s이(가) 존재하지 않습니다 (path=%q)", kind, path)
		}
		return nil, fmt.Errorf("%s 정보 확인 실패 (path=%q): %w", kind, path, err)
	}
	return info, nil
}

// checkReadable 권한 비트만으로는 ACL 등을 반영하지 못하므로 실제로 열어서 확인한다.
func checkReadable(path, kind string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%s을(를) 읽을 권한이 없습니다 (path=%q): %w", kind, path, err)
	}
	return f.Close()
}
