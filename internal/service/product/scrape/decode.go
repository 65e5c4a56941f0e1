package scrape

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"golang.org/x/net/html/charset"
)

// charsetPeekSize 인코딩 감지에 사용할 본문 앞부분 크기
const charsetPeekSize = 1024

// decompress 본문 앞부분의 시그니처로 압축 형식을 판별하여 압축을 해제합니다.
//
// 제공자가 Content-Encoding을 잘못 표기하는 경우가 있어 헤더는 신뢰하지 않습니다.
// 시그니처가 없는 본문은 헤더가 deflate를 선언한 경우에만 raw deflate 해제를 시도하고,
// 실패하면 원본을 그대로 반환합니다.
func decompress(body []byte, declaredEncoding string, limit int64) ([]byte, error) {
	switch {
	case isGzip(body):
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "gzip 응답 본문의 압축을 해제할 수 없습니다")
		}
		defer r.Close()
		return readLimited(r, limit)

	case isZlib(body):
		r, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "deflate 응답 본문의 압축을 해제할 수 없습니다")
		}
		defer r.Close()
		return readLimited(r, limit)

	case strings.Contains(strings.ToLower(declaredEncoding), "deflate"):
		r := flate.NewReader(bytes.NewReader(body))
		defer r.Close()
		if inflated, err := readLimited(r, limit); err == nil && len(inflated) > 0 {
			return inflated, nil
		}
		return body, nil
	}

	return body, nil
}

func isGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

func isZlib(b []byte) bool {
	if len(b) < 2 || b[0] != 0x78 {
		return false
	}
	switch b[1] {
	case 0x01, 0x5e, 0x9c, 0xda:
		return true
	}
	return false
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "압축 해제 중 오류가 발생했습니다")
	}
	if int64(len(data)) > limit {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "압축 해제된 응답 본문이 허용 크기(%d bytes)를 초과했습니다", limit)
	}
	return data, nil
}

// toUTF8 Content-Type 헤더와 본문 앞부분(meta charset 등)으로 인코딩을 감지하여 UTF-8로 변환합니다.
func toUTF8(body []byte, contentType string) []byte {
	peek := body
	if len(peek) > charsetPeekSize {
		peek = peek[:charsetPeekSize]
	}

	e, name, _ := charset.DetermineEncoding(peek, contentType)
	if e == nil || name == "utf-8" {
		return body
	}

	decoded, err := e.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}
