package fetcher

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	applog "github.com/darkkaiser/product-server/pkg/log"
	"github.com/darkkaiser/product-server/pkg/strutil"
)

// sensitiveQueryKeys 로그에서 값을 가릴 쿼리 파라미터 (소문자)
var sensitiveQueryKeys = []string{"key", "token", "secret", "signature", "password", "app_key", "x-amz-signature", "x-amz-credential"}

// RedactURL 민감한 쿼리 파라미터 값을 마스킹한 URL 문자열을 반환합니다.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" && u.User == nil {
		return u.String()
	}

	clone := *u
	clone.User = nil

	q := clone.Query()
	for k, vs := range q {
		if isSensitiveKey(k) {
			for i := range vs {
				vs[i] = strutil.MaskSensitiveData(vs[i])
			}
		}
	}
	clone.RawQuery = q.Encode()

	return clone.String()
}

func isSensitiveKey(k string) bool {
	k = strings.ToLower(k)
	for _, s := range sensitiveQueryKeys {
		if k == s || strings.HasSuffix(k, "_"+s) {
			return true
		}
	}
	return false
}

// LoggingFetcher 요청 결과와 소요 시간을 기록합니다. 성공은 Debug, 실패는 Warn 레벨입니다.
type LoggingFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*LoggingFetcher)(nil)

func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{delegate: delegate}
}

func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      RedactURL(req.URL),
		"duration": time.Since(start).String(),
	}
	if resp != nil {
		fields["status_code"] = resp.StatusCode
	}

	entry := applog.WithContextAndFields(req.Context(), component, fields)
	if err != nil {
		entry.WithError(err).Warn("HTTP 요청 실패")
		return resp, err
	}

	entry.Debug("HTTP 요청 완료")
	return resp, nil
}

func (f *LoggingFetcher) Close() error {
	return f.delegate.Close()
}
