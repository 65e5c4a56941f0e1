// Package resolver 상품 URL에서 식별자와 정규 URL을 결정합니다.
package resolver

import (
	"context"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

const (
	component = "product.resolver"

	defaultHost    = "www.amazon.com"
	defaultTimeout = 5 * time.Second

	// maxShortLinkHops 단축 링크를 따라갈 최대 리다이렉트 횟수
	maxShortLinkHops = 5
)

// Config Resolver 설정
type Config struct {
	// DefaultHost 호스트 정보가 없는 입력(식별자만 입력, 단축 링크 해석 실패 등)에 사용할 마켓플레이스 호스트
	DefaultHost string

	// Timeout 단축 링크 해석 제한 시간
	Timeout time.Duration
}

// Result 해석 결과
type Result struct {
	Identifier   string `json:"identifier"`
	CanonicalURL string `json:"canonical_url"`
	Host         string `json:"host"`
}

// Resolver 상품 URL 해석기
type Resolver struct {
	defaultHost string
	timeout     time.Duration

	fetcher fetcher.Fetcher
}

// New Resolver를 생성합니다. f가 nil이면 단축 링크용 기본 Fetcher를 사용합니다.
func New(cfg Config, f fetcher.Fetcher) *Resolver {
	host := strings.ToLower(strings.TrimSpace(cfg.DefaultHost))
	if host == "" {
		host = defaultHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if f == nil {
		f = fetcher.NewHTTPFetcher(fetcher.WithMaxRedirects(maxShortLinkHops), fetcher.WithTimeout(timeout))
	}

	return &Resolver{
		defaultHost: host,
		timeout:     timeout,
		fetcher:     f,
	}
}

// Resolve 입력 URL에서 상품 식별자와 정규 URL(https://<host>/dp/<식별자>)을 결정합니다.
//
// 같은 상품을 가리키는 URL은 쿼리 문자열, 프로토콜, 추적 파라미터가 달라도 같은 결과를 반환합니다.
// 단축 링크 호스트인 경우에만 네트워크 요청이 발생하며, 식별자를 찾지 못하면 NoIdentifier 에러를 반환합니다.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Result, error) {
	input := strings.TrimSpace(rawURL)
	if input == "" {
		return Result{}, apperrors.New(apperrors.NoIdentifier, "상품 URL이 비어 있습니다")
	}

	if bareIdentifierPattern.MatchString(input) {
		return r.newResult(strings.ToUpper(input), r.defaultHost), nil
	}

	u, err := parseURL(input)
	if err != nil {
		return Result{}, apperrors.Wrapf(err, apperrors.NoIdentifier, "상품 URL을 해석할 수 없습니다: '%s'", input)
	}

	host := strings.ToLower(u.Hostname())
	if isShortLinkHost(host) {
		if resolved, ok := r.followShortLink(ctx, u); ok {
			u = resolved
			host = strings.ToLower(u.Hostname())
		}
	}

	if !isMerchantHost(host) && !isShortLinkHost(host) {
		return Result{}, apperrors.Newf(apperrors.NoIdentifier, "상품 페이지 URL이 아닙니다: '%s'", host)
	}

	identifier, ok := matchIdentifier(u.EscapedPath())
	if !ok {
		return Result{}, apperrors.Newf(apperrors.NoIdentifier, "URL에서 상품 식별자를 찾을 수 없습니다: '%s'", input)
	}

	if !isMerchantHost(host) {
		host = r.defaultHost
	}

	return r.newResult(identifier, host), nil
}

func (r *Resolver) newResult(identifier, host string) Result {
	return Result{
		Identifier:   identifier,
		CanonicalURL: CanonicalURL(host, identifier),
		Host:         host,
	}
}

// followShortLink 단축 링크의 리다이렉트를 따라가 최종 URL을 반환합니다.
// 실패하면 ok는 false이며 호출자는 원래 URL을 그대로 사용합니다.
func (r *Resolver) followShortLink(ctx context.Context, u *url.URL) (_ *url.URL, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	logger := applog.WithContextAndFields(ctx, component, applog.Fields{"short_url": u.String()})

	resp, err := fetcher.Get(ctx, r.fetcher, u.String(), nil)
	if err != nil {
		logger.WithError(err).Warn("단축 링크 해석 실패, 원래 URL을 사용합니다")
		return nil, false
	}
	defer fetcher.DrainAndClose(resp.Body)

	if resp.Request == nil || resp.Request.URL == nil {
		return nil, false
	}

	final := resp.Request.URL
	logger.WithField("resolved_url", fetcher.RedactURL(final)).Debug("단축 링크 해석 완료")

	return final, true
}

// CanonicalURL 정규 상품 URL을 생성합니다.
func CanonicalURL(host, identifier string) string {
	return "https://" + host + "/dp/" + identifier
}

func parseURL(input string) (*url.URL, error) {
	if !strings.Contains(input, "://") {
		input = "https://" + strings.TrimPrefix(input, "//")
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, err
	}
	if u.Hostname() == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "호스트가 없습니다")
	}
	return u, nil
}
