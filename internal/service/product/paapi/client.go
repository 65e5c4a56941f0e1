// Package paapi 상품 광고 API(Product Advertising API 5.0)의 서명된 GetItems 호출을 제공합니다.
package paapi

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

const (
	component = "product.paapi"

	defaultTimeout = 10 * time.Second

	// maxResponseBodySize GetItems 응답 본문 최대 크기
	maxResponseBodySize = 2 * 1024 * 1024
)

// Config API 클라이언트 설정
type Config struct {
	AccessKey  string
	SecretKey  string
	PartnerTag string

	// Region 지역 코드 (예: "us")
	Region string

	// Endpoint 요청을 보낼 기본 URL. 비어 있으면 지역의 호스트를 HTTPS로 사용합니다.
	Endpoint string

	Timeout time.Duration
}

// Client 서명된 GetItems 요청을 보내는 클라이언트
type Client struct {
	accessKey  string
	partnerTag string
	region     Region

	baseURL *url.URL
	timeout time.Duration

	signer  *Signer
	fetcher fetcher.Fetcher

	now func() time.Time
}

// NewClient 설정을 검증하고 Client를 생성합니다. 자격 증명이 없거나 지역 코드가 잘못되면 Configuration 에러를 반환합니다.
func NewClient(cfg Config, f fetcher.Fetcher) (*Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.PartnerTag == "" {
		return nil, apperrors.New(apperrors.Configuration, "상품 광고 API 자격 증명(access_key, secret_key, partner_tag)이 설정되지 않았습니다")
	}

	region, ok := LookupRegion(cfg.Region)
	if !ok {
		return nil, apperrors.Newf(apperrors.Configuration, "지원하지 않는 지역 코드입니다: '%s' (지원: %s)", cfg.Region, strings.Join(RegionCodes(), ", "))
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://" + region.Host
	}
	baseURL, err := url.Parse(endpoint)
	if err != nil || baseURL.Host == "" {
		return nil, apperrors.Newf(apperrors.Configuration, "상품 광고 API 엔드포인트 URL이 올바르지 않습니다: '%s'", endpoint)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		accessKey:  cfg.AccessKey,
		partnerTag: cfg.PartnerTag,
		region:     region,
		baseURL:    baseURL,
		timeout:    timeout,
		signer:     NewSigner(cfg.AccessKey, cfg.SecretKey, region.SigningRegion),
		fetcher:    f,
		now:        time.Now,
	}, nil
}

// Region 클라이언트가 사용하는 지역 정보를 반환합니다.
func (c *Client) Region() Region {
	return c.region
}

// FetchByIdentifier 상품 식별자로 상품 정보를 조회합니다.
//
// 반환되는 에러는 모두 apperrors로 분류되어 있습니다.
//   - Network / Timeout: 전송 실패
//   - Authentication: 서명 또는 자격 증명 거부
//   - RateLimited: 요청 빈도 제한
//   - Unavailable: 제공자 내부 오류 (InternalFailure)
//   - EmptyResult: 조회 결과 없음
//   - ParsingFailed: 해석할 수 없는 응답
func (c *Client) FetchByIdentifier(ctx context.Context, identifier string) (*Item, error) {
	payload, err := newGetItemsPayload(identifier, c.partnerTag, c.region.Marketplace)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "GetItems 요청 페이로드 생성에 실패했습니다")
	}

	signed := c.signer.Sign(http.MethodPost, getItemsPath, map[string]string{
		"content-type": contentType,
		"host":         c.baseURL.Host,
		"x-amz-target": getItemsTarget,
	}, payload, c.now())

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(getItemsPath).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "GetItems 요청 생성에 실패했습니다")
	}
	req.Host = c.baseURL.Host
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Encoding", contentEncoding)
	req.Header.Set("X-Amz-Date", signed.Timestamp)
	req.Header.Set("X-Amz-Target", getItemsTarget)
	req.Header.Set("Authorization", signed.Authorization)

	start := time.Now()
	resp, err := c.fetcher.Do(req)
	if err != nil {
		errType := apperrors.Network
		if apperrors.Classify(err) == apperrors.Timeout {
			errType = apperrors.Timeout
		}
		return nil, apperrors.Wrap(err, errType, "상품 광고 API 요청 전송에 실패했습니다")
	}

	body, err := fetcher.ReadBody(resp.Body, maxResponseBodySize)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Network, "상품 광고 API 응답 본문을 읽을 수 없습니다")
	}

	item, err := parseGetItemsResponse(resp.StatusCode, body)

	fields := applog.Fields{
		"identifier":  identifier,
		"region":      c.region.Code,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error_type"] = apperrors.UnderlyingType(err).String()
		applog.WithContextAndFields(ctx, component, fields).WithError(err).Debug("상품 광고 API 조회 실패")
		return nil, err
	}

	applog.WithContextAndFields(ctx, component, fields).Debug("상품 광고 API 조회 성공")

	if item.Identifier == "" {
		item.Identifier = identifier
	}
	return item, nil
}
