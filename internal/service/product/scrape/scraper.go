// Package scrape 상품 페이지 HTML에서 상품 정보를 추출합니다.
//
// 차단 페이지를 감지하면 Blocked 에러를 반환하고, 호출자는 다음 전략으로 재시도합니다.
package scrape

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

const (
	component = "product.scrape"

	minTimeout     = 5 * time.Second
	maxTimeout     = 30 * time.Second
	defaultTimeout = 15 * time.Second

	// maxBodySize 응답 본문(압축 해제 후 포함) 최대 크기
	maxBodySize = 8 * 1024 * 1024
)

// Result 상품 페이지에서 추출한 값. 가격은 표시 문자열 그대로이며 정규화는 호출자가 수행합니다.
type Result struct {
	Identifier string
	Title      string

	PriceDisplay         string
	OriginalPriceDisplay string

	// DiscountBadge 페이지에 직접 표시된 할인율 (예: "-50%")
	DiscountBadge string

	ImageURL     string
	Features     []string
	Description  string
	SpecialOffer string
	Rating       *float64
	ReviewCount  *int

	// Strategy 성공한 전략 이름
	Strategy string
}

// Config Scraper 설정
type Config struct {
	// Timeout 요청 제한 시간. 5-30초 범위로 보정됩니다.
	Timeout time.Duration
}

// Scraper 상품 페이지 수집기
type Scraper struct {
	timeout time.Duration
	fetcher fetcher.Fetcher
}

// ClampTimeout 제한 시간을 허용 범위(5-30초)로 보정합니다. 0 이하이면 기본값을 사용합니다.
func ClampTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return defaultTimeout
	case d < minTimeout:
		return minTimeout
	case d > maxTimeout:
		return maxTimeout
	}
	return d
}

// New Scraper를 생성합니다.
func New(cfg Config, f fetcher.Fetcher) *Scraper {
	return &Scraper{
		timeout: ClampTimeout(cfg.Timeout),
		fetcher: f,
	}
}

// Timeout 보정된 제한 시간을 반환합니다.
func (s *Scraper) Timeout() time.Duration {
	return s.timeout
}

// Scrape 전략에 따라 상품 페이지를 요청하고 필드를 추출합니다.
//
// 상품명을 찾지 못하면 ParsingFailed, 차단 페이지이면 Blocked 에러를 반환합니다.
func (s *Scraper) Scrape(ctx context.Context, pageURL, identifier string, strategy Strategy) (*Result, error) {
	logger := applog.WithContextAndFields(ctx, component, applog.Fields{
		"identifier": identifier,
		"strategy":   strategy.Name,
	})

	if strategy.Delay > 0 {
		select {
		case <-time.After(strategy.Delay):
		case <-ctx.Done():
			return nil, apperrors.Wrap(ctx.Err(), apperrors.Unavailable, "수집 대기 중 요청이 취소되었습니다")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	header := http.Header{}
	header.Set("User-Agent", fetcher.UserAgent(strategy.UserAgent))
	header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	header.Set("Accept-Language", "en-US,en;q=0.9")
	// 직접 지정하면 Transport의 자동 압축 해제가 꺼지므로 decompress에서 시그니처로 판별한다.
	header.Set("Accept-Encoding", "gzip, deflate")

	start := time.Now()
	resp, err := fetcher.Get(ctx, s.fetcher, pageURL, header)
	if err != nil {
		errType := apperrors.Network
		if apperrors.Classify(err) == apperrors.Timeout {
			errType = apperrors.Timeout
		}
		return nil, apperrors.Wrap(err, errType, "상품 페이지 요청에 실패했습니다")
	}

	raw, err := fetcher.ReadBody(resp.Body, maxBodySize)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Network, "상품 페이지 본문을 읽을 수 없습니다")
	}

	body, err := decompress(raw, resp.Header.Get("Content-Encoding"), maxBodySize)
	if err != nil {
		return nil, err
	}

	logger = logger.WithFields(applog.Fields{
		"status_code": resp.StatusCode,
		"body_size":   len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if err := detectBlocked(resp.StatusCode, body); err != nil {
		logger.WithError(err).Info("상품 페이지 수집이 차단되었습니다")
		return nil, err
	}
	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	utf8Body := toUTF8(body, resp.Header.Get("Content-Type"))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8Body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "상품 페이지 HTML을 해석할 수 없습니다")
	}
	if resp.Request != nil {
		doc.Url = resp.Request.URL
	}

	result := Extract(newPage(doc, string(utf8Body)))
	if result.Title == "" {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "상품 페이지에서 상품명을 찾을 수 없습니다 (identifier=%s)", identifier)
	}
	result.Identifier = identifier
	result.Strategy = strategy.Name

	logger.Debug("상품 페이지 수집 성공")

	return result, nil
}

// Extract 문서에서 모든 필드를 추출합니다. 찾지 못한 필드는 빈 값으로 남습니다.
func Extract(p *Page) *Result {
	r := &Result{
		Title:                firstMatch(p, titleExtractors, plausibleTitle),
		PriceDisplay:         firstMatch(p, priceExtractors, plausiblePrice),
		OriginalPriceDisplay: firstMatch(p, originalPriceExtractors, plausiblePrice),
		DiscountBadge:        firstMatch(p, discountBadgeExtractors, plausibleDiscountBadge),
		SpecialOffer:         firstMatch(p, specialOfferExtractors, plausibleBadge),
		ImageURL:             extractImage(p),
		Features:             extractFeatures(p),
	}

	if len(r.Features) > 0 {
		r.Description = strings.Join(r.Features, " ")
	} else {
		r.Description = firstMatch(p, descriptionExtractors, plausibleDescription)
	}

	if v := firstMatch(p, ratingExtractors, nil); v != "" {
		r.Rating, _ = parseRating(v)
	}
	if v := firstMatch(p, reviewCountExtractors, nil); v != "" {
		r.ReviewCount, _ = parseReviewCount(v)
	}

	return r
}

// NewPage HTML 문자열로 Page를 생성합니다.
func NewPage(rawHTML string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "HTML을 해석할 수 없습니다")
	}
	return newPage(doc, rawHTML), nil
}

func statusError(statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		return apperrors.Newf(apperrors.NotFound, "상품 페이지가 존재하지 않습니다 (HTTP %d)", statusCode)
	default:
		return apperrors.Newf(apperrors.Unavailable, "상품 페이지 응답 상태 코드가 올바르지 않습니다 (HTTP %d)", statusCode)
	}
}
