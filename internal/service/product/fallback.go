package product

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

const (
	// imageProbeURLFormat 식별자만으로 접근 가능한 상품 대표 이미지 주소
	imageProbeURLFormat = "https://images-na.ssl-images-amazon.com/images/P/%s.01._SCLZZZZZZZ_.jpg"

	imageProbeTimeout = 5 * time.Second

	// placeholderImageSize 이미지가 없을 때 반환되는 1x1 GIF의 최대 크기
	placeholderImageSize = 64
)

// fallbackSynthesizer API와 스크래핑이 모두 실패했을 때 식별자만으로 최소한의 상품 정보를 만듭니다.
// 이 단계는 실패하지 않습니다.
type fallbackSynthesizer struct {
	imageProbe bool
	fetcher    fetcher.Fetcher
	now        func() time.Time
}

func (f *fallbackSynthesizer) synthesize(ctx context.Context, identifier, canonicalURL string) Draft {
	d := Draft{
		Identifier:   identifier,
		CanonicalURL: canonicalURL,
		Title:        "Product " + identifier,
		Description:  describeByIdentifier(identifier),
		Source:       SourceFallback,
		FetchedAt:    f.now(),
	}

	if f.imageProbe && f.fetcher != nil {
		if u := imageProbeURL(identifier); f.probeImage(ctx, u) {
			d.ImageURL = u
		}
	}

	return d
}

func imageProbeURL(identifier string) string {
	return fmt.Sprintf(imageProbeURLFormat, identifier)
}

// probeImage HEAD 요청으로 이미지 존재 여부를 확인합니다.
// 200 응답이면서 이미지 형식이고, 이미지가 없을 때 내려오는 1x1 GIF가 아닌 경우에만 true입니다.
func (f *fallbackSynthesizer) probeImage(ctx context.Context, imageURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, imageProbeTimeout)
	defer cancel()

	resp, err := fetcher.Head(ctx, f.fetcher, imageURL, nil)
	if err != nil {
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"image_url": imageURL,
			"error":     err,
		}).Debug("대체 이미지 확인 실패")
		return false
	}
	defer fetcher.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return false
	}
	if strings.HasPrefix(contentType, "image/gif") && resp.ContentLength >= 0 && resp.ContentLength <= placeholderImageSize {
		return false
	}

	return true
}

// describeByIdentifier 식별자 형태로 상품 분류를 추정하여 기본 설명을 만듭니다.
func describeByIdentifier(identifier string) string {
	switch {
	case isDigits(identifier) || isISBN10(identifier):
		return "Book available on Amazon. Open the product page for the edition, author and current price."
	case strings.HasPrefix(identifier, "B00"), strings.HasPrefix(identifier, "B01"):
		return "Established catalogue item available on Amazon. Open the product page for current price and availability."
	case strings.HasPrefix(identifier, "B0"):
		return "Product available on Amazon. Open the product page for current price, offers and customer reviews."
	default:
		return "Item available on Amazon. Open the product page for details."
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isISBN10 마지막 자리가 체크 문자 X인 ISBN-10 여부
func isISBN10(s string) bool {
	return len(s) == 10 && isDigits(s[:9]) && (s[9] == 'X' || (s[9] >= '0' && s[9] <= '9'))
}
