package product

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/service/product/pricing"
)

// Source 상품 정보의 출처
type Source string

const (
	SourceAPI       Source = "api"
	SourceScrape    Source = "scrape"
	SourceFallback  Source = "fallback"
	SourceSimulated Source = "simulated"
)

// Draft Record를 만들기 위한 원본 값
//
// 가격은 출처가 제공한 표시 문자열 그대로이며 숫자 값은 NewRecord가 계산합니다.
type Draft struct {
	Identifier   string
	CanonicalURL string
	Title        string

	PriceDisplay         string
	OriginalPriceDisplay string
	RawDiscount          string
	SavingsFlag          bool

	ImageURL     string
	Description  string
	SpecialOffer string
	Rating       *float64
	ReviewCount  *int

	Source    Source
	FetchedAt time.Time
}

// Record 정규화가 끝난 상품 정보
//
// 생성 후에는 변경할 수 없으며, 가격 숫자 값과 할인율은 항상 표시 문자열에서 계산된 값입니다.
// 할인율이 있으면 정가 > 판매가 > 0 이고 1 <= 할인율 <= 99 입니다.
type Record struct {
	identifier   string
	canonicalURL string
	title        string

	priceDisplay         string
	priceNumeric         *float64
	originalPriceDisplay string
	originalPriceNumeric *float64
	discountPercent      *int

	imageURL     string
	description  string
	specialOffer string
	rating       *float64
	reviewCount  *int

	source    Source
	fetchedAt time.Time
}

// NewRecord Draft를 정규화하여 Record를 생성합니다. 상품명이 없으면 ParsingFailed 에러를 반환합니다.
func NewRecord(d Draft, engine *pricing.Engine) (*Record, error) {
	title := strings.Join(strings.Fields(d.Title), " ")
	if title == "" {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "상품명이 없어 상품 정보를 생성할 수 없습니다 (식별자: %s)", d.Identifier)
	}
	if engine == nil {
		engine = pricing.NewEngine(pricing.DefaultThresholds())
	}

	preview := engine.Evaluate(pricing.Input{
		Price:         d.PriceDisplay,
		OriginalPrice: d.OriginalPriceDisplay,
		RawDiscount:   d.RawDiscount,
		Title:         title,
		SavingsFlag:   d.SavingsFlag,
	})

	fetchedAt := d.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	return &Record{
		identifier:   d.Identifier,
		canonicalURL: d.CanonicalURL,
		title:        title,

		priceDisplay:         preview.PriceDisplay,
		priceNumeric:         preview.PriceNumeric,
		originalPriceDisplay: preview.OriginalPriceDisplay,
		originalPriceNumeric: preview.OriginalPriceNumeric,
		discountPercent:      preview.DiscountPercent,

		imageURL:     strings.TrimSpace(d.ImageURL),
		description:  strings.TrimSpace(d.Description),
		specialOffer: strings.TrimSpace(d.SpecialOffer),
		rating:       validRating(d.Rating),
		reviewCount:  validReviewCount(d.ReviewCount),

		source:    d.Source,
		fetchedAt: fetchedAt.UTC(),
	}, nil
}

func validRating(r *float64) *float64 {
	if r == nil || *r < 0 || *r > 5 {
		return nil
	}
	v := *r
	return &v
}

func validReviewCount(n *int) *int {
	if n == nil || *n < 0 {
		return nil
	}
	v := *n
	return &v
}

func (r *Record) Identifier() string   { return r.identifier }
func (r *Record) CanonicalURL() string { return r.canonicalURL }
func (r *Record) Title() string        { return r.title }
func (r *Record) PriceDisplay() string { return r.priceDisplay }

// PriceNumeric 판매가 숫자 값. 추출할 수 없으면 ok는 false입니다.
func (r *Record) PriceNumeric() (float64, bool) { return derefFloat(r.priceNumeric) }

func (r *Record) OriginalPriceDisplay() string { return r.originalPriceDisplay }

// OriginalPriceNumeric 정가 숫자 값. 추출할 수 없으면 ok는 false입니다.
func (r *Record) OriginalPriceNumeric() (float64, bool) { return derefFloat(r.originalPriceNumeric) }

// DiscountPercent 할인율. 신뢰할 수 있는 할인율이 없으면 ok는 false입니다.
func (r *Record) DiscountPercent() (int, bool) {
	if r.discountPercent == nil {
		return 0, false
	}
	return *r.discountPercent, true
}

func (r *Record) ImageURL() string     { return r.imageURL }
func (r *Record) Description() string  { return r.description }
func (r *Record) SpecialOffer() string { return r.specialOffer }

// Rating 0-5 범위의 평점. 없으면 ok는 false입니다.
func (r *Record) Rating() (float64, bool) { return derefFloat(r.rating) }

// ReviewCount 리뷰 수. 없으면 ok는 false입니다.
func (r *Record) ReviewCount() (int, bool) {
	if r.reviewCount == nil {
		return 0, false
	}
	return *r.reviewCount, true
}

func (r *Record) Source() Source       { return r.source }
func (r *Record) FetchedAt() time.Time { return r.fetchedAt }

func derefFloat(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// recordJSON Record의 직렬화 형식 (API 응답 및 캐시 저장)
type recordJSON struct {
	Identifier           string    `json:"identifier"`
	CanonicalURL         string    `json:"canonical_url"`
	Title                string    `json:"title"`
	PriceDisplay         string    `json:"price_display"`
	PriceNumeric         *float64  `json:"price_numeric"`
	OriginalPriceDisplay string    `json:"original_price_display,omitempty"`
	OriginalPriceNumeric *float64  `json:"original_price_numeric"`
	DiscountPercent      *int      `json:"discount_percent"`
	ImageURL             string    `json:"image_url,omitempty"`
	Description          string    `json:"description,omitempty"`
	SpecialOffer         string    `json:"special_offer,omitempty"`
	Rating               *float64  `json:"rating"`
	ReviewCount          *int      `json:"review_count"`
	Source               Source    `json:"source"`
	FetchedAt            time.Time `json:"fetched_at"`
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Identifier:           r.identifier,
		CanonicalURL:         r.canonicalURL,
		Title:                r.title,
		PriceDisplay:         r.priceDisplay,
		PriceNumeric:         r.priceNumeric,
		OriginalPriceDisplay: r.originalPriceDisplay,
		OriginalPriceNumeric: r.originalPriceNumeric,
		DiscountPercent:      r.discountPercent,
		ImageURL:             r.imageURL,
		Description:          r.description,
		SpecialOffer:         r.specialOffer,
		Rating:               r.rating,
		ReviewCount:          r.reviewCount,
		Source:               r.source,
		FetchedAt:            r.fetchedAt,
	})
}

// decodeRecord 캐시에 저장된 JSON을 Record로 복원합니다.
//
// 가격 숫자 값은 표시 문자열에서 다시 계산하며, 저장된 할인율은 불변식을 만족할 때만 유지합니다.
func decodeRecord(data []byte) (*Record, error) {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "캐시된 상품 정보를 해석할 수 없습니다")
	}
	if strings.TrimSpace(w.Title) == "" {
		return nil, apperrors.New(apperrors.ParsingFailed, "캐시된 상품 정보에 상품명이 없습니다")
	}

	r := &Record{
		identifier:           w.Identifier,
		canonicalURL:         w.CanonicalURL,
		title:                w.Title,
		priceDisplay:         pricing.Normalize(w.PriceDisplay),
		originalPriceDisplay: pricing.Normalize(w.OriginalPriceDisplay),
		imageURL:             w.ImageURL,
		description:          w.Description,
		specialOffer:         w.SpecialOffer,
		rating:               validRating(w.Rating),
		reviewCount:          validReviewCount(w.ReviewCount),
		source:               w.Source,
		fetchedAt:            w.FetchedAt,
	}
	if v, ok := pricing.ExtractNumeric(w.PriceDisplay); ok {
		r.priceNumeric = &v
	}
	if v, ok := pricing.ExtractNumeric(w.OriginalPriceDisplay); ok {
		r.originalPriceNumeric = &v
	}
	if d := w.DiscountPercent; d != nil && *d >= 1 && *d <= 99 &&
		r.priceNumeric != nil && r.originalPriceNumeric != nil && *r.originalPriceNumeric > *r.priceNumeric {
		v := *d
		r.discountPercent = &v
	}

	return r, nil
}
