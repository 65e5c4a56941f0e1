package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	minDiscountPercent = 1
	maxDiscountPercent = 99
)

// unitPatterns 단위 가격(용량, 중량, 묶음 수량)을 나타내는 상품명 패턴
// 이런 상품은 정가 자리에 단위당 가격이 표시되는 경우가 많아 할인율이 과장됩니다.
var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:ml|cl|l|kg|oz|lb|lbs|fl\.?\s?oz)\b`),
	// 그램은 소문자만 인정합니다. "5G" 같은 통신 규격 표기와 구분하기 위함입니다.
	regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*g\b`),
	regexp.MustCompile(`(?i)\b(?:pack|pk)\b`),
	regexp.MustCompile(`(?i)\b\d+\s*x\b|\bx\s*\d+\b`),
	regexp.MustCompile(`(?i)\b\d+\s*(?:uds?|unidades|units?|count|ct|pcs|piezas)\b`),
}

var (
	rawDiscountRegexp     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	percentDiscountRegexp = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
)

// Thresholds 단위 가격 의심 판정에 사용하는 정가/판매가 비율 임계값
type Thresholds struct {
	// SuspiciousRatioMin, SuspiciousRatioMax 이 구간의 비율은 "1개 가격 vs 4개 묶음 가격" 형태로 의심합니다.
	SuspiciousRatioMin float64
	SuspiciousRatioMax float64

	// ExtremeRatio 이 값 이상의 비율은 단위 표기 상품에서 신뢰하지 않습니다.
	ExtremeRatio float64
}

// DefaultThresholds 기본 임계값을 반환합니다.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SuspiciousRatioMin: 3.5,
		SuspiciousRatioMax: 4.5,
		ExtremeRatio:       8.0,
	}
}

func (t Thresholds) suspicious(ratio float64) bool {
	return (ratio >= t.SuspiciousRatioMin && ratio <= t.SuspiciousRatioMax) || ratio >= t.ExtremeRatio
}

// Input 할인율 추론 입력값
type Input struct {
	Price         string
	OriginalPrice string

	// RawDiscount 데이터 출처가 명시적으로 제공한 할인율 표시 (예: "-50%", "50")
	RawDiscount string

	Title string

	// SavingsFlag 데이터 출처가 실제 할인 중임을 명시했는지 여부
	SavingsFlag bool
}

// Engine 할인율 추론기
type Engine struct {
	thresholds Thresholds
}

// NewEngine 주어진 임계값으로 Engine을 생성합니다.
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// Thresholds 현재 임계값을 반환합니다.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Infer 할인율(정수 퍼센트)을 추론합니다. 할인율을 신뢰할 수 없으면 ok는 false입니다.
//
//  1. 명시적 할인율이 1-99 사이의 정수로 해석되면 그대로 사용
//  2. 정가와 판매가가 모두 있고 정가 > 판매가 > 0 이면 round((1 - 판매가/정가) * 100)
//  3. 상품명이 단위 표기를 포함하고 비율이 의심 구간이며 할인 표시가 없으면 무시
//  4. 1-99 범위를 벗어나면 무시
func (e *Engine) Infer(in Input) (percent int, ok bool) {
	if d, ok := coerceRawDiscount(in.RawDiscount); ok {
		return d, true
	}

	price, ok := ExtractNumeric(in.Price)
	if !ok {
		return 0, false
	}
	original, ok := ExtractNumeric(in.OriginalPrice)
	if !ok || original <= price {
		return 0, false
	}

	ratio := original / price
	if !in.SavingsFlag && hasUnitPattern(in.Title) && e.thresholds.suspicious(ratio) {
		return 0, false
	}

	candidate := math.Round((1 - price/original) * 100)
	if math.IsNaN(candidate) || math.IsInf(candidate, 0) || candidate < minDiscountPercent || candidate > maxDiscountPercent {
		return 0, false
	}

	return int(candidate), true
}

// coerceRawDiscount 명시적 할인율 표시를 1-99 범위의 정수로 변환합니다.
// "$5.50 (20%)"처럼 금액이 함께 표시되면 % 앞의 숫자를 사용합니다.
func coerceRawDiscount(raw string) (int, bool) {
	s := Normalize(raw)

	var m string
	if sub := percentDiscountRegexp.FindStringSubmatch(s); sub != nil {
		m = sub[1]
	} else if !strings.Contains(s, "%") {
		m = rawDiscountRegexp.FindString(s)
	}
	if m == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}

	d := int(math.Round(v))
	if d < minDiscountPercent || d > maxDiscountPercent {
		return 0, false
	}
	return d, true
}

func hasUnitPattern(title string) bool {
	for _, re := range unitPatterns {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}
