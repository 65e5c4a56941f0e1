// Package pricing 가격 문자열 정규화와 할인율 추론을 담당합니다.
//
// 이 패키지의 모든 함수는 입출력이 없는 순수 함수이며, 상품 수집 결과와 미리보기 API가
// 동일한 규칙을 공유합니다. 규칙의 기준 동작은 testdata/conformance.json에 정의되어 있습니다.
package pricing

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	// invisibleRunes 표시되지 않는 서식 문자 (zero-width space/joiner, BOM, soft hyphen 등 Cf 범주)와
	// 대체 문자(U+FFFD), 공백이 아닌 제어 문자
	invisibleRunes = runes.Predicate(func(r rune) bool {
		return r == unicode.ReplacementChar ||
			unicode.Is(unicode.Cf, r) ||
			(unicode.IsControl(r) && !unicode.IsSpace(r))
	})

	// 숫자와 뒤따르는 유로 기호 사이의 공백
	trailingEuroRegexp = regexp.MustCompile(`(\d)\s*€`)

	// 앞에 오는 통화 기호 뒤의 공백
	leadingSymbolRegexp = regexp.MustCompile(`([€$£¥])\s+(\d)`)
)

// newCleaner 보이지 않는 문자를 제거하고 모든 유니코드 공백을 ASCII 공백으로 바꾸는 변환기를 생성합니다.
// transform.Transformer는 상태를 가지므로 호출마다 새로 만듭니다.
func newCleaner() transform.Transformer {
	return transform.Chain(
		runes.Remove(invisibleRunes),
		runes.Map(func(r rune) rune {
			if unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) {
				return ' '
			}
			return r
		}),
	)
}

// Normalize 가격 표시 문자열을 정규화합니다.
//
//   - HTML 엔티티 디코딩 (이중 인코딩 포함)
//   - 보이지 않는 서식 문자 제거
//   - 유니코드 공백을 하나의 ASCII 공백으로 축약하고 앞뒤 공백 제거
//   - 금액 뒤의 유로 기호는 금액에 붙여 씀 ("29,99 €" -> "29,99€")
//   - 금액 앞의 통화 기호 뒤 공백 제거 ("$ 19.99" -> "$19.99")
//
// Normalize(Normalize(s)) == Normalize(s)가 항상 성립합니다.
func Normalize(raw string) string {
	s := decodeAndClean(raw)

	s = strings.Join(strings.Fields(s), " ")
	s = trailingEuroRegexp.ReplaceAllString(s, "$1€")
	s = leadingSymbolRegexp.ReplaceAllString(s, "$1$2")

	return s
}

// decodeAndClean 더 이상 바뀌지 않을 때까지 HTML 엔티티 디코딩과 보이지 않는 문자 제거를 반복합니다.
// "&am&#8203;p;"처럼 보이지 않는 문자를 제거해야 비로소 엔티티가 드러나는 입력도 한 번에 처리됩니다.
// 매 반복마다 엔티티 또는 제거 대상 문자가 줄어들므로 반복은 반드시 끝납니다.
func decodeAndClean(s string) string {
	for {
		next := s
		if strings.IndexByte(next, '&') >= 0 {
			next = html.UnescapeString(next)
		}
		if cleaned, _, err := transform.String(newCleaner(), next); err == nil {
			next = cleaned
		}
		if next == s {
			return s
		}
		s = next
	}
}
