package pricing

import (
	"math"
	"strconv"
	"strings"
)

// rangeSeparators 가격 범위 표기("$19.99 - $29.99")의 구분자. 범위는 하한 가격을 사용합니다.
var rangeSeparators = []string{" - ", " – ", " — "}

// ExtractNumeric 가격 표시 문자열에서 숫자 값을 추출합니다.
// 값을 해석할 수 없거나 0 이하이면 ok는 false입니다.
//
// 구분자 해석 규칙:
//   - 쉼표와 점이 모두 있으면 마지막에 나온 쪽이 소수점, 나머지는 천 단위 구분자
//   - 한 종류만 있으면 한 번만 등장하고 뒤에 1-2자리 숫자가 올 때만 소수점, 그 외에는 천 단위 구분자
func ExtractNumeric(raw string) (value float64, ok bool) {
	s := Normalize(raw)
	for _, sep := range rangeSeparators {
		if idx := strings.Index(s, sep); idx > 0 {
			s = s[:idx]
			break
		}
	}

	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			return r
		}
		return -1
	}, s)

	number := canonicalNumber(digits)
	if number == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// canonicalNumber 숫자, 쉼표, 점으로만 이루어진 문자열을 strconv가 해석할 수 있는 형태로 바꿉니다.
func canonicalNumber(s string) string {
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	decimalAt := -1
	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalAt = max(lastComma, lastDot)
	case lastComma >= 0:
		decimalAt = loneSeparatorDecimal(s, ',', lastComma)
	case lastDot >= 0:
		decimalAt = loneSeparatorDecimal(s, '.', lastDot)
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case i == decimalAt:
			b.WriteByte('.')
		}
	}

	return strings.Trim(b.String(), ".")
}

// loneSeparatorDecimal 한 종류의 구분자만 있을 때 소수점 위치를 반환합니다. 천 단위 구분자이면 -1입니다.
func loneSeparatorDecimal(s string, sep byte, last int) int {
	if strings.Count(s, string(sep)) != 1 {
		return -1
	}
	if following := len(s) - last - 1; following == 1 || following == 2 {
		return last
	}
	return -1
}
