// Package strutil 문자열 처리 유틸리티 함수를 제공합니다.
package strutil

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// htmlTagRegexp '<' 다음에 영문자가 오는 경우만 태그로 인식합니다. ("3 < 5"는 유지)
var htmlTagRegexp = regexp.MustCompile(`</?([a-zA-Z]+)[^>]*>`)

// Ellipsis 잘린 문자열 끝에 붙이는 생략 기호입니다.
const Ellipsis = "..."

// NormalizeSpaces 앞뒤 공백을 제거하고 연속된 공백을 하나로 축약합니다.
// 예: "  hello   world  " -> "hello world"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitAndTrim 구분자로 분리한 뒤 각 항목을 트림하고 빈 항목을 제외합니다. 결과가 없으면 nil을 반환합니다.
func SplitAndTrim(s, sep string) []string {
	var result []string
	for _, token := range strings.Split(s, sep) {
		if token = strings.TrimSpace(token); token != "" {
			result = append(result, token)
		}
	}
	return result
}

// MaskSensitiveData 토큰이나 키를 로그에 남길 수 있도록 일부만 노출합니다.
//
//	"abc"            -> "***"
//	"abcdefgh"       -> "abcd***"
//	"abcdefghijklmn" -> "abcd***klmn"
func MaskSensitiveData(data string) string {
	switch n := len(data); {
	case n == 0:
		return ""
	case n <= 3:
		return "***"
	case n <= 12:
		return data[:4] + "***"
	default:
		return data[:4] + "***" + data[n-4:]
	}
}

// StripHTMLTags HTML 태그를 제거하고 엔티티를 디코딩합니다.
// 예: "<b>Hello</b> &amp; World" -> "Hello & World"
func StripHTMLTags(s string) string {
	return html.UnescapeString(htmlTagRegexp.ReplaceAllString(s, ""))
}

// Truncate 문자열을 최대 max 글자(rune)로 자르고 끝에 Ellipsis를 붙입니다.
// 가능하면 단어 경계에서 자르며, max가 0 이하이면 원본을 그대로 반환합니다.
// 반환값의 길이는 Ellipsis를 포함하여 max를 넘지 않습니다.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(Ellipsis)
	if max <= ellipsisLen {
		return string([]rune(s)[:max])
	}

	runes := []rune(s)
	cut := runes[:max-ellipsisLen]

	// 단어 중간에서 잘린 경우, 앞쪽 절반 이내에 공백이 있으면 그 위치까지 되돌린다.
	if !unicode.IsSpace(runes[len(cut)]) {
		for i := len(cut) - 1; i > len(cut)/2; i-- {
			if unicode.IsSpace(cut[i]) {
				cut = cut[:i]
				break
			}
		}
	}

	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + Ellipsis
}
