package resolver

import (
	"regexp"
	"strings"
)

// identifierPatterns 경로에서 상품 식별자를 찾는 패턴 목록. 먼저 일치하는 패턴이 우선합니다.
var identifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})(?:[/?&#]|$)`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})(?:[/?&#]|$)`),
	regexp.MustCompile(`(?i)/gp/aw/d/([A-Z0-9]{10})(?:[/?&#]|$)`),
	regexp.MustCompile(`(?i)/exec/obidos/ASIN/([A-Z0-9]{10})(?:[/?&#]|$)`),
	regexp.MustCompile(`(?i)/o/ASIN/([A-Z0-9]{10})(?:[/?&#]|$)`),
	regexp.MustCompile(`(?i)/product/([A-Z0-9]{10})(?:[/?&#]|$)`),
	regexp.MustCompile(`(?i)/d/([A-Z0-9]{10})(?:[/?&#]|$)`),
}

// genericSegmentPattern 대문자와 숫자로만 이루어진 10자리 경로 세그먼트
var genericSegmentPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// bareIdentifierPattern 호스트 없이 식별자만 입력된 경우 (ASIN 또는 ISBN-10)
var bareIdentifierPattern = regexp.MustCompile(`(?i)^(?:B0[A-Z0-9]{8}|\d{9}[\dX])$`)

// merchantHostPattern 상품 페이지를 제공하는 마켓플레이스 호스트
var merchantHostPattern = regexp.MustCompile(`^(?:[a-z0-9-]+\.)*amazon\.(?:com|ca|com\.mx|com\.br|co\.uk|de|fr|it|es|nl|se|pl|com\.tr|ae|sa|in|eg|com\.be|co\.jp|com\.au|sg|cn)$`)

// shortLinkHosts 리다이렉트를 따라가야 실제 상품 페이지를 알 수 있는 단축 링크 호스트
var shortLinkHosts = map[string]bool{
	"amzn.to":      true,
	"amzn.eu":      true,
	"amzn.asia":    true,
	"a.co":         true,
	"amzn.com":     true,
	"www.amzn.com": true,
}

func isMerchantHost(host string) bool {
	return merchantHostPattern.MatchString(host)
}

func isShortLinkHost(host string) bool {
	return shortLinkHosts[host]
}

// matchIdentifier 경로에서 식별자를 찾아 대문자로 반환합니다.
func matchIdentifier(path string) (string, bool) {
	for _, re := range identifierPatterns {
		if m := re.FindStringSubmatch(path); m != nil {
			return strings.ToUpper(m[1]), true
		}
	}

	for _, segment := range strings.Split(path, "/") {
		if genericSegmentPattern.MatchString(segment) && strings.ContainsAny(segment, "0123456789") {
			return segment, true
		}
	}

	return "", false
}
