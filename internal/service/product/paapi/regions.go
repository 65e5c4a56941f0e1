package paapi

import (
	"slices"
	"strings"
)

// Region 상품 광고 API의 지역별 엔드포인트 정보
type Region struct {
	// Code 설정 파일에서 사용하는 지역 코드 (예: "us", "de")
	Code string

	// Host API 요청을 보낼 호스트
	Host string

	// SigningRegion 서명 범위(credential scope)에 사용하는 리전 이름
	SigningRegion string

	// Marketplace 요청 페이로드의 Marketplace 값이자 상품 페이지 호스트
	Marketplace string
}

var regions = map[string]Region{
	"us": {Code: "us", Host: "webservices.amazon.com", SigningRegion: "us-east-1", Marketplace: "www.amazon.com"},
	"ca": {Code: "ca", Host: "webservices.amazon.ca", SigningRegion: "us-east-1", Marketplace: "www.amazon.ca"},
	"mx": {Code: "mx", Host: "webservices.amazon.com.mx", SigningRegion: "us-east-1", Marketplace: "www.amazon.com.mx"},
	"br": {Code: "br", Host: "webservices.amazon.com.br", SigningRegion: "us-east-1", Marketplace: "www.amazon.com.br"},
	"uk": {Code: "uk", Host: "webservices.amazon.co.uk", SigningRegion: "eu-west-1", Marketplace: "www.amazon.co.uk"},
	"de": {Code: "de", Host: "webservices.amazon.de", SigningRegion: "eu-west-1", Marketplace: "www.amazon.de"},
	"fr": {Code: "fr", Host: "webservices.amazon.fr", SigningRegion: "eu-west-1", Marketplace: "www.amazon.fr"},
	"it": {Code: "it", Host: "webservices.amazon.it", SigningRegion: "eu-west-1", Marketplace: "www.amazon.it"},
	"es": {Code: "es", Host: "webservices.amazon.es", SigningRegion: "eu-west-1", Marketplace: "www.amazon.es"},
	"nl": {Code: "nl", Host: "webservices.amazon.nl", SigningRegion: "eu-west-1", Marketplace: "www.amazon.nl"},
	"se": {Code: "se", Host: "webservices.amazon.se", SigningRegion: "eu-west-1", Marketplace: "www.amazon.se"},
	"pl": {Code: "pl", Host: "webservices.amazon.pl", SigningRegion: "eu-west-1", Marketplace: "www.amazon.pl"},
	"tr": {Code: "tr", Host: "webservices.amazon.com.tr", SigningRegion: "eu-west-1", Marketplace: "www.amazon.com.tr"},
	"ae": {Code: "ae", Host: "webservices.amazon.ae", SigningRegion: "eu-west-1", Marketplace: "www.amazon.ae"},
	"sa": {Code: "sa", Host: "webservices.amazon.sa", SigningRegion: "eu-west-1", Marketplace: "www.amazon.sa"},
	"in": {Code: "in", Host: "webservices.amazon.in", SigningRegion: "eu-west-1", Marketplace: "www.amazon.in"},
	"eg": {Code: "eg", Host: "webservices.amazon.eg", SigningRegion: "eu-west-1", Marketplace: "www.amazon.eg"},
	"be": {Code: "be", Host: "webservices.amazon.com.be", SigningRegion: "eu-west-1", Marketplace: "www.amazon.com.be"},
	"jp": {Code: "jp", Host: "webservices.amazon.co.jp", SigningRegion: "us-west-2", Marketplace: "www.amazon.co.jp"},
	"au": {Code: "au", Host: "webservices.amazon.com.au", SigningRegion: "us-west-2", Marketplace: "www.amazon.com.au"},
	"sg": {Code: "sg", Host: "webservices.amazon.sg", SigningRegion: "us-west-2", Marketplace: "www.amazon.sg"},
}

// LookupRegion 지역 코드에 해당하는 Region을 반환합니다. 대소문자와 앞뒤 공백은 무시합니다.
func LookupRegion(code string) (Region, bool) {
	r, ok := regions[strings.ToLower(strings.TrimSpace(code))]
	return r, ok
}

// RegionCodes 지원하는 지역 코드 목록을 정렬하여 반환합니다.
func RegionCodes() []string {
	codes := make([]string, 0, len(regions))
	for code := range regions {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
