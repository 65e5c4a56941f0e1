package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// imageCandidate 이미지 후보를 찾을 요소와 확인할 속성 순서
type imageCandidate struct {
	selector string
	attrs    []string
}

// imageCandidates 이미지 후보 목록. 대표(landing) 이미지를 일반 dynamic-image 요소보다 우선합니다.
var imageCandidates = []imageCandidate{
	{selector: "#landingImage", attrs: []string{"data-old-hires", "data-a-dynamic-image", "src"}},
	{selector: "#imgBlkFront", attrs: []string{"data-a-dynamic-image", "src"}},
	{selector: "#main-image", attrs: []string{"data-a-dynamic-image", "src"}},
	{selector: "[data-a-dynamic-image]", attrs: []string{"data-a-dynamic-image"}},
	{selector: `meta[property="og:image"]`, attrs: []string{"content"}},
}

// excludedImageTokens 상품 이미지가 아닌 마케팅/로고 이미지 URL에 포함되는 토큰
var excludedImageTokens = []string{"logo", "badge", "sprite", "prime", "banner", "marketing", "icon", "transparent-pixel"}

// sizeSuffixPattern "._AC_SX300_SY300_." 처럼 파일 확장자 앞에 붙는 크기 지정 토큰
var sizeSuffixPattern = regexp.MustCompile(`\._[A-Za-z0-9,_-]+_\.(jpe?g|png|gif|webp)$`)

// extractImage 가장 해상도가 높은 상품 이미지 URL을 추출합니다.
func extractImage(p *Page) string {
	for _, c := range imageCandidates {
		found := ""
		p.Doc.Find(c.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			for _, attr := range c.attrs {
				raw, ok := s.Attr(attr)
				if !ok || strings.TrimSpace(raw) == "" {
					continue
				}

				url := strings.TrimSpace(raw)
				if attr == "data-a-dynamic-image" {
					url = largestDynamicImage(raw)
				}
				if usableImageURL(url) {
					found = stripSizeSuffix(url)
					return false
				}
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// largestDynamicImage {"url": [width, height], ...} 형식의 JSON에서 면적이 가장 큰 이미지 URL을 반환합니다.
func largestDynamicImage(raw string) string {
	if !gjson.Valid(raw) {
		return ""
	}

	best, bestArea := "", int64(-1)
	gjson.Parse(raw).ForEach(func(key, value gjson.Result) bool {
		dims := value.Array()
		var area int64
		if len(dims) == 2 {
			area = dims[0].Int() * dims[1].Int()
		}
		if area > bestArea && usableImageURL(key.String()) {
			best, bestArea = key.String(), area
		}
		return true
	})
	return best
}

func usableImageURL(url string) bool {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "//") {
		return false
	}

	lower := strings.ToLower(url)
	for _, token := range excludedImageTokens {
		if strings.Contains(lower, token) {
			return false
		}
	}
	return true
}

// stripSizeSuffix 크기 지정 토큰을 제거하여 원본 해상도 이미지를 요청합니다.
func stripSizeSuffix(url string) string {
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	return sizeSuffixPattern.ReplaceAllString(url, ".$1")
}
