package scrape

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// Page 필드 추출 대상 문서
type Page struct {
	Doc *goquery.Document

	// Raw UTF-8로 변환된 원본 HTML
	Raw string

	jsonLD []gjson.Result
}

// newPage 문서에서 JSON-LD 블록을 미리 찾아 둔 Page를 생성합니다.
func newPage(doc *goquery.Document, raw string) *Page {
	p := &Page{Doc: doc, Raw: raw}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if !gjson.Valid(text) {
			return
		}

		v := gjson.Parse(text)
		if v.IsArray() {
			p.jsonLD = append(p.jsonLD, v.Array()...)
			return
		}
		if graph := v.Get("@graph"); graph.IsArray() {
			p.jsonLD = append(p.jsonLD, graph.Array()...)
			return
		}
		p.jsonLD = append(p.jsonLD, v)
	})
	return p
}

// FieldExtractor 문서에서 필드 값 하나를 추출합니다. 값을 찾지 못하면 ok는 false입니다.
type FieldExtractor interface {
	Try(p *Page) (value string, ok bool)
}

// Text CSS 선택자에 일치하는 첫 번째 요소의 텍스트
type Text string

func (sel Text) Try(p *Page) (string, bool) {
	return nonEmpty(collapseSpace(p.Doc.Find(string(sel)).First().Text()))
}

// Attr CSS 선택자에 일치하는 첫 번째 요소의 속성 값
type Attr struct {
	Selector string
	Name     string
}

func (a Attr) Try(p *Page) (string, bool) {
	v, _ := p.Doc.Find(a.Selector).First().Attr(a.Name)
	return nonEmpty(collapseSpace(v))
}

// Regex 원본 HTML에 대한 정규식. 첫 번째 캡처 그룹을 값으로 사용합니다.
type Regex struct {
	Pattern *regexp.Regexp
}

func (r Regex) Try(p *Page) (string, bool) {
	m := r.Pattern.FindStringSubmatch(p.Raw)
	if len(m) < 2 {
		return "", false
	}
	return nonEmpty(collapseSpace(html.UnescapeString(m[1])))
}

// JSONLD JSON-LD 블록에 대한 gjson 경로. 블록의 @type이 Type과 같은 경우에만 조회합니다. (Type이 비어 있으면 모든 블록)
type JSONLD struct {
	Type string
	Path string
}

func (j JSONLD) Try(p *Page) (string, bool) {
	for _, block := range p.jsonLD {
		if j.Type != "" && !strings.EqualFold(block.Get("@type").String(), j.Type) {
			continue
		}
		v := block.Get(j.Path)
		if v.IsArray() {
			v = v.Get("0")
		}
		if s, ok := nonEmpty(collapseSpace(v.String())); ok {
			return s, true
		}
	}
	return "", false
}

// firstMatch 추출기 목록을 순서대로 시도하여 plausible 검사를 통과한 첫 번째 값을 반환합니다.
func firstMatch(p *Page, extractors []FieldExtractor, plausible func(string) bool) string {
	for _, e := range extractors {
		if v, ok := e.Try(p); ok && (plausible == nil || plausible(v)) {
			return v
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonEmpty(s string) (string, bool) {
	return s, s != ""
}
