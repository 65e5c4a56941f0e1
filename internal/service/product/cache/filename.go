package cache

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// filenameReplacer 파일 시스템에서 문제를 일으킬 수 있는 문자를 하이픈으로 치환합니다.
var filenameReplacer = strings.NewReplacer(
	"..", "--",
	"/", "-",
	"\\", "-",
	"|", "-",
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"?", "-",
	"*", "-",
)

// entryFilename 캐시 키로 항목 파일명을 생성합니다.
//
// "entry-{정제된키}-{16자리해시}.json" 형식이며, 정제 과정에서 서로 다른 키가 같은 이름이 되더라도
// 원본 키의 해시로 구분됩니다.
func entryFilename(key string) string {
	name := truncateByBytes(sanitizeName(key), 80)

	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(key))

	return fmt.Sprintf("entry-%s-%016x.json", name, hasher.Sum64())
}

func sanitizeName(s string) string {
	kebab := strcase.ToKebab(s)

	kebab = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '-'
		}
		return r
	}, kebab)

	return filenameReplacer.Replace(kebab)
}

// truncateByBytes 문자열을 UTF-8 문자 경계를 지키면서 limit 바이트 이하로 자릅니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	var total int
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		if total+size > limit {
			return s[:total]
		}
		total += size
		i += size
	}
	return s[:total]
}
