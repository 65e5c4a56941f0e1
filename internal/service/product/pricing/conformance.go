package pricing

import (
	_ "embed"
	"encoding/json"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
)

//go:embed testdata/conformance.json
var conformanceJSON []byte

// ConformanceCase 가격 규칙의 기준 입력/출력 한 건
type ConformanceCase struct {
	Name string `json:"name"`

	Price         string `json:"price"`
	OriginalPrice string `json:"original_price,omitempty"`
	RawDiscount   string `json:"raw_discount,omitempty"`
	Title         string `json:"title,omitempty"`
	SavingsFlag   bool   `json:"savings_flag,omitempty"`

	Expected Preview `json:"expected"`
}

// Input 케이스를 추론 입력값으로 변환합니다.
func (c ConformanceCase) Input() Input {
	return Input{
		Price:         c.Price,
		OriginalPrice: c.OriginalPrice,
		RawDiscount:   c.RawDiscount,
		Title:         c.Title,
		SavingsFlag:   c.SavingsFlag,
	}
}

// ConformanceTable 기준 케이스 모음
type ConformanceTable struct {
	Version int               `json:"version"`
	Cases   []ConformanceCase `json:"cases"`
}

// ConformanceJSON 내장된 기준 테이블 원본을 반환합니다.
// 반환된 슬라이스는 복사본이므로 호출자가 수정해도 됩니다.
func ConformanceJSON() []byte {
	return append([]byte(nil), conformanceJSON...)
}

// LoadConformance 내장된 기준 테이블을 해석합니다.
func LoadConformance() (*ConformanceTable, error) {
	var table ConformanceTable
	if err := json.Unmarshal(conformanceJSON, &table); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "가격 규칙 기준 테이블을 해석할 수 없습니다")
	}
	return &table, nil
}
