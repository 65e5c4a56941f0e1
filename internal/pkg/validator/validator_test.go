package validator_test

import (
	"errors"
	"sync"
	"testing"

	go_validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/product-server/internal/pkg/validator"
)

// TestGet_Concurrency 동시에 호출해도 같은 인스턴스를 반환하는지 검증합니다.
func TestGet_Concurrency(t *testing.T) {
	var wg sync.WaitGroup
	const routines = 50
	validators := make([]*go_validator.Validate, routines)

	wg.Add(routines)
	for i := 0; i < routines; i++ {
		go func(index int) {
			defer wg.Done()
			validators[index] = validator.Get()
		}(i)
	}
	wg.Wait()

	for i := 1; i < routines; i++ {
		assert.Same(t, validators[0], validators[i])
	}
}

type previewInput struct {
	Price    string   `validate:"required,max=10" korean:"판매가"`
	Title    string   `validate:"omitempty,min=2" korean:"상품명"`
	Percent  int      `validate:"gte=1,lte=99" korean:"할인율"`
	Tags     []string `validate:"max=2" korean:"태그"`
	Link     string   `validate:"omitempty,url" korean:"링크"`
	Currency string   `validate:"omitempty,oneof=KRW USD" korean:"통화"`
	Code     string   `validate:"omitempty,len=3"`
	Alpha    string   `validate:"omitempty,alpha" korean:"영문"`
}

func validInput() previewInput {
	return previewInput{Price: "₩10,000", Percent: 10}
}

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*previewInput)
		expect string
	}{
		{"필수값 누락", func(p *previewInput) { p.Price = "" }, "판매가는 필수입니다"},
		{"문자열 최대 길이", func(p *previewInput) { p.Price = "12345678901" }, "판매가는 최대 10자까지 입력 가능합니다"},
		{"문자열 최소 길이", func(p *previewInput) { p.Title = "a" }, "상품명는 최소 2자 이상이어야 합니다"},
		{"숫자 하한", func(p *previewInput) { p.Percent = 0 }, "할인율는 1 이상이어야 합니다"},
		{"숫자 상한", func(p *previewInput) { p.Percent = 100 }, "할인율는 99 이하여야 합니다"},
		{"배열 최대 개수", func(p *previewInput) { p.Tags = []string{"a", "b", "c"} }, "태그는 최대 2개까지 입력 가능합니다"},
		{"URL 형식", func(p *previewInput) { p.Link = "not a url" }, "링크는 올바른 URL 형식이어야 합니다"},
		{"허용 값 목록", func(p *previewInput) { p.Currency = "EUR" }, "통화는 [KRW USD] 중 하나여야 합니다"},
		{"korean 태그가 없으면 필드명 사용", func(p *previewInput) { p.Code = "ab" }, "Code는 3자여야 합니다"},
		{"처리하지 않는 태그", func(p *previewInput) { p.Alpha = "123" }, "영문 검증 실패: alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			tt.modify(&in)

			err := validator.Struct(in)
			require.Error(t, err)
			assert.Equal(t, tt.expect, validator.FormatValidationError(err))
		})
	}
}

func TestStruct_Valid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Struct(validInput()))
}

func TestFormatValidationError_NonValidationError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validator.FormatValidationError(nil))
	assert.Equal(t, "boom", validator.FormatValidationError(errors.New("boom")))
}
