// Package validator 요청 구조체 검증기를 제공합니다.
//
// go-playground/validator 인스턴스를 하나만 만들어 공유하며, 검증 에러 메시지에는
// 구조체 필드의 korean 태그 값을 필드명으로 사용합니다.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Get 공유 validator 인스턴스를 반환합니다.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("korean"); name != "" {
				return name
			}
			return fld.Name
		})
	})

	return validate
}

// Struct 구조체의 validate 태그를 기준으로 검증합니다.
func Struct(s any) error {
	return Get().Struct(s)
}

// FormatValidationError 검증 에러를 한글 메시지로 변환합니다. 여러 에러 중 첫 번째만 사용합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	return formatFieldError(validationErrors[0])
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	isCollection := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array || fe.Kind() == reflect.Map

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s는 필수입니다", field)
	case "min", "gte":
		switch {
		case isString:
			return fmt.Sprintf("%s는 최소 %s자 이상이어야 합니다", field, fe.Param())
		case isCollection:
			return fmt.Sprintf("%s는 최소 %s개 이상이어야 합니다", field, fe.Param())
		}
		return fmt.Sprintf("%s는 %s 이상이어야 합니다", field, fe.Param())
	case "max", "lte":
		switch {
		case isString:
			return fmt.Sprintf("%s는 최대 %s자까지 입력 가능합니다", field, fe.Param())
		case isCollection:
			return fmt.Sprintf("%s는 최대 %s개까지 입력 가능합니다", field, fe.Param())
		}
		return fmt.Sprintf("%s는 %s 이하여야 합니다", field, fe.Param())
	case "len":
		if isString {
			return fmt.Sprintf("%s는 %s자여야 합니다", field, fe.Param())
		}
		return fmt.Sprintf("%s는 %s개여야 합니다", field, fe.Param())
	case "url", "http_url":
		return fmt.Sprintf("%s는 올바른 URL 형식이어야 합니다", field)
	case "oneof":
		return fmt.Sprintf("%s는 [%s] 중 하나여야 합니다", field, fe.Param())
	default:
		return fmt.Sprintf("%s 검증 실패: %s", field, fe.Tag())
	}
}
