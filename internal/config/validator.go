package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/service/product/paapi"
	"github.com/darkkaiser/product-server/pkg/cronx"
	"github.com/darkkaiser/product-server/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// 텔레그램 봇 토큰 형식 (예: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11)
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

// newValidator 커스텀 태그가 등록된 Validator를 생성합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 에러 메시지에 구조체 필드명 대신 JSON 키를 사용한다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"cors_origin":        validateCORSOrigin,
		"cron_spec":          validateCronSpec,
		"http_endpoint":      validateHTTPEndpoint,
		"readable_file":      validateReadableFile,
		"region_code":        validateRegionCode,
		"telegram_bot_token": validateTelegramBotToken,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}

	return v
}

func validateCORSOrigin(fl validator.FieldLevel) bool {
	return validation.ValidateCORSOrigin(fl.Field().String()) == nil
}

func validateHTTPEndpoint(fl validator.FieldLevel) bool {
	return validation.ValidateHTTPURL(fl.Field().String()) == nil
}

func validateReadableFile(fl validator.FieldLevel) bool {
	return validation.ValidateFile(fl.Field().String()) == nil
}

func validateCronSpec(fl validator.FieldLevel) bool {
	return cronx.Validate(fl.Field().String()) == nil
}

func validateRegionCode(fl validator.FieldLevel) bool {
	_, ok := paapi.LookupRegion(fl.Field().String())
	return ok
}

func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// checkStruct 구조체를 검증하고, 첫 번째 위반 항목을 사용자 친화적인 InvalidInput 에러로 변환합니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}

	fe := validationErrors[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return apperrors.Newf(apperrors.InvalidInput, "%s: 필수 항목(%s)이 설정되지 않았습니다", contextName, field)
	case "readable_file":
		return apperrors.Newf(apperrors.InvalidInput, "%s: 지정된 파일(%s)을 찾을 수 없거나 읽을 수 없습니다: '%v'", contextName, field, fe.Value())
	case "http_endpoint":
		return apperrors.Newf(apperrors.InvalidInput, "%s: %s는 http(s) 주소여야 합니다: '%v'", contextName, field, fe.Value())
	case "oneof":
		return apperrors.Newf(apperrors.InvalidInput, "%s: %s 값은 [%s] 중 하나여야 합니다: '%v'", contextName, field, fe.Param(), fe.Value())
	case "min", "max", "gt", "gtfield", "gtefield":
		return apperrors.Newf(apperrors.InvalidInput, "%s: %s 값이 허용 범위를 벗어났습니다: '%v' (조건: %s=%s)", contextName, field, fe.Value(), fe.Tag(), fe.Param())
	case "unique":
		return apperrors.Newf(apperrors.InvalidInput, "%s: %s 내에 중복된 ID가 존재합니다", contextName, field)
	case "cors_origin":
		return apperrors.Newf(apperrors.InvalidInput, "CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fe.Value())
	case "cron_spec":
		return apperrors.Newf(apperrors.InvalidInput, "%s: %s의 Cron 표현식이 올바르지 않습니다: '%v' (형식: 초 분 시 일 월 요일)", contextName, field, fe.Value())
	case "region_code":
		return apperrors.Newf(apperrors.InvalidInput, "%s: 지원하지 않는 지역 코드입니다: '%v' (지원: %s)", contextName, fe.Value(), strings.Join(paapi.RegionCodes(), ", "))
	case "telegram_bot_token":
		return apperrors.New(apperrors.InvalidInput, "텔레그램 BotToken 형식이 올바르지 않습니다 (올바른 형식: 123456:ABC-DEF...)")
	}

	return apperrors.Newf(apperrors.InvalidInput, "%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, field, fe.Tag())
}
