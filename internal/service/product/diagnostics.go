package product

import (
	"context"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/service/product/paapi"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// Diagnosis 상품 API 연결 진단 결과
type Diagnosis struct {
	OK bool `json:"ok"`

	// Kind 실패 분류 (apperrors.ErrorType 이름). 성공 시 빈 문자열입니다.
	Kind string `json:"kind,omitempty"`

	// Cause 운영자가 이해할 수 있는 실패 원인
	Cause string `json:"cause,omitempty"`

	// Retryable 잠시 후 다시 시도하면 성공할 수 있는 일시적 실패인지 여부
	Retryable bool `json:"retryable"`

	Identifier string `json:"identifier"`
	Source     Source `json:"source"`
	Title      string `json:"title,omitempty"`

	Elapsed   time.Duration `json:"-"`
	ElapsedMS int64         `json:"elapsed_ms"`
}

// diagnosisCauses 실패 분류별 안내 문구
var diagnosisCauses = map[apperrors.ErrorType]string{
	apperrors.Configuration:  "상품 API가 비활성화되어 있거나 자격 증명(access_key, secret_key, partner_tag) 또는 지역 설정이 올바르지 않습니다",
	apperrors.Authentication: "제공자가 요청 서명 또는 자격 증명을 거부했습니다. 키와 파트너 태그가 같은 계정의 것인지 확인하세요",
	apperrors.RateLimited:    "요청 빈도 제한에 걸렸습니다. 잠시 후 다시 시도하세요",
	apperrors.Unavailable:    "제공자 측의 일시적인 장애입니다. 잠시 후 다시 시도하세요",
	apperrors.Network:        "제공자 서버에 연결할 수 없습니다. 네트워크와 방화벽 설정을 확인하세요",
	apperrors.Timeout:        "제공자 응답 시간이 초과되었습니다",
	apperrors.EmptyResult:    "진단용 상품이 조회되지 않았습니다. 지역 설정과 진단용 식별자를 확인하세요",
	apperrors.ParsingFailed:  "제공자 응답을 해석할 수 없습니다",
	apperrors.InvalidInput:   "제공자가 요청 형식을 거부했습니다",
}

// transientTypes 재시도로 해결될 수 있는 실패 분류
var transientTypes = map[apperrors.ErrorType]bool{
	apperrors.RateLimited: true,
	apperrors.Unavailable: true,
	apperrors.Network:     true,
	apperrors.Timeout:     true,
}

// isTransient 제공자 에러 응답이 있으면 그 판단을, 없으면 실패 분류를 따릅니다.
func isTransient(err error, t apperrors.ErrorType) bool {
	if pe, ok := paapi.AsProviderError(err); ok {
		return pe.Retryable()
	}
	return transientTypes[t]
}

// CauseFor 실패 분류에 해당하는 안내 문구를 반환합니다.
func CauseFor(t apperrors.ErrorType) string {
	if cause, ok := diagnosisCauses[t]; ok {
		return cause
	}
	return "알 수 없는 오류가 발생했습니다"
}

// TestAPIConnection 진단용 식별자로 상품 API를 한 번 호출하고 결과를 분류합니다.
// 캐시와 스크래핑 단계는 거치지 않습니다.
func (s *Service) TestAPIConnection(ctx context.Context) Diagnosis {
	start := s.now()
	d := Diagnosis{
		Identifier: s.cfg.TestIdentifier,
		Source:     SourceAPI,
	}

	defer func() {
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"identifier": d.Identifier,
			"ok":         d.OK,
			"kind":       d.Kind,
			"elapsed_ms": d.ElapsedMS,
		}).Info("상품 API 연결 진단 완료")
	}()

	var err error
	if s.api == nil {
		err = apperrors.New(apperrors.Configuration, "상품 API가 비활성화되어 있거나 자격 증명이 설정되지 않았습니다")
	} else {
		item, fetchErr := s.api.FetchByIdentifier(ctx, s.cfg.TestIdentifier)
		if fetchErr == nil {
			d.Title = item.Title
		}
		err = fetchErr
	}

	d.Elapsed = s.now().Sub(start)
	d.ElapsedMS = d.Elapsed.Milliseconds()

	if err != nil {
		t := apperrors.Classify(err)
		d.Kind = t.String()
		d.Cause = CauseFor(t)
		d.Retryable = isTransient(err, t)
		return d
	}

	d.OK = true
	return d
}
