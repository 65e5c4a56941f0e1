package scheduler

import (
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
)

var (
	// ErrProductServiceNotInitialized 서비스 시작 시 상품 서비스 의존성이 주입되지 않았을 때 반환하는 에러입니다.
	ErrProductServiceNotInitialized = apperrors.New(apperrors.Internal, "상품 서비스 객체가 초기화되지 않았습니다")

	// ErrNotifierNotInitialized 서비스 시작 시 알림 의존성이 주입되지 않았을 때 반환하는 에러입니다.
	ErrNotifierNotInitialized = apperrors.New(apperrors.Internal, "Notifier 객체가 초기화되지 않았습니다")
)

// newErrInvalidCronSpec Cron 표현식이 올바르지 않아 스케줄 등록에 실패했을 때 반환하는 에러를 생성합니다.
func newErrInvalidCronSpec(job, spec string, cause error) error {
	return apperrors.Wrapf(cause, apperrors.Configuration, "스케줄 등록 실패: 잘못된 Cron 표현식입니다 (Job=%s, Spec='%s')", job, spec)
}
