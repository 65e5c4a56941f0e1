package api

import (
	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
)

var (
	// ErrProductServiceNotInitialized 서비스 시작 시 상품 서비스 의존성이 주입되지 않았을 때 반환하는 에러입니다.
	ErrProductServiceNotInitialized = apperrors.New(apperrors.Internal, "ProductService 객체가 초기화되지 않았습니다")

	// ErrNotifierNotInitialized 서비스 시작 시 운영 알림 의존성이 주입되지 않았을 때 반환하는 에러입니다.
	ErrNotifierNotInitialized = apperrors.New(apperrors.Internal, "Notifier 객체가 초기화되지 않았습니다")
)
