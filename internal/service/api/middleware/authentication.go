package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/product-server/internal/service/api/auth"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// RequireAppKey X-App-Key 헤더로 애플리케이션을 인증하는 미들웨어를 반환합니다.
//
// 인증에 성공하면 애플리케이션 정보를 Context에 저장하고(auth.SetApplication) 다음 핸들러로 넘깁니다.
// 헤더가 없거나 등록되지 않은 키이면 401 Unauthorized를 반환합니다.
//
// Panics:
//   - authenticator가 nil인 경우
func RequireAppKey(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic("Authenticator는 필수입니다")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			appKey := c.Request().Header.Get(constants.HeaderAppKey)
			if appKey == "" {
				return ErrAppKeyRequired
			}

			app, err := authenticator.Authenticate(appKey)
			if err != nil {
				applog.WithContextAndFields(c.Request().Context(), constants.ComponentMiddlewareAuth, applog.Fields{
					"method":    c.Request().Method,
					"path":      c.Path(),
					"remote_ip": c.RealIP(),
				}).Warn("관리용 API 인증 실패")
				return err
			}

			auth.SetApplication(c, app)

			return next(c)
		}
	}
}
