// Package auth 관리용 API를 호출하는 애플리케이션의 인증을 담당합니다.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"sync"

	"github.com/darkkaiser/product-server/internal/config"
	"github.com/darkkaiser/product-server/internal/service/api/constants"
	"github.com/darkkaiser/product-server/internal/service/api/model/domain"
	applog "github.com/darkkaiser/product-server/pkg/log"
	"github.com/darkkaiser/product-server/pkg/strutil"
)

// credential 애플리케이션과 App Key의 SHA-256 해시
type credential struct {
	app     *domain.Application
	keyHash [sha256.Size]byte
}

// Authenticator 설정에 등록된 애플리케이션의 App Key를 검증합니다.
//
// App Key 원문은 보관하지 않으며, 비교는 해시끼리 상수 시간으로 수행합니다.
// 초기화 이후에는 읽기 전용이므로 여러 고루틴에서 동시에 호출해도 안전합니다.
type Authenticator struct {
	mu          sync.RWMutex
	credentials []credential
}

// NewAuthenticator 설정에서 애플리케이션을 로드하여 Authenticator를 생성합니다.
func NewAuthenticator(apiConfig config.APIConfig) *Authenticator {
	credentials := make([]credential, 0, len(apiConfig.Applications))
	for _, application := range apiConfig.Applications {
		credentials = append(credentials, credential{
			app: &domain.Application{
				ID:    application.ID,
				Title: application.Title,
			},
			keyHash: sha256.Sum256([]byte(application.AppKey)),
		})
	}

	return &Authenticator{
		credentials: credentials,
	}
}

// Authenticate App Key에 해당하는 애플리케이션을 찾습니다.
// 등록되지 않은 키이면 ErrInvalidAppKey를 반환합니다.
func (a *Authenticator) Authenticate(appKey string) (*domain.Application, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	hash := sha256.Sum256([]byte(appKey))

	var matched *domain.Application
	for i := range a.credentials {
		// 일치하는 항목을 찾은 뒤에도 순회를 계속하여 응답 시간으로 키 위치가 드러나지 않게 합니다.
		if subtle.ConstantTimeCompare(hash[:], a.credentials[i].keyHash[:]) == 1 && matched == nil {
			matched = a.credentials[i].app
		}
	}

	if matched == nil {
		applog.WithComponentAndFields(constants.ComponentMiddlewareAuth, applog.Fields{
			"received_app_key": strutil.MaskSensitiveData(appKey),
		}).Warn("등록되지 않은 App Key")

		return nil, ErrInvalidAppKey
	}

	return matched, nil
}

// Count 등록된 애플리케이션 수를 반환합니다.
func (a *Authenticator) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.credentials)
}
