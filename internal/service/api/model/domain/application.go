// Package domain API 서비스의 런타임 도메인 모델을 정의합니다.
package domain

// Application 관리용 API를 호출하는 클라이언트 애플리케이션
//
// config.ApplicationConfig에서 AppKey를 제외한 런타임 표현입니다.
// AppKey는 Authenticator 안에서 해시 형태로만 보관합니다.
type Application struct {
	ID    string
	Title string
}
