// Package validation 설정값과 요청 입력에 공통으로 사용하는 형식 검증 함수를 제공합니다.
//
// 모든 함수는 유효하면 nil, 그렇지 않으면 원인을 설명하는 에러를 반환합니다.
// 도메인 에러 타입으로의 변환은 호출하는 쪽의 책임입니다.
package validation
