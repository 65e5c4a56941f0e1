package log

import "context"

type fieldsContextKey struct{}

// ContextWithFields 부모 컨텍스트의 필드에 새 필드를 병합한 컨텍스트를 반환합니다.
//
// 요청 ID나 상품 식별자처럼 한 번의 수집 과정 전체에 걸쳐 함께 기록되어야 하는 값을 전달할 때 사용합니다.
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	parent := FieldsFromContext(ctx)
	merged := make(Fields, len(parent)+len(fields))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsContextKey{}, merged)
}

// FieldsFromContext 컨텍스트에 저장된 필드를 반환합니다. 없으면 nil을 반환합니다.
func FieldsFromContext(ctx context.Context) Fields {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsContextKey{}).(Fields)
	return fields
}
