package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStd = errors.New("standard error")

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkWrap(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Wrap(errStd, Network, "wrapped")
	}
}

func BenchmarkIs(b *testing.B) {
	err := New(Blocked, "captcha")
	for i := 0; i < 10; i++ {
		err = Wrap(err, Internal, "wrap")
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Is(err, Blocked)
	}
}

// =============================================================================
// Creation
// =============================================================================

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		errType ErrorType
		message string
		want    string
	}{
		{"Blocked", Blocked, "captcha detected", "[Blocked] captcha detected"},
		{"NoIdentifier", NoIdentifier, "식별자 없음", "[NoIdentifier] 식별자 없음"},
		{"Empty message", Internal, "", "[Internal] "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := New(tt.errType, tt.message)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())

			var appErr *AppError
			require.True(t, As(err, &appErr))
			assert.Equal(t, tt.errType, appErr.Type())
			assert.Equal(t, tt.message, appErr.Message())
			assert.NotEmpty(t, appErr.Stack())
			assert.Equal(t, "errors_test.go", appErr.Stack()[0].File)
		})
	}
}

func TestNewf(t *testing.T) {
	t.Parallel()

	err := Newf(RateLimited, "status %d", 429)
	assert.Equal(t, "[RateLimited] status 429", err.Error())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("nil 에러는 nil 반환", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Wrap(nil, Network, "ignored"))
		assert.NoError(t, Wrapf(nil, Network, "ignored %d", 1))
	})

	t.Run("원인 에러 포함", func(t *testing.T) {
		t.Parallel()

		err := Wrap(errStd, Network, "요청 실패")
		assert.Equal(t, "[Network] 요청 실패: standard error", err.Error())
		assert.ErrorIs(t, err, errStd)
	})

	t.Run("Wrapf", func(t *testing.T) {
		t.Parallel()

		err := Wrapf(errStd, ParsingFailed, "field %s", "title")
		assert.Equal(t, "[ParsingFailed] field title: standard error", err.Error())
	})
}

// =============================================================================
// Chain Inspection
// =============================================================================

func TestIs(t *testing.T) {
	t.Parallel()

	chain := Wrap(Wrap(New(Blocked, "robot check"), ParsingFailed, "extract"), Internal, "scrape")

	assert.True(t, Is(chain, Blocked))
	assert.True(t, Is(chain, ParsingFailed))
	assert.True(t, Is(chain, Internal))
	assert.False(t, Is(chain, Network))
	assert.False(t, Is(nil, Blocked))
	assert.False(t, Is(errStd, Unknown))
}

func TestRootCause(t *testing.T) {
	t.Parallel()

	assert.Nil(t, RootCause(nil))
	assert.Equal(t, errStd, RootCause(Wrap(Wrap(errStd, Network, "a"), Internal, "b")))

	leaf := New(EmptyResult, "no items")
	assert.Equal(t, leaf, RootCause(Wrap(leaf, Internal, "outer")))
}

func TestUnderlyingType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, Unknown},
		{"외부 에러", errStd, Unknown},
		{"단일", New(Timeout, "t"), Timeout},
		{"체인", Wrap(New(Authentication, "sig"), Internal, "api"), Authentication},
		{"외부 에러 래핑", Wrap(errStd, NotFound, "nf"), NotFound},
		{"fmt 래핑", fmt.Errorf("ctx: %w", New(Blocked, "b")), Blocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, UnderlyingType(tt.err))
		})
	}
}

type timeoutErr struct{ timeout bool }

func (e timeoutErr) Error() string   { return "net" }
func (e timeoutErr) Timeout() bool   { return e.timeout }
func (e timeoutErr) Temporary() bool { return false }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, Unknown},
		{"AppError 우선", Wrap(context.DeadlineExceeded, Network, "x"), Network},
		{"DeadlineExceeded", fmt.Errorf("get: %w", context.DeadlineExceeded), Timeout},
		{"Canceled", context.Canceled, Unavailable},
		{"net timeout", timeoutErr{timeout: true}, Timeout},
		{"net error", timeoutErr{timeout: false}, Network},
		{"unknown", errStd, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestRecoverable(t *testing.T) {
	t.Parallel()

	assert.True(t, Recoverable(nil))
	assert.True(t, Recoverable(New(Blocked, "b")))
	assert.True(t, Recoverable(New(Configuration, "missing key")))
	assert.False(t, Recoverable(New(NoIdentifier, "no asin")))
	assert.False(t, Recoverable(Wrap(New(NoIdentifier, "no asin"), Internal, "outer")))
}

// =============================================================================
// Formatting
// =============================================================================

func TestAppError_Format(t *testing.T) {
	t.Parallel()

	err := Wrap(New(Blocked, "captcha"), Internal, "scrape failed")

	assert.Equal(t, err.Error(), fmt.Sprintf("%s", err))
	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))
	assert.Equal(t, fmt.Sprintf("%q", err.Error()), fmt.Sprintf("%q", err))

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "[Internal] scrape failed")
	assert.Contains(t, detailed, "Caused by:")
	assert.Contains(t, detailed, "[Blocked] captcha")
	assert.Contains(t, detailed, "Stack trace:")
}

func TestAppError_Format_ExternalCause(t *testing.T) {
	t.Parallel()

	detailed := fmt.Sprintf("%+v", Wrap(errStd, Network, "dial"))
	assert.Contains(t, detailed, "Stack trace:")
	assert.Contains(t, detailed, "\tstandard error")
}

func TestErrorType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NoIdentifier", NoIdentifier.String())
	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "ErrorType(99)", ErrorType(99).String())
}
