package resolver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc 실제 네트워크 없이 호스트별 응답을 돌려주는 Transport
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func redirectTo(req *http.Request, location string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusMovedPermanently,
		Header:     http.Header{"Location": []string{location}},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}
}

func okResponse(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("<html></html>")),
		Request:    req,
	}
}

// countingFetcher 호출 횟수를 기록하는 Fetcher
type countingFetcher struct {
	calls    atomic.Int32
	delegate fetcher.Fetcher
}

func (c *countingFetcher) Do(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	if c.delegate == nil {
		return nil, errors.New("네트워크 호출이 발생하면 안 됩니다")
	}
	return c.delegate.Do(req)
}

func (c *countingFetcher) Close() error { return nil }

func newShortLinkFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(
		fetcher.WithMaxRedirects(maxShortLinkHops),
		fetcher.WithTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
			switch req.URL.Host {
			case "amzn.to":
				return redirectTo(req, "https://amzn.eu/d/abc123"), nil
			case "amzn.eu":
				return redirectTo(req, "https://www.amazon.es/Auriculares-Inalambricos/dp/B0C1234567/ref=sr_1_3?keywords=auriculares&psc=1"), nil
			case "a.co":
				return redirectTo(req, "https://a.co/loop"), nil
			case "www.amazon.es":
				return okResponse(req), nil
			}
			return nil, errors.New("unexpected host: " + req.URL.Host)
		})),
	)
}

// =============================================================================
// Resolve
// =============================================================================

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	r := New(Config{DefaultHost: "www.amazon.com"}, &countingFetcher{})

	tests := []struct {
		name      string
		input     string
		wantID    string
		wantURL   string
		wantHost  string
		wantError bool
	}{
		{
			name:     "dp 경로",
			input:    "https://www.amazon.com/Echo-Dot-4th-Gen/dp/B08N5WRWNW?ref=sr_1_1&keywords=echo",
			wantID:   "B08N5WRWNW",
			wantURL:  "https://www.amazon.com/dp/B08N5WRWNW",
			wantHost: "www.amazon.com",
		},
		{
			name:    "gp/product 경로",
			input:   "https://www.amazon.de/gp/product/B07XJ8C8F5/ref=ppx_yo_dt_b_asin_title",
			wantID:  "B07XJ8C8F5",
			wantURL: "https://www.amazon.de/dp/B07XJ8C8F5",
		},
		{
			name:    "모바일 gp/aw/d 경로",
			input:   "https://www.amazon.co.uk/gp/aw/d/B01N5IB20Q",
			wantID:  "B01N5IB20Q",
			wantURL: "https://www.amazon.co.uk/dp/B01N5IB20Q",
		},
		{
			name:    "exec/obidos 경로",
			input:   "http://www.amazon.com/exec/obidos/ASIN/0596007124/",
			wantID:  "0596007124",
			wantURL: "https://www.amazon.com/dp/0596007124",
		},
		{
			name:    "o/ASIN 경로",
			input:   "https://www.amazon.fr/o/ASIN/B00ZV9RDKK",
			wantID:  "B00ZV9RDKK",
			wantURL: "https://www.amazon.fr/dp/B00ZV9RDKK",
		},
		{
			name:    "소문자 식별자",
			input:   "https://www.amazon.it/dp/b08n5wrwnw",
			wantID:  "B08N5WRWNW",
			wantURL: "https://www.amazon.it/dp/B08N5WRWNW",
		},
		{
			name:    "일반 10자리 세그먼트",
			input:   "https://www.amazon.co.jp/Some-Title/B0B7BP6CJN/",
			wantID:  "B0B7BP6CJN",
			wantURL: "https://www.amazon.co.jp/dp/B0B7BP6CJN",
		},
		{
			name:    "www 없는 호스트는 그대로",
			input:   "amazon.es/dp/B0C1234567#reviews",
			wantID:  "B0C1234567",
			wantURL: "https://amazon.es/dp/B0C1234567",
		},
		{
			name:     "식별자만 입력",
			input:    " b08n5wrwnw ",
			wantID:   "B08N5WRWNW",
			wantURL:  "https://www.amazon.com/dp/B08N5WRWNW",
			wantHost: "www.amazon.com",
		},
		{
			name:      "식별자 없는 상품 페이지",
			input:     "https://www.amazon.com/gp/help/customer/display.html?nodeId=508510",
			wantError: true,
		},
		{
			name:      "마켓플레이스가 아닌 호스트",
			input:     "https://example.com/dp/B08N5WRWNW",
			wantError: true,
		},
		{
			name:      "빈 입력",
			input:     "   ",
			wantError: true,
		},
		{
			name:      "해석할 수 없는 URL",
			input:     "https://%zz",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(context.Background(), tt.input)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.NoIdentifier), "err=%v", err)
				assert.False(t, apperrors.Recoverable(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.Identifier)
			assert.Equal(t, tt.wantURL, got.CanonicalURL)
			if tt.wantHost != "" {
				assert.Equal(t, tt.wantHost, got.Host)
			}
		})
	}
}

func TestResolver_Resolve_NoNetworkForPlainURLs(t *testing.T) {
	t.Parallel()

	cf := &countingFetcher{}
	r := New(Config{}, cf)

	_, err := r.Resolve(context.Background(), "https://www.amazon.com/gp/help/customer/display.html")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.NoIdentifier))

	_, err = r.Resolve(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW")
	require.NoError(t, err)

	assert.Zero(t, cf.calls.Load())
}

// 같은 상품을 가리키는 URL 변형은 같은 식별자와 정규 URL로 해석된다.
func TestResolver_Resolve_Deterministic(t *testing.T) {
	t.Parallel()

	r := New(Config{}, newShortLinkFetcher())

	variants := []string{
		"https://www.amazon.es/dp/B0C1234567",
		"http://www.amazon.es/dp/B0C1234567",
		"www.amazon.es/dp/B0C1234567/",
		"https://www.amazon.es/dp/B0C1234567?tag=affiliate-21&linkCode=ll1",
		"https://www.amazon.es/Auriculares-Inalambricos/dp/B0C1234567/ref=sr_1_3?keywords=auriculares",
		"https://www.amazon.es/gp/product/B0C1234567?th=1",
		"https://amzn.to/3xYzAbc",
	}

	for _, v := range variants {
		got, err := r.Resolve(context.Background(), v)
		require.NoError(t, err, v)
		assert.Equal(t, "B0C1234567", got.Identifier, v)
		assert.Equal(t, "https://www.amazon.es/dp/B0C1234567", got.CanonicalURL, v)
	}
}

func TestResolver_Resolve_ShortLinkFailureFallsBack(t *testing.T) {
	t.Parallel()

	r := New(Config{DefaultHost: "www.amazon.de", Timeout: time.Second}, newShortLinkFetcher())

	t.Run("리다이렉트 반복으로 해석 실패 시 원래 URL 사용", func(t *testing.T) {
		t.Parallel()

		_, err := r.Resolve(context.Background(), "https://a.co/d/xYz12")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.NoIdentifier))

		got, err := r.Resolve(context.Background(), "https://a.co/d/B0LOOP1234")
		require.NoError(t, err)
		assert.Equal(t, "https://www.amazon.de/dp/B0LOOP1234", got.CanonicalURL)
	})

	t.Run("amzn.com 경로의 식별자는 기본 호스트로 정규화", func(t *testing.T) {
		t.Parallel()

		got, err := r.Resolve(context.Background(), "https://amzn.com/dp/B08N5WRWNW")
		require.NoError(t, err)
		assert.Equal(t, "https://www.amazon.de/dp/B08N5WRWNW", got.CanonicalURL)
	})
}
