package product

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/product-server/internal/config"
	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
	"github.com/darkkaiser/product-server/internal/service/product/cache"
	"github.com/darkkaiser/product-server/internal/service/product/paapi"
	"github.com/darkkaiser/product-server/internal/service/product/pricing"
	"github.com/darkkaiser/product-server/internal/service/product/resolver"
	"github.com/darkkaiser/product-server/internal/service/product/scrape"
	applog "github.com/darkkaiser/product-server/pkg/log"
)

// maxShortLinkHops 단축 링크 해석 시 따라갈 최대 리다이렉트 횟수
const maxShortLinkHops = 5

// apiRetryPolicy 상품 API 호출의 재시도 정책. 전체 시간은 상품 API 제한 시간 안으로 묶입니다.
// GetItems는 조회 전용이므로 POST도 재시도합니다.
var apiRetryPolicy = fetcher.RetryPolicy{
	MaxRetries: 2,
	MinDelay:   500 * time.Millisecond,
	MaxDelay:   3 * time.Second,
	Methods:    []string{http.MethodPost},
}

// NewServiceFromConfig 애플리케이션 설정으로 모든 구성 요소를 생성하여 오케스트레이터를 만듭니다.
func NewServiceFromConfig(ctx context.Context, appConfig *config.AppConfig) (*Service, error) {
	acq := appConfig.Acquisition

	store, err := cache.New(ctx, appConfig.Cache)
	if err != nil {
		return nil, err
	}

	resolveFetcher := fetcher.NewLoggingFetcher(
		fetcher.NewHTTPFetcher(
			fetcher.WithMaxRedirects(maxShortLinkHops),
			fetcher.WithTimeout(acq.ResolveTimeoutDuration()),
		),
	)

	scrapeTimeout := scrape.ClampTimeout(acq.ScrapingTimeoutDuration())
	pageFetcher := fetcher.NewLoggingFetcher(fetcher.NewHTTPFetcher(fetcher.WithTimeout(scrapeTimeout)))

	deps := Dependencies{
		Resolver: resolver.New(resolver.Config{
			DefaultHost: acq.DefaultHost,
			Timeout:     acq.ResolveTimeoutDuration(),
		}, resolveFetcher),
		Scraper:    scrape.New(scrape.Config{Timeout: scrapeTimeout}, pageFetcher),
		Strategies: scrape.DefaultStrategies(),
		Store:      store,
		Engine: pricing.NewEngine(pricing.Thresholds{
			SuspiciousRatioMin: acq.Discount.SuspiciousRatioMin,
			SuspiciousRatioMax: acq.Discount.SuspiciousRatioMax,
			ExtremeRatio:       acq.Discount.ExtremeRatio,
		}),
		Fetcher: pageFetcher,
	}
	closers := []func() error{resolveFetcher.Close, pageFetcher.Close}

	if appConfig.ProviderAPI.Usable() {
		apiFetcher := fetcher.NewLoggingFetcher(
			fetcher.NewRetryFetcher(
				fetcher.NewHTTPFetcher(fetcher.WithTimeout(appConfig.ProviderAPI.TimeoutDuration())),
				apiRetryPolicy,
			),
		)

		client, err := paapi.NewClient(paapi.Config{
			AccessKey:  appConfig.ProviderAPI.AccessKey,
			SecretKey:  appConfig.ProviderAPI.SecretKey,
			PartnerTag: appConfig.ProviderAPI.PartnerTag,
			Region:     appConfig.ProviderAPI.Region,
			Endpoint:   appConfig.ProviderAPI.Endpoint,
			Timeout:    appConfig.ProviderAPI.TimeoutDuration(),
		}, apiFetcher)
		if err != nil {
			store.Close()
			return nil, err
		}

		deps.API = client
		closers = append(closers, apiFetcher.Close)
	}

	s, err := NewService(Config{
		Simulated:         acq.DataSource == config.DataSourceSimulated,
		CacheNamespace:    appConfig.Cache.Namespace,
		CacheTTL:          acq.CacheDuration(),
		DescriptionLength: acq.DescriptionLength,
		ImageProbe:        acq.ImageProbe,
		TestIdentifier:    appConfig.ProviderAPI.TestIdentifier,
	}, deps)
	if err != nil {
		store.Close()
		return nil, err
	}
	s.closers = closers

	applog.WithComponentAndFields(component, applog.Fields{
		"data_source":   acq.DataSource,
		"api_enabled":   s.APIEnabled(),
		"cache_backend": appConfig.Cache.Backend,
		"strategies":    len(deps.Strategies),
	}).Info("상품 수집 서비스 초기화 완료")

	return s, nil
}
