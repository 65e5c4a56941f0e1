package config

const (
	DefaultDataSource           = DataSourceReal
	DefaultScrapingTimeout      = 15
	DefaultCacheDurationMinutes = 60
	DefaultResolveTimeout       = 5
	DefaultMarketplaceHost      = "www.amazon.com"

	DefaultSuspiciousRatioMin = 3.5
	DefaultSuspiciousRatioMax = 4.5
	DefaultExtremeRatio       = 8.0

	DefaultProviderRegion  = "us"
	DefaultProviderTimeout = 10

	// DefaultTestIdentifier 연결 진단에 사용하는, 항상 조회 가능한 상품 식별자입니다.
	DefaultTestIdentifier = "B08N5WRWNW"

	DefaultCacheBackend   = CacheBackendMemory
	DefaultCacheNamespace = "product"
	DefaultCacheDir       = "cache"
	DefaultCacheDSN       = "file:product-cache.db"
	DefaultRedisAddr      = "localhost:6379"

	DefaultCachePurgeSpec     = "0 */10 * * * *"
	DefaultAPIHealthCheckSpec = "0 0 * * * *"

	DefaultListenPort = 2543
)

func newDefaultConfig() AppConfig {
	return AppConfig{
		Debug: false,
		Acquisition: AcquisitionConfig{
			DataSource:           DefaultDataSource,
			ScrapingTimeout:      DefaultScrapingTimeout,
			CacheDurationMinutes: DefaultCacheDurationMinutes,
			DefaultHost:          DefaultMarketplaceHost,
			ResolveTimeout:       DefaultResolveTimeout,
			ImageProbe:           true,
			Discount: DiscountConfig{
				SuspiciousRatioMin: DefaultSuspiciousRatioMin,
				SuspiciousRatioMax: DefaultSuspiciousRatioMax,
				ExtremeRatio:       DefaultExtremeRatio,
			},
		},
		ProviderAPI: ProviderAPIConfig{
			Region:         DefaultProviderRegion,
			Timeout:        DefaultProviderTimeout,
			TestIdentifier: DefaultTestIdentifier,
		},
		Cache: CacheConfig{
			Backend:   DefaultCacheBackend,
			Namespace: DefaultCacheNamespace,
			Dir:       DefaultCacheDir,
			DSN:       DefaultCacheDSN,
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
		},
		Scheduler: SchedulerConfig{
			CachePurge:     DefaultCachePurgeSpec,
			APIHealthCheck: DefaultAPIHealthCheckSpec,
		},
		API: APIConfig{
			ListenPort: DefaultListenPort,
			CORS: CORSConfig{
				AllowOrigins: []string{"*"},
			},
		},
	}
}
