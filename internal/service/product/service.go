// Package product 상품 URL로부터 정규화된 상품 정보를 수집하는 오케스트레이터를 제공합니다.
//
// 수집은 다음 상태를 순서대로 거칩니다.
//
//	START → RESOLVE_ID → CHECK_CACHE → TRY_API → TRY_SCRAPE[n] → SYNTHESIZE_FALLBACK → NORMALIZE → STORE_CACHE → DONE
//
// 식별자를 찾지 못한 경우(FAIL_NO_IDENTIFIER)만 호출자에게 에러로 전달되며,
// 그 외 단계의 실패는 모두 다음 단계로 진행하여 복구합니다.
package product

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/darkkaiser/product-server/internal/pkg/fetcher"
	"github.com/darkkaiser/product-server/internal/service/product/cache"
	"github.com/darkkaiser/product-server/internal/service/product/paapi"
	"github.com/darkkaiser/product-server/internal/service/product/pricing"
	"github.com/darkkaiser/product-server/internal/service/product/resolver"
	"github.com/darkkaiser/product-server/internal/service/product/scrape"
	applog "github.com/darkkaiser/product-server/pkg/log"
	"github.com/darkkaiser/product-server/pkg/strutil"
)

const component = "product.service"

// IdentifierResolver 상품 URL을 식별자와 정규 URL로 해석합니다.
type IdentifierResolver interface {
	Resolve(ctx context.Context, rawURL string) (resolver.Result, error)
}

// ItemFetcher 상품 API로 상품 정보를 조회합니다.
type ItemFetcher interface {
	FetchByIdentifier(ctx context.Context, identifier string) (*paapi.Item, error)
}

// PageScraper 상품 페이지를 수집합니다.
type PageScraper interface {
	Scrape(ctx context.Context, pageURL, identifier string, strategy scrape.Strategy) (*scrape.Result, error)
}

// Config 오케스트레이터 설정
type Config struct {
	// Simulated true이면 API와 스크래핑 대신 결정적인 데모 데이터를 사용합니다.
	Simulated bool

	CacheNamespace string
	CacheTTL       time.Duration

	// DescriptionLength 설명 최대 글자 수. 0이면 자르지 않습니다.
	DescriptionLength int

	// ImageProbe 대체 상품 정보 생성 시 이미지 존재 여부를 확인할지 여부
	ImageProbe bool

	// TestIdentifier 연결 진단에 사용하는 상품 식별자
	TestIdentifier string
}

// Dependencies 오케스트레이터가 사용하는 구성 요소
type Dependencies struct {
	Resolver IdentifierResolver

	// API nil이면 API 조회 단계를 건너뜁니다.
	API ItemFetcher

	Scraper    PageScraper
	Strategies []scrape.Strategy

	Store  cache.Store
	Engine *pricing.Engine

	// Fetcher 대체 이미지 확인에 사용합니다.
	Fetcher fetcher.Fetcher
}

// Service 상품 정보 수집 오케스트레이터
type Service struct {
	cfg Config

	resolver   IdentifierResolver
	api        ItemFetcher
	scraper    PageScraper
	strategies []scrape.Strategy
	store      cache.Store
	engine     *pricing.Engine
	fallback   *fallbackSynthesizer

	now func() time.Time

	closers []func() error
}

// NewService 오케스트레이터를 생성합니다. Resolver와 Store는 필수입니다.
func NewService(cfg Config, deps Dependencies) (*Service, error) {
	if deps.Resolver == nil {
		return nil, apperrors.New(apperrors.Internal, "상품 URL 해석기가 지정되지 않았습니다")
	}
	if deps.Store == nil {
		return nil, apperrors.New(apperrors.Internal, "캐시 저장소가 지정되지 않았습니다")
	}
	if cfg.CacheNamespace == "" {
		cfg.CacheNamespace = "product"
	}

	engine := deps.Engine
	if engine == nil {
		engine = pricing.NewEngine(pricing.DefaultThresholds())
	}
	strategies := deps.Strategies
	if strategies == nil {
		strategies = scrape.DefaultStrategies()
	}

	s := &Service{
		cfg:        cfg,
		resolver:   deps.Resolver,
		api:        deps.API,
		scraper:    deps.Scraper,
		strategies: strategies,
		store:      deps.Store,
		engine:     engine,
		now:        time.Now,
	}
	s.fallback = &fallbackSynthesizer{
		imageProbe: cfg.ImageProbe,
		fetcher:    deps.Fetcher,
		now:        func() time.Time { return s.now() },
	}

	return s, nil
}

// APIEnabled API 조회 단계가 활성화되어 있는지 여부를 반환합니다.
func (s *Service) APIEnabled() bool {
	return s.api != nil
}

// Engine 할인율 추론기를 반환합니다.
func (s *Service) Engine() *pricing.Engine {
	return s.engine
}

// GetProductData URL에 해당하는 상품 정보를 반환합니다.
//
// forceRefresh가 true이면 캐시를 무시하고 새로 수집합니다. 반환되는 에러는 NoIdentifier뿐이며,
// 그 외의 실패는 다음 수집 방법으로 넘어가 결국 대체 상품 정보로 응답합니다.
func (s *Service) GetProductData(ctx context.Context, rawURL string, forceRefresh bool) (*Record, error) {
	a := &acquisition{
		rawURL:       rawURL,
		forceRefresh: forceRefresh,
	}

	st := stateStart
	for !st.terminal() {
		next := s.step(ctx, st, a)

		applog.WithContextAndFields(ctx, component, applog.Fields{
			"identifier": a.resolved.Identifier,
			"from":       st.String(),
			"to":         next.String(),
		}).Debug("수집 상태 전이")

		st = next
	}

	if st == stateFailNoIdentifier {
		return nil, a.err
	}
	return a.record, nil
}

// ClearCache 현재 네임스페이스의 캐시 항목을 모두 삭제하고 삭제한 개수를 반환합니다.
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	n, err := s.store.DeleteByPrefix(ctx, cache.Prefix(s.cfg.CacheNamespace))
	if err != nil {
		return 0, err
	}

	applog.WithContextAndFields(ctx, component, applog.Fields{
		"namespace": s.cfg.CacheNamespace,
		"deleted":   n,
	}).Info("상품 캐시 삭제 완료")

	return n, nil
}

// GetCacheStats 캐시 항목 수와 크기를 반환합니다.
func (s *Service) GetCacheStats(ctx context.Context) (cache.Stats, error) {
	return s.store.Stats(ctx)
}

// PurgeExpiredCache 만료된 캐시 항목을 정리합니다.
func (s *Service) PurgeExpiredCache(ctx context.Context) (int, error) {
	return s.store.Purge(ctx)
}

// Close 캐시 저장소와 HTTP 연결을 정리합니다.
func (s *Service) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (s *Service) cacheKey(identifier string) string {
	return cache.Key(s.cfg.CacheNamespace, identifier)
}

// =============================================================================
// State machine
// =============================================================================

type state int

const (
	stateStart state = iota
	stateResolveID
	stateCheckCache
	stateSimulate
	stateTryAPI
	stateTryScrape
	stateSynthesizeFallback
	stateNormalize
	stateStoreCache
	stateDone
	stateFailNoIdentifier
)

var stateNames = [...]string{
	stateStart:              "START",
	stateResolveID:          "RESOLVE_ID",
	stateCheckCache:         "CHECK_CACHE",
	stateSimulate:           "SIMULATE",
	stateTryAPI:             "TRY_API",
	stateTryScrape:          "TRY_SCRAPE",
	stateSynthesizeFallback: "SYNTHESIZE_FALLBACK",
	stateNormalize:          "NORMALIZE",
	stateStoreCache:         "STORE_CACHE",
	stateDone:               "DONE",
	stateFailNoIdentifier:   "FAIL_NO_IDENTIFIER",
}

func (st state) String() string {
	if int(st) < len(stateNames) {
		return stateNames[st]
	}
	return "UNKNOWN"
}

func (st state) terminal() bool {
	return st == stateDone || st == stateFailNoIdentifier
}

// acquisition 수집 1회의 진행 상태
type acquisition struct {
	rawURL       string
	forceRefresh bool

	resolved resolver.Result

	// strategyIndex 다음에 시도할 스크래핑 전략의 위치
	strategyIndex int

	draft *Draft

	// resume 정규화에 실패했을 때 돌아갈 상태
	resume state

	record *Record
	err    error
}

func (s *Service) step(ctx context.Context, st state, a *acquisition) state {
	switch st {
	case stateStart:
		return stateResolveID

	case stateResolveID:
		return s.resolveID(ctx, a)

	case stateCheckCache:
		return s.checkCache(ctx, a)

	case stateSimulate:
		d := simulatedDraft(a.resolved.Identifier, a.resolved.CanonicalURL, a.resolved.Host, s.now())
		a.draft, a.resume = &d, stateSynthesizeFallback
		return stateNormalize

	case stateTryAPI:
		return s.tryAPI(ctx, a)

	case stateTryScrape:
		return s.tryScrape(ctx, a)

	case stateSynthesizeFallback:
		d := s.fallback.synthesize(ctx, a.resolved.Identifier, a.resolved.CanonicalURL)
		a.draft, a.resume = &d, stateSynthesizeFallback
		return stateNormalize

	case stateNormalize:
		return s.normalize(ctx, a)

	case stateStoreCache:
		s.storeCache(ctx, a)
		return stateDone
	}

	a.err = apperrors.Newf(apperrors.Internal, "알 수 없는 수집 상태입니다: %d", st)
	return stateFailNoIdentifier
}

func (s *Service) resolveID(ctx context.Context, a *acquisition) state {
	resolved, err := s.resolver.Resolve(ctx, a.rawURL)
	if err != nil {
		if !apperrors.Is(err, apperrors.NoIdentifier) {
			err = apperrors.Wrap(err, apperrors.NoIdentifier, "상품 식별자를 확인할 수 없습니다")
		}
		a.err = err

		applog.WithContextAndFields(ctx, component, applog.Fields{
			"url":   a.rawURL,
			"error": err,
		}).Info("상품 식별자 없음: 수집 중단")

		return stateFailNoIdentifier
	}

	a.resolved = resolved
	return stateCheckCache
}

func (s *Service) checkCache(ctx context.Context, a *acquisition) state {
	next := stateTryAPI
	if s.cfg.Simulated {
		next = stateSimulate
	}
	if a.forceRefresh {
		return next
	}

	data, found, err := s.store.Get(ctx, s.cacheKey(a.resolved.Identifier))
	if err != nil {
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"identifier": a.resolved.Identifier,
			"error":      err,
		}).Warn("캐시 조회 실패: 새로 수집합니다")
		return next
	}
	if !found {
		return next
	}

	record, err := decodeRecord(data)
	if err != nil {
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"identifier": a.resolved.Identifier,
			"error":      err,
		}).Warn("캐시된 상품 정보 해석 실패: 새로 수집합니다")
		return next
	}

	a.record = record
	return stateDone
}

func (s *Service) tryAPI(ctx context.Context, a *acquisition) state {
	if s.api == nil {
		return stateTryScrape
	}

	item, err := s.api.FetchByIdentifier(ctx, a.resolved.Identifier)
	if err != nil {
		return s.stageFailed(ctx, a, "api", err, stateTryScrape)
	}

	d := draftFromItem(item, a.resolved, s.now())
	a.draft, a.resume = &d, stateTryScrape
	return stateNormalize
}

func (s *Service) tryScrape(ctx context.Context, a *acquisition) state {
	if s.scraper == nil || a.strategyIndex >= len(s.strategies) {
		return stateSynthesizeFallback
	}

	strategy := s.strategies[a.strategyIndex]
	a.strategyIndex++

	result, err := s.scraper.Scrape(ctx, a.resolved.CanonicalURL, a.resolved.Identifier, strategy)
	if err != nil {
		if ctx.Err() != nil {
			// 남은 전략도 같은 컨텍스트로는 성공할 수 없다.
			a.strategyIndex = len(s.strategies)
		}
		return s.stageFailed(ctx, a, "scrape:"+strategy.Name, err, stateTryScrape)
	}

	d := draftFromScrape(result, a.resolved, s.now())
	a.draft, a.resume = &d, stateTryScrape
	return stateNormalize
}

// stageFailed 수집 단계의 실패를 기록하고 다음 상태를 결정합니다.
func (s *Service) stageFailed(ctx context.Context, a *acquisition, stage string, err error, next state) state {
	entry := applog.WithContextAndFields(ctx, component, applog.Fields{
		"identifier": a.resolved.Identifier,
		"stage":      stage,
		"error_type": apperrors.Classify(err).String(),
		"error":      err,
	})

	if !apperrors.Recoverable(err) {
		entry.Warn("수집 단계 실패: 복구 불가능")
		a.err = err
		return stateFailNoIdentifier
	}

	entry.Info("수집 단계 실패: 다음 방법으로 진행")
	return next
}

func (s *Service) normalize(ctx context.Context, a *acquisition) state {
	d := *a.draft
	d.Description = strutil.Truncate(d.Description, s.cfg.DescriptionLength)

	record, err := NewRecord(d, s.engine)
	if err != nil {
		a.draft = nil
		return s.stageFailed(ctx, a, "normalize:"+string(d.Source), err, a.resume)
	}

	a.record = record
	return stateStoreCache
}

func (s *Service) storeCache(ctx context.Context, a *acquisition) {
	data, err := json.Marshal(a.record)
	if err == nil {
		err = s.store.Set(ctx, s.cacheKey(a.record.Identifier()), data, cache.ClampTTL(s.cfg.CacheTTL))
	}
	if err != nil {
		applog.WithContextAndFields(ctx, component, applog.Fields{
			"identifier": a.record.Identifier(),
			"error":      err,
		}).Warn("상품 정보 캐시 저장 실패")
	}
}

func draftFromItem(item *paapi.Item, resolved resolver.Result, now time.Time) Draft {
	return Draft{
		Identifier:           resolved.Identifier,
		CanonicalURL:         resolved.CanonicalURL,
		Title:                item.Title,
		PriceDisplay:         item.PriceDisplay,
		OriginalPriceDisplay: item.OriginalPriceDisplay,
		RawDiscount:          item.RawDiscount,
		SavingsFlag:          item.SavingsFlag,
		ImageURL:             item.ImageURL,
		Description:          strings.Join(item.Features, " "),
		Rating:               item.Rating,
		ReviewCount:          item.ReviewCount,
		Source:               SourceAPI,
		FetchedAt:            now,
	}
}

func draftFromScrape(r *scrape.Result, resolved resolver.Result, now time.Time) Draft {
	return Draft{
		Identifier:           resolved.Identifier,
		CanonicalURL:         resolved.CanonicalURL,
		Title:                r.Title,
		PriceDisplay:         r.PriceDisplay,
		OriginalPriceDisplay: r.OriginalPriceDisplay,
		RawDiscount:          r.DiscountBadge,
		ImageURL:             r.ImageURL,
		Description:          r.Description,
		SpecialOffer:         r.SpecialOffer,
		Rating:               r.Rating,
		ReviewCount:          r.ReviewCount,
		Source:               SourceScrape,
		FetchedAt:            now,
	}
}
