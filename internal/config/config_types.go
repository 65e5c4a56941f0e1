package config

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/product-server/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// 상품 데이터 소스
const (
	DataSourceReal      = "real"
	DataSourceSimulated = "simulated"
)

// 캐시 저장소 종류
const (
	CacheBackendMemory = "memory"
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug       bool              `json:"debug"`
	Acquisition AcquisitionConfig `json:"acquisition"`
	ProviderAPI ProviderAPIConfig `json:"provider_api"`
	Cache       CacheConfig       `json:"cache"`
	Scheduler   SchedulerConfig   `json:"scheduler"`
	Notifier    NotifierConfig    `json:"notifier"`
	API         APIConfig         `json:"api"`
}

func (c *AppConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.Acquisition, "상품 수집(acquisition)"); err != nil {
		return err
	}
	if err := checkStruct(v, c.ProviderAPI, "상품 API(provider_api)"); err != nil {
		return err
	}
	if err := c.Cache.validate(v); err != nil {
		return err
	}
	if err := checkStruct(v, c.Scheduler, "스케줄러(scheduler)"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Notifier.Telegram, "텔레그램 알림(notifier.telegram)"); err != nil {
		return err
	}
	if err := c.API.validate(v); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 실행은 가능하지만 권장되지 않는 설정에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.ProviderAPI.Enabled && !c.ProviderAPI.HasCredentials() {
		warnings = append(warnings, "상품 API가 활성화되어 있지만 자격 증명(access_key, secret_key, partner_tag)이 모두 설정되지 않아 API 조회 단계를 건너뜁니다")
	}
	if c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.API.ListenPort))
	}
	if len(c.API.Applications) == 0 {
		warnings = append(warnings, "등록된 애플리케이션이 없어 관리용 API(캐시 삭제, 연결 진단)를 호출할 수 없습니다")
	}
	if c.Notifier.Telegram.BotToken == "" {
		warnings = append(warnings, "텔레그램 알림이 설정되지 않아 운영 알림은 로그로만 기록됩니다")
	}

	return warnings
}

// AcquisitionConfig 상품 데이터 수집 파이프라인 설정
type AcquisitionConfig struct {
	DataSource           string         `json:"data_source" validate:"oneof=real simulated"`
	ScrapingTimeout      int            `json:"scraping_timeout" validate:"min=1,max=120"`
	CacheDurationMinutes int            `json:"cache_duration_minutes" validate:"min=0"`
	DescriptionLength    int            `json:"description_length" validate:"min=0"`
	DefaultHost          string         `json:"default_host" validate:"required,hostname_rfc1123"`
	ResolveTimeout       int            `json:"resolve_timeout" validate:"min=1,max=30"`
	ImageProbe           bool           `json:"image_probe"`
	Discount             DiscountConfig `json:"discount"`
}

// ScrapingTimeoutDuration 스크래핑 요청 제한 시간을 반환합니다.
func (c AcquisitionConfig) ScrapingTimeoutDuration() time.Duration {
	return time.Duration(c.ScrapingTimeout) * time.Second
}

// ResolveTimeoutDuration 단축 URL 해석 제한 시간을 반환합니다.
func (c AcquisitionConfig) ResolveTimeoutDuration() time.Duration {
	return time.Duration(c.ResolveTimeout) * time.Second
}

// CacheDuration 설정된 캐시 유지 시간을 반환합니다. 허용 범위로의 보정은 캐시 계층에서 수행합니다.
func (c AcquisitionConfig) CacheDuration() time.Duration {
	return time.Duration(c.CacheDurationMinutes) * time.Minute
}

// DiscountConfig 단위 가격 오인 판정에 사용하는 비율 임계값
type DiscountConfig struct {
	SuspiciousRatioMin float64 `json:"suspicious_ratio_min" validate:"gt=1"`
	SuspiciousRatioMax float64 `json:"suspicious_ratio_max" validate:"gtefield=SuspiciousRatioMin"`
	ExtremeRatio       float64 `json:"extreme_ratio" validate:"gtfield=SuspiciousRatioMax"`
}

// ProviderAPIConfig 서명 기반 상품 API 연동 설정
type ProviderAPIConfig struct {
	Enabled    bool   `json:"enabled"`
	AccessKey  string `json:"access_key"`
	SecretKey  string `json:"secret_key"`
	PartnerTag string `json:"partner_tag"`
	Region     string `json:"region" validate:"region_code"`

	// Endpoint 지역 기본 호스트 대신 사용할 주소 (예: 프록시, 테스트 서버)
	Endpoint string `json:"endpoint" validate:"omitempty,http_endpoint"`

	Timeout        int    `json:"timeout" validate:"min=1,max=60"`
	TestIdentifier string `json:"test_identifier" validate:"required,len=10,alphanum"`
}

// HasCredentials 요청 서명에 필요한 값이 모두 설정되었는지 여부를 반환합니다.
func (c ProviderAPIConfig) HasCredentials() bool {
	return strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.PartnerTag) != ""
}

// Usable API 조회 단계를 실행할 수 있는지 여부를 반환합니다.
func (c ProviderAPIConfig) Usable() bool {
	return c.Enabled && c.HasCredentials()
}

// TimeoutDuration API 요청 제한 시간을 반환합니다.
func (c ProviderAPIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// CacheConfig 상품 캐시 저장소 설정
type CacheConfig struct {
	Backend   string      `json:"backend" validate:"oneof=memory file sqlite redis"`
	Namespace string      `json:"namespace" validate:"required,alphanum"`
	Dir       string      `json:"dir"`
	DSN       string      `json:"dsn"`
	Redis     RedisConfig `json:"redis"`
}

func (c *CacheConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "캐시(cache)"); err != nil {
		return err
	}

	switch c.Backend {
	case CacheBackendFile:
		if strings.TrimSpace(c.Dir) == "" {
			return apperrors.New(apperrors.InvalidInput, "파일 캐시 사용 시 저장 디렉토리(cache.dir)는 필수입니다")
		}
	case CacheBackendSQLite:
		if strings.TrimSpace(c.DSN) == "" {
			return apperrors.New(apperrors.InvalidInput, "SQLite 캐시 사용 시 데이터베이스 경로(cache.dsn)는 필수입니다")
		}
	case CacheBackendRedis:
		if err := checkStruct(v, c.Redis, "Redis 캐시(cache.redis)"); err != nil {
			return err
		}
	}

	return nil
}

// RedisConfig Redis 캐시 접속 정보
type RedisConfig struct {
	Addr     string `json:"addr" validate:"required,hostname_port"`
	Password string `json:"password"`
	DB       int    `json:"db" validate:"min=0,max=15"`
}

// SchedulerConfig 주기 작업 설정. 빈 문자열은 해당 작업을 비활성화합니다.
type SchedulerConfig struct {
	CachePurge     string `json:"cache_purge" validate:"omitempty,cron_spec"`
	APIHealthCheck string `json:"api_health_check" validate:"omitempty,cron_spec"`
}

// NotifierConfig 운영 알림 채널 설정
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig 텔레그램 봇 토큰 및 채팅 ID. 토큰이 비어 있으면 알림은 로그로만 기록됩니다.
type TelegramConfig struct {
	BotToken string `json:"bot_token" validate:"omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_with=BotToken"`
}

// Enabled 텔레그램 알림 사용 여부를 반환합니다.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

// APIConfig REST API 서버 설정
type APIConfig struct {
	ListenPort   int                 `json:"listen_port" validate:"min=1,max=65535"`
	TLSServer    bool                `json:"tls_server"`
	TLSCertFile  string              `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,readable_file"`
	TLSKeyFile   string              `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,readable_file"`
	CORS         CORSConfig          `json:"cors"`
	Applications []ApplicationConfig `json:"applications" validate:"unique=ID,dive"`
}

func (c *APIConfig) validate(v *validator.Validate) error {
	if err := c.CORS.validate(); err != nil {
		return err
	}
	return checkStruct(v, c, "API 서버(api)")
}

// CORSConfig 교차 출처 리소스 공유(CORS) 정책
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" && len(c.AllowOrigins) > 1 {
			return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다")
		}
	}

	return nil
}

// ApplicationConfig 관리용 API를 호출할 수 있는 클라이언트 애플리케이션
type ApplicationConfig struct {
	ID     string `json:"id" validate:"required"`
	Title  string `json:"title"`
	AppKey string `json:"app_key" validate:"required"`
}
