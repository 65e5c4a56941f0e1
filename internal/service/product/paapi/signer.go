package paapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"time"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	serviceName      = "ProductAdvertisingAPI"
	scopeTerminator  = "aws4_request"

	amzDateFormat   = "20060102T150405Z"
	scopeDateFormat = "20060102"
)

// SignedRequest 서명이 완료된 요청의 구성 요소
type SignedRequest struct {
	Method          string
	Path            string
	Payload         []byte
	Timestamp       string
	CredentialScope string
	SignedHeaders   string
	Signature       string
	Authorization   string

	// Headers 서명에 포함된 헤더 (소문자 이름)
	Headers map[string]string
}

// Signer 요청 서명기. 서명 키는 호출마다 파생하며 저장하지 않습니다.
type Signer struct {
	accessKey     string
	secretKey     string
	signingRegion string
	service       string
}

// NewSigner 자격 증명과 서명 리전으로 Signer를 생성합니다.
func NewSigner(accessKey, secretKey, signingRegion string) *Signer {
	return &Signer{
		accessKey:     accessKey,
		secretKey:     secretKey,
		signingRegion: signingRegion,
		service:       serviceName,
	}
}

// Sign 요청에 서명합니다. 같은 입력(비밀 키, 시각, 페이로드, 헤더)에는 항상 같은 서명을 반환합니다.
//
// headers에는 content-type, host, x-amz-target이 포함되어야 하며 x-amz-date는 t로부터 채워집니다.
func (s *Signer) Sign(method, path string, headers map[string]string, payload []byte, t time.Time) SignedRequest {
	t = t.UTC()
	amzDate := t.Format(amzDateFormat)
	scopeDate := t.Format(scopeDateFormat)

	signed := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		signed[strings.ToLower(k)] = strings.TrimSpace(v)
	}
	signed["x-amz-date"] = amzDate

	names := make([]string, 0, len(signed))
	for k := range signed {
		names = append(names, k)
	}
	slices.Sort(names)

	var canonicalHeaders strings.Builder
	for _, name := range names {
		canonicalHeaders.WriteString(name)
		canonicalHeaders.WriteByte(':')
		canonicalHeaders.WriteString(signed[name])
		canonicalHeaders.WriteByte('\n')
	}
	signedHeaders := strings.Join(names, ";")

	canonicalRequest := strings.Join([]string{
		method,
		path,
		"",
		canonicalHeaders.String(),
		signedHeaders,
		hashHex(payload),
	}, "\n")

	scope := strings.Join([]string{scopeDate, s.signingRegion, s.service, scopeTerminator}, "/")

	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		scope,
		hashHex([]byte(canonicalRequest)),
	}, "\n")

	signature := hex.EncodeToString(hmacSHA256(s.signingKey(scopeDate), []byte(stringToSign)))

	return SignedRequest{
		Method:          method,
		Path:            path,
		Payload:         payload,
		Timestamp:       amzDate,
		CredentialScope: scope,
		SignedHeaders:   signedHeaders,
		Signature:       signature,
		Authorization:   signingAlgorithm + " Credential=" + s.accessKey + "/" + scope + ", SignedHeaders=" + signedHeaders + ", Signature=" + signature,
		Headers:         signed,
	}
}

func (s *Signer) signingKey(scopeDate string) []byte {
	k := hmacSHA256([]byte("AWS4"+s.secretKey), []byte(scopeDate))
	k = hmacSHA256(k, []byte(s.signingRegion))
	k = hmacSHA256(k, []byte(s.service))
	return hmacSHA256(k, []byte(scopeTerminator))
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
