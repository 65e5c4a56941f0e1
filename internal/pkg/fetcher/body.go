package fetcher

import (
	"fmt"
	"io"
	"sync"
)

// maxDrainBytes 커넥션 재사용을 위해 버릴 최대 본문 크기. 이보다 크면 그냥 닫는다.
const maxDrainBytes = 64 * 1024

var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}

// DrainAndClose 응답 본문을 비우고 닫습니다.
func DrainAndClose(body io.ReadCloser) {
	drainAndCloseBody(body)
}

// ReadBody 본문을 최대 limit 바이트까지 읽고 닫습니다. limit를 초과하면 에러를 반환합니다.
func ReadBody(body io.ReadCloser, limit int64) ([]byte, error) {
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("응답 본문이 허용 크기(%d bytes)를 초과했습니다", limit)
	}
	return data, nil
}
