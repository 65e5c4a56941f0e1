// Package testutil 여러 패키지의 테스트가 함께 사용하는 네트워크/TLS 헬퍼를 제공합니다.
package testutil

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const dialTimeout = 100 * time.Millisecond

// GetFreePort 루프백 인터페이스에서 사용 가능한 임의의 TCP 포트를 반환합니다.
//
// 포트를 확인한 직후 리스너를 닫으므로, 다른 프로세스가 먼저 점유할 가능성은 남아 있습니다.
func GetFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// WaitForServer 서버가 해당 포트에서 연결을 받을 때까지 대기합니다.
func WaitForServer(port int, timeout time.Duration) error {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	return fmt.Errorf("%s 포트에서 %v 이내에 서버가 시작되지 않았습니다", addr, timeout)
}

// OccupyPort 임의의 포트를 점유한 리스너를 반환합니다. 포트 충돌 상황을 재현할 때 사용합니다.
func OccupyPort() (net.Listener, int, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return nil, 0, err
	}

	return l, l.Addr().(*net.TCPAddr).Port, nil
}
