package metrics

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/nspcc-dev/mptrie/pkg/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func freeAddress(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestPrometheusService(t *testing.T) {
	addr := freeAddress(t)
	s := NewPrometheusService(config.BasicService{Enabled: true, Addresses: []string{addr}}, zaptest.NewLogger(t))
	s.Start()
	t.Cleanup(s.ShutDown)

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)
	require.Contains(t, string(body), "go_goroutines")
}

func TestDisabledService(t *testing.T) {
	s := NewPprofService(config.BasicService{Addresses: []string{freeAddress(t)}}, zaptest.NewLogger(t))
	s.Start()
	require.False(t, s.started)
	s.ShutDown()

	require.Nil(t, NewPrometheusService(config.BasicService{}, nil))
}
