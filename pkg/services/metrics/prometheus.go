package metrics

import (
	"github.com/nspcc-dev/mptrie/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewPrometheusService creates a service exposing trie metrics registered in
// the default prometheus registry.
func NewPrometheusService(cfg config.BasicService, log *zap.Logger) *Service {
	if log == nil {
		return nil
	}
	handler := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(log.Named("prometheus")),
	})
	return newHTTPService("Prometheus", handler, cfg, log)
}
