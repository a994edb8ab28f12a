package metrics

import (
	"net/http"
	"net/http/pprof"

	"github.com/nspcc-dev/mptrie/pkg/config"
	"go.uber.org/zap"
)

// NewPprofService creates a service serving runtime profiles under
// /debug/pprof/.
func NewPprofService(cfg config.BasicService, log *zap.Logger) *Service {
	if log == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return newHTTPService("Pprof", mux, cfg, log)
}
