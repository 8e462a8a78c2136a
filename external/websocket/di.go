package websocket

import (
	"github.com/foxseedlab/tsuyaku/internal/config"
	"github.com/foxseedlab/tsuyaku/internal/metrics"
	"github.com/foxseedlab/tsuyaku/internal/pipeline"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		p := do.MustInvoke[*pipeline.Pipeline](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		return NewServer(ServerConfig{
			Address:        cfg.ListenAddr(),
			Path:           cfg.WebSocketPath,
			MetricsEnabled: cfg.MetricsEnabled,
		}, p, m), nil
	})
}
