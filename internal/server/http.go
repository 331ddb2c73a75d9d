package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/search_hub/internal/service"
	"github.com/iWorld-y/search_hub/pkg/config"
)

// NewHTTPServer 构造 HTTP 服务。recovery 中间件是分发器之外的
// 最后一道失败边界，适配器漏掉的 panic 在这里收口。
func NewHTTPServer(cfg *config.Config, svc *service.SearchService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if cfg.Server.Addr != "" {
		opts = append(opts, http.Address(cfg.Server.Addr))
	}
	if cfg.Server.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Server.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	srv.HandleFunc("/api/search", svc.HandleSearch)

	return srv
}
