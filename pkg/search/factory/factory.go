package factory

import (
	"golang.org/x/time/rate"

	"github.com/iWorld-y/search_hub/pkg/bocha"
	"github.com/iWorld-y/search_hub/pkg/config"
	"github.com/iWorld-y/search_hub/pkg/search"
	"github.com/iWorld-y/search_hub/pkg/searxng"
	"github.com/iWorld-y/search_hub/pkg/zhipu"
)

// New 根据配置构造全部引擎适配器并装配分发器。
// 密钥或主机地址缺失不算错误：对应适配器会在被调用时
// 返回配置错误信封，其余引擎不受影响。
func New(cfg *config.Config) *search.Dispatcher {
	named := map[string]search.Provider{
		search.EngineBocha:   bocha.NewClient(cfg.Bocha.APIKey),
		search.EngineSearXNG: searxng.NewClient(cfg.SearXNG.BaseURL, cfg.SearXNG.Timeout),
	}
	general := zhipu.NewClient(cfg.Zhipu.APIKey)

	var limiter *rate.Limiter
	if cfg.Concurrency.RPM > 0 {
		burst := cfg.Concurrency.QPS
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.Concurrency.RPM)/60.0), burst)
	}

	return search.NewDispatcher(general, named, limiter)
}
