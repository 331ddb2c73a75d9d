package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

// ErrUnknownEngine 引擎标识不在注册表中，也不是智谱AI的引擎变体
var ErrUnknownEngine = errors.New("无效的搜索引擎")

// ProviderError 适配器内部未兜住的失败，携带引擎展示名供上层组装错误响应
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s 搜索请求失败: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Dispatcher 按引擎标识把请求分发给对应的适配器。
// search_ 前缀的标识视为智谱AI的引擎变体，统一路由到通用适配器。
type Dispatcher struct {
	general Provider
	named   map[string]Provider
	limiter *rate.Limiter
}

// NewDispatcher 创建分发器。limiter 可为 nil，表示不限制出站调用频率。
func NewDispatcher(general Provider, named map[string]Provider, limiter *rate.Limiter) *Dispatcher {
	return &Dispatcher{
		general: general,
		named:   named,
		limiter: limiter,
	}
}

func (d *Dispatcher) resolve(engine string) (Provider, bool) {
	if p, ok := d.named[engine]; ok {
		return p, true
	}
	if strings.HasPrefix(engine, generalPrefix) && d.general != nil {
		return d.general, true
	}
	return nil, false
}

// Dispatch 校验引擎标识并调用对应适配器。
// 适配器返回的硬错误会包装为 ProviderError 向上传递，
// 调用方据此返回服务端错误状态。
func (d *Dispatcher) Dispatch(ctx context.Context, engine string, req *Request) (*Response, error) {
	p, ok := d.resolve(engine)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, engine)
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, &ProviderError{Provider: p.Name(), Err: err}
		}
	}

	resp, err := p.Search(ctx, req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}
	return resp, nil
}
