package search

import (
	"net/url"
	"strconv"
	"strings"
)

// 对外暴露的引擎标识
const (
	EngineBocha   = "bochaai"
	EngineSearXNG = "searxng"
	// EngineDefault 未指定 engine 参数时使用的智谱AI基础搜索
	EngineDefault = "search_std"
)

// generalPrefix 智谱AI引擎变体共有的前缀（search_std、search_pro_sogou 等）
const generalPrefix = "search_"

// ParseRequest 从查询参数构造清洗后的请求。
// 数值参数解析失败时静默回退为未设置，由适配器默认值接管；
// 布尔参数保留三态语义：缺席 / 显式 true / 显式 false。
func ParseRequest(engine string, q url.Values) *Request {
	req := &Request{Query: q.Get("query")}

	switch engine {
	case EngineBocha:
		req.Freshness = q.Get("freshness")
		req.Summary = ParseOptionalBool(q.Get("summary"), q.Has("summary"))
		req.Count = ParseOptionalInt(q.Get("count"))
		req.Page = ParseOptionalInt(q.Get("page"))
	case EngineSearXNG:
		req.Engines = q.Get("engines")
		req.Language = q.Get("language")
		if req.Language == "" {
			req.Language = "auto"
		}
		req.SafeSearch = ParseIntDefault(q.Get("safesearch"), 1)
		req.TimeRange = q.Get("time_range")
		req.Count = ParseOptionalInt(q.Get("count"))
	default:
		req.EngineVariant = engine
	}
	return req
}

// ParseOptionalInt 解析可选整数参数，为空或无法解析时视为未设置
func ParseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// ParseIntDefault 解析整数参数，无法解析时返回默认值
func ParseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// ParseOptionalBool 三态布尔解析：参数缺席返回 nil；
// 否则只有大小写不敏感的 "true" 为 true，其余任何值都是显式 false
func ParseOptionalBool(s string, present bool) *bool {
	if !present {
		return nil
	}
	v := strings.EqualFold(s, "true")
	return &v
}

// ClampInt 把 v 收拢到闭区间 [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampMin 保证 v 不小于 lo
func ClampMin(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
