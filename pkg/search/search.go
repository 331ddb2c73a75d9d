package search

import "context"

// 搜索意图，兼容智谱AI web_search 的取值
const (
	IntentSearchAll  = "SEARCH_ALL"  // 搜索全网
	IntentSearchNone = "SEARCH_NONE" // 搜索完全失败，无可用结果
)

// 角标类型，前端据此选择渲染模板；空串表示普通网页结果
const (
	ReferNone    = ""
	ReferImage   = "图片"
	ReferVideo   = "视频"
	ReferTorrent = "种子"
	ReferMap     = "地图"
	ReferAnswer  = "答案"
	ReferError   = "错误"
)

// Intent 单条搜索意图
type Intent struct {
	Query    string `json:"query"`
	Intent   string `json:"intent"`
	Keywords string `json:"keywords"`
}

// ResultItem 统一格式的单条搜索结果。
// 六个基础字段在任何适配器的输出中都保证就位（缺失时填充默认值）；
// content 中允许内嵌展示用的 HTML 片段（图片、发布时间等二级元数据），
// 这是跨三家引擎保持渲染一致的刻意设计，消费方依赖该格式。
type ResultItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Content string `json:"content"`
	Media   string `json:"media"`
	Icon    string `json:"icon"`
	Refer   string `json:"refer"`

	// SearXNG 透传字段，其他引擎不会填充
	Score     *float64 `json:"score,omitempty"`
	Category  string   `json:"category,omitempty"`
	PrettyURL string   `json:"pretty_url,omitempty"`
	ParsedURL []string `json:"parsed_url,omitempty"`
	Positions []int    `json:"positions,omitempty"`
}

// Infobox SearXNG 信息框，在基础结果字段之上附带来源 id
type Infobox struct {
	ResultItem
	ID      string `json:"id"`
	Infobox bool   `json:"infobox"`
}

// Response 与智谱AI兼容的统一搜索响应，每次请求独立构造、序列化后即丢弃
type Response struct {
	ID           string         `json:"id"`
	Created      int64          `json:"created"`
	SearchIntent []Intent       `json:"search_intent"`
	SearchResult []ResultItem   `json:"search_result"`
	Suggestions  []string       `json:"suggestions,omitempty"`
	Corrections  []string       `json:"corrections,omitempty"`
	Answers      []ResultItem   `json:"answers,omitempty"`
	Infoboxes    []Infobox      `json:"infoboxes,omitempty"`
	Meta         map[string]any `json:"meta,omitempty"`
}

// Request 经过清洗的搜索请求参数。指针字段区分"未设置"与显式零值，
// 博查AI对参数是否出现在载荷中有不同的语义。
type Request struct {
	Query string

	// 智谱AI的引擎变体（search_std、search_pro 等）
	EngineVariant string

	// Bocha AI
	Freshness string
	Summary   *bool
	Count     *int
	Page      *int

	// SearXNG
	Engines    string
	Language   string
	SafeSearch int
	TimeRange  string
}

// Provider 搜索引擎适配器的统一接口。
// 适配器内部兜住配置、网络与解析失败并折叠进统一响应；
// 只有连错误信封都无法构造时才返回非空 error，由分发层转为服务端错误。
type Provider interface {
	// Name 返回引擎的展示名称
	Name() string
	// Search 执行一次搜索
	Search(ctx context.Context, req *Request) (*Response, error)
}
