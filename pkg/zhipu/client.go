package zhipu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iWorld-y/search_hub/pkg/logger"
	"github.com/iWorld-y/search_hub/pkg/search"
)

const (
	apiURL      = "https://open.bigmodel.cn/api/paas/v4/web_search"
	displayName = "智谱AI"
	// maxQueryRunes 智谱AI对 search_query 的硬性长度上限，超出部分静默截断
	maxQueryRunes = 78
)

// Doer 发起 HTTP 请求的最小接口，便于测试注入假客户端
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client 智谱AI web_search 客户端
type Client struct {
	apiKey string
	client Doer
}

// NewClient 创建一个新的智谱AI客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ search.Provider = (*Client)(nil)

// Name 返回引擎展示名称
func (c *Client) Name() string { return displayName }

// webSearchRequest 智谱AI请求载荷，严格按照 API 文档的字段格式
type webSearchRequest struct {
	SearchEngine string `json:"search_engine"`
	SearchQuery  string `json:"search_query"`
}

// webSearchResponse 智谱AI的响应本身已接近统一格式，但任何字段都可能缺失，
// 这里只做宽松解码，补全交给 normalize
type webSearchResponse struct {
	ID           string          `json:"id"`
	Created      int64           `json:"created"`
	SearchIntent []search.Intent `json:"search_intent"`
	SearchResult []rawItem       `json:"search_result"`
}

type rawItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Content string `json:"content"`
	Media   string `json:"media"`
	Icon    string `json:"icon"`
	Refer   string `json:"refer"`
}

// Search 执行一次搜索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if c.apiKey == "" {
		// 密钥未配置时不发起任何网络请求
		return search.ErrorResponse("zhipuai_error", req.Query, search.ErrorItem(
			"智谱AI API配置错误",
			"智谱AI API密钥未配置。请在.env文件中设置ZHIPUAI_API_KEY环境变量。",
			displayName,
		)), nil
	}

	variant := req.EngineVariant
	if variant == "" {
		variant = search.EngineDefault
	}

	payload := webSearchRequest{
		SearchEngine: variant,
		SearchQuery:  truncateRunes(req.Query, maxQueryRunes),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}
	logger.Log.Infof("智谱AI 请求负载: %s", body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		logger.Log.Errorf("智谱AI API请求错误: %v", err)
		return c.transportError(req.Query, err), nil
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		logger.Log.Errorf("智谱AI 响应读取错误: %v", err)
		return c.transportError(req.Query, err), nil
	}
	logger.Log.Debugf("智谱AI 响应状态码: %d", res.StatusCode)

	if res.StatusCode >= 400 && res.StatusCode < 500 {
		// 上游拒绝了请求（参数校验失败等）。与其把原始错误抛给用户，
		// 不如退化为一条指向外部搜索的替代链接，保证始终有可点的结果
		logger.Log.Warnf("智谱AI 拒绝请求 (状态 %d): %s", res.StatusCode, excerpt(raw, 200))
		return c.rejectedResponse(req.Query, res.StatusCode), nil
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		err := fmt.Errorf("智谱AI api error (status %d): %s", res.StatusCode, excerpt(raw, 200))
		logger.Log.Errorf("智谱AI API请求错误: %v", err)
		return c.transportError(req.Query, err), nil
	}

	var result webSearchResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		logger.Log.Errorf("智谱AI 响应JSON解析错误: %v", err)
		return search.ErrorResponse("zhipuai_json_error", req.Query, search.ErrorItem(
			"智谱AI 响应格式错误",
			fmt.Sprintf("无法解析智谱AI的响应: %v\n原始响应: %s...", err, excerpt(raw, 500)),
			displayName,
		)), nil
	}

	return c.normalize(req.Query, variant, &result), nil
}

// normalize 防御性补全：智谱AI的响应按统一格式对待，缺什么补什么
func (c *Client) normalize(query, variant string, raw *webSearchResponse) *search.Response {
	resp := search.NewResponse("zhipuai_"+variant, query)
	if raw.ID != "" {
		resp.ID = raw.ID
	}
	if raw.Created != 0 {
		resp.Created = raw.Created
	}
	if len(raw.SearchIntent) > 0 {
		resp.SearchIntent = raw.SearchIntent
	}

	for _, it := range raw.SearchResult {
		item := search.NewItem(displayName).
			Title(it.Title).DefaultTitle("智谱AI搜索结果").
			Link(it.Link).
			Content(it.Content).DefaultContent("无可用内容").
			Media(it.Media).
			Icon(it.Icon).
			Refer(it.Refer).
			Build()
		// 内容中带图片标签的结果按图片展示
		if item.Refer == "" && strings.Contains(item.Content, "<img") {
			item.Refer = search.ReferImage
		}
		resp.SearchResult = append(resp.SearchResult, item)
	}
	return resp
}

func (c *Client) transportError(query string, err error) *search.Response {
	return search.ErrorResponse("zhipuai_error", query, search.ErrorItem(
		"智谱AI 搜索错误",
		fmt.Sprintf("请求智谱AI搜索引擎时发生错误: %v", err),
		displayName,
	))
}

// rejectedResponse 上游拒绝后的降级响应：保留 SEARCH_ALL 意图，
// 给出一条指向必应搜索同一关键词的错误结果
func (c *Client) rejectedResponse(query string, status int) *search.Response {
	resp := search.NewResponse("zhipuai_error", query)
	item := search.NewItem(displayName).
		Title("智谱AI 搜索请求被拒绝").
		Link("https://www.bing.com/search?q=" + url.QueryEscape(query)).
		Content(fmt.Sprintf("智谱AI返回了错误（状态码 %d）。点击标题使用必应搜索同样的关键词。", status)).
		Refer(search.ReferError).
		Build()
	resp.SearchResult = append(resp.SearchResult, item)
	return resp
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func excerpt(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
