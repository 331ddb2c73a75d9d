package bocha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/search_hub/pkg/logger"
	"github.com/iWorld-y/search_hub/pkg/search"
)

const (
	apiURL      = "https://api.bochaai.com/v1/web-search"
	displayName = "Bocha AI"
	// maxMediaItems 图片/视频结果最多取前几条
	maxMediaItems = 5
)

// Doer 发起 HTTP 请求的最小接口，便于测试注入假客户端
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client Bocha AI web-search 客户端
type Client struct {
	apiKey string
	client Doer
}

// NewClient 创建一个新的 Bocha AI 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ search.Provider = (*Client)(nil)

// Name 返回引擎展示名称
func (c *Client) Name() string { return displayName }

// webSearchRequest Bocha AI 请求载荷。
// 可选参数未设置时不出现在序列化结果里，由服务端默认值接管。
type webSearchRequest struct {
	Query     string `json:"query"`
	Freshness string `json:"freshness,omitempty"`
	Summary   *bool  `json:"summary,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Page      *int   `json:"page,omitempty"`
}

// 响应形态。Bocha AI 的响应按固定优先级解读：
// 网页结果 > 图片 > 视频 > 兼容性的 results 数组 > 无法识别
type responseShape int

const (
	shapeUnrecognized responseShape = iota
	shapeWebPages
	shapeImages
	shapeVideos
	shapeGeneric
)

type webSearchResponse struct {
	Data    *responseData   `json:"data"`
	Results []genericResult `json:"results"`
}

type responseData struct {
	WebPages     *webPages     `json:"webPages"`
	Images       *imageList    `json:"images"`
	Videos       *videoList    `json:"videos"`
	QueryContext *queryContext `json:"queryContext"`
}

type webPages struct {
	Value                 []webPageValue `json:"value"`
	TotalEstimatedMatches int64          `json:"totalEstimatedMatches"`
	WebSearchURL          string         `json:"webSearchUrl"`
	SomeResultsRemoved    bool           `json:"someResultsRemoved"`
}

type webPageValue struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet"`
	Summary       string `json:"summary"`
	SiteName      string `json:"siteName"`
	DisplayURL    string `json:"displayUrl"`
	DatePublished string `json:"datePublished"`
	Language      string `json:"language"`
}

type imageList struct {
	Value []imageValue `json:"value"`
}

type imageValue struct {
	Name               string `json:"name"`
	ContentURL         string `json:"contentUrl"`
	HostPageURL        string `json:"hostPageUrl"`
	HostPageDisplayURL string `json:"hostPageDisplayUrl"`
	ThumbnailURL       string `json:"thumbnailUrl"`
	DatePublished      string `json:"datePublished"`
}

type videoList struct {
	Value []videoValue `json:"value"`
}

type videoValue struct {
	Name          string      `json:"name"`
	ContentURL    string      `json:"contentUrl"`
	HostPageURL   string      `json:"hostPageUrl"`
	ThumbnailURL  string      `json:"thumbnailUrl"`
	Description   string      `json:"description"`
	Duration      string      `json:"duration"`
	DatePublished string      `json:"datePublished"`
	Publisher     []publisher `json:"publisher"`
}

type publisher struct {
	Name string `json:"name"`
}

type queryContext struct {
	OriginalQuery string `json:"originalQuery"`
}

// genericResult 非标准回复的兼容格式
type genericResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// classify 按优先级识别响应形态。只判定一次，后续按标签分发；
// 网页结果非空即为权威，其余分支全部跳过。
func classify(r *webSearchResponse) responseShape {
	if d := r.Data; d != nil {
		switch {
		case d.WebPages != nil && len(d.WebPages.Value) > 0:
			return shapeWebPages
		case d.Images != nil && len(d.Images.Value) > 0:
			return shapeImages
		case d.Videos != nil && len(d.Videos.Value) > 0:
			return shapeVideos
		}
	}
	if len(r.Results) > 0 {
		return shapeGeneric
	}
	return shapeUnrecognized
}

// Search 执行一次搜索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if c.apiKey == "" {
		// 密钥未配置时不发起任何网络请求
		return search.ErrorResponse("bochaai_error", req.Query, search.ErrorItem(
			"Bocha AI API配置错误",
			"Bocha AI API密钥未配置。请在.env文件中设置BOCHAAI_API_KEY环境变量。",
			displayName,
		)), nil
	}

	payload := webSearchRequest{
		Query:     req.Query,
		Freshness: req.Freshness,
		Summary:   req.Summary,
	}
	if req.Count != nil {
		v := search.ClampInt(*req.Count, 1, 50)
		payload.Count = &v
	}
	if req.Page != nil {
		v := search.ClampMin(*req.Page, 1)
		payload.Page = &v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}
	logger.Log.Infof("Bocha AI 请求负载: %s", body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		logger.Log.Errorf("Bocha AI API请求错误: %v", err)
		return c.transportError(req.Query, err), nil
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		logger.Log.Errorf("Bocha AI 响应读取错误: %v", err)
		return c.transportError(req.Query, err), nil
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		err := fmt.Errorf("bocha api error (status %d): %s", res.StatusCode, excerpt(raw, 200))
		logger.Log.Errorf("Bocha AI API请求错误: %v", err)
		return c.transportError(req.Query, err), nil
	}

	var result webSearchResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		logger.Log.Errorf("Bocha AI 响应JSON解析错误: %v", err)
		return search.ErrorResponse("bochaai_json_error", req.Query, search.ErrorItem(
			"Bocha AI 响应格式错误",
			fmt.Sprintf("无法解析Bocha AI的响应: %v", err),
			displayName,
		)), nil
	}

	return c.normalize(req, &result), nil
}

// normalize 把 Bocha AI 的响应转换为统一格式
func (c *Client) normalize(req *search.Request, raw *webSearchResponse) *search.Response {
	resp := search.NewResponse("bochaai", req.Query)

	switch classify(raw) {
	case shapeWebPages:
		c.webPageResults(resp, req, raw)
	case shapeImages:
		c.imageResults(resp, raw.Data.Images.Value)
	case shapeVideos:
		c.videoResults(resp, raw.Data.Videos.Value)
	case shapeGeneric:
		c.genericResults(resp, raw.Results)
	default:
		logger.Log.Warn("未找到 Bocha AI 搜索结果字段")
		resp.SearchResult = append(resp.SearchResult, search.ErrorItem(
			"Bocha AI 搜索结果解析错误",
			"无法解析 Bocha AI 响应格式。请检查服务日志了解详情。",
			displayName,
		))
	}
	return resp
}

func (c *Client) webPageResults(resp *search.Response, req *search.Request, raw *webSearchResponse) {
	wp := raw.Data.WebPages
	resp.Meta = map[string]any{
		"totalResults":       wp.TotalEstimatedMatches,
		"source":             displayName,
		"webSearchUrl":       wp.WebSearchURL,
		"someResultsRemoved": wp.SomeResultsRemoved,
	}
	original := req.Query
	if qc := raw.Data.QueryContext; qc != nil && qc.OriginalQuery != "" {
		original = qc.OriginalQuery
	}
	resp.Meta["originalQuery"] = original

	logger.Log.Infof("找到 Bocha AI 搜索结果: %d 条，总计: %d", len(wp.Value), wp.TotalEstimatedMatches)

	for _, it := range wp.Value {
		snippet := it.Snippet
		// 用户请求了摘要且结果带有摘要时优先使用
		if it.Summary != "" && req.Summary != nil && *req.Summary {
			snippet = it.Summary
		}
		item := search.NewItem(displayName).
			Title(it.Name).DefaultTitle("Bocha AI 搜索结果").
			Link(it.URL).
			Content(snippet).
			AddNote("发布时间", it.DatePublished).
			AddNote("网站", it.SiteName).
			AddNote("语言", it.Language).
			Media(firstNonEmpty(it.SiteName, it.DisplayURL, displayName)).
			Build()
		resp.SearchResult = append(resp.SearchResult, item)
	}
}

func (c *Client) imageResults(resp *search.Response, values []imageValue) {
	if len(values) > maxMediaItems {
		values = values[:maxMediaItems]
	}
	logger.Log.Infof("找到 Bocha AI 图片结果: %d 条", len(values))

	for _, it := range values {
		title := it.Name
		if title == "" {
			title = "相关图片"
		}
		b := search.NewItem(displayName).
			Title(title).
			Link(firstNonEmpty(it.HostPageURL, it.ContentURL)).
			Content("图片内容: " + it.Name).
			AddImage(it.ThumbnailURL, title).
			Media(firstNonEmpty(it.HostPageDisplayURL, displayName)).
			Refer(search.ReferImage)
		if it.DatePublished != "" {
			b.AddLine("发布时间: " + it.DatePublished)
		}
		resp.SearchResult = append(resp.SearchResult, b.Build())
	}
}

func (c *Client) videoResults(resp *search.Response, values []videoValue) {
	if len(values) > maxMediaItems {
		values = values[:maxMediaItems]
	}
	logger.Log.Infof("找到 Bocha AI 视频结果: %d 条", len(values))

	for _, it := range values {
		title := it.Name
		if title == "" {
			title = "相关视频"
		}
		pub := ""
		if len(it.Publisher) > 0 {
			pub = it.Publisher[0].Name
		}
		content := it.Description
		if content == "" {
			content = "视频: " + title
		}
		item := search.NewItem(displayName).
			Title(title).
			Link(firstNonEmpty(it.HostPageURL, it.ContentURL)).
			Content(content).
			AddImage(it.ThumbnailURL, title).
			AddNote("发布者", pub).
			AddNote("时长", it.Duration).
			AddNote("发布时间", it.DatePublished).
			Media(firstNonEmpty(pub, displayName)).
			Refer(search.ReferVideo).
			Build()
		resp.SearchResult = append(resp.SearchResult, item)
	}
}

func (c *Client) genericResults(resp *search.Response, values []genericResult) {
	logger.Log.Infof("找到备用 results 字段: %d 条", len(values))

	for _, it := range values {
		item := search.NewItem(displayName).
			Title(it.Title).DefaultTitle("Bocha AI 搜索结果").
			Link(it.URL).
			Content(it.Snippet).
			Media(firstNonEmpty(it.Source, displayName)).
			Build()
		resp.SearchResult = append(resp.SearchResult, item)
	}
}

func (c *Client) transportError(query string, err error) *search.Response {
	return search.ErrorResponse("bochaai_error", query, search.ErrorItem(
		"Bocha AI 搜索错误",
		fmt.Sprintf("请求Bocha AI搜索引擎时发生错误: %v", err),
		displayName,
	))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func excerpt(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
