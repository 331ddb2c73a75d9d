package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/search_hub/pkg/logger"
	"github.com/iWorld-y/search_hub/pkg/search"
)

const (
	displayName = "SearXNG"
	// defaultMaxResults 未指定 count 时返回的结果数量上限。
	// SearXNG API 本身不支持 count 参数，截断在本地完成。
	defaultMaxResults = 10
)

// Doer 发起 HTTP 请求的最小接口，便于测试注入假客户端
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client SearXNG API 客户端
type Client struct {
	baseURL string
	client  Doer
}

// NewClient 创建一个新的 SearXNG 客户端，timeout 单位为秒
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: t},
	}
}

var _ search.Provider = (*Client)(nil)

// Name 返回引擎展示名称
func (c *Client) Name() string { return displayName }

// searchResponse SearXNG 响应结构
type searchResponse struct {
	Results         []searchResult `json:"results"`
	NumberOfResults int            `json:"number_of_results"`
	SearchTime      float64        `json:"search_time"`
	Suggestions     []string       `json:"suggestions"`
	Corrections     []string       `json:"corrections"`
	Answers         []answer       `json:"answers"`
	Infoboxes       []infobox      `json:"infoboxes"`
	Error           string         `json:"error"`
}

// searchResult SearXNG 单条结果
type searchResult struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	Engine        string   `json:"engine"`
	Template      string   `json:"template"`
	ImgSrc        string   `json:"img_src"`
	Thumbnail     string   `json:"thumbnail"`
	PublishedDate string   `json:"publishedDate"`
	Score         *float64 `json:"score"`
	Category      string   `json:"category"`
	PrettyURL     string   `json:"pretty_url"`
	ParsedURL     []string `json:"parsed_url"`
	Positions     []int    `json:"positions"`
}

type answer struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

type infobox struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Engine  string `json:"engine"`
	ImgSrc  string `json:"img_src"`
}

// Search 执行一次搜索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if c.baseURL == "" {
		// 主机地址未配置时不发起任何网络请求
		return search.ErrorResponse("searxng_error", req.Query, search.ErrorItem(
			"SearXNG API配置错误",
			"SearXNG API主机地址未配置。请在.env文件中设置SEARXNG_API_HOST环境变量。",
			displayName,
		)), nil
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return search.ErrorResponse("searxng_error", req.Query, search.ErrorItem(
			"SearXNG API配置错误",
			fmt.Sprintf("SearXNG API主机地址无效: %v", err),
			displayName,
		)), nil
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/search"

	language := req.Language
	if language == "" {
		language = "auto"
	}
	q := u.Query()
	q.Set("q", req.Query)
	q.Set("format", "json")
	q.Set("language", language)
	q.Set("safesearch", strconv.Itoa(req.SafeSearch))
	if req.Engines != "" {
		q.Set("engines", req.Engines)
	}
	if req.TimeRange != "" {
		q.Set("time_range", req.TimeRange)
	}
	u.RawQuery = q.Encode()

	maxResults := defaultMaxResults
	if req.Count != nil {
		maxResults = search.ClampMin(*req.Count, 0)
	}

	logger.Log.Infof("SearXNG 请求URL: %s", u.String())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	// 浏览器 User-Agent，避免被实例的反爬虫策略拦截
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.client.Do(httpReq)
	if err != nil {
		logger.Log.Errorf("SearXNG API请求错误: %v", err)
		return c.transportError(req.Query, err), nil
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		logger.Log.Errorf("SearXNG 响应读取错误: %v", err)
		return c.transportError(req.Query, err), nil
	}

	if res.StatusCode != http.StatusOK {
		err := fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, excerpt(raw, 200))
		logger.Log.Errorf("SearXNG API请求错误: %v", err)
		return c.transportError(req.Query, err), nil
	}

	var result searchResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		logger.Log.Errorf("SearXNG 响应JSON解析错误: %v", err)
		// 除单条错误结果外，响应信封维持原样，意图不降级
		resp := c.newEnvelope(req)
		resp.SearchResult = append(resp.SearchResult, search.ErrorItem(
			"SearXNG 响应格式错误",
			fmt.Sprintf("无法解析SearXNG的响应: %v", err),
			displayName,
		))
		return resp, nil
	}

	return c.normalize(req, maxResults, &result), nil
}

// newEnvelope 构造带 SearXNG 元数据的基础信封
func (c *Client) newEnvelope(req *search.Request) *search.Response {
	engines := req.Engines
	if engines == "" {
		engines = "default"
	}
	resp := search.NewResponse("searxng", req.Query)
	resp.Meta = map[string]any{
		"source":       displayName,
		"engines":      engines,
		"totalResults": 0,
		"time":         0.0,
	}
	return resp
}

// normalize 把 SearXNG 的响应转换为统一格式
func (c *Client) normalize(req *search.Request, maxResults int, raw *searchResponse) *search.Response {
	resp := c.newEnvelope(req)

	resp.Suggestions = raw.Suggestions
	resp.Corrections = raw.Corrections
	for _, a := range raw.Answers {
		resp.Answers = append(resp.Answers, search.NewItem(displayName).
			Title(a.Title).DefaultTitle("答案").
			Link(a.URL).
			Content(a.Content).
			Media(displayName).
			Refer(search.ReferAnswer).
			Build())
	}

	if len(raw.Results) == 0 {
		// 零结果时仍然透出建议、纠正与答案，外加一条说明性结果
		msg := "未找到搜索结果"
		if raw.Error != "" {
			msg = raw.Error
		}
		resp.SearchResult = append(resp.SearchResult, search.ResultItem{
			Title:   "SearXNG 搜索结果",
			Link:    "#",
			Content: msg,
			Media:   displayName,
		})
		return resp
	}

	for _, ib := range raw.Infoboxes {
		resp.Infoboxes = append(resp.Infoboxes, search.Infobox{
			ResultItem: search.NewItem(displayName).
				Title(ib.Title).DefaultTitle("信息框").
				Link(ib.URL).
				Content(ib.Content).
				Media(firstNonEmpty(ib.Engine, displayName)).
				Icon(ib.ImgSrc).
				Build(),
			ID:      ib.ID,
			Infobox: true,
		})
	}

	results := raw.Results
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	total := raw.NumberOfResults
	if total == 0 {
		total = len(results)
	}
	resp.Meta["totalResults"] = total
	resp.Meta["time"] = raw.SearchTime

	for _, r := range results {
		item := search.NewItem(displayName).
			Title(r.Title).DefaultTitle("SearXNG 搜索结果").
			Link(r.URL).
			Content(r.Content).
			Media(search.HostOf(r.URL, firstNonEmpty(r.Engine, displayName))).
			Refer(classifyRefer(r)).
			AddImage(firstNonEmpty(r.ImgSrc, r.Thumbnail), r.Title).
			AddNote("发布时间", r.PublishedDate).
			AddNote("搜索引擎", r.Engine).
			Build()

		// 固定白名单内的扩展字段原样透传
		item.Score = r.Score
		item.Category = r.Category
		item.PrettyURL = r.PrettyURL
		item.ParsedURL = r.ParsedURL
		item.Positions = r.Positions

		resp.SearchResult = append(resp.SearchResult, item)
	}
	return resp
}

// classifyRefer 通过模板提示和引擎名推断结果类型，首个命中生效，
// 默认为普通网页结果
func classifyRefer(r searchResult) string {
	engine := strings.ToLower(r.Engine)
	switch {
	case r.Template == "images.html" || strings.Contains(engine, "images") || r.ImgSrc != "" || r.Thumbnail != "":
		return search.ReferImage
	case r.Template == "videos.html" || strings.Contains(engine, "videos"):
		return search.ReferVideo
	case r.Template == "torrent.html" || strings.Contains(engine, "torrent"):
		return search.ReferTorrent
	case r.Template == "map.html" || strings.Contains(engine, "map"):
		return search.ReferMap
	}
	return search.ReferNone
}

func (c *Client) transportError(query string, err error) *search.Response {
	return search.ErrorResponse("searxng_error", query, search.ErrorItem(
		"SearXNG 搜索错误",
		fmt.Sprintf("请求SearXNG搜索引擎时发生错误: %v", err),
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
