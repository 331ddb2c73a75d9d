package search

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewResponse 构造一个新的统一响应信封：引擎前缀的唯一 id、
// 当前时间戳、一条 SEARCH_ALL 意图和空结果列表
func NewResponse(prefix, query string) *Response {
	return &Response{
		ID:      fmt.Sprintf("%s_%s", prefix, uuid.NewString()),
		Created: time.Now().Unix(),
		SearchIntent: []Intent{{
			Query:    query,
			Intent:   IntentSearchAll,
			Keywords: query,
		}},
		SearchResult: []ResultItem{},
	}
}

// ErrorResponse 构造整体失败的信封：意图置为 SEARCH_NONE，
// 结果列表只含一条错误项
func ErrorResponse(prefix, query string, item ResultItem) *Response {
	resp := NewResponse(prefix, query)
	resp.SearchIntent[0].Intent = IntentSearchNone
	resp.SearchResult = []ResultItem{item}
	return resp
}

// ErrorItem 构造一条 refer=错误 的结果项
func ErrorItem(title, content, media string) ResultItem {
	return ResultItem{
		Title:   title,
		Link:    "#",
		Content: content,
		Media:   media,
		Refer:   ReferError,
	}
}

// HostOf 提取链接的主机名作为来源展示名；
// 链接为空、为占位符或解析不出主机时返回 fallback
func HostOf(link, fallback string) string {
	if link == "" || link == "#" {
		return fallback
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return fallback
	}
	return u.Host
}

// ItemBuilder 逐步装配一条搜索结果。Build 为缺失字段填充默认值，
// 保证六个基础字段全部就位，不会有半成品逃逸。
type ItemBuilder struct {
	item           ResultItem
	defaultTitle   string
	defaultContent string
	fallbackMedia  string
	markup         strings.Builder
}

// NewItem 创建构造器；fallbackMedia 是无法从链接推断来源时的兜底展示名
func NewItem(fallbackMedia string) *ItemBuilder {
	return &ItemBuilder{fallbackMedia: fallbackMedia}
}

func (b *ItemBuilder) Title(s string) *ItemBuilder {
	b.item.Title = s
	return b
}

// DefaultTitle 设置标题缺失时的填充值
func (b *ItemBuilder) DefaultTitle(s string) *ItemBuilder {
	b.defaultTitle = s
	return b
}

func (b *ItemBuilder) Link(s string) *ItemBuilder {
	b.item.Link = s
	return b
}

func (b *ItemBuilder) Content(s string) *ItemBuilder {
	b.item.Content = s
	return b
}

// DefaultContent 设置正文缺失时的填充值
func (b *ItemBuilder) DefaultContent(s string) *ItemBuilder {
	b.defaultContent = s
	return b
}

func (b *ItemBuilder) Media(s string) *ItemBuilder {
	b.item.Media = s
	return b
}

func (b *ItemBuilder) Icon(s string) *ItemBuilder {
	b.item.Icon = s
	return b
}

func (b *ItemBuilder) Refer(s string) *ItemBuilder {
	b.item.Refer = s
	return b
}

// AddImage 在正文尾部追加内嵌图片标签，src 为空时跳过
func (b *ItemBuilder) AddImage(src, alt string) *ItemBuilder {
	if src != "" {
		fmt.Fprintf(&b.markup, `<br><img src="%s" alt="%s" style="max-width:200px;">`, src, alt)
	}
	return b
}

// AddNote 在正文尾部追加一行次要元数据注解，value 为空时跳过
func (b *ItemBuilder) AddNote(label, value string) *ItemBuilder {
	if value != "" {
		fmt.Fprintf(&b.markup, "<br><small>%s: %s</small>", label, value)
	}
	return b
}

// AddLine 在正文尾部追加一行原样文本
func (b *ItemBuilder) AddLine(text string) *ItemBuilder {
	if text != "" {
		b.markup.WriteString("<br>" + text)
	}
	return b
}

// Build 产出完整的结果项：
// 标题、正文按设置的默认值兜底，链接兜底为 "#"，
// 来源缺失时从链接主机名推断、再退到 fallbackMedia
func (b *ItemBuilder) Build() ResultItem {
	item := b.item
	if item.Title == "" {
		item.Title = b.defaultTitle
		if item.Title == "" {
			item.Title = b.fallbackMedia + "搜索结果"
		}
	}
	if item.Link == "" {
		item.Link = "#"
	}
	if item.Content == "" {
		item.Content = b.defaultContent
	}
	item.Content += b.markup.String()
	if item.Media == "" {
		item.Media = HostOf(item.Link, b.fallbackMedia)
	}
	return item
}
