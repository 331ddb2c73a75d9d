package search

import (
	"net/url"
	"testing"
)

func TestParseOptionalInt(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"", nil},
		{"abc", nil},
		{"7.5", nil},
		{"75", intPtr(75)},
		{"0", intPtr(0)},
		{"-3", intPtr(-3)},
	}
	for _, tt := range tests {
		got := ParseOptionalInt(tt.in)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("ParseOptionalInt(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("ParseOptionalInt(%q) = %d, want %d", tt.in, *got, *tt.want)
		}
	}
}

func TestParseOptionalBool(t *testing.T) {
	if got := ParseOptionalBool("whatever", false); got != nil {
		t.Errorf("absent param should be nil, got %v", *got)
	}
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"True", true},
		{"TRUE", true},
		{"false", false},
		{"1", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		got := ParseOptionalBool(tt.in, true)
		if got == nil {
			t.Errorf("ParseOptionalBool(%q, true) = nil, want %v", tt.in, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("ParseOptionalBool(%q, true) = %v, want %v", tt.in, *got, tt.want)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("2", 1); got != 2 {
		t.Errorf("ParseIntDefault(2) = %d, want 2", got)
	}
	if got := ParseIntDefault("abc", 1); got != 1 {
		t.Errorf("ParseIntDefault(abc) = %d, want 1", got)
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(75, 1, 50); got != 50 {
		t.Errorf("ClampInt(75) = %d, want 50", got)
	}
	if got := ClampInt(0, 1, 50); got != 1 {
		t.Errorf("ClampInt(0) = %d, want 1", got)
	}
	if got := ClampInt(10, 1, 50); got != 10 {
		t.Errorf("ClampInt(10) = %d, want 10", got)
	}
	if got := ClampMin(0, 1); got != 1 {
		t.Errorf("ClampMin(0, 1) = %d, want 1", got)
	}
}

func TestParseRequestBocha(t *testing.T) {
	q := url.Values{}
	q.Set("query", "golang")
	q.Set("freshness", "oneWeek")
	q.Set("summary", "True")
	q.Set("count", "20")
	q.Set("page", "abc")

	req := ParseRequest(EngineBocha, q)
	if req.Query != "golang" {
		t.Errorf("Query = %q", req.Query)
	}
	if req.Freshness != "oneWeek" {
		t.Errorf("Freshness = %q", req.Freshness)
	}
	if req.Summary == nil || !*req.Summary {
		t.Errorf("Summary = %v, want true", req.Summary)
	}
	if req.Count == nil || *req.Count != 20 {
		t.Errorf("Count = %v, want 20", req.Count)
	}
	// 解析失败静默回退为未设置
	if req.Page != nil {
		t.Errorf("Page = %v, want nil", *req.Page)
	}
}

func TestParseRequestBochaSummaryThreeState(t *testing.T) {
	// 缺席
	req := ParseRequest(EngineBocha, url.Values{"query": {"x"}})
	if req.Summary != nil {
		t.Errorf("absent summary should stay unset, got %v", *req.Summary)
	}
	// 显式 false
	req = ParseRequest(EngineBocha, url.Values{"query": {"x"}, "summary": {"false"}})
	if req.Summary == nil || *req.Summary {
		t.Errorf("explicit false summary = %v", req.Summary)
	}
	// 出现但为空值同样是显式 false
	req = ParseRequest(EngineBocha, url.Values{"query": {"x"}, "summary": {""}})
	if req.Summary == nil || *req.Summary {
		t.Errorf("empty-valued summary = %v", req.Summary)
	}
}

func TestParseRequestSearXNG(t *testing.T) {
	q := url.Values{}
	q.Set("query", "climate policy")
	req := ParseRequest(EngineSearXNG, q)
	if req.Language != "auto" {
		t.Errorf("default language = %q, want auto", req.Language)
	}
	if req.SafeSearch != 1 {
		t.Errorf("default safesearch = %d, want 1", req.SafeSearch)
	}
	if req.Count != nil {
		t.Errorf("count should be unset")
	}

	q.Set("engines", "google,bing")
	q.Set("language", "zh-CN")
	q.Set("safesearch", "oops")
	q.Set("time_range", "week")
	q.Set("count", "3")
	req = ParseRequest(EngineSearXNG, q)
	if req.Engines != "google,bing" || req.Language != "zh-CN" || req.TimeRange != "week" {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.SafeSearch != 1 {
		t.Errorf("unparsable safesearch = %d, want default 1", req.SafeSearch)
	}
	if req.Count == nil || *req.Count != 3 {
		t.Errorf("Count = %v, want 3", req.Count)
	}
}

func TestParseRequestGeneralVariant(t *testing.T) {
	req := ParseRequest("search_pro", url.Values{"query": {"x"}})
	if req.EngineVariant != "search_pro" {
		t.Errorf("EngineVariant = %q, want search_pro", req.EngineVariant)
	}
}

func intPtr(v int) *int { return &v }
