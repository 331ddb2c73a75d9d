package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_hub/pkg/search"
)

// fakeProvider 模拟引擎适配器
type fakeProvider struct {
	name string
	last *search.Request
	err  error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return search.NewResponse("fake", req.Query), nil
}

func newTestService(general *fakeProvider, named map[string]search.Provider) *SearchService {
	d := search.NewDispatcher(general, named, nil)
	return NewSearchService(d, log.DefaultLogger)
}

func TestHandleSearchEmptyQuery(t *testing.T) {
	svc := newTestService(&fakeProvider{name: "智谱AI"}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/search", nil)
	svc.HandleSearch(w, r)

	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != "搜索查询不能为空" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestHandleSearchInvalidEngine(t *testing.T) {
	svc := newTestService(&fakeProvider{name: "智谱AI"}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/search?query=x&engine=google", nil)
	svc.HandleSearch(w, r)

	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "无效的搜索引擎: google" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestHandleSearchDefaultEngine(t *testing.T) {
	general := &fakeProvider{name: "智谱AI"}
	svc := newTestService(general, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/search?query=golang", nil)
	svc.HandleSearch(w, r)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if general.last == nil || general.last.Query != "golang" {
		t.Errorf("general provider not invoked with query: %+v", general.last)
	}

	var resp search.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if len(resp.SearchIntent) != 1 {
		t.Errorf("envelope intent missing: %+v", resp)
	}
}

func TestHandleSearchForwardsSanitizedParams(t *testing.T) {
	bocha := &fakeProvider{name: "Bocha AI"}
	svc := newTestService(&fakeProvider{name: "智谱AI"}, map[string]search.Provider{search.EngineBocha: bocha})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/search?query=x&engine=bochaai&count=20&summary=True&page=abc", nil)
	svc.HandleSearch(w, r)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	req := bocha.last
	if req == nil {
		t.Fatal("bocha provider not invoked")
	}
	if req.Count == nil || *req.Count != 20 {
		t.Errorf("count = %v", req.Count)
	}
	if req.Summary == nil || !*req.Summary {
		t.Errorf("summary = %v", req.Summary)
	}
	if req.Page != nil {
		t.Errorf("unparsable page should stay unset, got %v", *req.Page)
	}
}

func TestHandleSearchProviderHardError(t *testing.T) {
	general := &fakeProvider{name: "智谱AI", err: fmt.Errorf("boom")}
	svc := newTestService(general, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/search?query=x", nil)
	svc.HandleSearch(w, r)

	if w.Code != 500 {
		t.Errorf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "智谱AI 搜索请求失败" {
		t.Errorf("error = %q", body["error"])
	}
	if body["message"] != "boom" {
		t.Errorf("message = %q", body["message"])
	}
}
