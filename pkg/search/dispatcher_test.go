package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeProvider 模拟引擎适配器
type fakeProvider struct {
	name  string
	calls int
	err   error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, req *Request) (*Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return NewResponse("fake", req.Query), nil
}

func TestDispatchUnknownEngine(t *testing.T) {
	d := NewDispatcher(&fakeProvider{name: "智谱AI"}, map[string]Provider{}, nil)
	_, err := d.Dispatch(context.Background(), "google", &Request{Query: "x"})
	if !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("err = %v, want ErrUnknownEngine", err)
	}
}

func TestDispatchNamedEngine(t *testing.T) {
	bocha := &fakeProvider{name: "Bocha AI"}
	d := NewDispatcher(&fakeProvider{name: "智谱AI"}, map[string]Provider{EngineBocha: bocha}, nil)

	resp, err := d.Dispatch(context.Background(), EngineBocha, &Request{Query: "x"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if resp == nil || bocha.calls != 1 {
		t.Errorf("bocha calls = %d, want 1", bocha.calls)
	}
}

func TestDispatchGeneralVariants(t *testing.T) {
	general := &fakeProvider{name: "智谱AI"}
	d := NewDispatcher(general, map[string]Provider{}, nil)

	// search_ 前缀的任意变体都路由到通用适配器
	for _, engine := range []string{"search_std", "search_pro", "search_pro_sogou"} {
		if _, err := d.Dispatch(context.Background(), engine, &Request{Query: "x"}); err != nil {
			t.Errorf("Dispatch(%s) error = %v", engine, err)
		}
	}
	if general.calls != 3 {
		t.Errorf("general calls = %d, want 3", general.calls)
	}
}

func TestDispatchProviderError(t *testing.T) {
	boom := fmt.Errorf("boom")
	general := &fakeProvider{name: "智谱AI", err: boom}
	d := NewDispatcher(general, map[string]Provider{}, nil)

	_, err := d.Dispatch(context.Background(), EngineDefault, &Request{Query: "x"})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if pe.Provider != "智谱AI" {
		t.Errorf("Provider = %q", pe.Provider)
	}
	if !errors.Is(err, boom) {
		t.Error("ProviderError should unwrap to the original error")
	}
}
