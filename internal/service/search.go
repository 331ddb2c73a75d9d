package service

import (
	"encoding/json"
	"errors"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/search_hub/pkg/search"
)

// SearchService 对外暴露搜索 API：解析并清洗查询参数、
// 分发给引擎适配器、把统一响应编码回调用方
type SearchService struct {
	dispatcher *search.Dispatcher
	log        *log.Helper
}

func NewSearchService(dispatcher *search.Dispatcher, logger log.Logger) *SearchService {
	return &SearchService{
		dispatcher: dispatcher,
		log:        log.NewHelper(logger),
	}
}

// errorBody 非 2xx 响应的 JSON 负载
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandleSearch 处理 GET /api/search。
// 任何可解析的结局（包括引擎侧的软失败）都返回 200 和统一信封；
// 只有非法引擎、空查询和适配器兜不住的失败返回非 2xx。
func (s *SearchService) HandleSearch(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	engine := q.Get("engine")
	if engine == "" {
		engine = search.EngineDefault
	}

	if query == "" {
		writeJSON(w, nethttp.StatusBadRequest, errorBody{Error: "搜索查询不能为空"})
		return
	}

	s.log.Infof("发送搜索请求: %s, 搜索引擎: %s", query, engine)

	req := search.ParseRequest(engine, q)
	resp, err := s.dispatcher.Dispatch(r.Context(), engine, req)
	if err != nil {
		var pe *search.ProviderError
		switch {
		case errors.Is(err, search.ErrUnknownEngine):
			writeJSON(w, nethttp.StatusBadRequest, errorBody{Error: "无效的搜索引擎: " + engine})
		case errors.As(err, &pe):
			s.log.Errorf("%s 搜索API错误: %v", pe.Provider, pe.Err)
			writeJSON(w, nethttp.StatusInternalServerError, errorBody{
				Error:   pe.Provider + " 搜索请求失败",
				Message: pe.Err.Error(),
			})
		default:
			s.log.Errorf("搜索API错误: %v", err)
			writeJSON(w, nethttp.StatusInternalServerError, errorBody{
				Error:   "搜索请求失败",
				Message: err.Error(),
			})
		}
		return
	}

	writeJSON(w, nethttp.StatusOK, resp)
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
