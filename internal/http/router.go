package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
	logger     *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
	// 未注册的路径统一返回 JSON 404
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		r.logger.Debug("Endpoint not found", zap.String("method", req.Method), zap.String("path", req.URL.Path))
		writeNotFound(w)
	})
	return r
}

func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// Use appends middleware; the first one registered is the outermost.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Handler returns the mux wrapped in the registered middleware.
func (r *Router) Handler() http.Handler {
	return Chain(r.mux, r.middleware...)
}

// RegisterContactRoutes /api/contacts 列表、新增、删除、导出
func (r *Router) RegisterContactRoutes(h *ContactsHandler) {
	r.HandleHandler(contactsPath, h)
	r.HandleHandler(contactsPrefix, h)
}

func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.HandleHandler("/api/health", h)
}

// Chain applies middleware in declaration order.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		if middleware[i] == nil {
			continue
		}
		wrapped = middleware[i](wrapped)
	}
	return wrapped
}
