package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. A returned error aborts the request
// and is written as the response.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written, the error of the
// request (if any) is available via xcontext.Error.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *mux.Router
	ctx context.Context

	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers inherit the values (configs, logger,
// database) of ctx.
func New(ctx context.Context) *Router {
	return &Router{mux: mux.NewRouter(), ctx: ctx}
}

// Branch returns a router sharing the same mux but with its own copy of
// middlewares, so middlewares added to the branch don't affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		ctx:     r.ctx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Handle mounts a raw http.Handler, it bypasses middlewares.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc{}, r.befores...)
	closers := append([]CloserFunc{}, r.closers...)

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		ctx, err := serve(ctx, method, befores, handler)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		}

		for _, c := range closers {
			c(ctx)
		}
	}).Methods(method)
}

func serve[Request, Response any](
	ctx context.Context, method string, befores []MiddlewareFunc, handler HandlerFunc[Request, Response],
) (context.Context, error) {
	var err error
	for _, m := range befores {
		if ctx, err = m(ctx); err != nil {
			writeError(ctx, err)
			return ctx, err
		}
	}

	req, err := parseRequest[Request](ctx, method)
	if err != nil {
		writeError(ctx, err)
		return ctx, err
	}

	resp, err := handler(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return ctx, err
	}

	writeResponse(ctx, resp)
	return ctx, nil
}
