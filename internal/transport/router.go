package transport

import (
	"strings"
)

type route struct {
	prefix  string
	handler Handler
}

// Router dispatches by URI path prefix. The first registered matching
// prefix wins and the prefix is not stripped before dispatch.
type Router struct {
	routes []route
}

func NewRouter() *Router {
	return &Router{}
}

func (r *Router) Register(prefix string, handler Handler) {
	r.routes = append(r.routes, route{prefix: prefix, handler: handler})
}

func (r *Router) Match(path string) (Handler, bool) {
	for _, rt := range r.routes {
		if strings.HasPrefix(path, rt.prefix) {
			return rt.handler, true
		}
	}
	return nil, false
}

// requestPath strips the query portion of a URI for prefix matching. The
// URI handed to the handler stays untouched.
func requestPath(uri string) string {
	if idx := strings.IndexByte(uri, '?'); idx != -1 {
		return uri[:idx]
	}
	return uri
}
