package routerhelper

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers handlers on an httprouter.Router under a shared path prefix.
type RouteGroup struct {
	router *httprouter.Router
	prefix string
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{router: router, prefix: prefix}
}

func (rg *RouteGroup) Group(path string) *RouteGroup {
	return &RouteGroup{router: rg.router, prefix: rg.prefix + path}
}

func (rg *RouteGroup) Handle(method, path string, handle httprouter.Handle) {
	rg.router.Handle(method, rg.prefix+path, handle)
}

func (rg *RouteGroup) GET(path string, handle httprouter.Handle) {
	rg.Handle(http.MethodGet, path, handle)
}

func (rg *RouteGroup) POST(path string, handle httprouter.Handle) {
	rg.Handle(http.MethodPost, path, handle)
}

func (rg *RouteGroup) PUT(path string, handle httprouter.Handle) {
	rg.Handle(http.MethodPut, path, handle)
}

func (rg *RouteGroup) DELETE(path string, handle httprouter.Handle) {
	rg.Handle(http.MethodDelete, path, handle)
}
