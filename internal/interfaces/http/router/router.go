// Package router lays out the HTTP surface: health checks, the public storefront
// and the JWT-guarded back-office API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Area is a set of routes sharing a path prefix and middleware, such as the
// catalog admin or the storefront pages.
type Area struct {
	Name   string
	Prefix string
	guards []gin.HandlerFunc
	routes []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewArea(name, prefix string) *Area {
	return &Area{Name: name, Prefix: prefix}
}

// Guard adds middleware in front of every route of the area. Nil guards are
// ignored so optional middleware can be passed unconditionally.
func (a *Area) Guard(guards ...gin.HandlerFunc) *Area {
	for _, g := range guards {
		if g != nil {
			a.guards = append(a.guards, g)
		}
	}
	return a
}

func (a *Area) Handle(method, path string, handlers ...gin.HandlerFunc) *Area {
	a.routes = append(a.routes, route{method: method, path: path, handlers: handlers})
	return a
}

func (a *Area) GET(path string, h ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodGet, path, h...)
}

func (a *Area) POST(path string, h ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodPost, path, h...)
}

func (a *Area) PUT(path string, h ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodPut, path, h...)
}

func (a *Area) PATCH(path string, h ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodPatch, path, h...)
}

func (a *Area) DELETE(path string, h ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodDelete, path, h...)
}

var standardMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// AnyExcept routes every standard method but the excluded ones to handlers.
func (a *Area) AnyExcept(path string, excluded []string, handlers ...gin.HandlerFunc) *Area {
	skip := make(map[string]bool, len(excluded))
	for _, m := range excluded {
		skip[m] = true
	}
	for _, m := range standardMethods {
		if !skip[m] {
			a.Handle(m, path, handlers...)
		}
	}
	return a
}

// Mount registers the areas on r under basePath.
func Mount(r gin.IRouter, basePath string, areas ...*Area) {
	base := r.Group(basePath)
	for _, a := range areas {
		group := base.Group(a.Prefix, a.guards...)
		for _, rt := range a.routes {
			group.Handle(rt.method, rt.path, rt.handlers...)
		}
	}
}
