// Package routes declares HTTP routes as data so domain handlers can expose
// their endpoints without owning a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Walk calls fn with the ServeMux pattern of every route in g and its children.
func (g Group) Walk(fn func(pattern string, handler http.HandlerFunc)) {
	g.walk("", fn)
}

func (g Group) walk(parent string, fn func(string, http.HandlerFunc)) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		fn(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range g.Children {
		child.walk(prefix, fn)
	}
}

// Patterns lists the ServeMux patterns registered by g in declaration order.
func (g Group) Patterns() []string {
	var patterns []string
	g.Walk(func(pattern string, _ http.HandlerFunc) {
		patterns = append(patterns, pattern)
	})
	return patterns
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		group.Walk(func(pattern string, handler http.HandlerFunc) {
			mux.HandleFunc(pattern, handler)
		})
	}
}
