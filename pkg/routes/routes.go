// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import "net/http"

// Route binds a method and pattern to a handler. Patterns use ServeMux
// wildcard syntax, e.g. "/{id}/document".
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group is a set of routes sharing a path prefix.
type Group struct {
	Prefix string
	Routes []Route
}

// Register adds every route in groups to mux as "METHOD prefix+pattern".
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		for _, r := range g.Routes {
			mux.HandleFunc(r.Method+" "+g.Prefix+r.Pattern, r.Handler)
		}
	}
}
