package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouteMatcher matches routes
type RouteMatcher interface {
	Match(r *http.Request) string
}

// MuxRouteMatcher matches routes of a mux router
type MuxRouteMatcher struct {
	Router *mux.Router
}

// Match returns the method and mux route name of a request, such as "GET url"
// The path template is used for routes without a name
func (m *MuxRouteMatcher) Match(r *http.Request) string {
	var routeMatch mux.RouteMatch
	// The Route is nil for requests handled by the NotFoundHandler
	if !m.Router.Match(r, &routeMatch) || routeMatch.Route == nil {
		return "unknown"
	}

	if routeName := routeMatch.Route.GetName(); routeName != "" {
		return r.Method + " " + routeName
	}

	if tmpl, err := routeMatch.Route.GetPathTemplate(); err == nil {
		return r.Method + " " + tmpl
	}

	return "unknown"
}
