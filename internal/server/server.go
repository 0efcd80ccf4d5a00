// package server contains middleware & handlers for the reupload HTTP API
package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the reupload service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                 // Use adds middleware to the router's middleware stack
	Handle(pattern string, h http.Handler)        // Handle registers a handler for a "METHOD /path" pattern
	Handler(handler Handler)                      // Handler registers a custom Handler implementation
	ServeHTTP(http.ResponseWriter, *http.Request) // ServeHTTP implements http.Handler for the entire router
}
