// Package router dispatches chat input to handlers by ordered regular
// expression matching. The first matching route wins; unmatched input
// falls through to a fallback handler.
package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
)

// HandlerFunc handles one chat input. matches holds the capture groups of
// the route's pattern (index 0 is the full match).
type HandlerFunc func(ctx context.Context, matches []string) (string, error)

// FallbackFunc handles input no route matched.
type FallbackFunc func(ctx context.Context, input string) (string, error)

type route struct {
	name    string
	pattern *regexp.Regexp
	handler HandlerFunc
}

// Router matches input against registered routes in registration order.
type Router struct {
	routes   []route
	fallback FallbackFunc
	logger   *slog.Logger
}

// New returns an empty Router. A nil logger disables logging.
func New(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Router{logger: logger}
}

// Handle registers a route. The name identifies the route in logs, the
// pattern is compiled case-insensitively. Panics on an invalid pattern,
// mirroring regexp.MustCompile: routes are wired at startup from
// literals, not user input.
func (r *Router) Handle(name, pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, route{
		name:    name,
		pattern: regexp.MustCompile("(?i)" + pattern),
		handler: handler,
	})
}

// Fallback registers the handler for input no route matches.
func (r *Router) Fallback(handler FallbackFunc) {
	r.fallback = handler
}

// Dispatch routes the input to the first matching handler.
func (r *Router) Dispatch(ctx context.Context, input string) (string, error) {
	for _, rt := range r.routes {
		matches := rt.pattern.FindStringSubmatch(input)
		if matches == nil {
			continue
		}
		r.logger.DebugContext(ctx, "route matched", "route", rt.name)
		return rt.handler(ctx, matches)
	}
	if r.fallback != nil {
		r.logger.DebugContext(ctx, "no route matched, using fallback")
		return r.fallback(ctx, input)
	}
	return "", fmt.Errorf("dispatch: no route matched and no fallback registered")
}

// Routes returns the registered route names in order.
func (r *Router) Routes() []string {
	names := make([]string, len(r.routes))
	for i, rt := range r.routes {
		names[i] = rt.name
	}
	return names
}
