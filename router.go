package fastagi

import (
	"fmt"
	"strings"
)

// segmentKind tags how one pattern segment matches a URL path segment.
type segmentKind int

const (
	segLiteral segmentKind = iota
	segCapture
	segWildcard
)

// routeSegment is one compiled element of a route pattern.
type routeSegment struct {
	kind segmentKind
	// value is the literal text for segLiteral, the bound name for
	// segCapture and segWildcard.
	value string
}

// compilePattern compiles a `/`-separated route pattern into its segment
// list. A segment is a literal, a capture `:name`, or a terminal wildcard
// `*` / `*[name]`. An empty pattern or one that does not start with `/` is
// a construction-time misuse and panics deliberately: a bad pattern is a
// programming error to catch at startup, not a condition to recover from
// per request.
func compilePattern(pattern string) []routeSegment {
	if pattern == "" || pattern[0] != '/' {
		panic(fmt.Sprintf("fastagi: route pattern %q must be non-empty and start with \"/\"", pattern))
	}

	rest := strings.TrimPrefix(pattern, "/")
	if rest == "" {
		return nil
	}

	parts := strings.Split(rest, "/")
	segments := make([]routeSegment, 0, len(parts))
	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				panic(fmt.Sprintf("fastagi: wildcard segment must be the last segment in pattern %q", pattern))
			}
			name := strings.TrimPrefix(part, "*")
			name = strings.TrimPrefix(name, "[")
			name = strings.TrimSuffix(name, "]")
			segments = append(segments, routeSegment{kind: segWildcard, value: name})
		case strings.HasPrefix(part, ":"):
			segments = append(segments, routeSegment{kind: segCapture, value: strings.TrimPrefix(part, ":")})
		default:
			segments = append(segments, routeSegment{kind: segLiteral, value: part})
		}
	}
	return segments
}

// splitURLSegments splits a FastAGI URL path into its segments. A path of
// "" or "/" has no segments, matched only by an empty pattern; a trailing
// "/" produces a trailing empty-string segment, which is how a wildcard at
// the end of the path is allowed to bind the empty string.
func splitURLSegments(path string) []string {
	rest := strings.TrimPrefix(path, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// matchPattern walks segments against urlSegments pairwise. Literal
// segments must equal; captures bind unconditionally; a wildcard consumes
// every remaining URL segment (joined by "/") provided the URL supplies at
// least one segment to pair with the wildcard's position — including an
// empty one produced by a trailing slash. The capture must include
// the URL segment at the wildcard's own position to be included in the
// capture, not just segments strictly after it.
func matchPattern(segments []routeSegment, urlSegments []string) (map[string]string, *string, bool) {
	captures := make(map[string]string)
	i := 0
	for ; i < len(segments); i++ {
		seg := segments[i]
		if seg.kind == segWildcard {
			if i >= len(urlSegments) {
				return nil, nil, false
			}
			remainder := strings.Join(urlSegments[i:], "/")
			return captures, &remainder, true
		}
		if i >= len(urlSegments) {
			return nil, nil, false
		}
		switch seg.kind {
		case segLiteral:
			if urlSegments[i] != seg.value {
				return nil, nil, false
			}
		case segCapture:
			captures[seg.value] = urlSegments[i]
		}
	}
	if i != len(urlSegments) {
		return nil, nil, false
	}
	return captures, nil, true
}

type routeEntry struct {
	pattern  string
	segments []routeSegment
	handler  AGIHandler
}

// Router chooses a handler for a dispatched request: an ordered sequence
// of routes plus a fallback. The zero value is not
// usable; construct with NewRouter.
type Router struct {
	routes   []routeEntry
	fallback AGIHandler
}

// NewRouter returns an empty Router whose fallback sends
// VERBOSE "Route not found".
func NewRouter() *Router {
	return &Router{fallback: fallbackHandler}
}

// Route registers pattern → handler. Routes are evaluated in insertion
// order; the first match wins.
func (r *Router) Route(pattern string, handler AGIHandler) *Router {
	r.routes = append(r.routes, routeEntry{
		pattern:  pattern,
		segments: compilePattern(pattern),
		handler:  handler,
	})
	return r
}

// Fallback replaces the handler used when no route matches.
func (r *Router) Fallback(handler AGIHandler) *Router {
	r.fallback = handler
	return r
}

// Merge appends other's routes after r's own. r's fallback is kept.
func (r *Router) Merge(other *Router) *Router {
	r.routes = append(r.routes, other.routes...)
	return r
}

// Layer rewraps every route currently installed with l.Wrap. It does not
// touch the fallback, and it does not affect routes added after this call
// — that ordering is intentional and observable.
func (r *Router) Layer(l Layer) *Router {
	for i := range r.routes {
		r.routes[i].handler = l.Wrap(r.routes[i].handler)
	}
	return r
}

// dispatch resolves a URL path to a handler, its captures, and an optional
// wildcard remainder.
func (r *Router) dispatch(urlPath string) (AGIHandler, map[string]string, *string) {
	segments := splitURLSegments(urlPath)
	for _, route := range r.routes {
		if captures, wildcard, ok := matchPattern(route.segments, segments); ok {
			return route.handler, captures, wildcard
		}
	}
	return r.fallback, map[string]string{}, nil
}
