package fastagi

// Layer is middleware that wraps a handler to prepend or surround
// behavior, carrying its own state by value so it may be cloned across
// routes.
type Layer interface {
	Wrap(handler AGIHandler) AGIHandler
}

// LayerFunc adapts a plain function to Layer.
type LayerFunc func(handler AGIHandler) AGIHandler

// Wrap calls f.
func (f LayerFunc) Wrap(handler AGIHandler) AGIHandler {
	return f(handler)
}
