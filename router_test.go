package fastagi

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handlerNamed(name string, calls *[]string) AGIHandler {
	return HandlerFunc(func(_ context.Context, _ *Connection, _ *AGIRequest) error {
		*calls = append(*calls, name)
		return nil
	})
}

// isDefaultFallback reports whether handler is the router's own built-in
// fallback. Go handler values are funcs, which == can't compare (and
// reflect.DeepEqual never considers two non-nil funcs equal), so this
// compares the underlying code pointer instead.
func isDefaultFallback(handler AGIHandler) bool {
	hf, ok := handler.(HandlerFunc)
	if !ok {
		return false
	}
	want, ok := fallbackHandler.(HandlerFunc)
	if !ok {
		return false
	}
	return reflect.ValueOf(hf).Pointer() == reflect.ValueOf(want).Pointer()
}

func TestRouter_WildcardScenario(t *testing.T) {
	var calls []string
	r := NewRouter().
		Route("/a/:u/*", handlerNamed("wildcard", &calls)).
		Route("/a/b", handlerNamed("literal", &calls))

	handler, captures, wildcard := r.dispatch("/a/b/c")
	require.NoError(t, handler.Handle(context.Background(), nil, &AGIRequest{}))
	assert.Equal(t, []string{"wildcard"}, calls)
	assert.Equal(t, "b", captures["u"])
	require.NotNil(t, wildcard)
	assert.Equal(t, "c", *wildcard)

	calls = nil
	handler, _, wildcard = r.dispatch("/a/b")
	require.NoError(t, handler.Handle(context.Background(), nil, &AGIRequest{}))
	assert.Equal(t, []string{"literal"}, calls)
	assert.Nil(t, wildcard)
}

func TestRouter_FirstMatchWins(t *testing.T) {
	var calls []string
	r := NewRouter().
		Route("/a/:x", handlerNamed("first", &calls)).
		Route("/a/:x", handlerNamed("second", &calls))

	handler, _, _ := r.dispatch("/a/1")
	require.NoError(t, handler.Handle(context.Background(), nil, &AGIRequest{}))
	assert.Equal(t, []string{"first"}, calls)
}

func TestRouter_Fallback(t *testing.T) {
	r := NewRouter().Route("/known", handlerNamed("known", &[]string{}))
	handler, captures, wildcard := r.dispatch("/unknown")
	assert.True(t, isDefaultFallback(handler))
	assert.Empty(t, captures)
	assert.Nil(t, wildcard)
}

func TestRouter_EmptyPathMatchesOnlyEmptyPattern(t *testing.T) {
	var calls []string
	r := NewRouter().Route("/", handlerNamed("root", &calls))
	handler, _, _ := r.dispatch("/")
	require.NoError(t, handler.Handle(context.Background(), nil, &AGIRequest{}))
	assert.Equal(t, []string{"root"}, calls)

	calls = nil
	r2 := NewRouter().Route("/a", handlerNamed("a", &calls))
	handler, _, _ = r2.dispatch("/")
	assert.True(t, isDefaultFallback(handler))
}

func TestRouter_TrailingWildcardNoSegmentDoesNotMatch(t *testing.T) {
	r := NewRouter().Route("/a/*", handlerNamed("wild", &[]string{}))
	handler, _, _ := r.dispatch("/a")
	assert.True(t, isDefaultFallback(handler))
}

func TestRouter_TrailingWildcardEmptySegmentMatchesOnTrailingSlash(t *testing.T) {
	r := NewRouter().Route("/a/*", handlerNamed("wild", &[]string{}))
	handler, _, wildcard := r.dispatch("/a/")
	assert.False(t, isDefaultFallback(handler))
	require.NotNil(t, wildcard)
	assert.Equal(t, "", *wildcard)
}

func TestRouter_ConstructionPanicsOnBadPattern(t *testing.T) {
	assert.Panics(t, func() { NewRouter().Route("", handlerNamed("x", &[]string{})) })
	assert.Panics(t, func() { NewRouter().Route("no-leading-slash", handlerNamed("x", &[]string{})) })
}

func TestRouter_MergeKeepsFirstFallback(t *testing.T) {
	var fallbackCalls []string
	customFallback := handlerNamed("custom-fallback", &fallbackCalls)

	r1 := NewRouter().Fallback(customFallback)
	r2 := NewRouter().Route("/x", handlerNamed("x", &[]string{}))
	r1.Merge(r2)

	handler, _, _ := r1.dispatch("/nope")
	require.NoError(t, handler.Handle(context.Background(), nil, &AGIRequest{}))
	assert.Equal(t, []string{"custom-fallback"}, fallbackCalls)
	assert.False(t, isDefaultFallback(handler))
}

func TestRouter_LayerOnlyWrapsAlreadyInstalledRoutes(t *testing.T) {
	var order []string
	layer := LayerFunc(func(h AGIHandler) AGIHandler {
		return HandlerFunc(func(ctx context.Context, conn *Connection, req *AGIRequest) error {
			order = append(order, "layered")
			return h.Handle(ctx, conn, req)
		})
	})

	r := NewRouter().Route("/before", handlerNamed("before", &order))
	r.Layer(layer)
	r.Route("/after", handlerNamed("after", &order))

	handler, _, _ := r.dispatch("/before")
	require.NoError(t, handler.Handle(context.Background(), nil, &AGIRequest{}))
	assert.Equal(t, []string{"layered", "before"}, order)

	order = nil
	handler, _, _ = r.dispatch("/after")
	require.NoError(t, handler.Handle(context.Background(), nil, &AGIRequest{}))
	assert.Equal(t, []string{"after"}, order)
}
