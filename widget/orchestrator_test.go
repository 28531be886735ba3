package widget

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"recwidget/lib/telemetry"
	"recwidget/widget/cache"
	"recwidget/widget/dom"
	"recwidget/widget/fetch"
	"recwidget/widget/render"
	"recwidget/widget/source"

	"github.com/stretchr/testify/require"
)

type backend struct {
	mu sync.Mutex

	fragBody   string
	fragStatus int
	recBody    string
	recStatus  int
	collBody   string
	collStatus int

	fragHits int
	recHits  int
	collHits int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/recommendations/fragment":
		b.fragHits++
		if b.fragStatus != 0 {
			w.WriteHeader(b.fragStatus)
			return
		}
		w.Write([]byte(b.fragBody))
	case r.URL.Path == "/recommendations/products.json":
		b.recHits++
		if b.recStatus != 0 {
			w.WriteHeader(b.recStatus)
			return
		}
		w.Write([]byte(b.recBody))
	default:
		b.collHits++
		if b.collStatus != 0 {
			w.WriteHeader(b.collStatus)
			return
		}
		w.Write([]byte(b.collBody))
	}
}

func (b *backend) counts() (frag, rec, coll int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fragHits, b.recHits, b.collHits
}

type widgetEnv struct {
	el      *dom.Element
	backend *backend
	orch    *Orchestrator
}

type envOptions struct {
	preview  bool
	renderer render.Renderer
	onError  render.ErrorHandler
}

func newWidgetEnv(t *testing.T, attrs map[string]string, opts envOptions) widgetEnv {
	cleanup := telemetry.SetupForTesting(t, "test:widget")
	t.Cleanup(cleanup)

	b := &backend{}
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)

	el := dom.NewElement()
	for name, value := range attrs {
		el.SetAttr(name, value)
	}

	store, err := cache.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	orch := New(Options{
		Element: el,
		Deps: source.Deps{
			Cache:   store,
			Fetch:   fetch.New(nil),
			BaseURL: server.URL,
		},
		Renderer: opts.renderer,
		OnError:  opts.onError,
		Preview:  opts.preview,
	})
	return widgetEnv{el: el, backend: b, orch: orch}
}

func gridAttrs() map[string]string {
	return map[string]string{
		"id":           "w1",
		AttrProductID:  "p1",
		AttrLayout:     "grid",
		AttrCollection: "frontpage",
	}
}

const twoProducts = `{"products":[{"id":"p2","title":"Mug"},{"id":"p3","title":"Plate"}]}`

func TestMissingIdentifiersFailWithoutNetwork(t *testing.T) {
	env := newWidgetEnv(t, map[string]string{AttrProductID: "p1"}, envOptions{})

	state := env.orch.Run(context.Background())
	require.Equal(t, Failed, state)

	frag, rec, coll := env.backend.counts()
	require.Zero(t, frag+rec+coll)
	require.True(t, env.el.HasClass(dom.ClassHidden))
	require.NotEmpty(t, env.el.Attr(dom.AttrError))
}

func TestMissingIdentifiersSuppressedInPreview(t *testing.T) {
	env := newWidgetEnv(t, map[string]string{"id": "w1"}, envOptions{preview: true})

	state := env.orch.Run(context.Background())
	require.Equal(t, Failed, state)
	require.False(t, env.el.HasClass(dom.ClassHidden))
	require.Empty(t, env.el.Attr(dom.AttrError))
}

func TestCompletedWidgetDoesNotRefetch(t *testing.T) {
	env := newWidgetEnv(t, gridAttrs(), envOptions{})
	env.el.SetAttr(dom.AttrLoaded, "true")

	env.orch.Run(context.Background())

	frag, rec, coll := env.backend.counts()
	require.Zero(t, frag+rec+coll)
}

func TestGridSuccessEndToEnd(t *testing.T) {
	env := newWidgetEnv(t, gridAttrs(), envOptions{})
	env.backend.recBody = twoProducts

	state := env.orch.Run(context.Background())
	require.Equal(t, Succeeded, state)
	require.Equal(t, "true", env.el.Attr(dom.AttrLoaded))
	require.Contains(t, env.el.Content(), "Mug")
	require.Contains(t, env.el.Content(), "Plate")

	frag, rec, coll := env.backend.counts()
	require.Equal(t, 0, frag, "grid must not touch the fragment endpoint on success")
	require.Equal(t, 1, rec)
	require.Equal(t, 0, coll)

	// idempotence: an unchanged re-run issues no further calls
	state = env.orch.Run(context.Background())
	require.Equal(t, Succeeded, state)
	_, rec, _ = env.backend.counts()
	require.Equal(t, 1, rec)
}

func TestGridFallbackOrdering(t *testing.T) {
	env := newWidgetEnv(t, gridAttrs(), envOptions{})
	env.backend.recBody = `{"products":[]}`
	env.backend.collStatus = http.StatusInternalServerError
	env.backend.fragStatus = http.StatusNotFound

	state := env.orch.Run(context.Background())
	require.Equal(t, Failed, state)

	frag, rec, coll := env.backend.counts()
	require.Equal(t, 1, rec, "empty product list counts as a source failure")
	require.Equal(t, 1, coll, "collection endpoint is the second source in grid mode")
	require.Equal(t, 1, frag, "fragment endpoint is tried last in grid mode")
}

func TestGridStopsAtCollectionSuccess(t *testing.T) {
	env := newWidgetEnv(t, gridAttrs(), envOptions{})
	env.backend.recStatus = http.StatusBadGateway
	env.backend.collBody = twoProducts

	state := env.orch.Run(context.Background())
	require.Equal(t, Succeeded, state)

	frag, _, coll := env.backend.counts()
	require.Equal(t, 1, coll)
	require.Equal(t, 0, frag)
}

func TestCacheSharedAcrossReload(t *testing.T) {
	env := newWidgetEnv(t, gridAttrs(), envOptions{})
	env.backend.recBody = twoProducts

	require.Equal(t, Succeeded, env.orch.Run(context.Background()))

	// a configuration-change reload clears completion; the derived url is
	// unchanged so the cached body must serve the second attempt
	env.el.RemoveAttr(dom.AttrLoaded)
	require.Equal(t, Succeeded, env.orch.Run(context.Background()))

	_, rec, _ := env.backend.counts()
	require.Equal(t, 1, rec)
}

func TestCarouselFragmentForOtherContainerFallsThrough(t *testing.T) {
	attrs := gridAttrs()
	attrs[AttrLayout] = "carousel"
	env := newWidgetEnv(t, attrs, envOptions{})
	env.backend.fragBody = `<div id="w2" data-has-products="true"><a href="/x">X</a></div>`
	env.backend.recBody = twoProducts

	state := env.orch.Run(context.Background())
	require.Equal(t, Succeeded, state)

	frag, rec, _ := env.backend.counts()
	require.Equal(t, 1, frag, "fragment endpoint is tried first in carousel mode")
	require.Equal(t, 1, rec, "json endpoint serves after the fragment misses")
	require.Contains(t, env.el.Content(), "Mug")
}

func TestCarouselPrefersMarkedFragment(t *testing.T) {
	attrs := gridAttrs()
	attrs[AttrLayout] = "carousel"
	env := newWidgetEnv(t, attrs, envOptions{})
	env.backend.fragBody = `<div id="w1" data-has-products="true"><a href="/products/mug">Mug</a></div>`

	state := env.orch.Run(context.Background())
	require.Equal(t, Succeeded, state)

	_, rec, coll := env.backend.counts()
	require.Zero(t, rec+coll)
	require.Contains(t, env.el.Content(), "Mug")
}

type countingErrorHandler struct {
	render.HidingErrorHandler
	calls int
}

func (h *countingErrorHandler) OnError(el *dom.Element, err error) {
	h.calls++
	h.HidingErrorHandler.OnError(el, err)
}

func TestAllSourcesFailInvokesErrorHandlerOnce(t *testing.T) {
	handler := &countingErrorHandler{}
	env := newWidgetEnv(t, gridAttrs(), envOptions{onError: handler})
	env.backend.recStatus = http.StatusBadGateway
	env.backend.collStatus = http.StatusBadGateway
	env.backend.fragStatus = http.StatusBadGateway

	state := env.orch.Run(context.Background())
	require.Equal(t, Failed, state)
	require.Equal(t, 1, handler.calls, "one terminal failure, one handler invocation")
	require.True(t, env.el.HasClass(dom.ClassHidden))
	require.Contains(t, env.el.Attr(dom.AttrError), "all recommendation sources failed")
	require.Equal(t, "", env.el.Attr(dom.AttrLoaded), "completion stays pending on terminal failure")
}

func TestPreviewModeSwallowsTerminalFailure(t *testing.T) {
	env := newWidgetEnv(t, gridAttrs(), envOptions{preview: true})
	env.backend.recStatus = http.StatusBadGateway
	env.backend.collStatus = http.StatusBadGateway
	env.backend.fragStatus = http.StatusBadGateway

	state := env.orch.Run(context.Background())
	require.Equal(t, Failed, state)
	require.False(t, env.el.HasClass(dom.ClassHidden))
	require.Empty(t, env.el.Attr(dom.AttrError))
}

type markupRejectingRenderer struct {
	render.HTMLRenderer
	markupCalls int
}

func (r *markupRejectingRenderer) RenderMarkup(*dom.Element, string, source.Layout) error {
	r.markupCalls++
	return fmt.Errorf("malformed fragment markup")
}

func TestRenderFailureRetriesJSONOnce(t *testing.T) {
	attrs := gridAttrs()
	attrs[AttrLayout] = "carousel"
	renderer := &markupRejectingRenderer{}
	env := newWidgetEnv(t, attrs, envOptions{renderer: renderer})
	env.backend.fragBody = `<div id="w1" data-has-products="true"><a href="/x">X</a></div>`
	env.backend.recBody = twoProducts

	state := env.orch.Run(context.Background())
	require.Equal(t, Succeeded, state)
	require.Equal(t, 1, renderer.markupCalls)

	_, rec, coll := env.backend.counts()
	require.Equal(t, 1, rec, "exactly one last-resort attempt")
	require.Equal(t, 0, coll, "the last resort skips the remaining chain")
	require.Contains(t, env.el.Content(), "Mug")
}

type panickyRenderer struct {
	render.HTMLRenderer
}

func (panickyRenderer) RenderMarkup(*dom.Element, string, source.Layout) error {
	panic("unexpected markup shape")
}

func TestRenderPanicIsContained(t *testing.T) {
	attrs := gridAttrs()
	attrs[AttrLayout] = "carousel"
	env := newWidgetEnv(t, attrs, envOptions{renderer: panickyRenderer{}})
	env.backend.fragBody = `<div id="w1" data-has-products="true"><a href="/x">X</a></div>`
	env.backend.recBody = twoProducts

	require.NotPanics(t, func() {
		state := env.orch.Run(context.Background())
		require.Equal(t, Succeeded, state)
	})
}

func TestLimitComesFromProductsURL(t *testing.T) {
	attrs := gridAttrs()
	attrs[AttrProductsURL] = "/recommendations/products.json?limit=6"
	env := newWidgetEnv(t, attrs, envOptions{})

	req := RequestFromElement(env.el)
	require.Equal(t, 6, req.Limit)

	env.el.SetAttr(AttrProductsURL, "/recommendations/products.json?limit=zero")
	req = RequestFromElement(env.el)
	require.Equal(t, source.DefaultLimit, req.Limit)
}
