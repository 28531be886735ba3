// Package widget sequences the recommendation sources for one host
// element: which to query, in what order, and when to declare the widget
// loaded or failed. All durable state lives on the element itself as the
// completion and diagnostic attributes.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"recwidget/widget/dom"
	"recwidget/widget/render"
	"recwidget/widget/source"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("recwidget/widget")

var (
	// ErrConfiguration means required identifiers are missing; never retried.
	ErrConfiguration = errors.New("widget is missing a product id or container id")
	// ErrExhausted means every source, including the last-resort retry, failed.
	ErrExhausted = errors.New("all recommendation sources failed")
)

type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "idle"
}

type Options struct {
	Element  *dom.Element
	Deps     source.Deps
	Renderer render.Renderer
	OnError  render.ErrorHandler
	// Preview suppresses the error handler in authoring/preview mode.
	Preview bool
}

type Orchestrator struct {
	el       *dom.Element
	deps     source.Deps
	renderer render.Renderer
	onError  render.ErrorHandler
	preview  bool
	state    State
}

func New(opts Options) *Orchestrator {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.HTMLRenderer{}
	}
	onError := opts.OnError
	if onError == nil {
		onError = render.HidingErrorHandler{}
	}
	return &Orchestrator{
		el:       opts.Element,
		deps:     opts.Deps,
		renderer: renderer,
		onError:  onError,
		preview:  opts.Preview,
	}
}

func (o *Orchestrator) State() State { return o.state }

// order is the layout-dependent fallback chain. Carousel prefers the
// server-rendered fragment, grid prefers structured data.
func (o *Orchestrator) order(layout Layout) []source.Strategy {
	if layout == source.LayoutCarousel {
		return []source.Strategy{source.Fragment{}, source.Recommendations{}, source.Collection{}}
	}
	return []source.Strategy{source.Recommendations{}, source.Collection{}, source.Fragment{}}
}

// Run performs one acquisition attempt. It is a no-op while the completion
// attribute says the widget already loaded; activation clears that
// attribute first when a real configuration change demands a reload.
func (o *Orchestrator) Run(ctx context.Context) State {
	ctx, span := tracer.Start(ctx, "orchestrator:run")
	defer span.End()

	req := RequestFromElement(o.el)
	if req.ProductID == "" || req.ContainerID == "" {
		span.SetStatus(codes.Error, ErrConfiguration.Error())
		o.state = Failed
		if !o.preview {
			o.onError.OnError(o.el, ErrConfiguration)
		}
		return o.state
	}

	if o.el.Attr(dom.AttrLoaded) == "true" {
		span.AddEvent("already loaded, nothing to do")
		return o.state
	}
	if o.state == Running {
		return o.state
	}
	o.state = Running

	span.SetAttributes(
		attribute.String("product_id", req.ProductID),
		attribute.String("container_id", req.ContainerID),
		attribute.String("layout", string(req.Layout)),
	)

	for _, strategy := range o.order(req.Layout) {
		outcome := strategy.Acquire(ctx, o.deps, req)
		if !outcome.OK {
			slog.DebugContext(ctx, "source failed, falling through",
				"source", strategy.Name())
			continue
		}

		err := o.render(req, outcome)
		if err == nil {
			return o.succeed(span, strategy.Name())
		}

		// a failure while interpreting a successful outcome gets one
		// last-resort attempt at the structured endpoint before giving up
		slog.ErrorContext(ctx, "render failed, retrying via recommendations",
			"source", strategy.Name(), "err", err)
		span.RecordError(err)
		last := source.Recommendations{}.Acquire(ctx, o.deps, req)
		if last.OK && o.render(req, last) == nil {
			return o.succeed(span, "recommendations (last resort)")
		}
		break
	}

	span.SetStatus(codes.Error, ErrExhausted.Error())
	o.state = Failed
	if !o.preview {
		o.onError.OnError(o.el, fmt.Errorf("%w: product %s", ErrExhausted, req.ProductID))
	}
	return o.state
}

func (o *Orchestrator) succeed(span trace.Span, via string) State {
	span.AddEvent("rendered recommendations", trace.WithAttributes(
		attribute.String("source", via),
	))
	o.el.SetAttr(dom.AttrLoaded, "true")
	o.state = Succeeded
	return o.state
}

func (o *Orchestrator) render(req Request, outcome source.Outcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panicked: %v", r)
		}
	}()
	if outcome.Markup != "" {
		return o.renderer.RenderMarkup(o.el, outcome.Markup, req.Layout)
	}
	return o.renderer.Render(o.el, outcome.Products, req.Layout)
}
