package source

import (
	"context"
	"strings"

	"recwidget/lib/htmlutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// markerAttr is set by the fragment endpoint on a container when the
// upstream already determined that products exist for it. Carousel layout
// rejects unmarked fragments so a richer client-side layout can be built
// from the structured sources instead.
const markerAttr = "data-has-products"

// Fragment acquires pre-rendered markup from the fragment endpoint. It
// tries the request's declared section id first and the canonical fallback
// section id second when the two differ, stopping at the first non-empty
// body. It succeeds only when the body contains a non-empty sub-fragment
// addressed to this widget's container id.
type Fragment struct{}

func (Fragment) Name() string { return "fragment" }

func (Fragment) Acquire(ctx context.Context, deps Deps, req Request) Outcome {
	ctx, span := tracer.Start(ctx, "fragment:acquire")
	defer span.End()

	candidates := []string{fragmentURL(deps.BaseURL, req, req.sectionOrDefault())}
	if req.sectionOrDefault() != DefaultSectionID {
		candidates = append(candidates, fragmentURL(deps.BaseURL, req, DefaultSectionID))
	}

	var body string
	for _, candidate := range candidates {
		fetched, err := fetchCached(ctx, deps, candidate)
		if err != nil {
			span.RecordError(err)
			continue
		}
		if strings.TrimSpace(fetched) != "" {
			body = fetched
			break
		}
	}
	if body == "" {
		span.SetStatus(codes.Error, "no usable fragment body")
		return Failed
	}

	sel, ok := htmlutil.FragmentByID(body, req.ContainerID)
	if !ok {
		span.SetStatus(codes.Error, "fragment does not address this container")
		return Failed
	}

	inner := htmlutil.InnerHTML(sel)
	if inner == "" {
		span.SetStatus(codes.Error, "fragment for this container is empty")
		return Failed
	}

	if req.Layout == LayoutCarousel && sel.AttrOr(markerAttr, "") == "" {
		span.SetStatus(codes.Error, "carousel requires the upstream product marker")
		return Failed
	}

	span.SetAttributes(attribute.Int("fragment_bytes", len(inner)))
	return Outcome{OK: true, Markup: inner}
}
