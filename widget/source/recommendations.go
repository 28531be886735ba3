package source

import (
	"context"

	"recwidget/lib/products"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Recommendations acquires structured product data from the JSON
// recommendations endpoint. It succeeds when the response parses and
// contains at least one product.
type Recommendations struct{}

func (Recommendations) Name() string { return "recommendations" }

func (Recommendations) Acquire(ctx context.Context, deps Deps, req Request) Outcome {
	ctx, span := tracer.Start(ctx, "recommendations:acquire")
	defer span.End()

	body, err := fetchCached(ctx, deps, recommendationsURL(deps.BaseURL, req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return Failed
	}

	list, err := products.DecodeList([]byte(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unparseable response")
		return Failed
	}
	if len(list) == 0 {
		span.SetStatus(codes.Error, "no products returned")
		return Failed
	}

	span.SetAttributes(attribute.Int("products", len(list)))
	return Outcome{OK: true, Products: list}
}
