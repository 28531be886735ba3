package source

import (
	"context"

	"recwidget/lib/products"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Collection acquires a generic product listing for the configured
// collection handle. The current product is excluded by identity and the
// remainder truncated to the request limit; at least one product must
// survive for the strategy to succeed.
type Collection struct{}

func (Collection) Name() string { return "collection" }

func (Collection) Acquire(ctx context.Context, deps Deps, req Request) Outcome {
	ctx, span := tracer.Start(ctx, "collection:acquire")
	defer span.End()

	if req.CollectionHandle == "" {
		span.SetStatus(codes.Error, "no collection handle configured")
		return Failed
	}

	body, err := fetchCached(ctx, deps, collectionURL(deps.BaseURL, req))
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

	kept := make([]products.Product, 0, len(list))
	for _, p := range list {
		if p.ID != "" && p.ID == req.ProductID {
			continue
		}
		kept = append(kept, p)
	}
	limit := req.limitOrDefault()
	if len(kept) > limit {
		kept = kept[:limit]
	}
	if len(kept) == 0 {
		span.SetStatus(codes.Error, "collection holds no other products")
		return Failed
	}

	span.SetAttributes(attribute.Int("products", len(kept)))
	return Outcome{OK: true, Products: kept}
}
