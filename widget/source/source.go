// Package source holds the widget's data-acquisition strategies. Each
// strategy is one self-contained way of getting recommendation data from a
// specific backend shape; it reports a plain succeeded/failed outcome and
// never lets an error escape its boundary.
package source

import (
	"context"

	"recwidget/lib/products"
	"recwidget/widget/cache"
	"recwidget/widget/fetch"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("recwidget/source")

type Layout string

const (
	LayoutGrid     Layout = "grid"
	LayoutCarousel Layout = "carousel"
)

const (
	DefaultSectionID = "related-products"
	DefaultIntent    = "related"
	DefaultLimit     = 4
)

// Request carries everything one acquisition attempt needs. It is built
// fresh per activation and never mutated afterwards.
type Request struct {
	ProductID        string
	ContainerID      string
	SectionID        string
	Intent           string
	Layout           Layout
	CollectionHandle string
	Limit            int

	// display tuning, consumed only by the renderer
	IconStyle    string
	IconShape    string
	SectionWidth string
	Columns      int
}

// Outcome is the result of one strategy run. There is no partial success:
// either OK is set with data, or the strategy is skipped.
type Outcome struct {
	OK       bool
	Products []products.Product
	Markup   string
}

var Failed = Outcome{}

// Deps are the shared collaborators every strategy consults: the per-widget
// response cache, the single-flight fetch coordinator, and the endpoint
// base URL.
type Deps struct {
	Cache   *cache.Cache
	Fetch   *fetch.Coordinator
	BaseURL string
}

type Strategy interface {
	Name() string
	Acquire(ctx context.Context, deps Deps, req Request) Outcome
}

// fetchCached is the read-through path every strategy uses: consult the
// cache first, hit the network otherwise, and store only successful bodies.
func fetchCached(ctx context.Context, deps Deps, url string) (string, error) {
	if deps.Cache != nil {
		if body, ok := deps.Cache.Get(url); ok {
			return body, nil
		}
	}

	body, err := deps.Fetch.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if deps.Cache != nil {
		err = deps.Cache.Put(url, body)
		if err != nil {
			return body, nil
		}
	}
	return body, nil
}
