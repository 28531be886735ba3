package widget

import (
	"net/url"
	"strconv"

	"recwidget/widget/dom"
	"recwidget/widget/source"
)

// configuration attributes the embedder sets on the host element
const (
	AttrProductID   = "data-product-id"
	AttrSectionID   = "data-section-id"
	AttrIntent      = "data-intent"
	AttrLayout      = "data-layout"
	AttrCollection  = "data-collection"
	AttrProductsURL = "data-products-url"

	attrIconStyle    = "data-icon-style"
	attrIconShape    = "data-icon-shape"
	attrSectionWidth = "data-section-width"
	attrColumns      = "data-columns"
)

type Request = source.Request

type Layout = source.Layout

// RequestFromElement reads the widget configuration off the host element.
// Called fresh on every activation so external re-renders are picked up.
func RequestFromElement(el *dom.Element) Request {
	layout := source.LayoutGrid
	if Layout(el.Attr(AttrLayout)) == source.LayoutCarousel {
		layout = source.LayoutCarousel
	}

	columns, _ := strconv.Atoi(el.Attr(attrColumns))

	return Request{
		ProductID:        el.Attr(AttrProductID),
		ContainerID:      el.Attr("id"),
		SectionID:        el.Attr(AttrSectionID),
		Intent:           el.Attr(AttrIntent),
		Layout:           layout,
		CollectionHandle: el.Attr(AttrCollection),
		Limit:            limitFromProductsURL(el.Attr(AttrProductsURL)),

		IconStyle:    el.Attr(attrIconStyle),
		IconShape:    el.Attr(attrIconShape),
		SectionWidth: el.Attr(attrSectionWidth),
		Columns:      columns,
	}
}

// limitFromProductsURL extracts the result limit from the configured
// recommendations URL's query string. Anything unparsable falls back to
// the default.
func limitFromProductsURL(raw string) int {
	if raw == "" {
		return source.DefaultLimit
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return source.DefaultLimit
	}
	limit, err := strconv.Atoi(parsed.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return source.DefaultLimit
	}
	return limit
}
