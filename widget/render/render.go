// Package render turns acquired recommendation data into host-element
// content. The widget engine only depends on the two small interfaces
// here; the HTML implementations are the default collaborators.
package render

import (
	"recwidget/lib/products"
	"recwidget/widget/dom"
	"recwidget/widget/source"
)

// Renderer produces a content fragment for the element and always ends by
// marking it as populated. Implementations must be idempotent.
type Renderer interface {
	Render(el *dom.Element, list []products.Product, layout source.Layout) error
	RenderMarkup(el *dom.Element, markup string, layout source.Layout) error
}

// ErrorHandler reacts to a terminal acquisition failure. It must not panic
// and has no error to return; hiding the widget is the expected behavior.
type ErrorHandler interface {
	OnError(el *dom.Element, err error)
}

// HidingErrorHandler hides the element and records the failure in a
// diagnostic attribute for tooling inspection.
type HidingErrorHandler struct{}

func (HidingErrorHandler) OnError(el *dom.Element, err error) {
	el.SetAttr(dom.AttrError, err.Error())
	el.AddClass(dom.ClassHidden)
}
