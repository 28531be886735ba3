// Package activation decides when the widget engine runs: once when the
// element first scrolls near the viewport, and again whenever an external
// configuration change lands on the element. The widget's own bookkeeping
// mutations are filtered out so its error handling and completion marking
// never re-trigger it.
package activation

import (
	"context"
	"strings"

	"recwidget/widget/dom"
)

// DefaultMargin is the lookahead distance below the viewport at which the
// widget starts loading, well before it becomes visible.
const DefaultMargin = 400

type Options struct {
	Element  *dom.Element
	Viewport *dom.Viewport
	// Margin overrides DefaultMargin when positive.
	Margin int
	// Run invokes the orchestrator.
	Run func(ctx context.Context)
}

type Trigger struct {
	el     *dom.Element
	vp     *dom.Viewport
	margin int
	run    func(ctx context.Context)

	fired      bool
	muted      bool
	cancelProx func()
	stopMut    func()
}

func New(opts Options) *Trigger {
	margin := opts.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Trigger{
		el:     opts.Element,
		vp:     opts.Viewport,
		margin: margin,
		run:    opts.Run,
	}
}

// Start arms both gates. It never runs the orchestrator eagerly; the
// proximity gate may fire during registration only if the element is
// already within range.
func (t *Trigger) Start() {
	t.stopMut = t.el.Observe(t.onMutation)
	t.cancelProx = t.vp.ObserveProximity(t.el, t.margin, t.onProximity)
}

// Stop disconnects both gates. Required before the element detaches.
func (t *Trigger) Stop() {
	t.disarmProximity()
	if t.stopMut != nil {
		t.stopMut()
		t.stopMut = nil
	}
}

// onProximity fires at most once per trigger lifetime, disarming
// observation before invoking the orchestrator.
func (t *Trigger) onProximity() {
	t.disarmProximity()
	if t.fired {
		return
	}
	t.fired = true
	t.run(context.Background())
}

func (t *Trigger) disarmProximity() {
	if t.cancelProx != nil {
		t.cancelProx()
		t.cancelProx = nil
	}
}

// onMutation treats any attribute change as "configuration changed,
// reload" unless it is one of the widget's own bookkeeping mutations:
// the diagnostic error attribute, the renderer's content marker, its
// error handler hiding the element, or the completion flag being set.
func (t *Trigger) onMutation(m dom.Mutation) {
	if t.muted {
		return
	}
	if m.Attr == dom.AttrError || m.Attr == dom.AttrHasRecommendations {
		return
	}
	if m.Attr == "class" && gainedClass(m.Old, m.New, dom.ClassHidden) {
		return
	}
	if m.Attr == dom.AttrLoaded && m.New == "true" {
		return
	}

	// a real configuration change overrides completion
	t.muted = true
	t.el.RemoveAttr(dom.AttrLoaded)
	t.muted = false
	t.run(context.Background())
}

func gainedClass(old, updated, name string) bool {
	return !hasClass(old, name) && hasClass(updated, name)
}

func hasClass(classes, name string) bool {
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true
		}
	}
	return false
}
