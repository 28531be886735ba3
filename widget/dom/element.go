// Package dom is an in-process model of the host element the widget is
// mounted on: an attribute store with mutation observers, a class list and
// a viewport with proximity observation. Embedders wire their real host
// environment to the same surface.
package dom

import (
	"sort"
	"strings"
	"sync"
)

// attributes and class names the widget persists on its host element
const (
	AttrLoaded             = "data-recs-loaded"
	AttrError              = "data-recs-error"
	AttrHasRecommendations = "data-has-recommendations"
	ClassHidden            = "hidden"
)

// Mutation describes one observed attribute change. Class list changes
// surface as mutations of the "class" attribute.
type Mutation struct {
	Attr string
	Old  string
	New  string
}

type Element struct {
	mu      sync.Mutex
	attrs   map[string]string
	classes map[string]bool
	content string

	// Top is the element's offset from the top of the document,
	// used by Viewport proximity checks.
	Top int

	observers map[int]func(Mutation)
	nextObs   int
}

func NewElement() *Element {
	return &Element{
		attrs:     map[string]string{},
		classes:   map[string]bool{},
		observers: map[int]func(Mutation){},
	}
}

func (e *Element) Attr(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attrs[name]
}

func (e *Element) SetAttr(name, value string) {
	e.mu.Lock()
	old := e.attrs[name]
	e.attrs[name] = value
	fns := e.observerList()
	e.mu.Unlock()

	if old == value {
		return
	}
	notify(fns, Mutation{Attr: name, Old: old, New: value})
}

func (e *Element) RemoveAttr(name string) {
	e.mu.Lock()
	old, present := e.attrs[name]
	delete(e.attrs, name)
	fns := e.observerList()
	e.mu.Unlock()

	if !present {
		return
	}
	notify(fns, Mutation{Attr: name, Old: old, New: ""})
}

func (e *Element) HasClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classes[name]
}

func (e *Element) AddClass(name string) {
	e.mu.Lock()
	old := e.classString()
	e.classes[name] = true
	updated := e.classString()
	fns := e.observerList()
	e.mu.Unlock()

	if old == updated {
		return
	}
	notify(fns, Mutation{Attr: "class", Old: old, New: updated})
}

func (e *Element) RemoveClass(name string) {
	e.mu.Lock()
	old := e.classString()
	delete(e.classes, name)
	updated := e.classString()
	fns := e.observerList()
	e.mu.Unlock()

	if old == updated {
		return
	}
	notify(fns, Mutation{Attr: "class", Old: old, New: updated})
}

func (e *Element) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content
}

// SetContent replaces the element's inner markup. Content changes are not
// attribute mutations and do not notify observers.
func (e *Element) SetContent(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = markup
}

// Observe registers an attribute mutation observer and returns its
// unsubscribe function.
func (e *Element) Observe(fn func(Mutation)) func() {
	e.mu.Lock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.observers, id)
		e.mu.Unlock()
	}
}

func (e *Element) classString() string {
	names := make([]string, 0, len(e.classes))
	for name := range e.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

func (e *Element) observerList() []func(Mutation) {
	fns := make([]func(Mutation), 0, len(e.observers))
	for _, fn := range e.observers {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(Mutation), m Mutation) {
	for _, fn := range fns {
		fn(m)
	}
}
