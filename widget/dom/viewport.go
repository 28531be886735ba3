package dom

import "sync"

// Viewport models the host scroll viewport for proximity activation.
// An observed element qualifies when its top edge is within `margin`
// below the bottom of the viewport.
type Viewport struct {
	mu      sync.Mutex
	height  int
	scrollY int

	watches map[int]*proximityWatch
	nextID  int
}

type proximityWatch struct {
	el     *Element
	margin int
	fn     func()
}

func NewViewport(height int) *Viewport {
	return &Viewport{
		height:  height,
		watches: map[int]*proximityWatch{},
	}
}

// ObserveProximity registers fn to run whenever the element qualifies.
// The check also runs immediately in case the element is already in range.
// Returns a cancel function; cancelling from within fn is allowed.
func (v *Viewport) ObserveProximity(el *Element, margin int, fn func()) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	w := &proximityWatch{el: el, margin: margin, fn: fn}
	v.watches[id] = w
	qualified := v.qualifies(w)
	v.mu.Unlock()

	if qualified {
		fn()
	}
	return func() {
		v.mu.Lock()
		delete(v.watches, id)
		v.mu.Unlock()
	}
}

// SetScroll moves the viewport and fires every qualifying watch.
func (v *Viewport) SetScroll(y int) {
	v.mu.Lock()
	v.scrollY = y
	var fire []func()
	for _, w := range v.watches {
		if v.qualifies(w) {
			fire = append(fire, w.fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (v *Viewport) qualifies(w *proximityWatch) bool {
	return w.el.Top <= v.scrollY+v.height+w.margin
}
