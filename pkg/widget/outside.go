package widget

import (
	"sort"
	"sync"
)

// Point is a cell (terminal hosts) or pixel (graphical hosts) position.
type Point struct {
	X, Y int
}

// PointerEvent is a pointer press anywhere in the host document.
type PointerEvent struct {
	Point
}

// Region is the area the widget occupies on screen.
type Region interface {
	Contains(p Point) bool
}

// Rect is an axis-aligned Region; W and H are exclusive extents.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Listener receives every pointer press dispatched to a Document.
type Listener func(PointerEvent)

// Document fans pointer presses out to its listeners. Hosts feed it with
// their raw mouse input.
type Document struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]Listener
}

// NewDocument creates a document with no listeners.
func NewDocument() *Document {
	return &Document{listeners: make(map[uint64]Listener)}
}

// Subscribe registers l until the returned subscription is released.
func (d *Document) Subscribe(l Listener) *Subscription {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.mu.Unlock()

	return &Subscription{release: func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}}
}

// Dispatch calls every listener, in subscription order. Listeners may
// subscribe or release during dispatch; they run outside the lock.
func (d *Document) Dispatch(ev PointerEvent) {
	d.mu.Lock()
	ids := make([]uint64, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]Listener, len(ids))
	for i, id := range ids {
		listeners[i] = d.listeners[id]
	}
	d.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

// Listeners returns the number of registered listeners.
func (d *Document) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Subscription is a registered listener. Release is idempotent and safe on nil.
type Subscription struct {
	once    sync.Once
	release func()
}

// Release unregisters the listener.
func (s *Subscription) Release() {
	if s == nil {
		return
	}
	s.once.Do(s.release)
}

// Monitor closes the dropdown on presses outside the widget.
type Monitor struct {
	// Region returns the widget's current area, or nil while it is not
	// on screen; presses are ignored then.
	Region func() Region
	// OnOutside runs for every press outside Region.
	OnOutside func(PointerEvent)
}

// Attach subscribes the monitor to d.
func (m Monitor) Attach(d *Document) *Subscription {
	return d.Subscribe(func(ev PointerEvent) {
		region := m.Region()
		if region == nil || region.Contains(ev.Point) {
			return
		}
		m.OnOutside(ev)
	})
}
