package widget

import (
	"context"
	"errors"
	"sync"

	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrStopped is returned when events are sent to a controller whose Run has returned.
var ErrStopped = errors.New("widget: controller stopped")

type envelope struct {
	ev    Event
	reply chan State
}

// Controller owns one widget's State for hosts that deliver events from
// several goroutines. Run is the only writer: events are queued and applied
// with Reduce one at a time, and filters run in their own goroutines. A
// newer keystroke cancels the filter of the previous one.
type Controller struct {
	id       string
	filterer filter.Filterer
	logger   *log.Logger

	events chan envelope
	done   chan struct{}
	stop   sync.Once

	mu    sync.RWMutex
	state State

	obsMu     sync.RWMutex
	observers []func(State, Event)

	// owned by the Run goroutine
	cancelInflight context.CancelFunc
	inflight       sync.WaitGroup

	subMu sync.Mutex
	sub   *Subscription
}

// NewController creates a controller for a freshly mounted widget.
func NewController(f filter.Filterer) *Controller {
	id := uuid.NewString()
	return &Controller{
		id:       id,
		filterer: f,
		logger:   log.With("session", id[:8]),
		events:   make(chan envelope, 64),
		done:     make(chan struct{}),
		state:    New(),
	}
}

// ID identifies this widget instance in logs and protocol messages.
func (c *Controller) ID() string {
	return c.id
}

// OnChange registers fn to run after every applied event. Stale filter
// results that were dropped do not trigger it. fn runs on the Run
// goroutine and must not call Apply.
func (c *Controller) OnChange(fn func(State, Event)) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, fn)
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Dispatch queues ev without waiting for it to be applied.
func (c *Controller) Dispatch(ev Event) error {
	if c.stopped() {
		return ErrStopped
	}
	select {
	case c.events <- envelope{ev: ev}:
		return nil
	case <-c.done:
		return ErrStopped
	}
}

// Apply queues ev and waits until it has been applied, returning the
// resulting state.
func (c *Controller) Apply(ctx context.Context, ev Event) (State, error) {
	if c.stopped() {
		return State{}, ErrStopped
	}
	reply := make(chan State, 1)
	select {
	case c.events <- envelope{ev: ev, reply: reply}:
	case <-c.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}

	select {
	case st := <-reply:
		return st, nil
	case <-c.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

func (c *Controller) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Run applies queued events until ctx is done. It cancels any running
// filter and waits for it before returning.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Debug("Widget loop started")
	defer func() {
		c.stop.Do(func() { close(c.done) })
		if c.cancelInflight != nil {
			c.cancelInflight()
		}
		c.inflight.Wait()
		c.logger.Debug("Widget loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-c.events:
			st := c.apply(ctx, env.ev)
			if env.reply != nil {
				env.reply <- st
			}
		}
	}
}

func (c *Controller) apply(ctx context.Context, ev Event) State {
	c.mu.Lock()
	prev := c.state
	if res, ok := ev.(FilterResolved); ok && !prev.Accepts(res) {
		c.mu.Unlock()
		c.logger.Debug("Dropped stale filter result", "seq", res.Seq, "latest", prev.Seq())
		return prev.Clone()
	}
	next, req := Reduce(prev, ev)
	c.state = next
	snapshot := next.Clone()
	c.mu.Unlock()

	switch ev := ev.(type) {
	case Keystroke:
		if req == nil {
			c.logger.Debug("Rejected keystroke", "text", ev.Text)
		}
	case ItemSelected:
		c.cancelFilter()
		c.logger.Debug("Selected item", "item", ev.Item)
	}

	if req != nil {
		c.startFilter(ctx, *req)
	}
	c.obsMu.RLock()
	observers := c.observers
	c.obsMu.RUnlock()
	for _, fn := range observers {
		fn(snapshot, ev)
	}
	return snapshot
}

func (c *Controller) cancelFilter() {
	if c.cancelInflight != nil {
		c.cancelInflight()
		c.cancelInflight = nil
	}
}

func (c *Controller) startFilter(ctx context.Context, req FilterRequest) {
	c.cancelFilter()
	fctx, cancel := context.WithCancel(ctx)
	c.cancelInflight = cancel

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer cancel()

		matches, err := c.filterer.Filter(fctx, req.Query)
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("Filter superseded", "seq", req.Seq, "query", req.Query)
			return
		}
		res := FilterResolved{Seq: req.Seq, Query: req.Query, Matches: matches, Err: err}
		select {
		case c.events <- envelope{ev: res}:
		case <-c.done:
		}
	}()
}

// Mount starts watching doc for presses outside region. Calling Mount again
// replaces the previous subscription.
func (c *Controller) Mount(doc *Document, region func() Region) {
	m := Monitor{
		Region: region,
		OnOutside: func(PointerEvent) {
			if _, err := c.Apply(context.Background(), Closed{}); err != nil {
				c.logger.Debug("Outside press after stop", "err", err)
			}
		},
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.sub.Release()
	c.sub = m.Attach(doc)
	c.logger.Debug("Mounted", "listeners", doc.Listeners())
}

// Unmount stops watching the document. It is safe to call more than once.
func (c *Controller) Unmount() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.sub.Release()
	c.sub = nil
	c.logger.Debug("Unmounted")
}
