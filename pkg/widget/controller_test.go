package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFilterer answers queries from an engine, but holds back any query
// that has a gate until the gate is closed. It ignores cancellation so
// stale results really do arrive late.
type gatedFilterer struct {
	engine *filter.Engine
	mu     sync.Mutex
	gates  map[string]chan struct{}
}

func (g *gatedFilterer) hold(query string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates == nil {
		g.gates = make(map[string]chan struct{})
	}
	gate := make(chan struct{})
	g.gates[query] = gate
	return gate
}

func (g *gatedFilterer) Filter(_ context.Context, query string) ([]string, error) {
	g.mu.Lock()
	gate := g.gates[query]
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return g.engine.Match(query), nil
}

func startController(t *testing.T, f filter.Filterer) (*Controller, context.Context) {
	t.Helper()
	c := NewController(f)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c, ctx
}

func TestControllerKeystrokeResolves(t *testing.T) {
	c, ctx := startController(t, fruitEngine())

	st, err := c.Apply(ctx, Keystroke{Text: "ap"})
	require.NoError(t, err)
	assert.Equal(t, "ap", st.Draft)

	assert.Eventually(t, func() bool {
		return !c.State().Pending()
	}, time.Second, 5*time.Millisecond)

	st = c.State()
	assert.Equal(t, "ap", st.Input)
	assert.Equal(t, []string{"Apple", "Grape"}, st.Filtered)
	assert.True(t, st.Open)
}

func TestControllerLatestQueryWins(t *testing.T) {
	gated := &gatedFilterer{engine: fruitEngine()}
	slow := gated.hold("a")
	c, ctx := startController(t, gated)

	var mu sync.Mutex
	var resolved []string
	c.OnChange(func(st State, ev Event) {
		if res, ok := ev.(FilterResolved); ok {
			mu.Lock()
			resolved = append(resolved, res.Query)
			mu.Unlock()
		}
	})

	_, err := c.Apply(ctx, Keystroke{Text: "a"})
	require.NoError(t, err)
	_, err = c.Apply(ctx, Keystroke{Text: "gr"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return c.State().Input == "gr"
	}, time.Second, 5*time.Millisecond)

	// let the superseded filter finish late
	close(slow)
	time.Sleep(50 * time.Millisecond)

	st := c.State()
	assert.Equal(t, "gr", st.Input)
	assert.Equal(t, []string{"Grape"}, st.Filtered)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"gr"}, resolved)
}

func TestControllerCancelsSupersededFilter(t *testing.T) {
	engine := filter.NewEngine([]string{"Apple", "Grape"}, filter.WithLatency(200*time.Millisecond))
	c, ctx := startController(t, engine)

	start := time.Now()
	for _, text := range []string{"a", "ap", "app"} {
		_, err := c.Apply(ctx, Keystroke{Text: text})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return c.State().Input == "app"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Apple"}, c.State().Filtered)
	assert.Less(t, time.Since(start), time.Second)
}

func TestControllerMountUnmount(t *testing.T) {
	c, ctx := startController(t, fruitEngine())
	doc := NewDocument()
	region := Rect{X: 0, Y: 0, W: 20, H: 5}

	_, err := c.Apply(ctx, Keystroke{Text: "ap"})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return !c.State().Pending() }, time.Second, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		c.Mount(doc, func() Region { return region })
	}
	assert.Equal(t, 1, doc.Listeners(), "remounting must not leak listeners")

	doc.Dispatch(PointerEvent{Point{5, 2}})
	assert.True(t, c.State().Open)

	doc.Dispatch(PointerEvent{Point{5, 10}})
	st := c.State()
	assert.False(t, st.Open)
	assert.Equal(t, "ap", st.Input)

	c.Unmount()
	c.Unmount()
	assert.Equal(t, 0, doc.Listeners())
}

func TestControllerStopped(t *testing.T) {
	c := NewController(fruitEngine())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, c.Run(ctx), context.Canceled)

	assert.ErrorIs(t, c.Dispatch(Closed{}), ErrStopped)
	_, err := c.Apply(context.Background(), Closed{})
	assert.ErrorIs(t, err, ErrStopped)
	assert.NotEmpty(t, c.ID())
}
