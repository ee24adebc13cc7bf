package widget

import (
	"context"
	"testing"

	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typeAndResolve runs a keystroke through Reduce and, when accepted,
// resolves it synchronously with the engine, like a host would.
func typeAndResolve(t *testing.T, s State, engine *filter.Engine, text string) State {
	t.Helper()
	s, req := Reduce(s, Keystroke{Text: text})
	if req == nil {
		return s
	}
	matches, err := engine.Filter(context.Background(), req.Query)
	require.NoError(t, err)
	s, next := Reduce(s, FilterResolved{Seq: req.Seq, Query: req.Query, Matches: matches})
	require.Nil(t, next)
	return s
}

func fruitEngine() *filter.Engine {
	return filter.NewEngine([]string{"Apple", "Banana", "Grape"}, filter.WithLatency(0))
}

func TestNewState(t *testing.T) {
	s := New()
	assert.Equal(t, "", s.Input)
	assert.Empty(t, s.Filtered)
	assert.True(t, s.Open)
	assert.Equal(t, NoSelection, s.Selected)
	assert.Empty(t, s.Err)
	assert.False(t, s.Pending())
}

func TestScenarioTypeFilters(t *testing.T) {
	s := typeAndResolve(t, New(), fruitEngine(), "ap")

	assert.Equal(t, "ap", s.Input)
	assert.Equal(t, []string{"Apple", "Grape"}, s.Filtered)
	assert.True(t, s.Open)
	assert.Equal(t, NoSelection, s.Selected)
	assert.Empty(t, s.Err)
}

func TestScenarioRejectedInput(t *testing.T) {
	engine := fruitEngine()
	before := typeAndResolve(t, New(), engine, "ap")

	after := typeAndResolve(t, before, engine, "ap1")

	assert.Equal(t, InvalidInputMessage, after.Err)
	assert.Equal(t, "ap", after.Input)
	assert.Equal(t, "ap", after.Draft)
	assert.Equal(t, before.Filtered, after.Filtered)
	assert.Equal(t, before.Open, after.Open)
	assert.Equal(t, before.Seq(), after.Seq())
}

func TestRejectedInputNeverChangesInputOrList(t *testing.T) {
	engine := fruitEngine()
	base := typeAndResolve(t, New(), engine, "an")

	for _, text := range []string{"1", "a1", "ap ple", " ", "a-b", "a.b", "é", "!", "ap\t"} {
		t.Run(text, func(t *testing.T) {
			s, req := Reduce(base, Keystroke{Text: text})
			assert.Nil(t, req)
			assert.Equal(t, InvalidInputMessage, s.Err)
			assert.Equal(t, base.Input, s.Input)
			assert.Equal(t, base.Filtered, s.Filtered)
			assert.Equal(t, base.Open, s.Open)
			assert.Equal(t, base.Selected, s.Selected)
		})
	}
}

func TestAcceptedInputClearsError(t *testing.T) {
	engine := fruitEngine()
	s := typeAndResolve(t, New(), engine, "a1")
	require.Equal(t, InvalidInputMessage, s.Err)

	s = typeAndResolve(t, s, engine, "gr")
	assert.Empty(t, s.Err)
	assert.Equal(t, []string{"Grape"}, s.Filtered)
}

func TestScenarioSelectItem(t *testing.T) {
	s := typeAndResolve(t, New(), fruitEngine(), "ap")

	s, req := Reduce(s, ItemSelected{Item: "Apple"})
	assert.Nil(t, req)
	assert.Equal(t, "Apple", s.Input)
	assert.Equal(t, "Apple", s.Draft)
	assert.False(t, s.Open)
	// the list is left stale until the next keystroke
	assert.Equal(t, []string{"Apple", "Grape"}, s.Filtered)
}

func TestSelectItemIdempotent(t *testing.T) {
	s := typeAndResolve(t, New(), fruitEngine(), "ap")

	once, _ := Reduce(s, ItemSelected{Item: "Grape"})
	twice, _ := Reduce(once, ItemSelected{Item: "Grape"})
	assert.Equal(t, once, twice)
}

func TestScenarioOutsideClick(t *testing.T) {
	s := typeAndResolve(t, New(), fruitEngine(), "ap")

	closed, req := Reduce(s, Closed{})
	assert.Nil(t, req)
	assert.False(t, closed.Open)
	assert.Equal(t, s.Input, closed.Input)
	assert.Equal(t, s.Filtered, closed.Filtered)

	// the next accepted keystroke reopens the dropdown
	reopened := typeAndResolve(t, closed, fruitEngine(), "b")
	assert.True(t, reopened.Open)
}

func TestScenarioEmptyQueryMatchesAll(t *testing.T) {
	engine := filter.NewEngine([]string{"Banana"}, filter.WithLatency(0))
	s := typeAndResolve(t, New(), engine, "")

	assert.Equal(t, []string{"Banana"}, s.Filtered)
	assert.True(t, s.Open)
}

func TestStaleResultIsDropped(t *testing.T) {
	engine := fruitEngine()
	s := New()

	s, reqA := Reduce(s, Keystroke{Text: "a"})
	s, reqB := Reduce(s, Keystroke{Text: "gr"})
	require.NotNil(t, reqA)
	require.NotNil(t, reqB)
	assert.Less(t, reqA.Seq, reqB.Seq)
	assert.Equal(t, "gr", s.Draft)
	assert.True(t, s.Pending())

	// B resolves first, then the slower A
	s, _ = Reduce(s, FilterResolved{Seq: reqB.Seq, Query: reqB.Query, Matches: engine.Match(reqB.Query)})
	s, _ = Reduce(s, FilterResolved{Seq: reqA.Seq, Query: reqA.Query, Matches: engine.Match(reqA.Query)})

	assert.Equal(t, "gr", s.Input)
	assert.Equal(t, []string{"Grape"}, s.Filtered)
	assert.False(t, s.Pending())
}

func TestResultAfterSelectionIsDropped(t *testing.T) {
	s, req := Reduce(New(), Keystroke{Text: "ap"})
	s, _ = Reduce(s, ItemSelected{Item: "Banana"})

	s, _ = Reduce(s, FilterResolved{Seq: req.Seq, Query: req.Query, Matches: []string{"Apple"}})
	assert.Equal(t, "Banana", s.Input)
	assert.False(t, s.Open)
}

func TestFilterErrorKeepsList(t *testing.T) {
	s := typeAndResolve(t, New(), fruitEngine(), "ap")

	s, req := Reduce(s, Keystroke{Text: "apx"})
	s, _ = Reduce(s, FilterResolved{Seq: req.Seq, Query: req.Query, Err: filter.ErrNetwork})

	assert.Equal(t, filter.Message(filter.ErrNetwork), s.Err)
	assert.Equal(t, "ap", s.Input)
	assert.Equal(t, "apx", s.Draft)
	assert.Equal(t, []string{"Apple", "Grape"}, s.Filtered)
	assert.False(t, s.Pending())

	// input remains editable
	s = typeAndResolve(t, s, fruitEngine(), "ban")
	assert.Empty(t, s.Err)
	assert.Equal(t, []string{"Banana"}, s.Filtered)
}

func TestCancelledResultIsSilent(t *testing.T) {
	s, req := Reduce(New(), Keystroke{Text: "ap"})
	s, _ = Reduce(s, FilterResolved{Seq: req.Seq, Query: req.Query, Err: context.Canceled})

	assert.Empty(t, s.Err)
	assert.False(t, s.Pending())
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := typeAndResolve(t, New(), fruitEngine(), "a")
	snapshot := s.Clone()

	Reduce(s, Keystroke{Text: "b"})
	Reduce(s, ItemSelected{Item: "x"})
	Reduce(s, Closed{})

	assert.Equal(t, snapshot, s)
}

func TestRows(t *testing.T) {
	s := typeAndResolve(t, New(), fruitEngine(), "AP")

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, Match{Before: "", Text: "Ap", After: "ple"}, rows[0])
	assert.Equal(t, Match{Before: "Gr", Text: "ap", After: "e"}, rows[1])

	closed, _ := Reduce(s, Closed{})
	assert.Nil(t, closed.Rows())
}
