package widget

import (
	"context"
	"errors"

	"github.com/bastiangx/autocomplete/pkg/filter"
)

// Event is anything that can change State.
type Event interface {
	event()
}

// Keystroke carries the whole text of the input after the user typed.
type Keystroke struct {
	Text string
}

// FilterResolved delivers the outcome of a FilterRequest.
type FilterResolved struct {
	Seq     uint64
	Query   string
	Matches []string
	Err     error
}

// ItemSelected is a click on a dropdown row.
type ItemSelected struct {
	Item string
}

// Closed is a pointer press outside the widget.
type Closed struct{}

func (Keystroke) event()      {}
func (FilterResolved) event() {}
func (ItemSelected) event()   {}
func (Closed) event()         {}

// FilterRequest asks the host to run the filter for Query and report back
// with a FilterResolved carrying the same Seq.
type FilterRequest struct {
	Seq   uint64
	Query string
}

// Reduce applies ev to s and returns the next state. When ev is an accepted
// keystroke it also returns the filter the host must run; otherwise the
// request is nil. Reduce never mutates s.
func Reduce(s State, ev Event) (State, *FilterRequest) {
	switch ev := ev.(type) {
	case Keystroke:
		if err := Validate(ev.Text); err != nil {
			s.Err = InvalidInputMessage
			return s, nil
		}
		s.issued++
		s.awaiting = s.issued
		s.Draft = ev.Text
		return s, &FilterRequest{Seq: s.issued, Query: ev.Text}

	case FilterResolved:
		if !s.Accepts(ev) {
			return s, nil
		}
		s.awaiting = 0
		if ev.Err != nil {
			if !errors.Is(ev.Err, context.Canceled) {
				s.Err = filter.Message(ev.Err)
			}
			return s, nil
		}
		matches := ev.Matches
		if matches == nil {
			matches = []string{}
		}
		s.Input = ev.Query
		s.Filtered = matches
		s.Open = true
		s.Selected = NoSelection
		s.Err = ""
		return s, nil

	case ItemSelected:
		s.Input = ev.Item
		s.Draft = ev.Item
		s.Open = false
		// an older keystroke's matches must not reopen the dropdown
		s.awaiting = 0
		return s, nil

	case Closed:
		s.Open = false
		return s, nil
	}
	return s, nil
}

// Accepts reports whether res answers the latest outstanding keystroke.
// Results for superseded keystrokes are dropped.
func (s State) Accepts(res FilterResolved) bool {
	return s.awaiting != 0 && res.Seq == s.awaiting
}
