// Package widget holds the autocomplete widget's behaviour, independent of
// how it is drawn: the state, the pure transition function Reduce, input
// validation, match highlighting, the outside-click monitor, and a
// Controller that serializes events for concurrent hosts.
package widget

// NoSelection is the Selected value when no dropdown row is selected.
const NoSelection = -1

// InvalidInputMessage is shown when a keystroke contains anything but letters.
const InvalidInputMessage = "Please enter only letters."

// State is everything the widget renders from.
type State struct {
	// Input is the last accepted query whose matches arrived, or the
	// text of the selected row.
	Input string
	// Draft is what the input box shows: the last accepted keystroke,
	// possibly still being filtered. Rejected text never reaches it.
	Draft string
	// Filtered holds the candidates matching Input, in candidate order.
	Filtered []string
	// Open reports whether the dropdown is visible.
	Open bool
	// Selected indexes Filtered. Nothing moves it yet, so it stays NoSelection.
	Selected int
	// Err is the inline message under the input, empty when there is none.
	Err string

	issued   uint64
	awaiting uint64
}

// New returns the state of a freshly mounted widget: nothing typed,
// nothing matched, dropdown open.
func New() State {
	return State{
		Filtered: []string{},
		Open:     true,
		Selected: NoSelection,
	}
}

// Pending reports whether a filter for the latest keystroke is outstanding.
func (s State) Pending() bool {
	return s.awaiting != 0
}

// Seq is the token of the most recently accepted keystroke.
func (s State) Seq() uint64 {
	return s.issued
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	c := s
	c.Filtered = make([]string, len(s.Filtered))
	copy(c.Filtered, s.Filtered)
	return c
}

// Rows returns the dropdown rows highlighted against Input, or nil when the
// dropdown is closed.
func (s State) Rows() []Match {
	if !s.Open {
		return nil
	}
	rows := make([]Match, len(s.Filtered))
	for i, item := range s.Filtered {
		rows[i], _ = Highlight(item, s.Input)
	}
	return rows
}
