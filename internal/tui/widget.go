package tui

import (
	"context"
	"strings"

	"github.com/bastiangx/autocomplete/pkg/config"
	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/bastiangx/autocomplete/pkg/widget"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
)

// filterResolvedMsg carries a finished filter back into Update.
type filterResolvedMsg struct {
	widget.FilterResolved
}

// Widget is the autocomplete box as a Bubble Tea component. It keeps the
// widget.State and feeds every interaction through widget.Reduce; the
// textinput only edits the draft text.
type Widget struct {
	state    widget.State
	input    textinput.Model
	filterer filter.Filterer
	styles   Styles
	width    int
	origin   widget.Point

	sub            *widget.Subscription
	cancelInflight context.CancelFunc
}

// NewWidget creates an unmounted widget.
func NewWidget(f filter.Filterer, cfg config.WidgetConfig, styles Styles) *Widget {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.Width = cfg.Width - runewidth.StringWidth(ti.Prompt) - 1
	ti.Focus()

	return &Widget{
		state:    widget.New(),
		input:    ti,
		filterer: f,
		styles:   styles,
		width:    cfg.Width,
	}
}

// State returns the current widget state.
func (w *Widget) State() widget.State {
	return w.state
}

// SetOrigin places the widget's top-left cell on screen.
func (w *Widget) SetOrigin(p widget.Point) {
	w.origin = p
}

// Bounds is the rectangle the widget's last View occupies.
func (w *Widget) Bounds() widget.Rect {
	return widget.Rect{X: w.origin.X, Y: w.origin.Y, W: w.width, H: w.height()}
}

// Mount starts listening for presses outside the widget. Remounting
// replaces the previous listener.
func (w *Widget) Mount(doc *widget.Document) {
	w.sub.Release()
	w.sub = widget.Monitor{
		Region: func() widget.Region { return w.Bounds() },
		OnOutside: func(widget.PointerEvent) {
			w.apply(widget.Closed{})
		},
	}.Attach(doc)
	log.Debug("Widget mounted", "bounds", w.Bounds())
}

// Unmount stops listening and cancels any running filter.
func (w *Widget) Unmount() {
	w.sub.Release()
	w.sub = nil
	if w.cancelInflight != nil {
		w.cancelInflight()
		w.cancelInflight = nil
	}
	log.Debug("Widget unmounted")
}

// Update handles keys and filter results.
func (w *Widget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case filterResolvedMsg:
		return w.apply(msg.FilterResolved)

	case tea.KeyMsg:
		before := w.input.Value()
		var inputCmd tea.Cmd
		w.input, inputCmd = w.input.Update(msg)
		if w.input.Value() == before {
			return inputCmd
		}
		cmd := w.apply(widget.Keystroke{Text: w.input.Value()})
		w.syncInput()
		return tea.Batch(inputCmd, cmd)
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return cmd
}

// HandlePress selects the dropdown row under p, if any.
func (w *Widget) HandlePress(p widget.Point) bool {
	if !w.state.Open {
		return false
	}
	first := w.origin.Y + w.headerHeight()
	row := p.Y - first
	if row < 0 || row >= len(w.state.Filtered) || p.X < w.origin.X || p.X >= w.origin.X+w.width {
		return false
	}
	w.apply(widget.ItemSelected{Item: w.state.Filtered[row]})
	w.syncInput()
	return true
}

// apply runs ev through the state machine and returns the filter command
// an accepted keystroke needs.
func (w *Widget) apply(ev widget.Event) tea.Cmd {
	next, req := widget.Reduce(w.state, ev)
	w.state = next
	if _, ok := ev.(widget.ItemSelected); ok && w.cancelInflight != nil {
		w.cancelInflight()
		w.cancelInflight = nil
	}
	if req == nil {
		return nil
	}
	return w.filterCmd(*req)
}

func (w *Widget) filterCmd(req widget.FilterRequest) tea.Cmd {
	if w.cancelInflight != nil {
		w.cancelInflight()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancelInflight = cancel

	f := w.filterer
	return func() tea.Msg {
		defer cancel()
		matches, err := f.Filter(ctx, req.Query)
		return filterResolvedMsg{widget.FilterResolved{
			Seq:     req.Seq,
			Query:   req.Query,
			Matches: matches,
			Err:     err,
		}}
	}
}

// syncInput makes the text box show the draft, which drops rejected characters.
func (w *Widget) syncInput() {
	if w.input.Value() != w.state.Draft {
		w.input.SetValue(w.state.Draft)
		w.input.CursorEnd()
	}
}

func (w *Widget) headerHeight() int {
	if w.state.Err != "" {
		return 2
	}
	return 1
}

func (w *Widget) height() int {
	h := w.headerHeight()
	if w.state.Open {
		h += max(len(w.state.Filtered), 1)
	}
	return h
}

// View renders the input, the error line and the dropdown.
func (w *Widget) View() string {
	var b strings.Builder
	b.WriteString(w.input.View())

	if w.state.Err != "" {
		b.WriteString("\n")
		b.WriteString(w.styles.Error.Render(w.state.Err))
	}

	if w.state.Open {
		rows := w.state.Rows()
		if len(rows) == 0 {
			b.WriteString("\n")
			b.WriteString(w.styles.Empty.Render(w.emptyText()))
		}
		for i, m := range rows {
			b.WriteString("\n")
			style := w.styles.Row
			if i == w.state.Selected {
				style = w.styles.Selected
			}
			b.WriteString(style.Render(w.renderMatch(m)))
		}
	}
	return b.String()
}

func (w *Widget) emptyText() string {
	if w.state.Pending() {
		return "searching..."
	}
	return "no matches"
}

// renderMatch draws a row with the matched part emphasized, cut to fit
// the widget width.
func (w *Widget) renderMatch(m widget.Match) string {
	m = truncateMatch(m, w.width-w.styles.Row.GetPaddingLeft())
	return m.Before + w.styles.Match.Render(m.Text) + m.After
}

// truncateMatch shortens the parts of m, left to right, so the whole row
// is at most width cells, ending in an ellipsis when anything was cut.
func truncateMatch(m widget.Match, width int) widget.Match {
	if runewidth.StringWidth(m.String()) <= width {
		return m
	}
	budget := width - 1
	parts := []*string{&m.Before, &m.Text, &m.After}
	for _, p := range parts {
		w := runewidth.StringWidth(*p)
		switch {
		case budget <= 0:
			*p = ""
		case w <= budget:
			budget -= w
		default:
			*p = runewidth.Truncate(*p, budget, "")
			budget = 0
		}
	}
	m.After += "…"
	return m
}
