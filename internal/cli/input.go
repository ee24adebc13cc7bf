// Package cli drives the widget state machine from line input, for debugging
// the filter and the state transitions without a terminal UI.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/autocomplete/internal/logger"
	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/bastiangx/autocomplete/pkg/widget"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var errQuit = errors.New("quit")

// InputHandler reads one line per interaction. A plain line replaces the
// input text; lines starting with ':' are commands:
//
//	:pick N   select the Nth suggestion
//	:close    close the dropdown
//	:state    print the current state
//	:q        quit
type InputHandler struct {
	filterer     filter.Filterer
	state        widget.State
	in           io.Reader
	out          *log.Logger
	match        lipgloss.Style
	requestCount int
}

// NewInputHandler creates a handler reading from in and printing to out.
func NewInputHandler(f filter.Filterer, in io.Reader, out io.Writer, match lipgloss.Style) *InputHandler {
	return &InputHandler{
		filterer: f,
		state:    widget.New(),
		in:       in,
		out:      logger.NewWithWriter(out, ""),
		match:    match,
	}
}

// State returns the current widget state.
func (h *InputHandler) State() widget.State {
	return h.state
}

// Start runs the loop until input ends, ":q" is read, or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	h.out.Print("AutoComplete CLI")
	h.out.Print("type letters and press Enter, :pick N to select, :q to quit")

	reader := bufio.NewReader(h.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line != "" {
			if herr := h.handleLine(ctx, strings.TrimRight(line, "\r\n")); herr != nil {
				if errors.Is(herr, errQuit) {
					return nil
				}
				return herr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func (h *InputHandler) handleLine(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, ":") {
		h.typeText(ctx, line)
		return nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "q", "quit":
		return errQuit
	case "pick":
		if len(fields) != 2 {
			h.out.Error("Usage: :pick N")
			return nil
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(h.state.Filtered) || !h.state.Open {
			h.out.Errorf("No suggestion %q to pick", fields[1])
			return nil
		}
		h.state, _ = widget.Reduce(h.state, widget.ItemSelected{Item: h.state.Filtered[n-1]})
		h.out.Infof("Selected %q", h.state.Input)
	case "close":
		h.state, _ = widget.Reduce(h.state, widget.Closed{})
		h.out.Info("Dropdown closed")
	case "state":
		h.printState()
	default:
		h.out.Errorf("Unknown command: %s", fields[0])
	}
	return nil
}

// typeText applies text as a keystroke and resolves its filter before
// returning, so each line prints the settled state.
func (h *InputHandler) typeText(ctx context.Context, text string) {
	h.requestCount++
	next, req := widget.Reduce(h.state, widget.Keystroke{Text: text})
	h.state = next
	if req == nil {
		h.out.Warn(h.state.Err, "input", text)
		return
	}

	start := time.Now()
	matches, err := h.filterer.Filter(ctx, req.Query)
	log.Debugf("Took [ %v ] for query '%s' (request %d)", time.Since(start), req.Query, h.requestCount)

	h.state, _ = widget.Reduce(h.state, widget.FilterResolved{
		Seq:     req.Seq,
		Query:   req.Query,
		Matches: matches,
		Err:     err,
	})
	h.printState()
}

func (h *InputHandler) printState() {
	if h.state.Err != "" {
		h.out.Error(h.state.Err)
	}
	if !h.state.Open {
		h.out.Printf("Input: %q (closed)", h.state.Input)
		return
	}
	rows := h.state.Rows()
	if len(rows) == 0 {
		h.out.Warnf("No suggestions for '%s'", h.state.Input)
		return
	}
	h.out.Printf("Found %d suggestions for '%s':", len(rows), h.state.Input)
	for i, m := range rows {
		h.out.Print(fmt.Sprintf("%2d. %s%s%s", i+1, m.Before, h.match.Render(m.Text), m.After))
	}
}
