// Package tui hosts the autocomplete widget in a full-screen terminal page.
package tui

import (
	"context"
	"errors"

	"github.com/bastiangx/autocomplete/pkg/config"
	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/bastiangx/autocomplete/pkg/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const helpText = "esc to quit · click a suggestion to pick it"

// App is the page: a title, the widget, and a help line. Mouse presses go
// to the page's document first so the widget can close on outside clicks.
type App struct {
	title  string
	styles Styles
	doc    *widget.Document
	widget *Widget
	width  int
	height int
}

// NewApp builds the page and mounts the widget on it.
func NewApp(cfg *config.Config, f filter.Filterer) *App {
	styles := NewStyles(cfg.Theme)
	a := &App{
		title:  cfg.App.Title,
		styles: styles,
		doc:    widget.NewDocument(),
		widget: NewWidget(f, cfg.Widget, styles),
	}
	a.widget.SetOrigin(widget.Point{X: 0, Y: lipgloss.Height(a.titleView()) + 1})
	a.widget.Mount(a.doc)
	return a
}

// Widget returns the hosted widget.
func (a *App) Widget() *Widget {
	return a.widget
}

// Close unmounts the widget.
func (a *App) Close() {
	a.widget.Unmount()
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		p := widget.Point{X: msg.X, Y: msg.Y}
		a.doc.Dispatch(widget.PointerEvent{Point: p})
		a.widget.HandlePress(p)
		return a, nil
	}

	return a, a.widget.Update(msg)
}

func (a *App) titleView() string {
	return a.styles.Title.Render(a.title)
}

func (a *App) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.titleView(),
		"",
		a.widget.View(),
		"",
		a.styles.Help.Render(helpText),
	)
}

// Run shows the page until the user quits or ctx is done.
func Run(ctx context.Context, cfg *config.Config, f filter.Filterer) error {
	app := NewApp(cfg, f)
	defer app.Close()

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		log.Error("Terminal UI stopped", "error", err)
		return err
	}
	return nil
}
