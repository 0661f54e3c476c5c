// Package tui is a terminal front end for a single viewer.Controller.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/griesmnr/flash-cards/internal/models"
	"github.com/griesmnr/flash-cards/internal/viewer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// stateMsg delivers a state committed by the controller's event loop.
type stateMsg viewer.State

// closedMsg means the controller stopped.
type closedMsg struct{}

type Model struct {
	ctx  context.Context
	ctrl *viewer.Controller

	view    viewer.View
	status  string
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
}

// New builds a model showing ctrl's current state. ctx bounds every call
// the model makes into the controller.
func New(ctx context.Context, ctrl *viewer.Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		view:    viewer.NewView(ctrl.Snapshot()),
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
	}
}

// Run drives ctrl from the terminal until the user quits or ctx is done.
func Run(ctx context.Context, ctrl *viewer.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.spinner.Tick)
}

// waitForChange resolves once the controller publishes a newer revision.
func (m Model) waitForChange() tea.Cmd {
	ctx, ctrl, rev := m.ctx, m.ctrl, m.view.Rev
	return func() tea.Msg {
		st, err := ctrl.Wait(ctx, func(s viewer.State) bool { return s.Rev > rev })
		if err != nil {
			return closedMsg{}
		}
		return stateMsg(st)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m = m.show(viewer.State(msg))
		return m, m.waitForChange()

	case closedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Flip):
		return m.do(viewer.Flip{}), nil
	case key.Matches(msg, m.keys.Next):
		return m.do(viewer.Next{}), nil
	case key.Matches(msg, m.keys.NextDeck):
		return m.cycle(1), nil
	case key.Matches(msg, m.keys.PrevDeck):
		return m.cycle(-1), nil
	case key.Matches(msg, m.keys.Toggle):
		n, _ := strconv.Atoi(msg.String())
		if n < 1 || n > len(m.view.Toggles) {
			return m, nil
		}
		return m.do(viewer.ToggleField{Field: m.view.Toggles[n-1].Key}), nil
	}
	return m, nil
}

// do applies a synchronously; the loop answers without waiting on fetches.
func (m Model) do(a viewer.Action) Model {
	st, err := m.ctrl.Do(m.ctx, a)
	if err != nil {
		m.status = describe(err)
		return m
	}
	m.status = ""
	return m.show(st)
}

// cycle selects the collection delta steps from the one shown or loading.
func (m Model) cycle(delta int) Model {
	ids := m.view.Collections
	if len(ids) == 0 {
		return m
	}
	cur := m.view.Pending
	if cur == "" {
		cur = m.view.Selected
	}
	i := slices.Index(ids, cur)
	if i < 0 {
		i = 0
		delta = 0
	}
	next := ((i+delta)%len(ids) + len(ids)) % len(ids)
	return m.do(viewer.Select{ID: ids[next]})
}

// show adopts st unless a newer revision is already displayed.
func (m Model) show(st viewer.State) Model {
	if st.Rev < m.view.Rev {
		return m
	}
	prev := m.view
	m.view = viewer.NewView(st)
	if prev.Pending != "" && m.view.Pending == "" && m.view.Selected != prev.Pending {
		m.status = fmt.Sprintf("could not load %q", prev.Pending)
	}
	return m
}

func describe(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyDeck):
		return "no cards loaded"
	case errors.Is(err, models.ErrUnknownCollection):
		return "unknown collection"
	case errors.Is(err, models.ErrSessionClosed):
		return "viewer stopped"
	}
	return err.Error()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Flashcards"))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if c := m.view.Card; c != nil {
		b.WriteString(m.card(c))
		b.WriteString("\n")
		b.WriteString(styleSubtle.Render(fmt.Sprintf("%d / %d", c.Position, c.Total)))
		b.WriteString("\n")
	} else if !m.view.Loading {
		b.WriteString(styleSubtle.Render("No cards."))
		b.WriteString("\n")
	}

	if t := m.toggles(); t != "" {
		b.WriteString("\n")
		b.WriteString(t)
		b.WriteString("\n")
	}
	if m.view.Loading {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " loading " + m.view.Pending)
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styleError.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) tabs() string {
	tabs := make([]string, 0, len(m.view.Collections))
	for _, id := range m.view.Collections {
		if id == m.view.Selected {
			tabs = append(tabs, styleTabOn.Render(id))
		} else {
			tabs = append(tabs, styleTab.Render(id))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) card(c *viewer.CardView) string {
	lines := []string{styleFront.Render(c.Front)}
	if c.ShowBack {
		lines = append(lines, "")
		for _, f := range c.Fields {
			switch {
			case f.Heading:
				lines = append(lines, styleHeading.Render(f.Value))
			case f.Label != "":
				lines = append(lines, styleLabel.Render(f.Label+":")+" "+f.Value)
			default:
				lines = append(lines, f.Value)
			}
		}
	}
	lines = append(lines, "", styleSubtle.Render("["+c.FlipLabel+"]"))

	style := styleCard
	if m.width > 8 {
		style = style.Width(min(m.width-4, 60))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m Model) toggles() string {
	parts := make([]string, 0, len(m.view.Toggles))
	for i, t := range m.view.Toggles {
		if i >= 9 {
			break
		}
		mark := "[ ]"
		if t.Visible {
			mark = styleToggleOn.Render("[x]")
		}
		parts = append(parts, fmt.Sprintf("%d %s %s", i+1, mark, t.Label))
	}
	return strings.Join(parts, "   ")
}
