package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timercraft/internal/core/model"
	"timercraft/internal/core/stopwatch"
	"timercraft/internal/logger"
	"timercraft/internal/ui/screen"
)

const (
	title       = "TimerCraft"
	eventBuffer = 8
)

type eventMsg stopwatch.Event

type closedMsg struct{}

type dispatchedMsg struct {
	action model.Action
	err    error
}

// Model is the terminal rendition of the stopwatch screen.
type Model struct {
	ctx        context.Context
	dispatcher screen.Dispatcher
	events      <-chan stopwatch.Event
	unsubscribe func()
	log         *logger.Logger

	snapshot stopwatch.Snapshot
	view     screen.ControlsView
	status   string

	keys  keyMap
	help  help.Model
	width int
}

// New subscribes to source and renders its current snapshot.
func New(ctx context.Context, source screen.Source, dispatcher screen.Dispatcher, log *logger.Logger) Model {
	if log == nil {
		log = logger.Nop()
	}
	events, unsubscribe := source.Subscribe(eventBuffer)
	m := Model{
		ctx:         ctx,
		dispatcher:  dispatcher,
		events:      events,
		unsubscribe: unsubscribe,
		log:         log,
		keys:        newKeyMap(),
		help:        help.New(),
	}
	m.render(source.Snapshot())
	return m
}

// Close releases the model's subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Run starts the program and blocks until the user quits or ctx ends. The
// model's subscription is released on return.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	defer m.Close()
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return exitError(ctx, err)
}

// exitError treats a program stopped by ctx as a normal shutdown.
func exitError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("run tui: %w", err)
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case eventMsg:
		m.render(msg.Snapshot)
		return m, waitForEvent(m.events)
	case closedMsg:
		return m, tea.Quit
	case dispatchedMsg:
		if msg.err != nil {
			m.log.Warnw("dispatch_failed", "action", msg.action.Short(), "err", msg.err)
			m.status = fmt.Sprintf("%s failed: %v", msg.action.Short(), msg.err)
		} else {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Primary):
		return m, m.dispatch(m.view.PrimaryAction)
	case key.Matches(msg, m.keys.Cancel):
		if !m.view.CancelEnabled {
			return m, nil
		}
		return m, m.dispatch(model.ActionCancel)
	}
	return m, nil
}

// Snapshot returns the last rendered snapshot.
func (m Model) Snapshot() stopwatch.Snapshot {
	return m.snapshot
}

// Controls returns the controls as last rendered.
func (m Model) Controls() screen.ControlsView {
	return m.view
}

func (m *Model) render(snapshot stopwatch.Snapshot) {
	m.snapshot = snapshot
	m.view = screen.Controls(snapshot.State, snapshot.Reading.Seconds)
}

func (m Model) dispatch(action model.Action) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	ctx, dispatcher := m.ctx, m.dispatcher
	return func() tea.Msg {
		return dispatchedMsg{action: action, err: dispatcher.Trigger(ctx, action)}
	}
}

func waitForEvent(events <-chan stopwatch.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(event)
	}
}

func (m Model) View() string {
	reading := m.snapshot.Reading
	digits := lipgloss.JoinHorizontal(lipgloss.Center,
		renderDigit(reading.Hours), ":",
		renderDigit(reading.Minutes), ":",
		renderDigit(reading.Seconds),
	)

	primary := buttonStyle.Background(primaryColor(m.view.PrimaryEmphasis)).Render(m.view.PrimaryLabel)
	cancel := disabledButtonStyle.Render(screen.LabelCancel)
	if m.view.CancelEnabled {
		cancel = buttonStyle.Background(colorText).Render(screen.LabelCancel)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, primary, cancel)

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(stateStyle.Render(string(m.snapshot.State)))
	b.WriteString("\n\n")
	b.WriteString(digits)
	b.WriteString("\n\n")
	b.WriteString(buttons)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return appStyle.Render(b.String())
}

func renderDigit(value string) string {
	style := digitStyle.Foreground(colorText)
	if screen.Highlighted(value) {
		style = digitStyle.Foreground(colorAccent).BorderForeground(colorAccent)
	}
	return style.Render(value)
}

func primaryColor(emphasis screen.Emphasis) lipgloss.Color {
	if emphasis == screen.EmphasisDanger {
		return colorDanger
	}
	return colorAccent
}
