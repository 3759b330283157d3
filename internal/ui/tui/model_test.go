package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timercraft/internal/core/model"
	"timercraft/internal/core/stopwatch"
)

type fakeSource struct {
	snapshot     stopwatch.Snapshot
	events       chan stopwatch.Event
	unsubscribed int
}

func (source *fakeSource) Snapshot() stopwatch.Snapshot { return source.snapshot }

func (source *fakeSource) Subscribe(int) (<-chan stopwatch.Event, func()) {
	return source.events, func() { source.unsubscribed++ }
}

type recordingDispatcher struct {
	actions []model.Action
	err     error
}

func (dispatcher *recordingDispatcher) Trigger(_ context.Context, action model.Action) error {
	dispatcher.actions = append(dispatcher.actions, action)
	return dispatcher.err
}

func snapshotOf(state model.RunState, elapsed time.Duration) stopwatch.Snapshot {
	return stopwatch.Snapshot{State: state, Reading: model.NewTimerReading(elapsed), Elapsed: elapsed}
}

func newTestModel(snapshot stopwatch.Snapshot) (Model, *fakeSource, *recordingDispatcher) {
	source := &fakeSource{snapshot: snapshot, events: make(chan stopwatch.Event, 4)}
	dispatcher := &recordingDispatcher{}
	return New(context.Background(), source, dispatcher, nil), source, dispatcher
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewRendersSourceSnapshot(t *testing.T) {
	m, _, _ := newTestModel(snapshotOf(model.StateStopped, 5*time.Second))

	assert.Equal(t, model.StateStopped, m.Snapshot().State)
	assert.Equal(t, "Resume", m.Controls().PrimaryLabel)
	assert.True(t, m.Controls().CancelEnabled)

	view := m.View()
	assert.Contains(t, view, "Resume")
	assert.Contains(t, view, "05")
	assert.Contains(t, view, "quit")
}

func TestPrimaryKeyDispatchesControlAction(t *testing.T) {
	tests := []struct {
		name  string
		state model.RunState
		key   tea.KeyMsg
		want  model.Action
	}{
		{name: "space from idle", state: model.StateIdle, key: tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, want: model.ActionStart},
		{name: "enter while started", state: model.StateStarted, key: tea.KeyMsg{Type: tea.KeyEnter}, want: model.ActionStop},
		{name: "enter while stopped", state: model.StateStopped, key: tea.KeyMsg{Type: tea.KeyEnter}, want: model.ActionStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, dispatcher := newTestModel(snapshotOf(tt.state, 3*time.Second))

			m, cmd := update(t, m, tt.key)
			require.NotNil(t, cmd)
			msg := cmd()

			assert.Equal(t, []model.Action{tt.want}, dispatcher.actions)
			_, cmd = update(t, m, msg)
			assert.Nil(t, cmd)
		})
	}
}

func TestCancelKeyFollowsEnablement(t *testing.T) {
	m, _, dispatcher := newTestModel(snapshotOf(model.StateStarted, 3*time.Second))
	_, cmd := update(t, m, runes("c"))
	assert.Nil(t, cmd)

	m, _, dispatcher = newTestModel(snapshotOf(model.StateStopped, 0))
	_, cmd = update(t, m, runes("c"))
	assert.Nil(t, cmd)
	assert.Empty(t, dispatcher.actions)

	m, _, dispatcher = newTestModel(snapshotOf(model.StateStopped, 3*time.Second))
	_, cmd = update(t, m, runes("c"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []model.Action{model.ActionCancel}, dispatcher.actions)
}

func TestEventsRerender(t *testing.T) {
	m, source, _ := newTestModel(snapshotOf(model.StateIdle, 0))

	source.events <- stopwatch.Event{Type: stopwatch.EventStateChange, Snapshot: snapshotOf(model.StateStarted, 61*time.Second)}
	msg := m.Init()()
	m, cmd := update(t, m, msg)

	assert.NotNil(t, cmd)
	assert.Equal(t, model.StateStarted, m.Snapshot().State)
	assert.Equal(t, "01", m.Snapshot().Reading.Minutes)
	assert.Equal(t, "Stop", m.Controls().PrimaryLabel)
	assert.False(t, m.Controls().CancelEnabled)
}

func TestClosedSourceQuits(t *testing.T) {
	m, source, _ := newTestModel(snapshotOf(model.StateIdle, 0))
	close(source.events)

	msg := m.Init()()
	_, cmd := update(t, m, msg)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m, _, dispatcher := newTestModel(snapshotOf(model.StateStarted, time.Second))
		_, cmd := update(t, m, msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.Empty(t, dispatcher.actions)
	}
}

func TestDispatchErrorIsShown(t *testing.T) {
	m, _, dispatcher := newTestModel(snapshotOf(model.StateIdle, 0))
	dispatcher.err = errors.New("stopwatch closed")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	assert.Contains(t, m.View(), "start failed: stopwatch closed")

	m, _ = update(t, m, dispatchedMsg{action: model.ActionStart})
	assert.NotContains(t, m.View(), "failed")
}

func TestWindowSizeUpdatesHelpWidth(t *testing.T) {
	m, _, _ := newTestModel(snapshotOf(model.StateIdle, 0))

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})

	assert.Equal(t, 40, m.width)
	assert.Equal(t, 40, m.help.Width)
}

func TestCloseReleasesSubscription(t *testing.T) {
	m, source, _ := newTestModel(snapshotOf(model.StateIdle, 0))

	m.Close()

	assert.Equal(t, 1, source.unsubscribed)
}

func TestRunStoppedByContextIsCleanExit(t *testing.T) {
	m, source, _ := newTestModel(snapshotOf(model.StateIdle, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, m, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutSignalHandler())

	assert.NoError(t, err)
	assert.Equal(t, 1, source.unsubscribed)
}

func TestExitError(t *testing.T) {
	live := context.Background()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, exitError(live, nil))
	assert.NoError(t, exitError(cancelled, fmt.Errorf("%w: context canceled", tea.ErrProgramKilled)))

	err := exitError(live, tea.ErrProgramKilled)
	require.Error(t, err)
	assert.ErrorIs(t, err, tea.ErrProgramKilled)

	err = exitError(cancelled, errors.New("tty gone"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run tui: tty gone")
}
