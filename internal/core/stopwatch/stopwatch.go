package stopwatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"timercraft/internal/core/model"
	"timercraft/internal/logger"
	"timercraft/internal/metrics"
)

var (
	// ErrClosed is returned once the command loop has exited.
	ErrClosed = errors.New("stopwatch closed")
	// ErrRunning is returned when Run is called on an active service.
	ErrRunning = errors.New("stopwatch already running")
)

const commandBuffer = 16

// Store persists the session and its action history.
type Store interface {
	SaveSession(ctx context.Context, session model.Session) error
	LoadSession(ctx context.Context) (model.Session, bool, error)
	AppendAction(ctx context.Context, record model.ActionRecord) error
}

// Dependencies are the optional collaborators of a Service.
type Dependencies struct {
	Clock    Clock
	Store    Store
	Recorder metrics.Recorder
	Logger   *logger.Logger
}

// Service is the stopwatch state machine. Actions are queued with Trigger and
// applied one at a time by the command loop started with Run.
type Service struct {
	mu          sync.Mutex
	config      model.StopwatchConfig
	clock       Clock
	store       Store
	recorder    metrics.Recorder
	log         *logger.Logger
	state       model.RunState
	accumulated time.Duration
	startedAt   time.Time
	events      []chan Event
	commands    chan model.Action
	done        chan struct{}
	running     bool
	closed      bool
}

// New creates an idle stopwatch.
func New(config model.StopwatchConfig, deps Dependencies) *Service {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}

	return &Service{
		config:   config,
		clock:    deps.Clock,
		store:    deps.Store,
		recorder: deps.Recorder,
		log:      deps.Logger,
		state:    model.StateIdle,
		commands: make(chan model.Action, commandBuffer),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a new observer channel and returns it with an
// unsubscribe func that removes and closes it. Observers that fall behind miss
// intermediate events instead of blocking the stopwatch.
func (service *Service) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.closed {
		close(ch)
		return ch, func() {}
	}
	service.events = append(service.events, ch)

	var once sync.Once
	return ch, func() {
		once.Do(func() { service.unsubscribe(ch) })
	}
}

// Observers returns the number of live subscriptions.
func (service *Service) Observers() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.events)
}

// unsubscribe is a no-op for channels already closed by shutdown.
func (service *Service) unsubscribe(ch chan Event) {
	service.mu.Lock()
	defer service.mu.Unlock()
	for i, candidate := range service.events {
		if candidate == ch {
			service.events = append(service.events[:i], service.events[i+1:]...)
			close(ch)
			return
		}
	}
}

// Snapshot returns the current observable state.
func (service *Service) Snapshot() Snapshot {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.snapshotLocked(service.clock.Now())
}

// Trigger queues an action for the command loop without waiting for it to be applied.
func (service *Service) Trigger(ctx context.Context, action model.Action) error {
	if _, err := model.ParseAction(string(action)); err != nil {
		return err
	}
	select {
	case <-service.done:
		return ErrClosed
	default:
	}

	select {
	case service.commands <- action:
		return nil
	case <-service.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Restore loads the persisted session. A session that was counting keeps
// counting from its original start time.
func (service *Service) Restore(ctx context.Context) error {
	if service.store == nil {
		return nil
	}
	session, ok, err := service.store.LoadSession(ctx)
	if err != nil {
		service.recorder.IncStoreError("load_session")
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return nil
	}

	service.mu.Lock()
	service.applySessionLocked(session)
	now := service.clock.Now()
	snapshot := service.snapshotLocked(now)
	service.emitLocked(Event{Type: EventStateChange, Snapshot: snapshot, At: now})
	service.mu.Unlock()

	service.recorder.SetRunState(snapshot.State)
	service.recorder.SetElapsed(snapshot.Elapsed)
	service.log.Infow("session_restored", "state", snapshot.State, "elapsed", snapshot.Reading.String())
	return nil
}

// Run drives the command loop and the publication ticker until ctx ends.
// Observer channels are closed when Run returns.
func (service *Service) Run(ctx context.Context) error {
	service.mu.Lock()
	if service.closed {
		service.mu.Unlock()
		return ErrClosed
	}
	if service.running {
		service.mu.Unlock()
		return ErrRunning
	}
	service.running = true
	service.mu.Unlock()

	defer service.shutdown(ctx)

	ticker := time.NewTicker(service.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case action := <-service.commands:
			service.apply(ctx, action)
		case <-ticker.C:
			service.tick()
		}
	}
}

func (service *Service) apply(ctx context.Context, action model.Action) bool {
	service.mu.Lock()
	now := service.clock.Now()
	from := service.state
	next, ok := transition(from, action)
	if !ok {
		service.mu.Unlock()
		service.recorder.IncAction(action, metrics.ResultIgnored)
		service.log.Debugw("action_ignored", "action", action, "state", from)
		return false
	}

	switch action {
	case model.ActionStart:
		service.startedAt = now
	case model.ActionStop:
		service.accumulated = service.elapsedLocked(now)
		service.startedAt = time.Time{}
	case model.ActionCancel:
		service.accumulated = 0
		service.startedAt = time.Time{}
	}
	service.state = next

	snapshot := service.snapshotLocked(now)
	session := service.sessionLocked(now)
	service.emitLocked(Event{Type: EventStateChange, Action: action, Snapshot: snapshot, At: now})
	service.mu.Unlock()

	service.recorder.IncAction(action, metrics.ResultApplied)
	service.recorder.SetRunState(next)
	service.recorder.SetElapsed(snapshot.Elapsed)
	service.log.Infow("action_applied", "action", action.Short(), "from", from, "to", next, "elapsed", snapshot.Reading.String())

	service.persist(ctx, session, model.ActionRecord{
		ID:         uuid.NewString(),
		Action:     action,
		From:       from,
		To:         next,
		Elapsed:    snapshot.Elapsed,
		OccurredAt: now,
	})
	return true
}

func (service *Service) tick() {
	service.mu.Lock()
	if service.state != model.StateStarted {
		service.mu.Unlock()
		return
	}
	now := service.clock.Now()
	snapshot := service.snapshotLocked(now)
	service.emitLocked(Event{Type: EventTick, Snapshot: snapshot, At: now})
	service.mu.Unlock()

	service.recorder.SetElapsed(snapshot.Elapsed)
}

func (service *Service) persist(ctx context.Context, session model.Session, record model.ActionRecord) {
	if service.store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := service.store.SaveSession(ctx, session); err != nil {
		service.recorder.IncStoreError("save_session")
		service.log.Errorw("session_save_failed", "err", err)
	}
	if err := service.store.AppendAction(ctx, record); err != nil {
		service.recorder.IncStoreError("append_action")
		service.log.Errorw("action_append_failed", "action", record.Action, "err", err)
	}
}

func (service *Service) shutdown(ctx context.Context) {
	service.mu.Lock()
	service.running = false
	service.closed = true
	close(service.done)
	session := service.sessionLocked(service.clock.Now())
	events := service.events
	service.events = nil
	service.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}

	if service.store != nil {
		if err := service.store.SaveSession(context.WithoutCancel(ctx), session); err != nil {
			service.recorder.IncStoreError("save_session")
			service.log.Errorw("session_save_failed", "err", err)
		}
	}
}

func (service *Service) applySessionLocked(session model.Session) {
	service.state = session.State
	service.accumulated = session.Accumulated
	service.startedAt = session.StartedAt
	if service.accumulated < 0 {
		service.accumulated = 0
	}

	switch service.state {
	case model.StateStarted:
		if service.startedAt.IsZero() {
			service.state = model.StateStopped
		}
	case model.StateStopped:
		service.startedAt = time.Time{}
	default:
		service.state = model.StateIdle
		service.accumulated = 0
		service.startedAt = time.Time{}
	}
}

func (service *Service) elapsedLocked(now time.Time) time.Duration {
	elapsed := service.accumulated
	if service.state == model.StateStarted {
		if running := now.Sub(service.startedAt); running > 0 {
			elapsed += running
		}
	}
	return elapsed
}

func (service *Service) snapshotLocked(now time.Time) Snapshot {
	elapsed := service.elapsedLocked(now)
	return Snapshot{
		State:   service.state,
		Reading: model.NewTimerReading(elapsed),
		Elapsed: elapsed,
	}
}

func (service *Service) sessionLocked(now time.Time) model.Session {
	return model.Session{
		State:       service.state,
		Accumulated: service.accumulated,
		StartedAt:   service.startedAt,
		UpdatedAt:   now,
	}
}

// emitLocked replaces the oldest queued event when an observer is full, so the
// latest snapshot always reaches it.
func (service *Service) emitLocked(event Event) {
	for _, ch := range service.events {
		select {
		case ch <- event:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}

// transition returns the state an action leads to, or false when the action
// does not apply in the given state.
func transition(state model.RunState, action model.Action) (model.RunState, bool) {
	switch action {
	case model.ActionStart:
		if state == model.StateIdle || state == model.StateStopped {
			return model.StateStarted, true
		}
	case model.ActionStop:
		if state == model.StateStarted {
			return model.StateStopped, true
		}
	case model.ActionCancel:
		if state == model.StateStarted || state == model.StateStopped {
			return model.StateIdle, true
		}
	}
	return state, false
}
