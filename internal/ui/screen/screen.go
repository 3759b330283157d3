package screen

import (
	"context"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"timercraft/internal/core/model"
	"timercraft/internal/core/stopwatch"
	"timercraft/internal/logger"
)

const (
	digitTextSize = 70
	eventBuffer   = 8
)

// Source exposes the observable stopwatch state.
type Source interface {
	Snapshot() stopwatch.Snapshot
	Subscribe(buffer int) (<-chan stopwatch.Event, func())
}

// Dispatcher accepts actions for the stopwatch.
type Dispatcher interface {
	Trigger(ctx context.Context, action model.Action) error
}

// Screen renders the stopwatch digits and its two controls.
type Screen struct {
	ctx        context.Context
	dispatcher Dispatcher
	log        *logger.Logger

	hours   *canvas.Text
	minutes *canvas.Text
	seconds *canvas.Text
	primary *widget.Button
	cancel  *widget.Button
	content fyne.CanvasObject

	mu      sync.Mutex
	view    ControlsView
	pending sync.WaitGroup
}

// New builds the screen. Taps are forwarded to dispatcher and never awaited.
func New(ctx context.Context, dispatcher Dispatcher, log *logger.Logger) *Screen {
	if log == nil {
		log = logger.Nop()
	}
	screen := &Screen{
		ctx:        ctx,
		dispatcher: dispatcher,
		log:        log,
		hours:      newDigit(),
		minutes:    newDigit(),
		seconds:    newDigit(),
	}

	screen.primary = widget.NewButton(LabelStart, screen.onPrimary)
	screen.cancel = widget.NewButton(LabelCancel, screen.onCancel)

	digits := container.New(&digitsLayout{}, screen.hours, screen.minutes, screen.seconds)
	buttons := container.New(&buttonsLayout{}, screen.primary, screen.cancel)
	screen.content = container.NewPadded(container.NewBorder(nil, buttons, nil, nil, digits))

	screen.Render(stopwatch.Snapshot{State: model.StateIdle, Reading: model.ZeroReading})
	return screen
}

// Content returns the root canvas object.
func (screen *Screen) Content() fyne.CanvasObject {
	return screen.content
}

// Bind renders the source's current state and re-renders on each published
// event until the source closes its channel. The returned func unbinds.
func (screen *Screen) Bind(source Source) func() {
	events, unsubscribe := source.Subscribe(eventBuffer)
	screen.Render(source.Snapshot())
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				screen.Render(snapshot)
			})
		}
	}()
	return unsubscribe
}

// Render draws a snapshot. It must run on the UI goroutine.
func (screen *Screen) Render(snapshot stopwatch.Snapshot) {
	view := Controls(snapshot.State, snapshot.Reading.Seconds)

	screen.mu.Lock()
	screen.view = view
	screen.mu.Unlock()

	setDigit(screen.hours, snapshot.Reading.Hours)
	setDigit(screen.minutes, snapshot.Reading.Minutes)
	setDigit(screen.seconds, snapshot.Reading.Seconds)

	screen.primary.SetText(view.PrimaryLabel)
	screen.primary.Importance = importance(view.PrimaryEmphasis)
	screen.primary.Refresh()

	if view.CancelEnabled {
		screen.cancel.Enable()
	} else {
		screen.cancel.Disable()
	}
}

// View returns the controls as last rendered.
func (screen *Screen) View() ControlsView {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	return screen.view
}

func (screen *Screen) onPrimary() {
	screen.dispatch(screen.View().PrimaryAction)
}

func (screen *Screen) onCancel() {
	if !screen.View().CancelEnabled {
		return
	}
	screen.dispatch(model.ActionCancel)
}

func (screen *Screen) dispatch(action model.Action) {
	if screen.dispatcher == nil {
		return
	}
	screen.pending.Add(1)
	go func() {
		defer screen.pending.Done()
		if err := screen.dispatcher.Trigger(screen.ctx, action); err != nil {
			screen.log.Warnw("dispatch_failed", "action", action.Short(), "err", err)
		}
	}()
}

func newDigit() *canvas.Text {
	text := canvas.NewText("00", theme.Color(theme.ColorNameForeground))
	text.Alignment = fyne.TextAlignCenter
	text.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	text.TextSize = digitTextSize
	return text
}

func setDigit(text *canvas.Text, value string) {
	text.Text = value
	text.Color = digitColor(value)
	text.Refresh()
}

func digitColor(value string) color.Color {
	if Highlighted(value) {
		return theme.Color(theme.ColorNamePrimary)
	}
	return theme.Color(theme.ColorNameForeground)
}

func importance(emphasis Emphasis) widget.Importance {
	if emphasis == EmphasisDanger {
		return widget.DangerImportance
	}
	return widget.HighImportance
}

// digitsLayout spreads the digit fields evenly across the width.
type digitsLayout struct{}

func (layout *digitsLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	cell := size.Width / float32(len(objects))
	for i, object := range objects {
		objectSize := object.MinSize()
		x := cell*float32(i) + (cell-objectSize.Width)/2
		y := (size.Height - objectSize.Height) / 2
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		object.Move(fyne.NewPos(x, y))
		object.Resize(objectSize)
	}
}

func (layout *digitsLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var width, height float32
	for _, object := range objects {
		objectSize := object.MinSize()
		width += objectSize.Width
		if objectSize.Height > height {
			height = objectSize.Height
		}
	}
	return fyne.NewSize(width+theme.Padding()*float32(len(objects)+1), height)
}

// buttonsLayout gives both buttons the same width with a gap between them.
type buttonsLayout struct{}

const buttonGap = float32(30)

func (layout *buttonsLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	width := (size.Width - buttonGap) / 2
	if width < 0 {
		width = 0
	}
	objects[0].Move(fyne.NewPos(0, 0))
	objects[0].Resize(fyne.NewSize(width, size.Height))
	objects[1].Move(fyne.NewPos(width+buttonGap, 0))
	objects[1].Resize(fyne.NewSize(width, size.Height))
}

func (layout *buttonsLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	first := objects[0].MinSize()
	second := objects[1].MinSize()
	width := first.Width
	if second.Width > width {
		width = second.Width
	}
	height := first.Height
	if second.Height > height {
		height = second.Height
	}
	return fyne.NewSize(width*2+buttonGap, height*1.6)
}
