package screen

import "timercraft/internal/core/model"

// Control labels.
const (
	LabelStart  = "Start"
	LabelStop   = "Stop"
	LabelResume = "Resume"
	LabelCancel = "Cancel"
)

// Emphasis is the visual weight of the primary control.
type Emphasis int

const (
	EmphasisHigh Emphasis = iota
	EmphasisDanger
)

// ControlsView is what the two controls show for a given stopwatch state.
type ControlsView struct {
	PrimaryLabel    string
	PrimaryAction   model.Action
	PrimaryEmphasis Emphasis
	CancelEnabled   bool
}

// Controls derives the control presentation from the run state and the seconds field.
// Cancel stays disabled while counting and while the seconds read "00".
func Controls(state model.RunState, seconds string) ControlsView {
	view := ControlsView{
		PrimaryLabel:    LabelStart,
		PrimaryAction:   model.ActionStart,
		PrimaryEmphasis: EmphasisHigh,
		CancelEnabled:   seconds != "00" && state != model.StateStarted,
	}
	switch state {
	case model.StateStarted:
		view.PrimaryLabel = LabelStop
		view.PrimaryAction = model.ActionStop
		view.PrimaryEmphasis = EmphasisDanger
	case model.StateStopped:
		view.PrimaryLabel = LabelResume
	}
	return view
}

// Highlighted reports whether a digit field carries a non-zero value.
func Highlighted(field string) bool {
	return field != "00"
}
