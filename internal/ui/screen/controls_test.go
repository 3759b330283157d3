package screen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"timercraft/internal/core/model"
)

var allStates = []model.RunState{model.StateIdle, model.StateStarted, model.StateStopped}

func allSeconds() []string {
	values := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		values = append(values, fmt.Sprintf("%02d", i))
	}
	return values
}

func TestControlsPrimaryLabelFollowsState(t *testing.T) {
	for _, seconds := range allSeconds() {
		assert.Equal(t, LabelStart, Controls(model.StateIdle, seconds).PrimaryLabel)
		assert.Equal(t, LabelStop, Controls(model.StateStarted, seconds).PrimaryLabel)
		assert.Equal(t, LabelResume, Controls(model.StateStopped, seconds).PrimaryLabel)
	}
}

func TestControlsPrimaryAction(t *testing.T) {
	assert.Equal(t, model.ActionStart, Controls(model.StateIdle, "00").PrimaryAction)
	assert.Equal(t, model.ActionStop, Controls(model.StateStarted, "00").PrimaryAction)
	assert.Equal(t, model.ActionStart, Controls(model.StateStopped, "07").PrimaryAction)
}

func TestControlsCancelEnablement(t *testing.T) {
	for _, state := range allStates {
		for _, seconds := range allSeconds() {
			want := seconds != "00" && state != model.StateStarted
			assert.Equal(t, want, Controls(state, seconds).CancelEnabled, "state=%s seconds=%s", state, seconds)
		}
	}
}

func TestControlsExamples(t *testing.T) {
	assert.Equal(t, ControlsView{
		PrimaryLabel:    LabelStop,
		PrimaryAction:   model.ActionStop,
		PrimaryEmphasis: EmphasisDanger,
		CancelEnabled:   false,
	}, Controls(model.StateStarted, "05"))

	assert.Equal(t, ControlsView{
		PrimaryLabel:    LabelResume,
		PrimaryAction:   model.ActionStart,
		PrimaryEmphasis: EmphasisHigh,
		CancelEnabled:   true,
	}, Controls(model.StateStopped, "05"))
}

func TestControlsCancelDisabledOnWholeMinute(t *testing.T) {
	// a stopped reading of 00:01:00 still reads "00" in the seconds field
	assert.False(t, Controls(model.StateStopped, "00").CancelEnabled)
}

func TestHighlighted(t *testing.T) {
	assert.False(t, Highlighted("00"))
	assert.True(t, Highlighted("01"))
	assert.True(t, Highlighted("100"))
}
