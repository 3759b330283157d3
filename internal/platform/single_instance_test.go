package platform

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	first := portFromName("TimerCraft")
	assert.Equal(t, first, portFromName("TimerCraft"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
	assert.Equal(t, fmt.Sprintf("127.0.0.1:%d", first), InstanceAddress("TimerCraft"))
}

func TestAcquireSingleInstanceRejectsSecondInstance(t *testing.T) {
	name := fmt.Sprintf("TimerCraftTest-%d", time.Now().UnixNano())

	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.Equal(t, InstanceAddress(name), guard.Address())
	assert.NotNil(t, guard.Listener())

	_, err = AcquireSingleInstance(name)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release(), "releasing twice is harmless")

	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Equal(t, "", guard.Address())
	assert.Nil(t, guard.Listener())
}
