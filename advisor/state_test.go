package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	allowed := [][2]State{
		{StateIdle, StateScreening},
		{StateIdle, StateDone},
		{StateScreening, StateBlocked},
		{StateScreening, StateScoring},
		{StateBlocked, StateDone},
		{StateScoring, StateComposing},
		{StateComposing, StateUpdating},
		{StateUpdating, StateDone},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	assert.False(t, CanTransition(StateBlocked, StateComposing))
	assert.False(t, CanTransition(StateScreening, StateComposing))
	assert.False(t, CanTransition(StateDone, StateIdle))
}

func TestTurnPanicsOnIllegalMove(t *testing.T) {
	tr := newTurn()
	tr.moveTo(StateScreening)
	assert.Panics(t, func() { tr.moveTo(StateUpdating) })
	assert.Equal(t, []State{StateIdle, StateScreening}, tr.path)
	assert.Equal(t, "idle>screening", tr.trace())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "blocked", StateBlocked.String())
	assert.Equal(t, "state(42)", State(42).String())
}
