package advisor

import (
	"fmt"
	"strings"
)

// State is a step of a turn.
type State int

const (
	StateIdle State = iota
	StateScreening
	StateBlocked
	StateScoring
	StateComposing
	StateUpdating
	StateDone
)

var stateNames = [...]string{"idle", "screening", "blocked", "scoring", "composing", "updating", "done"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// transitions lists the allowed successors of every state.
var transitions = map[State][]State{
	StateIdle:      {StateScreening, StateDone},
	StateScreening: {StateBlocked, StateScoring},
	StateBlocked:   {StateDone},
	StateScoring:   {StateComposing},
	StateComposing: {StateUpdating},
	StateUpdating:  {StateDone},
}

// CanTransition reports whether a turn may move from one state to another.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// turn tracks the states a single turn passes through.
type turn struct {
	state State
	path  []State
}

func newTurn() *turn {
	return &turn{state: StateIdle, path: []State{StateIdle}}
}

func (t *turn) moveTo(next State) {
	if !CanTransition(t.state, next) {
		panic(fmt.Sprintf("advisor: illegal transition %s -> %s", t.state, next))
	}
	t.state = next
	t.path = append(t.path, next)
}

// trace renders the visited states, e.g. "idle>screening>blocked>done".
func (t *turn) trace() string {
	names := make([]string, len(t.path))
	for i, s := range t.path {
		names[i] = s.String()
	}
	return strings.Join(names, ">")
}
