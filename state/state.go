package state

import (
	"errors"
	"sync"
)

// Status identifies a room lifecycle state.
type Status string

const (
	// StatusLobby is the initial state: players gather, nothing is streamed.
	StatusLobby Status = "lobby"
	// StatusActive is entered exactly once, when the first player starts the
	// match. There is no transition out of it.
	StatusActive Status = "active"
)

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// Machine is a closed-transition state machine: only transitions registered
// via AddTransition are permitted, everything else is rejected. A second
// start of an already active room therefore fails here, which is what routes
// late starters onto the join path.
type Machine struct {
	mutex       sync.RWMutex
	current     Status
	transitions map[Status]map[Status]bool
}

// NewMachine creates a machine in the given initial state.
func NewMachine(initial Status) *Machine {
	return &Machine{
		current:     initial,
		transitions: make(map[Status]map[Status]bool),
	}
}

// NewRoomMachine builds the room lifecycle: lobby -> active, one way.
func NewRoomMachine() *Machine {
	m := NewMachine(StatusLobby)
	m.AddTransition(StatusLobby, StatusActive)
	return m
}

func (m *Machine) AddTransition(from, to Status) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.transitions[from]; !exists {
		m.transitions[from] = make(map[Status]bool)
	}
	m.transitions[from][to] = true
}

// Transition moves to the target state or returns ErrTransitionNotAllowed.
func (m *Machine) Transition(to Status) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.transitions[m.current][to] {
		return ErrTransitionNotAllowed
	}
	m.current = to
	return nil
}

func (m *Machine) Current() Status {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// Is reports whether the machine currently sits in the given state.
func (m *Machine) Is(status Status) bool {
	return m.Current() == status
}
