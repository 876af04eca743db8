package state

import (
	"testing"
)

func TestMachine_InitialState(t *testing.T) {
	m := NewRoomMachine()

	if m.Current() != StatusLobby {
		t.Errorf("Expected initial state %q, got %q", StatusLobby, m.Current())
	}
	if !m.Is(StatusLobby) {
		t.Error("Is(StatusLobby) should be true on a fresh machine")
	}
}

func TestMachine_LobbyToActive(t *testing.T) {
	m := NewRoomMachine()

	if err := m.Transition(StatusActive); err != nil {
		t.Fatalf("lobby -> active should be allowed, got: %v", err)
	}
	if m.Current() != StatusActive {
		t.Errorf("Expected state %q, got %q", StatusActive, m.Current())
	}
}

func TestMachine_ActiveIsTerminal(t *testing.T) {
	m := NewRoomMachine()
	if err := m.Transition(StatusActive); err != nil {
		t.Fatalf("First transition failed: %v", err)
	}

	// A second start must be rejected; the caller routes it to the join path.
	if err := m.Transition(StatusActive); err != ErrTransitionNotAllowed {
		t.Errorf("Expected ErrTransitionNotAllowed, got: %v", err)
	}
	if err := m.Transition(StatusLobby); err != ErrTransitionNotAllowed {
		t.Errorf("Expected ErrTransitionNotAllowed going back to lobby, got: %v", err)
	}
	if m.Current() != StatusActive {
		t.Errorf("Blocked transition must not change state, got %q", m.Current())
	}
}

func TestMachine_AddTransition(t *testing.T) {
	m := NewMachine("a")

	if err := m.Transition("b"); err != ErrTransitionNotAllowed {
		t.Errorf("Unregistered transition should be rejected, got: %v", err)
	}

	m.AddTransition("a", "b")
	if err := m.Transition("b"); err != nil {
		t.Errorf("Registered transition should be allowed, got: %v", err)
	}
	if m.Current() != Status("b") {
		t.Errorf("Expected state b, got %q", m.Current())
	}
}
