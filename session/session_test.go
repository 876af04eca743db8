package session

import (
	"net"
	"testing"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	sent [][]byte
}

func (m *MockConnection) Send(data []byte) error       { m.sent = append(m.sent, data); return nil }
func (m *MockConnection) ReadMessage() ([]byte, error) { return nil, nil }
func (m *MockConnection) Close() error                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr         { return &net.TCPAddr{} }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sess := NewSession("session1", &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	retrieved, exists := manager.Get("session1")
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrieved != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove("session1")
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}
	if _, exists := manager.Get("session1"); exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_All(t *testing.T) {
	manager := NewManager()
	manager.Add(NewSession("s1", &MockConnection{}))
	manager.Add(NewSession("s2", &MockConnection{}))

	all := manager.All()
	if len(all) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(all))
	}
}

func TestSession_Ready(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})

	if sess.Ready() {
		t.Error("A new session must not be ready")
	}

	sess.SetReady(true)
	if !sess.Ready() {
		t.Error("Ready should be true after SetReady(true)")
	}
}

func TestSession_BindUnbind(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})

	sess.Bind("room1", "worm1")
	if sess.RoomID() != "room1" || sess.PlayerID() != "worm1" {
		t.Errorf("Bind did not stick: room=%q player=%q", sess.RoomID(), sess.PlayerID())
	}

	sess.SetReady(true)
	sess.Unbind()
	if sess.RoomID() != "" || sess.PlayerID() != "" {
		t.Error("Unbind should clear the room binding")
	}
	if sess.Ready() {
		t.Error("Unbind should reset the ready flag")
	}
}

func TestSession_Send(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("s1", conn)

	before := sess.LastActive()
	if err := sess.Send([]byte(`{"type":"update"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(conn.sent) != 1 {
		t.Fatalf("Expected 1 sent message, got %d", len(conn.sent))
	}
	if sess.LastActive().Before(before) {
		t.Error("Send should refresh LastActive")
	}
}
