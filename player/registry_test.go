package player

import (
	"errors"
	"testing"
)

func TestRegistry_Create(t *testing.T) {
	registry := NewRegistry(250)

	id, err := registry.Create("worm1", "")
	if err != nil {
		t.Fatalf("Create should not fail, got: %v", err)
	}
	if id != "worm1" {
		t.Errorf("Expected id worm1, got %s", id)
	}

	state, exists := registry.Get("worm1")
	if !exists {
		t.Fatal("Get should find the created player")
	}
	if state.X < 1 || state.X > 250 || state.Y < 1 || state.Y > 250 {
		t.Errorf("Spawn position out of range: (%v, %v)", state.X, state.Y)
	}
	if state.Pos != FacingLeft {
		t.Errorf("Expected default facing %q, got %q", FacingLeft, state.Pos)
	}
	if state.Weapon.Skin != DefaultWeaponSkin {
		t.Errorf("Expected default weapon skin %q, got %q", DefaultWeaponSkin, state.Weapon.Skin)
	}
	if state.Shot != nil || state.Jump != nil {
		t.Error("New player should have no pending shot or jump")
	}
}

func TestRegistry_Create_GeneratedID(t *testing.T) {
	registry := NewRegistry(250)

	id1, err := registry.Create("", "")
	if err != nil {
		t.Fatalf("Create with empty id failed: %v", err)
	}
	id2, err := registry.Create("", "")
	if err != nil {
		t.Fatalf("Create with empty id failed: %v", err)
	}

	if id1 == "" || id2 == "" {
		t.Fatal("Generated ids should not be empty")
	}
	if id1 == id2 {
		t.Errorf("Generated ids should be unique, both were %s", id1)
	}
}

func TestRegistry_Create_Duplicate(t *testing.T) {
	registry := NewRegistry(250)

	if _, err := registry.Create("worm1", ""); err != nil {
		t.Fatalf("First Create failed: %v", err)
	}

	_, err := registry.Create("worm1", "")
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got: %v", err)
	}
	if registry.Len() != 1 {
		t.Errorf("Duplicate Create must not change the registry, len = %d", registry.Len())
	}
}

func TestRegistry_Update_MergesPatch(t *testing.T) {
	registry := NewRegistry(250)
	registry.Create("worm1", "")

	x, y := 12.5, 99.0
	pos := FacingRight
	rotation := 0.7
	shot := `{"x":12.5}`

	err := registry.Update("worm1", Patch{
		X:      &x,
		Y:      &y,
		Pos:    &pos,
		Weapon: &WeaponPatch{Rotation: &rotation},
		Shot:   &shot,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	state, _ := registry.Get("worm1")
	if state.X != x || state.Y != y {
		t.Errorf("Expected position (%v, %v), got (%v, %v)", x, y, state.X, state.Y)
	}
	if state.Pos != FacingRight {
		t.Errorf("Expected facing R, got %q", state.Pos)
	}
	if state.Weapon.Rotation != rotation {
		t.Errorf("Expected weapon rotation %v, got %v", rotation, state.Weapon.Rotation)
	}
	if state.Weapon.Skin != DefaultWeaponSkin {
		t.Errorf("Patch without skin must keep the default, got %q", state.Weapon.Skin)
	}
	if state.Shot == nil || *state.Shot != shot {
		t.Errorf("Expected pending shot %q, got %v", shot, state.Shot)
	}

	// 下一帧不带 shot 字段时待决事件被清除
	if err := registry.Update("worm1", Patch{X: &x}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	state, _ = registry.Get("worm1")
	if state.Shot != nil {
		t.Errorf("Shot should be cleared by the next patch, got %v", *state.Shot)
	}
}

func TestRegistry_Update_Unknown(t *testing.T) {
	registry := NewRegistry(250)

	err := registry.Update("ghost", Patch{})
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("Expected ErrUnknownPlayer, got: %v", err)
	}
	if registry.Len() != 0 {
		t.Error("Update must never auto-create a player")
	}
}

func TestRegistry_Remove_Idempotent(t *testing.T) {
	registry := NewRegistry(250)
	registry.Create("worm1", "")

	if !registry.Remove("worm1") {
		t.Error("First Remove should report the player existed")
	}
	if registry.Remove("worm1") {
		t.Error("Second Remove should report the player was already gone")
	}
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry, len = %d", registry.Len())
	}
}

func TestRegistry_List_InsertionOrder(t *testing.T) {
	registry := NewRegistry(250)
	ids := []string{"worm1", "worm2", "worm3"}
	for _, id := range ids {
		if _, err := registry.Create(id, ""); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}
	registry.Remove("worm2")
	registry.Create("worm4", "")

	expected := []string{"worm1", "worm3", "worm4"}
	entries := registry.List()
	if len(entries) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(entries))
	}
	for i, entry := range entries {
		if entry.Key != expected[i] {
			t.Errorf("Entry %d: expected key %s, got %s", i, expected[i], entry.Key)
		}
	}
}
