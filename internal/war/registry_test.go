package war

import (
	"errors"
	"testing"
)

func TestRegistry_PutGetDelete(t *testing.T) {
	r := NewRegistry()
	s := newTestSession(t, Config{PlayersPerTeam: 6})

	if _, ok := r.Get(1); ok {
		t.Fatal("Get on empty registry returned a session")
	}
	if err := r.Put(1, s, false); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := r.Get(1)
	if !ok || got != s {
		t.Fatal("Get did not return the stored session")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	r.Delete(1)
	if _, ok := r.Get(1); ok {
		t.Fatal("session survived Delete")
	}
}

func TestRegistry_InProgressBlocksNewWar(t *testing.T) {
	r := NewRegistry()
	running := newTestSession(t, Config{PlayersPerTeam: 6})
	if err := r.Put(1, running, false); err != nil {
		t.Fatalf("Put: %v", err)
	}

	next := newTestSession(t, Config{PlayersPerTeam: 6})
	if err := r.Put(1, next, false); !errors.Is(err, ErrWarInProgress) {
		t.Errorf("got %v, want ErrWarInProgress", err)
	}

	// replace discards the running war.
	if err := r.Put(1, next, true); err != nil {
		t.Fatalf("Put with replace: %v", err)
	}
	got, _ := r.Get(1)
	if got != next {
		t.Error("replace did not install the new session")
	}
}

func TestRegistry_FinalizedLeftoverIsOverwritten(t *testing.T) {
	r := NewRegistry()
	finalized := newTestSession(t, Config{PlayersPerTeam: 6, Forfeit: true, ForfeitScore: 150})
	if err := r.Put(1, finalized, false); err != nil {
		t.Fatalf("Put: %v", err)
	}

	next := newTestSession(t, Config{PlayersPerTeam: 6})
	if err := r.Put(1, next, false); err != nil {
		t.Errorf("finalized leftover blocked a new war: %v", err)
	}
}

func TestRegistry_ChannelsAreIndependent(t *testing.T) {
	r := NewRegistry()
	a := newTestSession(t, Config{PlayersPerTeam: 6})
	b := newTestSession(t, Config{PlayersPerTeam: 2})
	if err := r.Put(1, a, false); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := r.Put(2, b, false); err != nil {
		t.Fatalf("Put b: %v", err)
	}
	gotA, _ := r.Get(1)
	gotB, _ := r.Get(2)
	if gotA != a || gotB != b {
		t.Error("sessions crossed channels")
	}
}
