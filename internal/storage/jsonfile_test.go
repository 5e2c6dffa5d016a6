package storage

import (
	"context"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	history, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory on empty store: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("empty store returned %d records", len(history))
	}

	rec := HistoryRecord{
		ID:         "00001",
		Date:       "2025-07",
		Timestamp:  "2025-07-14 20:30:00",
		Team1Name:  "Blue Team",
		Team2Name:  "Red Team",
		Team1Score: 175,
		Team2Score: 115,
		Status:     StatusWon,
		Notes:      []string{"Race 3 ran with 11 finishers (1 DC reported in the race)."},
		PlayersPerTeam: 2,
		PlayerScores: TeamScores{
			Team1: []PlayerScore{{Name: "Alice", Score: 95}, {Name: "Bob", Score: 80, DCCount: 1, DCRaces: []int{3}}},
			Team2: []PlayerScore{{Name: "Carol", Score: 60}, {Name: "Dave", Score: 55}},
		},
		DCPerRace: map[int]int{3: 1},
	}
	if err := store.AppendHistory(ctx, rec); err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}

	history, err = store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d records, want 1", len(history))
	}
	got := history[0]
	if got.ID != rec.ID || got.Status != rec.Status || got.Team1Score != rec.Team1Score {
		t.Errorf("record did not round trip: %+v", got)
	}
	if got.DCPerRace[3] != 1 {
		t.Errorf("dc map did not round trip: %v", got.DCPerRace)
	}
	if len(got.PlayerScores.Team1) != 2 || got.PlayerScores.Team1[1].DCRaces[0] != 3 {
		t.Errorf("player scores did not round trip: %+v", got.PlayerScores)
	}
}

func TestFileStore_AppendKeepsOrder(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	for _, id := range []string{"00001", "00002", "00003"} {
		if err := store.AppendHistory(ctx, HistoryRecord{ID: id}); err != nil {
			t.Fatalf("AppendHistory(%s): %v", id, err)
		}
	}
	history, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d records, want 3", len(history))
	}
	for i, id := range []string{"00001", "00002", "00003"} {
		if history[i].ID != id {
			t.Errorf("history[%d].ID = %s, want %s", i, history[i].ID, id)
		}
	}
}

func TestFileStore_NextID(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	for _, want := range []string{"00001", "00002", "00003"} {
		id, err := store.NextID(ctx)
		if err != nil {
			t.Fatalf("NextID: %v", err)
		}
		if id != want {
			t.Errorf("NextID = %s, want %s", id, want)
		}
	}
}
