package war

import (
	"testing"
	"time"

	"github.com/jpateteg/ttbot/internal/storage"
)

func sourceRecord() storage.HistoryRecord {
	return storage.HistoryRecord{
		ID:         "00003",
		Date:       "2025-07",
		Timestamp:  "2025-07-14 20:30:00",
		Team1Name:  "Blue Team",
		Team2Name:  "Red Team",
		Team1Score: 175,
		Team2Score: 115,
		Status:     storage.StatusWon,
		PlayersPerTeam: 2,
		PlayerScores: storage.TeamScores{
			Team1: []storage.PlayerScore{
				{Name: "Alice", Score: 95},
				{Name: "Bob", Score: 80, DCCount: 1, DCRaces: []int{3}},
			},
			Team2: []storage.PlayerScore{
				{Name: "Carol", Score: 60},
				{Name: "Dave", Score: 55, DCCount: 1, DCRaces: []int{7}},
			},
		},
		DCPerRace: map[int]int{3: 1, 7: 1},
	}
}

func TestNormalize_AppliesBonuses(t *testing.T) {
	src := sourceRecord()
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	out := Normalize(src, "00009", now)
	rec := out.Record

	if out.BonusRaces != 2 {
		t.Fatalf("BonusRaces = %d, want 2 (races 3 and 7 had exactly 1 DC)", out.BonusRaces)
	}
	// Overall ranking: Alice 95, Bob 80, Carol 60, Dave 55.
	// Top gets 3 per bonus race, runner-up 2, the rest 1.
	want := map[string]int{"Alice": 95 + 6, "Bob": 80 + 4, "Carol": 60 + 2, "Dave": 55 + 2}
	for _, p := range append(rec.PlayerScores.Team1, rec.PlayerScores.Team2...) {
		if p.Score != want[p.Name] {
			t.Errorf("%s score = %d, want %d", p.Name, p.Score, want[p.Name])
		}
	}
	if rec.Team1Score != 185 || rec.Team2Score != 119 {
		t.Errorf("team sums = %d/%d, want 185/119", rec.Team1Score, rec.Team2Score)
	}

	if rec.ID != "00009" {
		t.Errorf("id = %s, want 00009", rec.ID)
	}
	if rec.OriginalWarID != "00003" {
		t.Errorf("OriginalWarID = %s, want 00003", rec.OriginalWarID)
	}
	if rec.Status != storage.StatusNormalized {
		t.Errorf("status = %s, want normalized", rec.Status)
	}
	if rec.Date != "2025-08" {
		t.Errorf("date = %s, want 2025-08", rec.Date)
	}
	if len(out.Bonuses) != 4 {
		t.Errorf("Bonuses = %v, want 4 entries", out.Bonuses)
	}
}

func TestNormalize_SourceIsNeverMutated(t *testing.T) {
	src := sourceRecord()
	Normalize(src, "00009", time.Now())

	want := sourceRecord()
	if src.Team1Score != want.Team1Score || src.Team2Score != want.Team2Score {
		t.Error("source team sums changed")
	}
	for i, p := range src.PlayerScores.Team1 {
		if p.Score != want.PlayerScores.Team1[i].Score {
			t.Errorf("source player %s mutated", p.Name)
		}
	}
	for i, p := range src.PlayerScores.Team2 {
		if p.Score != want.PlayerScores.Team2[i].Score {
			t.Errorf("source player %s mutated", p.Name)
		}
	}
	if src.Status != storage.StatusWon || src.ID != "00003" {
		t.Error("source identity changed")
	}
}

func TestNormalize_NoSingleDCRaces(t *testing.T) {
	src := sourceRecord()
	src.DCPerRace = map[int]int{5: 2} // two DCs in one race: no bonus

	out := Normalize(src, "00009", time.Now())
	if out.BonusRaces != 0 {
		t.Fatalf("BonusRaces = %d, want 0", out.BonusRaces)
	}
	if out.Record.Team1Score != 175 || out.Record.Team2Score != 115 {
		t.Errorf("sums changed without bonuses: %d/%d", out.Record.Team1Score, out.Record.Team2Score)
	}
	if out.Record.Status != storage.StatusNormalized {
		t.Errorf("status = %s, want normalized even without bonuses", out.Record.Status)
	}
	if len(out.Record.Notes) == 0 {
		t.Error("expected an explanatory note on the no-bonus record")
	}
}

func TestNormalize_TiesKeepEntryOrder(t *testing.T) {
	src := sourceRecord()
	// Tie Bob (team1) and Carol (team2) at 80; Bob entered earlier so he
	// keeps the runner-up slot.
	src.PlayerScores.Team2[0].Score = 80
	src.DCPerRace = map[int]int{3: 1}

	out := Normalize(src, "00009", time.Now())
	var bob, carol int
	for _, p := range out.Record.PlayerScores.Team1 {
		if p.Name == "Bob" {
			bob = p.Score
		}
	}
	for _, p := range out.Record.PlayerScores.Team2 {
		if p.Name == "Carol" {
			carol = p.Score
		}
	}
	if bob != 82 || carol != 81 {
		t.Errorf("Bob/Carol = %d/%d, want 82/81", bob, carol)
	}
}
