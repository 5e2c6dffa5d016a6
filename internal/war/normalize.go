package war

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jpateteg/ttbot/internal/storage"
)

// NormalizeOutcome is the derived record plus the details for messaging.
type NormalizeOutcome struct {
	Record storage.HistoryRecord
	// BonusRaces is the number of races with exactly one disconnect.
	BonusRaces int
	// Bonuses lists the applied bonuses per player, empty when none.
	Bonuses []string
}

// Normalize derives a bonus-adjusted record from a committed war. Every
// race with exactly one disconnect grants 3 bonus points per race to the
// overall top scorer, 2 to the runner-up and 1 to everyone else. The sort
// is stable, so tied scores keep their original team1-before-team2 entry
// order. The source record is never modified; the result always carries a
// fresh id and references the source through OriginalWarID.
func Normalize(src storage.HistoryRecord, newID string, now time.Time) NormalizeOutcome {
	rec := src
	rec.ID = newID
	rec.Date = now.Format(DateLayout)
	rec.Timestamp = now.Format(TimestampLayout)
	rec.Status = storage.StatusNormalized
	rec.OriginalWarID = src.ID
	rec.Notes = append([]string(nil), src.Notes...)
	rec.DCPerRace = copyDCMap(src.DCPerRace)
	rec.PlayerScores = storage.TeamScores{
		Team1: copyScores(src.PlayerScores.Team1),
		Team2: copyScores(src.PlayerScores.Team2),
	}

	bonusRaces := 0
	for _, dc := range src.DCPerRace {
		if dc == 1 {
			bonusRaces++
		}
	}

	if bonusRaces == 0 {
		rec.Notes = append(rec.Notes, "No bonus applied: no races with exactly 1 DC were recorded.")
		return NormalizeOutcome{Record: rec, BonusRaces: 0}
	}

	type slot struct {
		team  *[]storage.PlayerScore
		index int
	}
	slots := make([]slot, 0, len(rec.PlayerScores.Team1)+len(rec.PlayerScores.Team2))
	for i := range rec.PlayerScores.Team1 {
		slots = append(slots, slot{team: &rec.PlayerScores.Team1, index: i})
	}
	for i := range rec.PlayerScores.Team2 {
		slots = append(slots, slot{team: &rec.PlayerScores.Team2, index: i})
	}
	sort.SliceStable(slots, func(a, b int) bool {
		return (*slots[a].team)[slots[a].index].Score > (*slots[b].team)[slots[b].index].Score
	})

	var bonuses []string
	for rank, sl := range slots {
		bonus := bonusRaces
		switch rank {
		case 0:
			bonus = 3 * bonusRaces
		case 1:
			bonus = 2 * bonusRaces
		}
		p := &(*sl.team)[sl.index]
		p.Score += bonus
		bonuses = append(bonuses, fmt.Sprintf("%s (%s): +%d pts", p.Name, ordinal(rank+1), bonus))
	}

	rec.Team1Score = sumScores(rec.PlayerScores.Team1)
	rec.Team2Score = sumScores(rec.PlayerScores.Team2)
	rec.Notes = append(rec.Notes,
		fmt.Sprintf("Normalized with finishing-position bonus (%d race(s) with 1 DC).", bonusRaces),
		"Bonuses applied: "+strings.Join(bonuses, ", "))

	return NormalizeOutcome{Record: rec, BonusRaces: bonusRaces, Bonuses: bonuses}
}

func copyScores(src []storage.PlayerScore) []storage.PlayerScore {
	out := make([]storage.PlayerScore, len(src))
	copy(out, src)
	for i := range out {
		out[i].DCRaces = append([]int(nil), out[i].DCRaces...)
	}
	return out
}

func copyDCMap(src map[int]int) map[int]int {
	out := make(map[int]int, len(src))
	for race, n := range src {
		out[race] = n
	}
	return out
}

func sumScores(scores []storage.PlayerScore) int {
	total := 0
	for _, p := range scores {
		total += p.Score
	}
	return total
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	}
	return fmt.Sprintf("%dth", n)
}
