package war

import (
	"errors"
	"fmt"
	"testing"
)

func TestLedger_SubmitLine(t *testing.T) {
	l := NewLedger(2, "Red Team")

	res, err := l.SubmitLine("Alice 95")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entry.Name != "Alice" || res.Entry.Score != 95 {
		t.Errorf("entry = %+v, want Alice/95", res.Entry)
	}
	if res.Team != Team1 || res.TeamCount != 1 || res.TeamComplete {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestLedger_NameWithSpaces(t *testing.T) {
	l := NewLedger(2, "Red Team")
	res, err := l.SubmitLine("Don Pepe 88")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entry.Name != "Don Pepe" || res.Entry.Score != 88 {
		t.Errorf("entry = %+v, want Don Pepe/88", res.Entry)
	}
}

func TestLedger_DCAnnotations(t *testing.T) {
	l := NewLedger(2, "Red Team")
	res, err := l.SubmitLine("Alice 70 dc=2 r=3,7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entry.DCCount != 2 || len(res.Entry.DCRaces) != 2 {
		t.Errorf("entry = %+v, want dc=2 with 2 races", res.Entry)
	}
	dcs := l.DCPerRace()
	if dcs[3] != 1 || dcs[7] != 1 {
		t.Errorf("dcPerRace = %v, want races 3 and 7 at 1", dcs)
	}
}

func TestLedger_DCRaceCountMustMatch(t *testing.T) {
	l := NewLedger(2, "Red Team")
	if _, err := l.SubmitLine("Alice 70 dc=2 r=1"); !errors.Is(err, ErrDCRaceMismatch) {
		t.Errorf("got %v, want ErrDCRaceMismatch", err)
	}
	// A rejected line must leave the disconnect map untouched.
	if len(l.DCPerRace()) != 0 {
		t.Errorf("dcPerRace = %v, want empty after rejected line", l.DCPerRace())
	}
	if l.Count(Team1) != 0 {
		t.Errorf("team1 count = %d, want 0 after rejected line", l.Count(Team1))
	}
}

func TestLedger_DCRaceOutOfRange(t *testing.T) {
	l := NewLedger(2, "Red Team")
	if _, err := l.SubmitLine("Alice 70 dc=1 r=13"); !errors.Is(err, ErrRaceOutOfRange) {
		t.Errorf("got %v, want ErrRaceOutOfRange", err)
	}
}

func TestLedger_BadLines(t *testing.T) {
	l := NewLedger(2, "Red Team")
	for _, line := range []string{"Alice", "95", "Alice -5"} {
		if _, err := l.SubmitLine(line); !errors.Is(err, ErrBadScoreLine) {
			t.Errorf("SubmitLine(%q): got %v, want ErrBadScoreLine", line, err)
		}
	}
}

func TestLedger_AutoAdvanceToTeam2(t *testing.T) {
	l := NewLedger(2, "Red Team")
	mustSubmit(t, l, "Alice 95")
	res := mustSubmit(t, l, "Bob 80")

	if !res.TeamComplete || !res.AdvancedToTeam2 {
		t.Errorf("result = %+v, want team complete and advanced", res)
	}
	if l.Current() != Team2 {
		t.Errorf("current = %v, want Team2", l.Current())
	}
}

func TestLedger_TeamSwitchMarkers(t *testing.T) {
	l := NewLedger(2, "Red Team")
	for _, line := range []string{"Red Team", "red team", "  TEAM 2  "} {
		if !l.IsTeamSwitch(line) {
			t.Errorf("IsTeamSwitch(%q) = false, want true", line)
		}
	}
	if l.IsTeamSwitch("Alice 95") {
		t.Error("score line recognized as team switch")
	}
}

func TestLedger_SwitchTeamRules(t *testing.T) {
	l := NewLedger(2, "Red Team")

	// Team 1 is still short.
	if _, err := l.SwitchTeam(); !errors.Is(err, ErrTeamIncomplete) {
		t.Errorf("got %v, want ErrTeamIncomplete", err)
	}

	mustSubmit(t, l, "Alice 95")
	mustSubmit(t, l, "Bob 80") // auto-advances

	// Already on team 2: no error, no switch.
	switched, err := l.SwitchTeam()
	if err != nil || switched {
		t.Errorf("SwitchTeam on team2 = (%v, %v), want (false, nil)", switched, err)
	}
}

func TestLedger_ExtraEntriesFlagged(t *testing.T) {
	l := NewLedger(1, "Red Team")
	mustSubmit(t, l, "Alice 95")
	l.current = Team1 // force extra entry onto team 1

	res := mustSubmit(t, l, "Ringer 50")
	if !res.Extra {
		t.Errorf("result = %+v, want Extra", res)
	}
	if l.Count(Team1) != 2 {
		t.Errorf("team1 count = %d, want 2 (extra kept)", l.Count(Team1))
	}
}

func TestLedger_OverLimitDCWarning(t *testing.T) {
	l := NewLedger(6, "Red Team")
	for i := 0; i < MaxDCPerRace; i++ {
		res := mustSubmit(t, l, fmt.Sprintf("P%d 10 dc=1 r=5", i))
		if len(res.OverLimitRaces) != 0 {
			t.Fatalf("entry %d flagged over limit too early: %+v", i, res)
		}
	}
	res := mustSubmit(t, l, "P4 10 dc=1 r=5")
	if len(res.OverLimitRaces) != 1 || res.OverLimitRaces[0] != 5 {
		t.Errorf("OverLimitRaces = %v, want [5]", res.OverLimitRaces)
	}
}

func TestLedger_Finalize(t *testing.T) {
	l := NewLedger(2, "Red Team")
	mustSubmit(t, l, "Alice 95")
	mustSubmit(t, l, "Bob 80 dc=1 r=3")
	mustSubmit(t, l, "Carol 60")
	mustSubmit(t, l, "Dave 55")

	res, err := l.Finalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Team1Sum != 175 || res.Team2Sum != 115 {
		t.Errorf("sums = %d/%d, want 175/115", res.Team1Sum, res.Team2Sum)
	}
	// 11 clean races plus one with a single disconnect.
	wantExpected := 11*82 + 67
	if res.ExpectedTotal != wantExpected {
		t.Errorf("ExpectedTotal = %d, want %d", res.ExpectedTotal, wantExpected)
	}
	if !res.Mismatch {
		t.Error("Mismatch = false, want true (290 != 969)")
	}
	if res.TotalDCs != 1 || res.RacesByDCLevel[1] != 1 {
		t.Errorf("dc summary = %d/%v, want 1 dc in 1 race", res.TotalDCs, res.RacesByDCLevel)
	}
}

func TestLedger_FinalizeRequiresBothTeams(t *testing.T) {
	l := NewLedger(2, "Red Team")
	if _, err := l.Finalize(); !errors.Is(err, ErrNotEnoughScores) {
		t.Errorf("got %v, want ErrNotEnoughScores", err)
	}

	mustSubmit(t, l, "Alice 95")
	mustSubmit(t, l, "Bob 80")
	mustSubmit(t, l, "Carol 60")
	if _, err := l.Finalize(); !errors.Is(err, ErrTeamIncomplete) {
		t.Errorf("got %v, want ErrTeamIncomplete", err)
	}
}

func mustSubmit(t *testing.T, l *Ledger, line string) LineResult {
	t.Helper()
	res, err := l.SubmitLine(line)
	if err != nil {
		t.Fatalf("SubmitLine(%q): %v", line, err)
	}
	return res
}
