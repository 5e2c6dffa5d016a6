package war

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Team identifies a side of the war.
type Team int

const (
	Team1 Team = iota + 1
	Team2
)

func (t Team) String() string {
	if t == Team2 {
		return "team2"
	}
	return "team1"
}

// Entry is one player line in the score ledger.
type Entry struct {
	Name    string
	Score   int
	DCCount int
	DCRaces []int
}

var (
	ErrBadScoreLine    = errors.New("bad score line")
	ErrNegativeScore   = errors.New("score cannot be negative")
	ErrDCRaceMismatch  = errors.New("dc count does not match r= race list")
	ErrRaceOutOfRange  = errors.New("race number out of range")
	ErrTeamIncomplete  = errors.New("team roster incomplete")
	ErrAlreadyOnTeam2  = errors.New("already entering team 2")
	ErrNotEnoughScores = errors.New("both teams need their scores entered")
)

// scoreLineRe matches "<name> <score> [dc=<N>] [r=<a,b,...>]"; the name may
// contain spaces.
var scoreLineRe = regexp.MustCompile(`(?i)^(.+?)\s+(\d+)(?:\s+dc=(\d+))?(?:\s+r=([\d,]+))?$`)

// Ledger accumulates per-team player score lines during the score-entry
// phase of a war. It also owns the per-race disconnect map fed by r=
// annotations; race reports never touch that map, so the two disconnect
// sources stay separate.
type Ledger struct {
	playersPerTeam int
	team2Name      string

	current   Team
	team1     []Entry
	team2     []Entry
	dcPerRace map[int]int
}

// NewLedger returns a ledger starting on team 1.
func NewLedger(playersPerTeam int, team2Name string) *Ledger {
	return &Ledger{
		playersPerTeam: playersPerTeam,
		team2Name:      team2Name,
		current:        Team1,
		dcPerRace:      make(map[int]int),
	}
}

// LineResult reports what a submitted line did.
type LineResult struct {
	Entry Entry
	Team  Team
	// Extra marks an entry beyond the expected roster size; it is kept
	// but flagged so the caller can warn.
	Extra     bool
	TeamCount int
	// TeamComplete is set when the entry fills the team's roster exactly.
	TeamComplete bool
	// AdvancedToTeam2 is set when completing team 1 moved entry to team 2.
	AdvancedToTeam2 bool
	// OverLimitRaces lists races whose disconnect count now exceeds
	// MaxDCPerRace after this line.
	OverLimitRaces []int
}

// IsTeamSwitch reports whether the line is a marker for switching entry to
// team 2 (the configured team name or the generic "team 2" token).
func (l *Ledger) IsTeamSwitch(line string) bool {
	line = strings.ToLower(strings.TrimSpace(line))
	return line == strings.ToLower(l.team2Name) || line == "team 2"
}

// SwitchTeam moves entry to team 2. It returns false with no error when
// entry is already on team 2, and an error while team 1 is short.
func (l *Ledger) SwitchTeam() (bool, error) {
	if l.current == Team2 {
		return false, nil
	}
	if len(l.team1) < l.playersPerTeam {
		return false, fmt.Errorf("%w: team 1 has %d of %d players", ErrTeamIncomplete, len(l.team1), l.playersPerTeam)
	}
	l.current = Team2
	return true, nil
}

// SubmitLine parses and records one player score line for the current team.
// The ledger is unchanged when an error is returned.
func (l *Ledger) SubmitLine(line string) (LineResult, error) {
	line = strings.TrimSpace(line)
	m := scoreLineRe.FindStringSubmatch(line)
	if m == nil {
		return LineResult{}, fmt.Errorf("%w: expected `<name> <score> [dc=N r=X]`", ErrBadScoreLine)
	}

	name := strings.TrimSpace(m[1])
	score, err := strconv.Atoi(m[2])
	if err != nil {
		return LineResult{}, fmt.Errorf("%w: score %q", ErrBadScoreLine, m[2])
	}
	if score < 0 {
		return LineResult{}, ErrNegativeScore
	}

	dcCount := 0
	if m[3] != "" {
		dcCount, _ = strconv.Atoi(m[3])
	}

	var dcRaces []int
	if m[4] != "" {
		for _, part := range strings.Split(m[4], ",") {
			race, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return LineResult{}, fmt.Errorf("%w: r= expects comma-separated race numbers", ErrBadScoreLine)
			}
			dcRaces = append(dcRaces, race)
		}
	}

	if dcCount > 0 {
		if dcCount != len(dcRaces) {
			return LineResult{}, fmt.Errorf("%w: dc=%d but %d races in r=", ErrDCRaceMismatch, dcCount, len(dcRaces))
		}
		for _, race := range dcRaces {
			if race < 1 || race > RacesPerWar {
				return LineResult{}, fmt.Errorf("%w: %d (valid range 1-%d)", ErrRaceOutOfRange, race, RacesPerWar)
			}
		}
	} else {
		dcRaces = nil
	}

	res := LineResult{
		Entry: Entry{Name: name, Score: score, DCCount: dcCount, DCRaces: dcRaces},
		Team:  l.current,
	}
	for _, race := range dcRaces {
		l.dcPerRace[race]++
		if l.dcPerRace[race] > MaxDCPerRace {
			res.OverLimitRaces = append(res.OverLimitRaces, race)
		}
	}

	entries := l.entriesFor(l.current)
	res.Extra = len(*entries) >= l.playersPerTeam
	*entries = append(*entries, res.Entry)
	res.TeamCount = len(*entries)
	res.TeamComplete = len(*entries) == l.playersPerTeam

	if res.TeamComplete && l.current == Team1 {
		l.current = Team2
		res.AdvancedToTeam2 = true
	}
	return res, nil
}

// FinalizeResult carries the sums and the consistency check outcome.
type FinalizeResult struct {
	Team1Sum int
	Team2Sum int
	// ExpectedTotal aggregates ExpectedTotalForRace over all 12 races
	// using the ledger's disconnect map.
	ExpectedTotal int
	Mismatch      bool
	// TotalDCs is the number of individual disconnects across all entries.
	TotalDCs int
	// RacesByDCLevel maps a per-race disconnect count to how many races
	// had it, for the explanation message.
	RacesByDCLevel map[int]int
}

// Finalize checks both rosters and computes the team sums. Extra entries
// beyond the roster size are tolerated; a short team is an error. A
// mismatch against the disconnect-adjusted expected total is reported,
// not an error.
func (l *Ledger) Finalize() (FinalizeResult, error) {
	if len(l.team1) == 0 || len(l.team2) == 0 {
		return FinalizeResult{}, ErrNotEnoughScores
	}
	if len(l.team1) < l.playersPerTeam {
		return FinalizeResult{}, fmt.Errorf("%w: team 1 has %d of %d players", ErrTeamIncomplete, len(l.team1), l.playersPerTeam)
	}
	if len(l.team2) < l.playersPerTeam {
		return FinalizeResult{}, fmt.Errorf("%w: team 2 has %d of %d players", ErrTeamIncomplete, len(l.team2), l.playersPerTeam)
	}

	res := FinalizeResult{RacesByDCLevel: make(map[int]int)}
	for _, e := range l.team1 {
		res.Team1Sum += e.Score
		res.TotalDCs += e.DCCount
	}
	for _, e := range l.team2 {
		res.Team2Sum += e.Score
		res.TotalDCs += e.DCCount
	}

	for race := 1; race <= RacesPerWar; race++ {
		dc := l.dcPerRace[race]
		res.ExpectedTotal += ExpectedTotalForRace(dc)
		if dc > 0 {
			res.RacesByDCLevel[dc]++
		}
	}
	res.Mismatch = res.Team1Sum+res.Team2Sum != res.ExpectedTotal
	return res, nil
}

// Entries returns a copy of the team's entries in submission order.
func (l *Ledger) Entries(team Team) []Entry {
	src := l.team1
	if team == Team2 {
		src = l.team2
	}
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// Current returns the team currently receiving entries.
func (l *Ledger) Current() Team { return l.current }

// Count returns how many entries a team has.
func (l *Ledger) Count(team Team) int {
	if team == Team2 {
		return len(l.team2)
	}
	return len(l.team1)
}

// DCPerRace returns a copy of the race→disconnect-count map.
func (l *Ledger) DCPerRace() map[int]int {
	out := make(map[int]int, len(l.dcPerRace))
	for race, n := range l.dcPerRace {
		out[race] = n
	}
	return out
}

func (l *Ledger) entriesFor(team Team) *[]Entry {
	if team == Team2 {
		return &l.team2
	}
	return &l.team1
}
