package war

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// RacesPerWar is the number of scored races in a full war.
	RacesPerWar = 12

	// RacePointTotal is the combined points handed out in one race.
	// The opponent always receives RacePointTotal minus the reporting
	// team's points, regardless of roster size or disconnects.
	RacePointTotal = 82

	// MaxDCPerRace caps how many disconnects count toward the expected
	// total of a single race (below 8 active players the room reopens).
	MaxDCPerRace = 4

	MinTeamSize = 1
	MaxTeamSize = 12
)

// pointsByPosition maps a finishing position on the 12-slot scale to points.
var pointsByPosition = map[int]int{
	1: 15, 2: 12, 3: 10, 4: 9, 5: 8, 6: 7,
	7: 6, 8: 5, 9: 4, 10: 3, 11: 2, 12: 1,
}

// expectedTotalByDC maps the number of disconnects in a race to the total
// points actually handed out in that race.
var expectedTotalByDC = map[int]int{
	0: 82,
	1: 67,
	2: 65,
	3: 63,
	4: 60,
}

var (
	ErrNegativeDCCount      = errors.New("disconnect count cannot be negative")
	ErrDCCountExceedsRoster = errors.New("disconnect count exceeds players on track")
	ErrInvalidPositionCount = errors.New("unexpected number of positions")
	ErrDuplicatePosition    = errors.New("duplicate position")
	ErrPositionOutOfRange   = errors.New("position out of range")
	ErrBadFormat            = errors.New("bad format")
)

// ScoreRace scores one race from the reporting team's finishing positions
// and returns (teamPoints, opponentPoints).
//
// With dcCount > 0 either a full roster of positions or a roster reduced
// by dcCount is accepted; whose side actually lost players is not
// recorded.
func ScoreRace(positions []int, dcCount, playersPerTeam int) (int, int, error) {
	if dcCount < 0 {
		return 0, 0, ErrNegativeDCCount
	}
	maxOnTrack := playersPerTeam * 2
	if dcCount >= maxOnTrack {
		return 0, 0, fmt.Errorf("%w: %d disconnects with %d players on track", ErrDCCountExceedsRoster, dcCount, maxOnTrack)
	}

	seen := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos < 1 || pos > maxOnTrack {
			return 0, 0, fmt.Errorf("%w: %d (valid range 1-%d)", ErrPositionOutOfRange, pos, maxOnTrack)
		}
		if seen[pos] {
			return 0, 0, fmt.Errorf("%w: %d", ErrDuplicatePosition, pos)
		}
		seen[pos] = true
	}

	ok := len(positions) == playersPerTeam
	if !ok && dcCount > 0 {
		reduced := playersPerTeam - dcCount
		if reduced < 0 {
			return 0, 0, fmt.Errorf("%w: %d disconnects for a team of %d", ErrDCCountExceedsRoster, dcCount, playersPerTeam)
		}
		ok = len(positions) == reduced
	}
	if !ok {
		return 0, 0, fmt.Errorf("%w: got %d, expected %d", ErrInvalidPositionCount, len(positions), playersPerTeam)
	}

	teamPoints := 0
	for _, pos := range positions {
		teamPoints += pointsByPosition[pos]
	}
	return teamPoints, RacePointTotal - teamPoints, nil
}

// ExpectedTotalForRace returns the total points a race hands out given the
// number of disconnects in it. Counts above MaxDCPerRace use the cap.
func ExpectedTotalForRace(dcCount int) int {
	if dcCount > MaxDCPerRace {
		dcCount = MaxDCPerRace
	}
	if dcCount < 0 {
		dcCount = 0
	}
	return expectedTotalByDC[dcCount]
}

// ParseRaceLine parses a race report like "1 2 5 9 11 12" or
// "1 2 5 9 11 dc=1" into positions and a disconnect count.
func ParseRaceLine(text string) ([]int, int, error) {
	text = strings.ToLower(strings.TrimSpace(text))

	dcCount := 0
	if idx := strings.Index(text, "dc="); idx >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(text[idx+3:]))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: dc= expects an integer", ErrBadFormat)
		}
		dcCount = n
		text = strings.TrimSpace(text[:idx])
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, 0, fmt.Errorf("%w: no positions given", ErrBadFormat)
	}
	positions := make([]int, 0, len(fields))
	for _, f := range fields {
		pos, err := strconv.Atoi(f)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: positions must be space-separated integers", ErrBadFormat)
		}
		positions = append(positions, pos)
	}
	return positions, dcCount, nil
}
