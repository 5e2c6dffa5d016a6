package war

import (
	"errors"
	"fmt"
	"time"

	"github.com/jpateteg/ttbot/internal/storage"
)

const (
	DateLayout      = "2006-01"
	TimestampLayout = "2006-01-02 15:04:05"
)

// State is the lifecycle phase of a war session.
type State int

const (
	// StateInProgress: races are being reported.
	StateInProgress State = iota
	// StateFinalized: all 12 races are in (or the war was a forfeit).
	StateFinalized
	// StateHistoricalCreation: documenting an already-played war; race
	// input is skipped entirely.
	StateHistoricalCreation
	// StateScoreInput: individual player scores are being entered.
	StateScoreInput
	// StateAwaitingConfirm: a player table was emitted and the session
	// waits for the initiator to confirm or reject it.
	StateAwaitingConfirm
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateFinalized:
		return "finalized"
	case StateHistoricalCreation:
		return "historical_creation"
	case StateScoreInput:
		return "score_input"
	case StateAwaitingConfirm:
		return "awaiting_confirm"
	}
	return "unknown"
}

var (
	ErrBadTeamSize     = errors.New("players per team must be between 1 and 12")
	ErrNotInProgress   = errors.New("war is not accepting race reports")
	ErrNotFinalized    = errors.New("war is not finalized yet")
	ErrNotScoreInput   = errors.New("war is not in score input mode")
	ErrNotAwaiting     = errors.New("no player table awaiting confirmation")
	ErrAlreadyScoring  = errors.New("already entering player scores")
	ErrRecordNotDrafted = errors.New("no finished score input to commit")
)

// Config describes a war at creation time.
type Config struct {
	PlayersPerTeam int
	Team1Name      string
	Team2Name      string

	// Forfeit skips race input: team 1 gets ForfeitScore, team 2 gets 0.
	Forfeit      bool
	ForfeitScore int

	// Historical documents an already-played war: race input is skipped
	// and the session goes straight to score entry. Date and Timestamp
	// override the record's period key and display instant when set.
	Historical bool
	Date       string
	Timestamp  string
}

// RacePoints is the outcome of one race.
type RacePoints struct {
	Team     int
	Opponent int
}

// confirmation correlates the emitted player table with the only user
// allowed to confirm or reject it.
type confirmation struct {
	MessageID int
	UserID    int64
}

// Session is the state machine owning one war's lifecycle in a channel.
// Callers must serialize access; the registry's lock covers lookup only.
type Session struct {
	ChannelID      int64
	Team1Name      string
	Team2Name      string
	PlayersPerTeam int
	Historical     bool

	state       State
	currentRace int
	team1Points int
	team2Points int
	raceHistory []RacePoints
	notes       []string

	date      string // period key for historical sessions
	timestamp string // display instant for historical sessions

	ledger      *Ledger
	pending     *confirmation
	finish      *FinalizeResult
	outcome     storage.RecordStatus
	finalizedID string
}

// NewSession creates a war session for one channel.
func NewSession(channelID int64, cfg Config) (*Session, error) {
	if cfg.PlayersPerTeam < MinTeamSize || cfg.PlayersPerTeam > MaxTeamSize {
		return nil, ErrBadTeamSize
	}
	s := &Session{
		ChannelID:      channelID,
		Team1Name:      cfg.Team1Name,
		Team2Name:      cfg.Team2Name,
		PlayersPerTeam: cfg.PlayersPerTeam,
		state:          StateInProgress,
		currentRace:    1,
	}
	switch {
	case cfg.Historical:
		s.Historical = true
		s.state = StateHistoricalCreation
		now := time.Now()
		s.date = cfg.Date
		s.timestamp = cfg.Timestamp
		if s.date == "" {
			s.date = now.Format(DateLayout)
		}
		if s.timestamp == "" {
			s.timestamp = now.Format(TimestampLayout)
		}
	case cfg.Forfeit:
		s.team1Points = cfg.ForfeitScore
		s.team2Points = 0
		s.currentRace = RacesPerWar + 1
		s.state = StateFinalized
	}
	return s, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// CurrentRace returns the race number the session expects next.
func (s *Session) CurrentRace() int { return s.currentRace }

// Points returns the running race-derived totals.
func (s *Session) Points() (team1, team2 int) { return s.team1Points, s.team2Points }

// Notes returns the audit annotations collected so far.
func (s *Session) Notes() []string {
	out := make([]string, len(s.notes))
	copy(out, s.notes)
	return out
}

// Ledger returns the active score ledger, nil outside score input.
func (s *Session) Ledger() *Ledger { return s.ledger }

// FinalizedID returns the committed record id, empty until first confirm.
func (s *Session) FinalizedID() string { return s.finalizedID }

// RaceResult describes one accepted race report.
type RaceResult struct {
	Race           int
	TeamPoints     int
	OpponentPoints int
	Team1Total     int
	Team2Total     int
	Note           string
	WarFinished    bool
}

// ReportRace scores a race and advances the counter. Race-time dc= only
// affects position-count validation and the audit note; the per-race
// disconnect map is fed exclusively by the score ledger, so the two are
// never conflated.
func (s *Session) ReportRace(positions []int, dcCount int) (RaceResult, error) {
	if s.state != StateInProgress {
		return RaceResult{}, ErrNotInProgress
	}

	teamPoints, opponentPoints, err := ScoreRace(positions, dcCount, s.PlayersPerTeam)
	if err != nil {
		return RaceResult{}, err
	}

	race := s.currentRace
	s.team1Points += teamPoints
	s.team2Points += opponentPoints
	s.raceHistory = append(s.raceHistory, RacePoints{Team: teamPoints, Opponent: opponentPoints})
	s.currentRace++

	res := RaceResult{
		Race:           race,
		TeamPoints:     teamPoints,
		OpponentPoints: opponentPoints,
		Team1Total:     s.team1Points,
		Team2Total:     s.team2Points,
	}
	if dcCount > 0 {
		finished := s.PlayersPerTeam*2 - dcCount
		res.Note = fmt.Sprintf("Race %d ran with %d finishers (%d DC reported in the race).", race, finished, dcCount)
		s.notes = append(s.notes, res.Note)
	}
	if s.currentRace > RacesPerWar {
		s.state = StateFinalized
		res.WarFinished = true
	}
	return res, nil
}

// EnterScoreInput starts the player score entry phase with a fresh ledger
// on team 1. Valid once the war is finalized, or immediately for a
// historical creation.
func (s *Session) EnterScoreInput() error {
	switch s.state {
	case StateFinalized, StateHistoricalCreation:
		s.ledger = NewLedger(s.PlayersPerTeam, s.Team2Name)
		s.state = StateScoreInput
		return nil
	case StateScoreInput, StateAwaitingConfirm:
		return ErrAlreadyScoring
	case StateInProgress:
		return ErrNotFinalized
	}
	return ErrNotFinalized
}

// FinishScoreInput finalizes the ledger, decides the war outcome from the
// player sums and moves the session to awaiting confirmation. The ledger
// stays in score input when finalize fails.
func (s *Session) FinishScoreInput() (FinalizeResult, error) {
	if s.state != StateScoreInput {
		return FinalizeResult{}, ErrNotScoreInput
	}
	fr, err := s.ledger.Finalize()
	if err != nil {
		return FinalizeResult{}, err
	}

	switch {
	case fr.Team1Sum > fr.Team2Sum:
		s.outcome = storage.StatusWon
	case fr.Team1Sum < fr.Team2Sum:
		s.outcome = storage.StatusLost
	default:
		s.outcome = storage.StatusDraw
	}
	s.finish = &fr
	s.state = StateAwaitingConfirm
	return fr, nil
}

// ArmConfirmation binds the emitted player table message to the user who
// triggered the finish.
func (s *Session) ArmConfirmation(messageID int, userID int64) error {
	if s.state != StateAwaitingConfirm {
		return ErrNotAwaiting
	}
	s.pending = &confirmation{MessageID: messageID, UserID: userID}
	return nil
}

// MatchConfirmation reports whether the (message, user) pair is the one
// allowed to confirm or reject the pending table.
func (s *Session) MatchConfirmation(messageID int, userID int64) bool {
	return s.state == StateAwaitingConfirm && s.pending != nil &&
		s.pending.MessageID == messageID && s.pending.UserID == userID
}

// SetFinalizedID assigns the record id. It sticks on first assignment so a
// retried commit never burns a second id.
func (s *Session) SetFinalizedID(id string) {
	if s.finalizedID == "" {
		s.finalizedID = id
	}
}

// Outcome returns the decided record status after FinishScoreInput.
func (s *Session) Outcome() storage.RecordStatus { return s.outcome }

// FinishResult returns the ledger finalize result, nil before finish.
func (s *Session) FinishResult() *FinalizeResult { return s.finish }

// Reject discards the entered scores and restarts score input on team 1.
// Race data is untouched; an already-assigned id is kept.
func (s *Session) Reject() error {
	if s.state != StateAwaitingConfirm {
		return ErrNotAwaiting
	}
	s.ledger = NewLedger(s.PlayersPerTeam, s.Team2Name)
	s.pending = nil
	s.finish = nil
	s.state = StateScoreInput
	return nil
}

// BuildRecord produces the history record for the pending commit. The
// session must have a finalized id and a finished score input.
func (s *Session) BuildRecord(now time.Time) (storage.HistoryRecord, error) {
	if s.finish == nil {
		return storage.HistoryRecord{}, ErrRecordNotDrafted
	}
	if s.finalizedID == "" {
		return storage.HistoryRecord{}, ErrRecordNotDrafted
	}

	date := now.Format(DateLayout)
	if s.Historical && s.date != "" {
		date = s.date
	}

	return storage.HistoryRecord{
		ID:             s.finalizedID,
		Date:           date,
		Timestamp:      now.Format(TimestampLayout),
		Team1Name:      s.Team1Name,
		Team2Name:      s.Team2Name,
		Team1Score:     s.finish.Team1Sum,
		Team2Score:     s.finish.Team2Sum,
		Status:         s.outcome,
		Notes:          s.Notes(),
		PlayersPerTeam: s.PlayersPerTeam,
		PlayerScores: storage.TeamScores{
			Team1: entriesToScores(s.ledger.Entries(Team1)),
			Team2: entriesToScores(s.ledger.Entries(Team2)),
		},
		DCPerRace: s.ledger.DCPerRace(),
	}, nil
}

// Snapshot renders the session as an uncommitted record for display. Sums
// and scores are filled only after FinishScoreInput.
func (s *Session) Snapshot() storage.HistoryRecord {
	rec := storage.HistoryRecord{
		ID:             s.finalizedID,
		Team1Name:      s.Team1Name,
		Team2Name:      s.Team2Name,
		Team1Score:     s.team1Points,
		Team2Score:     s.team2Points,
		Notes:          s.Notes(),
		PlayersPerTeam: s.PlayersPerTeam,
		Timestamp:      time.Now().Format(TimestampLayout),
	}
	if s.Historical {
		rec.Date = s.date
		rec.Timestamp = s.timestamp
	}
	if s.ledger != nil {
		rec.PlayerScores = storage.TeamScores{
			Team1: entriesToScores(s.ledger.Entries(Team1)),
			Team2: entriesToScores(s.ledger.Entries(Team2)),
		}
		rec.DCPerRace = s.ledger.DCPerRace()
	}
	if s.finish != nil {
		rec.Team1Score = s.finish.Team1Sum
		rec.Team2Score = s.finish.Team2Sum
		rec.Status = s.outcome
	}
	return rec
}

func entriesToScores(entries []Entry) []storage.PlayerScore {
	out := make([]storage.PlayerScore, 0, len(entries))
	for _, e := range entries {
		out = append(out, storage.PlayerScore{
			Name:    e.Name,
			Score:   e.Score,
			DCCount: e.DCCount,
			DCRaces: e.DCRaces,
		})
	}
	return out
}

// ParseWarDate parses a historical war date in "2006-01-02" or "2006-01"
// form into the record period key and display timestamp.
func ParseWarDate(s string) (date, timestamp string, err error) {
	if t, e := time.Parse("2006-01-02", s); e == nil {
		return t.Format(DateLayout), t.Format(TimestampLayout), nil
	}
	if t, e := time.Parse("2006-01", s); e == nil {
		return t.Format(DateLayout), t.Format("2006-01-02") + " 00:00:00", nil
	}
	return "", "", fmt.Errorf("%w: war date must be YYYY-MM-DD or YYYY-MM", ErrBadFormat)
}
