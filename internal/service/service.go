package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/jpateteg/ttbot/internal/storage"
	"github.com/jpateteg/ttbot/internal/war"
)

var (
	ErrWarNotFound     = errors.New("no war with that id in the history")
	ErrConfirmMismatch = errors.New("confirmation does not match the pending table")
)

// MonthSummary aggregates outcomes for one period key.
type MonthSummary struct {
	Month      string
	Won        int
	Lost       int
	Draw       int
	Normalized int
}

// WarServiceInterface is the surface the telegram handlers depend on.
type WarServiceInterface interface {
	StartWar(chatID int64, cfg war.Config, replace bool) (*war.Session, error)
	Session(chatID int64) (*war.Session, bool)
	ReportRace(chatID int64, positions []int, dcCount int) (war.RaceResult, error)
	BeginScoreInput(chatID int64) (*war.Session, error)
	BeginHistorical(chatID int64, cfg war.Config) (*war.Session, bool, error)
	FinishScoreInput(chatID int64) (war.FinalizeResult, *war.Session, error)
	ArmConfirmation(chatID int64, messageID int, userID int64) error
	Confirm(ctx context.Context, chatID int64, messageID int, userID int64) (storage.HistoryRecord, error)
	Reject(chatID int64, messageID int, userID int64) (*war.Session, error)
	MonthlySummary(ctx context.Context) ([]MonthSummary, error)
	Results(ctx context.Context, month, opponent string) ([]storage.HistoryRecord, error)
	Normalize(ctx context.Context, warID string) (war.NormalizeOutcome, error)
}

// WarService owns the session registry and drives every state transition
// against the history store.
type WarService struct {
	registry *war.Registry
	store    storage.HistoryStore
	log      *logrus.Logger
}

func New(store storage.HistoryStore, log *logrus.Logger) *WarService {
	return &WarService{
		registry: war.NewRegistry(),
		store:    store,
		log:      log,
	}
}

// StartWar creates a session for the channel. An in-progress war blocks
// creation unless replace is set; a finalized leftover is overwritten.
func (s *WarService) StartWar(chatID int64, cfg war.Config, replace bool) (*war.Session, error) {
	sess, err := war.NewSession(chatID, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Put(chatID, sess, replace); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"chat_id": chatID,
		"size":    cfg.PlayersPerTeam,
		"forfeit": cfg.Forfeit,
	}).Info("war started")
	return sess, nil
}

// Session returns the channel's active session, if any.
func (s *WarService) Session(chatID int64) (*war.Session, bool) {
	return s.registry.Get(chatID)
}

// ReportRace applies one race report to the channel's war.
func (s *WarService) ReportRace(chatID int64, positions []int, dcCount int) (war.RaceResult, error) {
	sess, ok := s.registry.Get(chatID)
	if !ok {
		return war.RaceResult{}, war.ErrNoSession
	}
	res, err := sess.ReportRace(positions, dcCount)
	if err != nil {
		return war.RaceResult{}, err
	}
	if res.WarFinished {
		s.log.WithField("chat_id", chatID).Info("war finalized after race 12")
	}
	return res, nil
}

// BeginScoreInput enters player score entry for the channel's finalized war.
func (s *WarService) BeginScoreInput(chatID int64) (*war.Session, error) {
	sess, ok := s.registry.Get(chatID)
	if !ok {
		return nil, war.ErrNoSession
	}
	if err := sess.EnterScoreInput(); err != nil {
		return nil, err
	}
	return sess, nil
}

// BeginHistorical creates a historical-creation session and puts it
// straight into score input. A war in progress blocks it; a finalized
// leftover is replaced, which the second return reports so the caller can
// mention it.
func (s *WarService) BeginHistorical(chatID int64, cfg war.Config) (*war.Session, bool, error) {
	replacedFinalized := false
	if existing, ok := s.registry.Get(chatID); ok {
		if existing.State() == war.StateInProgress {
			return nil, false, war.ErrWarInProgress
		}
		replacedFinalized = true
	}

	cfg.Historical = true
	sess, err := war.NewSession(chatID, cfg)
	if err != nil {
		return nil, false, err
	}
	if err := sess.EnterScoreInput(); err != nil {
		return nil, false, err
	}
	if err := s.registry.Put(chatID, sess, true); err != nil {
		return nil, false, err
	}
	s.log.WithFields(logrus.Fields{"chat_id": chatID, "date": cfg.Date}).Info("historical table creation started")
	return sess, replacedFinalized, nil
}

// FinishScoreInput finalizes the ledger and leaves the session awaiting
// confirmation.
func (s *WarService) FinishScoreInput(chatID int64) (war.FinalizeResult, *war.Session, error) {
	sess, ok := s.registry.Get(chatID)
	if !ok {
		return war.FinalizeResult{}, nil, war.ErrNoSession
	}
	fr, err := sess.FinishScoreInput()
	if err != nil {
		return war.FinalizeResult{}, sess, err
	}
	return fr, sess, nil
}

// ArmConfirmation binds the emitted table message to the finishing user.
func (s *WarService) ArmConfirmation(chatID int64, messageID int, userID int64) error {
	sess, ok := s.registry.Get(chatID)
	if !ok {
		return war.ErrNoSession
	}
	return sess.ArmConfirmation(messageID, userID)
}

// Confirm commits the pending record and removes the session. A store
// failure is retried and, if it persists, surfaced with the session left
// intact so the confirmation can be retried: a completed war is never
// silently dropped.
func (s *WarService) Confirm(ctx context.Context, chatID int64, messageID int, userID int64) (storage.HistoryRecord, error) {
	sess, ok := s.registry.Get(chatID)
	if !ok {
		return storage.HistoryRecord{}, war.ErrNoSession
	}
	if !sess.MatchConfirmation(messageID, userID) {
		return storage.HistoryRecord{}, ErrConfirmMismatch
	}

	if sess.FinalizedID() == "" {
		var id string
		err := backoff.Retry(func() error {
			var err error
			id, err = s.store.NextID(ctx)
			return err
		}, s.retryPolicy())
		if err != nil {
			return storage.HistoryRecord{}, fmt.Errorf("allocate war id: %w", err)
		}
		sess.SetFinalizedID(id)
	}

	rec, err := sess.BuildRecord(time.Now())
	if err != nil {
		return storage.HistoryRecord{}, err
	}

	err = backoff.Retry(func() error {
		return s.store.AppendHistory(ctx, rec)
	}, s.retryPolicy())
	if err != nil {
		s.log.WithFields(logrus.Fields{"chat_id": chatID, "war_id": rec.ID}).
			WithError(err).Error("failed to persist war, keeping session for retry")
		return storage.HistoryRecord{}, fmt.Errorf("save war %s: %w", rec.ID, err)
	}

	s.registry.Delete(chatID)
	s.log.WithFields(logrus.Fields{"chat_id": chatID, "war_id": rec.ID, "status": rec.Status}).Info("war committed to history")
	return rec, nil
}

// Reject discards the entered scores and restarts score input.
func (s *WarService) Reject(chatID int64, messageID int, userID int64) (*war.Session, error) {
	sess, ok := s.registry.Get(chatID)
	if !ok {
		return nil, war.ErrNoSession
	}
	if !sess.MatchConfirmation(messageID, userID) {
		return nil, ErrConfirmMismatch
	}
	if err := sess.Reject(); err != nil {
		return nil, err
	}
	return sess, nil
}

// MonthlySummary groups the history by period key.
func (s *WarService) MonthlySummary(ctx context.Context) ([]MonthSummary, error) {
	history, err := s.store.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthSummary)
	for _, rec := range history {
		m := byMonth[rec.Date]
		if m == nil {
			m = &MonthSummary{Month: rec.Date}
			byMonth[rec.Date] = m
		}
		switch rec.Status {
		case storage.StatusWon:
			m.Won++
		case storage.StatusLost:
			m.Lost++
		case storage.StatusDraw:
			m.Draw++
		case storage.StatusNormalized:
			m.Normalized++
		}
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Results returns history records, optionally filtered by period key and
// opponent name (case-insensitive).
func (s *WarService) Results(ctx context.Context, month, opponent string) ([]storage.HistoryRecord, error) {
	history, err := s.store.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	var out []storage.HistoryRecord
	for _, rec := range history {
		if month != "" && rec.Date != month {
			continue
		}
		if opponent != "" && !strings.EqualFold(rec.Team2Name, opponent) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Normalize derives and commits a bonus-adjusted record for a stored war.
func (s *WarService) Normalize(ctx context.Context, warID string) (war.NormalizeOutcome, error) {
	history, err := s.store.LoadHistory(ctx)
	if err != nil {
		return war.NormalizeOutcome{}, err
	}
	var src *storage.HistoryRecord
	for i := range history {
		if history[i].ID == warID {
			src = &history[i]
			break
		}
	}
	if src == nil {
		return war.NormalizeOutcome{}, fmt.Errorf("%w: %s", ErrWarNotFound, warID)
	}

	id, err := s.store.NextID(ctx)
	if err != nil {
		return war.NormalizeOutcome{}, fmt.Errorf("allocate war id: %w", err)
	}
	outcome := war.Normalize(*src, id, time.Now())

	err = backoff.Retry(func() error {
		return s.store.AppendHistory(ctx, outcome.Record)
	}, s.retryPolicy())
	if err != nil {
		return war.NormalizeOutcome{}, fmt.Errorf("save normalized war %s: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{"war_id": warID, "new_id": id, "bonus_races": outcome.BonusRaces}).Info("war normalized")
	return outcome, nil
}

func (s *WarService) retryPolicy() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(policy, 3)
}
