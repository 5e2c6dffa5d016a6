package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/jpateteg/ttbot/internal/service"
	"github.com/jpateteg/ttbot/internal/war"
)

// MessageSender is the part of the bot API the handlers use.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options carry the configurable defaults for war creation.
type Options struct {
	DefaultTeam1 string
	ForfeitScore int
}

type Handler struct {
	Bot     MessageSender
	Service service.WarServiceInterface
	Log     *logrus.Logger
	Opts    Options
}

func NewHandler(bot MessageSender, svc service.WarServiceInterface, log *logrus.Logger, opts Options) *Handler {
	if opts.DefaultTeam1 == "" {
		opts.DefaultTeam1 = "Malaka Racers"
	}
	if opts.ForfeitScore == 0 {
		opts.ForfeitScore = 150
	}
	return &Handler{Bot: bot, Service: svc, Log: log, Opts: opts}
}

func (h *Handler) send(msg tgbotapi.Chattable) {
	if _, err := h.Bot.Send(msg); err != nil {
		h.Log.WithError(err).Error("failed to send message")
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

var nvnRe = regexp.MustCompile(`^(\d{1,2})v\d{1,2}$`)

// HandleWar starts a war:
// /war [NvN] [new] [forfeit[=score]] [team1=..] [team2=..]
func (h *Handler) HandleWar(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cfg := war.Config{
		PlayersPerTeam: 6,
		Team1Name:      h.Opts.DefaultTeam1,
		Team2Name:      "Team 2",
	}
	replace := false

	for _, token := range splitArgs(msg.CommandArguments()) {
		lower := strings.ToLower(token)
		switch {
		case lower == "new":
			replace = true
		case lower == "forfeit":
			cfg.Forfeit = true
			cfg.ForfeitScore = h.Opts.ForfeitScore
		case strings.HasPrefix(lower, "forfeit="):
			score, err := strconv.Atoi(argValue(token))
			if err != nil || score < 0 {
				h.sendText(chatID, "forfeit= expects a non-negative score, e.g. forfeit=150.")
				return
			}
			cfg.Forfeit = true
			cfg.ForfeitScore = score
		case strings.HasPrefix(lower, "team1="):
			cfg.Team1Name = argValue(token)
		case strings.HasPrefix(lower, "team2="):
			cfg.Team2Name = argValue(token)
		case nvnRe.MatchString(lower):
			n, _ := strconv.Atoi(nvnRe.FindStringSubmatch(lower)[1])
			if n < war.MinTeamSize || n > war.MaxTeamSize {
				h.sendText(chatID, "Team size in NvN must be between 1 and 12. Using 6v6.")
				n = 6
			}
			cfg.PlayersPerTeam = n
		default:
			h.sendText(chatID, fmt.Sprintf("Unrecognized option %q. Using defaults for it. See /warhelp.", token))
		}
	}

	sess, err := h.Service.StartWar(chatID, cfg, replace)
	if errors.Is(err, war.ErrWarInProgress) {
		h.sendText(chatID, "A war is already in progress in this channel! Add `new` to /war to discard it and start over.")
		return
	}
	if err != nil {
		h.sendText(chatID, "Could not start the war: "+err.Error())
		return
	}
	if replace {
		h.sendText(chatID, "Previous war discarded. Starting a new one...")
	}

	if cfg.Forfeit {
		h.sendText(chatID, fmt.Sprintf(
			"War started as a forfeit! *%s* gets *%d* points, *%s* gets *0*.",
			cfg.Team1Name, cfg.ForfeitScore, cfg.Team2Name))
		h.send(markdown(chatID, RenderRaceSummary(sess)))
		h.sendText(chatID, "Use /wartable to enter the individual player scores.")
		return
	}

	h.sendText(chatID, fmt.Sprintf(
		"War started! It is %dv%d.\n%s vs %s.\nEnter your team's positions for race 1 (e.g. `1 2 5 9 11 12` or `1 2 5 9 11 dc=1`).",
		cfg.PlayersPerTeam, cfg.PlayersPerTeam, cfg.Team1Name, cfg.Team2Name))
}

// HandleWarTable enters score input for the finalized war, or historical
// creation mode when team names are supplied:
// /wartable [team1=..] [team2=..] [n=N] [date=YYYY-MM-DD]
func (h *Handler) HandleWarTable(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var team1, team2, dateArg string
	players := 6
	for _, token := range splitArgs(msg.CommandArguments()) {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "team1="):
			team1 = argValue(token)
		case strings.HasPrefix(lower, "team2="):
			team2 = argValue(token)
		case strings.HasPrefix(lower, "n="):
			if n, err := strconv.Atoi(argValue(token)); err == nil {
				players = n
			}
		case strings.HasPrefix(lower, "date="):
			dateArg = argValue(token)
		}
	}

	if team1 == "" && team2 == "" {
		h.beginLiveTable(chatID)
		return
	}

	if team1 == "" {
		team1 = h.Opts.DefaultTeam1
	}
	if team2 == "" {
		team2 = "Team 2"
	}
	if players < war.MinTeamSize || players > war.MaxTeamSize {
		players = 6
	}

	cfg := war.Config{PlayersPerTeam: players, Team1Name: team1, Team2Name: team2}
	if dateArg != "" {
		date, timestamp, err := war.ParseWarDate(dateArg)
		if err != nil {
			h.sendText(chatID, "Invalid date format. Use YYYY-MM-DD or YYYY-MM. Using the current date for the record.")
		} else {
			cfg.Date = date
			cfg.Timestamp = timestamp
		}
	}

	sess, replacedFinalized, err := h.Service.BeginHistorical(chatID, cfg)
	if errors.Is(err, war.ErrWarInProgress) {
		h.sendText(chatID, "A war is in progress in this channel! Finish it (or /war new) before creating a historical table.")
		return
	}
	if err != nil {
		h.sendText(chatID, "Could not start the historical table: "+err.Error())
		return
	}
	if replacedFinalized {
		h.sendText(chatID, "Discarded the previous finalized war to create the historical table.")
	}
	h.sendText(chatID, fmt.Sprintf("📊 Historical table creation started!\nWar: %s vs %s (%dv%d).\n%s",
		team1, team2, players, players, h.scoreIntro(sess)))
}

func (h *Handler) beginLiveTable(chatID int64) {
	sess, err := h.Service.BeginScoreInput(chatID)
	switch {
	case errors.Is(err, war.ErrNoSession):
		h.sendText(chatID, "No finalized war in this channel. Finish a war first, or give team names for a historical table.")
	case errors.Is(err, war.ErrNotFinalized):
		h.sendText(chatID, "This war is still in progress. Finish all 12 races (or forfeit) first.")
	case errors.Is(err, war.ErrAlreadyScoring):
		h.sendText(chatID, "Already entering individual scores. Write `fin` when you are done.")
	case err != nil:
		h.sendText(chatID, "Could not start score entry: "+err.Error())
	default:
		h.sendText(chatID, "📊 Ready to record the individual player scores!\n"+h.scoreIntro(sess))
	}
}

func (h *Handler) scoreIntro(sess *war.Session) string {
	return fmt.Sprintf(
		"Enter players one line at a time, format: `<name> <score> [dc=N r=X]`.\n"+
			"Start with *%s*. When its roster is full you will be moved to *%s*.\n"+
			"Write `fin` once BOTH teams are entered.",
		sess.Team1Name, sess.Team2Name)
}

// HandleText routes plain channel text by the session's state.
func (h *Handler) HandleText(msg *tgbotapi.Message) {
	sess, ok := h.Service.Session(msg.Chat.ID)
	if !ok {
		return
	}
	switch sess.State() {
	case war.StateInProgress:
		h.handleRaceText(msg, sess)
	case war.StateScoreInput:
		h.handleScoreText(msg, sess)
	}
}

func (h *Handler) handleRaceText(msg *tgbotapi.Message, sess *war.Session) {
	chatID := msg.Chat.ID
	positions, dcCount, err := war.ParseRaceLine(msg.Text)
	if err != nil {
		h.sendText(chatID, "Position format is wrong. Positions are space-separated numbers, optionally with `dc=X` (e.g. `1 2 5 9 11 dc=1`).")
		return
	}

	res, err := h.Service.ReportRace(chatID, positions, dcCount)
	if err != nil {
		h.sendText(chatID, h.raceErrorText(err, sess))
		return
	}

	if dcCount > 0 {
		h.sendText(chatID, fmt.Sprintf("%d %s reported disconnected! Scoring stays on the %d-racer scale.",
			dcCount, pluralize(dcCount, "player", "players"), sess.PlayersPerTeam*2))
	}
	h.sendText(chatID, fmt.Sprintf("Race %d registered. Your team: *%d*. Opponent: *%d*.",
		res.Race, res.TeamPoints, res.OpponentPoints))

	diff := res.Team1Total - res.Team2Total
	switch {
	case diff > 0:
		h.sendText(chatID, fmt.Sprintf("You are winning by *%d* points! 💪", diff))
	case diff < 0:
		h.sendText(chatID, fmt.Sprintf("You are losing by *%d* points. Push harder! 🚀", -diff))
	default:
		h.sendText(chatID, "The score is tied! 🤝")
	}

	h.send(markdown(chatID, RenderRaceSummary(sess)))

	if res.WarFinished {
		final := fmt.Sprintf("War finished!\n*%s:* %d points\n*%s:* %d points",
			sess.Team1Name, res.Team1Total, sess.Team2Name, res.Team2Total)
		if notes := sess.Notes(); len(notes) > 0 {
			final += "\n\n--- War notes ---\n" + strings.Join(notes, "\n")
		}
		h.sendText(chatID, final)
		h.sendText(chatID, "Use /wartable to enter and show the individual player scores.")
		return
	}
	h.sendText(chatID, fmt.Sprintf("Enter the positions for race %d.", res.Race+1))
}

func (h *Handler) raceErrorText(err error, sess *war.Session) string {
	switch {
	case errors.Is(err, war.ErrNegativeDCCount):
		return "The disconnect count (dc) cannot be negative."
	case errors.Is(err, war.ErrDCCountExceedsRoster):
		return fmt.Sprintf("That many disconnects cannot happen with %d players on track.", sess.PlayersPerTeam*2)
	case errors.Is(err, war.ErrDuplicatePosition):
		return "Positions cannot repeat within one race. Each position must be unique."
	case errors.Is(err, war.ErrPositionOutOfRange):
		return fmt.Sprintf("A position is out of range. Positions must be between 1 and %d.", sess.PlayersPerTeam*2)
	case errors.Is(err, war.ErrInvalidPositionCount):
		return fmt.Sprintf("Wrong number of positions: %v. Fix the report and try again.", err)
	default:
		return "Could not register the race: " + err.Error()
	}
}

func (h *Handler) handleScoreText(msg *tgbotapi.Message, sess *war.Session) {
	chatID := msg.Chat.ID
	content := strings.TrimSpace(msg.Text)

	if strings.EqualFold(content, "fin") {
		h.finishScores(msg, sess)
		return
	}

	ledger := sess.Ledger()
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "fin") {
			continue
		}

		if ledger.IsTeamSwitch(line) {
			switched, err := ledger.SwitchTeam()
			switch {
			case err != nil:
				h.sendText(chatID, fmt.Sprintf("Enter all %d players for *%s* before switching teams (%v).",
					sess.PlayersPerTeam, sess.Team1Name, err))
			case !switched:
				h.sendText(chatID, fmt.Sprintf("Already entering players for *%s*.", sess.Team2Name))
			default:
				h.sendText(chatID, fmt.Sprintf("Got it! Now enter the players of *%s*.", sess.Team2Name))
			}
			continue
		}

		res, err := ledger.SubmitLine(line)
		if err != nil {
			h.sendText(chatID, fmt.Sprintf("Error in %q: %v. This line was not recorded.", line, err))
			continue
		}
		h.reportScoreLine(chatID, sess, res)
	}
}

func (h *Handler) reportScoreLine(chatID int64, sess *war.Session, res war.LineResult) {
	teamName := sess.Team1Name
	if res.Team == war.Team2 {
		teamName = sess.Team2Name
	}

	text := fmt.Sprintf("Recorded: %s (%d pts) for *%s*.", res.Entry.Name, res.Entry.Score, teamName)
	if res.Entry.DCCount > 0 {
		text += fmt.Sprintf(" (DC: %d in races %s)", res.Entry.DCCount, joinInts(res.Entry.DCRaces))
	}
	h.sendText(chatID, text)

	for _, race := range res.OverLimitRaces {
		h.sendText(chatID, fmt.Sprintf("Warning: race %d now has more than %d reported DCs. Please double-check the entries.",
			race, war.MaxDCPerRace))
	}
	if res.Extra {
		h.sendText(chatID, fmt.Sprintf("Warning: *%s* already had %d players; %s was added as an EXTRA. Write `fin` when done.",
			teamName, sess.PlayersPerTeam, res.Entry.Name))
		return
	}

	switch {
	case res.AdvancedToTeam2:
		h.sendText(chatID, fmt.Sprintf("All %d players of *%s* are in!\nNow enter the players of *%s*.",
			sess.PlayersPerTeam, sess.Team1Name, sess.Team2Name))
	case res.TeamComplete && res.Team == war.Team2:
		h.sendText(chatID, fmt.Sprintf("All %d players of *%s* are in!\nWrite `fin` to generate the table.",
			sess.PlayersPerTeam, sess.Team2Name))
	default:
		h.sendText(chatID, fmt.Sprintf("Next player for *%s* (%d/%d so far).",
			teamName, res.TeamCount, sess.PlayersPerTeam))
	}
}

func (h *Handler) finishScores(msg *tgbotapi.Message, sess *war.Session) {
	chatID := msg.Chat.ID
	fr, sess, err := h.Service.FinishScoreInput(chatID)
	switch {
	case errors.Is(err, war.ErrNotEnoughScores):
		h.sendText(chatID, "Enter scores for BOTH teams before finishing.")
		return
	case errors.Is(err, war.ErrTeamIncomplete):
		h.sendText(chatID, fmt.Sprintf("Cannot finish yet: %v.", err))
		return
	case err != nil:
		h.sendText(chatID, "Could not finish score entry: "+err.Error())
		return
	}

	if fr.Mismatch {
		h.sendText(chatID, fmt.Sprintf(
			"Note: the reported player total (%d) does not match the expected war total (%d) based on the recorded DCs. This may indicate a reporting error.",
			fr.Team1Sum+fr.Team2Sum, fr.ExpectedTotal))
	}
	if fr.TotalDCs > 0 {
		h.sendText(chatID, dcExplanation(fr, sess.PlayersPerTeam))
	}

	table := RenderPlayerTable(sess.Snapshot())
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "war_player_scores_table.txt", Bytes: table})
	doc.Caption = "📊 Player score table. Confirm to save the war to the history."
	doc.ReplyMarkup = confirmKeyboard()

	sent, err := h.Bot.Send(doc)
	if err != nil {
		h.Log.WithError(err).Error("failed to send player table")
		return
	}
	if err := h.Service.ArmConfirmation(chatID, sent.MessageID, msg.From.ID); err != nil {
		h.Log.WithError(err).Error("failed to arm confirmation")
	}
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", "war_confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Re-enter", "war_reject"),
		),
	)
}

// dcExplanation mirrors the summary the original scoreboard gave: how many
// individual DCs were reported and what each affected race hands out.
func dcExplanation(fr war.FinalizeResult, playersPerTeam int) string {
	parts := []string{fmt.Sprintf("%d individual %s recorded in this war.",
		fr.TotalDCs, pluralize(fr.TotalDCs, "disconnect was", "disconnects were"))}

	levels := make([]int, 0, len(fr.RacesByDCLevel))
	for level := range fr.RacesByDCLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	var descs []string
	for _, level := range levels {
		races := fr.RacesByDCLevel[level]
		onTrack := playersPerTeam*2 - level
		if onTrack < 8 {
			descs = append(descs, fmt.Sprintf("%d %s with more than %d DCs (counted as %d points each)",
				races, pluralize(races, "race", "races"), war.MaxDCPerRace, war.ExpectedTotalForRace(level)))
		} else {
			descs = append(descs, fmt.Sprintf("%d %s with %d racers (%d points each)",
				races, pluralize(races, "race", "races"), onTrack, war.ExpectedTotalForRace(level)))
		}
	}
	if len(descs) > 0 {
		parts = append(parts, "This war included: "+strings.Join(descs, ", ")+".")
	}
	parts = append(parts, fmt.Sprintf("The expected total for this war is therefore %d points.", fr.ExpectedTotal))
	return strings.Join(parts, "\n")
}

// HandleConfirmCallback processes the ✅/❌ buttons under a player table.
func (h *Handler) HandleConfirmCallback(cb *tgbotapi.CallbackQuery) {
	if _, err := h.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		h.Log.WithError(err).Error("failed to answer callback")
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	userID := cb.From.ID

	switch cb.Data {
	case "war_confirm":
		rec, err := h.Service.Confirm(context.Background(), chatID, messageID, userID)
		switch {
		case errors.Is(err, service.ErrConfirmMismatch):
			h.sendText(chatID, "Only the user who finished the table can confirm this exact table.")
		case errors.Is(err, war.ErrNoSession):
			h.sendText(chatID, "This table's session is gone. Start over with /wartable.")
		case err != nil:
			h.sendText(chatID, "Could not save the war, the session is kept — press ✅ again to retry.")
		default:
			h.sendText(chatID, fmt.Sprintf("✅ Table confirmed and war closed. ID: %s", rec.ID))
		}
	case "war_reject":
		sess, err := h.Service.Reject(chatID, messageID, userID)
		switch {
		case errors.Is(err, service.ErrConfirmMismatch):
			h.sendText(chatID, "Only the user who finished the table can reject it.")
		case err != nil:
			h.sendText(chatID, "Could not restart score entry: "+err.Error())
		default:
			h.sendText(chatID, "❌ Re-entering individual scores from the start.\n"+h.scoreIntro(sess))
		}
	}
}

// HandleHistory answers /warhistory with the per-month summary.
func (h *Handler) HandleHistory(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	summary, err := h.Service.MonthlySummary(context.Background())
	if err != nil {
		h.sendText(chatID, "Could not load the war history.")
		h.Log.WithError(err).Error("monthly summary failed")
		return
	}
	if len(summary) == 0 {
		h.sendText(chatID, "No war history yet. Go play!")
		return
	}

	var b strings.Builder
	b.WriteString("*War history (per month):*\n")
	for _, m := range summary {
		fmt.Fprintf(&b, "📅 *%s*: Won: %d, Lost: %d, Draws: %d, Normalized: %d\n",
			m.Month, m.Won, m.Lost, m.Draw, m.Normalized)
	}
	h.send(markdown(chatID, b.String()))
}

// HandleResults answers /warresults [month=YYYY-MM] [vs=name].
func (h *Handler) HandleResults(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var month, opponent string
	for _, token := range splitArgs(msg.CommandArguments()) {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "month="):
			month = argValue(token)
		case strings.HasPrefix(lower, "vs="):
			opponent = argValue(token)
		}
	}

	records, err := h.Service.Results(context.Background(), month, opponent)
	if err != nil {
		h.sendText(chatID, "Could not load the war history.")
		h.Log.WithError(err).Error("results lookup failed")
		return
	}
	if len(records) == 0 {
		h.sendText(chatID, "No wars found for those filters.")
		return
	}

	h.sendText(chatID, fmt.Sprintf("📜 %d %s found.", len(records), pluralize(len(records), "war", "wars")))
	for _, rec := range records {
		h.sendText(chatID, fmt.Sprintf("*%s* vs *%s*: `%d-%d` (%s, %s)",
			rec.Team1Name, rec.Team2Name, rec.Team1Score, rec.Team2Score, rec.Status, rec.Timestamp))
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  fmt.Sprintf("war_table_%s.txt", rec.ID),
			Bytes: RenderPlayerTable(rec),
		})
		h.send(doc)
	}
}

// HandleNormalize answers /warnormalize <id>.
func (h *Handler) HandleNormalize(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	warID := strings.TrimSpace(msg.CommandArguments())
	if warID == "" {
		h.sendText(chatID, "Usage: /warnormalize <war id> (e.g. /warnormalize 00001).")
		return
	}

	outcome, err := h.Service.Normalize(context.Background(), warID)
	switch {
	case errors.Is(err, service.ErrWarNotFound):
		h.sendText(chatID, fmt.Sprintf("No war with ID %q in the history.", warID))
		return
	case err != nil:
		h.sendText(chatID, "Could not normalize the war: "+err.Error())
		return
	}

	rec := outcome.Record
	if outcome.BonusRaces == 0 {
		h.sendText(chatID, fmt.Sprintf(
			"War %s had no races with exactly 1 DC, so no bonuses were applied. New table ID: *%s*.", warID, rec.ID))
	} else {
		h.sendText(chatID, fmt.Sprintf(
			"War %s normalized (%d bonus %s). New total: *%d*. New table ID: *%s*.",
			warID, outcome.BonusRaces, pluralize(outcome.BonusRaces, "race", "races"),
			rec.Team1Score+rec.Team2Score, rec.ID))
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("normalized_war_table_%s.txt", rec.ID),
		Bytes: RenderPlayerTable(rec),
	})
	h.send(doc)
}

// HandleHelp answers /warhelp.
func (h *Handler) HandleHelp(msg *tgbotapi.Message) {
	help := "✨ *War bot command guide* ✨\n\n" +
		"*1. 🚀 Start a war:* `/war [NvN] [new] [team1=..] [team2=..]`\n" +
		"Example: `/war 6v6 team2=\"Red Team\"`. Add `new` to discard a running war.\n\n" +
		"*2. ⚡ Forfeit:* `/war forfeit` or `/war forfeit=150`\n\n" +
		"*3. 🏁 Report races:* after starting, type your team's positions:\n" +
		"`1 2 3 7 9 10` — with disconnects: `1 2 3 7 9 10 dc=1`\n\n" +
		"*4. 📊 Player table:* `/wartable` after the war ends.\n" +
		"For an old war: `/wartable team1=\"My Team\" team2=Rival n=6 date=2025-07-14`\n" +
		"Player line format: `<name> <score> [dc=N r=X,Y]`, finish with `fin`.\n\n" +
		"*5. 📜 History:* `/warhistory` — monthly summary.\n" +
		"`/warresults month=2025-07 vs=\"Team X\"` — detailed tables.\n\n" +
		"*6. ✨ Normalize a table:* `/warnormalize <id>`\n\n" +
		"Have great wars! 🏆"
	h.send(markdown(msg.Chat.ID, help))
}

func markdown(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
