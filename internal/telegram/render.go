package telegram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jpateteg/ttbot/internal/storage"
	"github.com/jpateteg/ttbot/internal/war"
)

const tableWidth = 46

// RenderRaceSummary renders the running scoreboard for a session.
func RenderRaceSummary(sess *war.Session) string {
	team1, team2 := sess.Points()
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 *%s* %d : %d *%s*\n", sess.Team1Name, team1, team2, sess.Team2Name)
	if sess.State() == war.StateInProgress {
		fmt.Fprintf(&b, "Race %d of %d", sess.CurrentRace(), war.RacesPerWar)
	} else {
		b.WriteString("Final score")
	}
	return b.String()
}

// RenderPlayerTable renders the individual score table for a record (or a
// session snapshot) as a monospace text artifact. Players are shown in
// score order with the team MVP starred, mirroring the layout of the
// graphical scoreboard this replaces.
func RenderPlayerTable(rec storage.HistoryRecord) []byte {
	var b strings.Builder

	title := fmt.Sprintf("%s vs %s — %s", rec.Team1Name, rec.Team2Name, rec.Timestamp)
	if rec.ID != "" {
		title += fmt.Sprintf(" (ID: %s)", rec.ID)
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", tableWidth) + "\n")

	renderTeam(&b, rec.Team1Name, rec.Team1Score, rec.PlayerScores.Team1)
	b.WriteString(strings.Repeat("=", tableWidth) + "\n")
	renderTeam(&b, rec.Team2Name, rec.Team2Score, rec.PlayerScores.Team2)

	if len(rec.Notes) > 0 {
		b.WriteString(strings.Repeat("-", tableWidth) + "\n")
		b.WriteString("War notes:\n")
		for _, note := range rec.Notes {
			b.WriteString("  " + note + "\n")
		}
	}
	return []byte(b.String())
}

func renderTeam(b *strings.Builder, name string, total int, players []storage.PlayerScore) {
	fmt.Fprintf(b, "%-*s%*d\n", tableWidth-6, name, 6, total)
	b.WriteString(strings.Repeat("-", tableWidth) + "\n")

	sorted := make([]storage.PlayerScore, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	for i, p := range sorted {
		marker := "  "
		if i == 0 && p.Score > 0 {
			marker = "★ " // team MVP
		}
		label := p.Name
		if p.DCCount > 0 {
			label += fmt.Sprintf(" (%d DCs)", p.DCCount)
		}
		fmt.Fprintf(b, " %s%-*s%*d\n", marker, tableWidth-9, label, 6, p.Score)
	}
}
