package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-teamsheet/internal/model"
)

func dateText(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}

// PrintPlayer prints a player's career summary, shirt breakdown and match history.
func PrintPlayer(w io.Writer, ps *model.PlayerStats) {
	fmt.Fprintf(w, "\n%s  |  %d apps (%d starts, %d bench)  |  %d wins (%s)  |  %s – %s\n\n",
		ps.Name, ps.Total, ps.Starts, ps.Bench, ps.Wins, pctText(ps.WinPct),
		dateText(ps.FirstDate), dateText(ps.LastDate))

	if len(ps.ByShirt) > 0 {
		table := newTable(w)
		table.Header("SHIRT", "APPS", "SHARE")
		for _, s := range ps.ByShirt {
			table.Append(strconv.Itoa(s.Number), strconv.Itoa(s.Count), pctText(s.Pct))
		}
		table.Render()
		fmt.Fprintln(w)
	}

	table := newTable(w)
	table.Header("DATE", "SEASON", "OPPOSITION", "RESULT", "SCORE", "SHIRT")
	for _, a := range ps.Appearances {
		table.Append(
			model.FormatDate(a.Match.Date),
			a.Match.Season,
			a.Match.Opposition,
			a.Match.Result,
			scoreText(a.Match),
			strconv.Itoa(a.Position),
		)
	}
	table.Render()
}

// PrintMilestones prints players one appearance short of a milestone.
func PrintMilestones(w io.Writer, ms []model.Milestone) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No players are one appearance away from a milestone.")
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "APPS", "NEXT")
	for _, m := range ms {
		table.Append(m.Name, strconv.Itoa(m.Total), strconv.Itoa(m.Next))
	}
	table.Render()
}

// PrintOverview prints store totals followed by the most recent matches.
func PrintOverview(w io.Writer, ov model.Overview) {
	fmt.Fprintf(w, "\nPlayers: %d  |  Matches: %d  |  Appearances: %d  |  Seasons: %d\n\n",
		ov.TotalPlayers, ov.TotalMatches, ov.TotalAppearances, ov.Seasons)
	if len(ov.Recent) > 0 {
		PrintMatchList(w, ov.Recent, nil)
	}
}

// PrintDuplicateGroups prints each group of similar names with their appearance totals.
func PrintDuplicateGroups(w io.Writer, groups []model.DuplicateGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No likely duplicate names found.")
		return
	}
	table := newTable(w)
	table.Header("GROUP", "PLAYER", "STARTS", "BENCH", "TOTAL")
	for i, g := range groups {
		for _, m := range g.Members {
			table.Append(
				strconv.Itoa(i+1),
				m.Name,
				strconv.Itoa(m.Starts),
				strconv.Itoa(m.Bench),
				strconv.Itoa(m.Total),
			)
		}
	}
	table.Render()
}

// PrintMergeResult prints a one-line confirmation of a committed merge.
func PrintMergeResult(w io.Writer, res *model.MergeResult) {
	fmt.Fprintf(w, "Merged %s into %q: %d appearance(s) reassigned (audit %s)\n",
		quoteAll(res.Merged), res.Canonical, res.Reassigned, res.AuditID)
}

// PrintMergeHistory prints the merge audit log.
func PrintMergeHistory(w io.Writer, history []model.MergeAudit) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No merges recorded.")
		return
	}
	table := newTable(w)
	table.Header("WHEN", "CANONICAL", "MERGED", "APPS", "ID")
	for _, h := range history {
		table.Append(
			h.CreatedAt.Local().Format("2006-01-02 15:04"),
			h.Canonical,
			strings.Join(h.Merged, ", "),
			strconv.Itoa(h.Reassigned),
			shortID(h.ID),
		)
	}
	table.Render()
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = strconv.Quote(n)
	}
	return strings.Join(q, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
