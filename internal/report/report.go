// Package report renders teamsheet statistics as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-teamsheet/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func pctText(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func scoreText(m model.Match) string {
	if m.GuildfordPoints == nil && m.OppositionPoints == nil {
		return "—"
	}
	return fmt.Sprintf("%d-%d", m.PointsFor(), m.PointsAgainst())
}

// PrintSeasons prints the season index, most recent first.
func PrintSeasons(w io.Writer, seasons []string) {
	if len(seasons) == 0 {
		fmt.Fprintln(w, "No seasons recorded yet.")
		return
	}
	for _, s := range seasons {
		fmt.Fprintln(w, s)
	}
}

// PrintSeasonSummary prints the results, points and squad churn header for a season.
func PrintSeasonSummary(w io.Writer, club string, st *model.SeasonStats) {
	fmt.Fprintf(w, "\n%s  |  Season %s  |  P %d  W %d  D %d  L %d  |  Win %s\n",
		club, st.Season, st.TotalMatches, st.Wins, st.Draws, st.Losses, pctText(st.WinPct))
	fmt.Fprintf(w, "Points: %d for, %d against  |  Avg %d-%d per match\n",
		st.PointsFor, st.PointsAgainst, st.AvgPointsFor, st.AvgPointsAgainst)
	fmt.Fprintf(w, "Squad: %d players, %d appearances\n", st.TotalPlayersUsed, st.TotalAppearances)
	fmt.Fprintf(w, "Debuts: %d (%s)", st.DebutCount, pctText(st.DebutPct))
	if len(st.Debutants) > 0 {
		fmt.Fprintf(w, "  %s", strings.Join(st.Debutants, ", "))
	}
	fmt.Fprintln(w)
	if st.PreviousSeason != "" {
		fmt.Fprintf(w, "Not retained from %s: %d (%s)", st.PreviousSeason, st.LeaversCount, pctText(st.LeaversPct))
		if len(st.Leavers) > 0 {
			fmt.Fprintf(w, "  %s", strings.Join(st.Leavers, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// PrintSeason prints the full season view: summary, leaderboard, shirts and fixtures.
func PrintSeason(w io.Writer, club string, st *model.SeasonStats, limit int) {
	PrintSeasonSummary(w, club, st)
	PrintLeaderboard(w, st.Leaderboard, limit)
	fmt.Fprintln(w)
	PrintShirtDistribution(w, st.ShirtDist)
	fmt.Fprintln(w)
	PrintMatchList(w, st.Matches, nil)
}

// PrintLeaderboard prints appearance counters with a rank column. A limit of zero or less
// prints every row.
func PrintLeaderboard(w io.Writer, rows []model.PlayerCount, limit int) {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	table := newTable(w)
	table.Header("#", "PLAYER", "STARTS", "BENCH", "TOTAL")
	for i, r := range rows {
		table.Append(
			strconv.Itoa(i+1),
			r.Name,
			strconv.Itoa(r.Starts),
			strconv.Itoa(r.Bench),
			strconv.Itoa(r.Total),
		)
	}
	table.Render()
}

// PrintShirtDistribution prints how appearances spread over shirt numbers.
func PrintShirtDistribution(w io.Writer, dist []model.ShirtCount) {
	if len(dist) == 0 {
		return
	}
	table := newTable(w)
	table.Header("SHIRT", "ROLE", "APPS", "SHARE")
	for _, d := range dist {
		role := "start"
		if !model.IsStart(d.Number) {
			role = "bench"
		}
		table.Append(strconv.Itoa(d.Number), role, strconv.Itoa(d.Count), pctText(d.Pct))
	}
	table.Render()
}

// PrintMatchList prints fixtures in the order given. counts, when non-nil, adds the number
// of players on each teamsheet.
func PrintMatchList(w io.Writer, matches []model.Match, counts map[int64]int) {
	table := newTable(w)
	header := []any{"ID", "DATE", "SEASON", "OPPOSITION", "VENUE", "RESULT", "SCORE"}
	if counts != nil {
		header = append(header, "PLAYERS")
	}
	table.Header(header...)
	for _, m := range matches {
		row := []any{
			strconv.FormatInt(m.ID, 10),
			model.FormatDate(m.Date),
			m.Season,
			m.Opposition,
			m.Location,
			m.Result,
			scoreText(m),
		}
		if counts != nil {
			row = append(row, strconv.Itoa(counts[m.ID]))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintTeamsheet prints one match and its players by shirt number.
func PrintTeamsheet(w io.Writer, club string, m model.Match, apps []model.Appearance) {
	fmt.Fprintf(w, "\n%s  |  %s v %s (%s)  |  %s %s  |  %s %s\n\n",
		model.FormatDate(m.Date), club, m.Opposition, m.Location,
		m.League, m.Season, m.Result, scoreText(m))

	byShirt := make(map[int]string, len(apps))
	for _, a := range apps {
		byShirt[a.Position] = a.PlayerName
	}
	table := newTable(w)
	table.Header("SHIRT", "PLAYER")
	for pos := 1; pos <= model.MaxPositions; pos++ {
		name := byShirt[pos]
		if name == "" {
			name = "—"
		}
		table.Append(strconv.Itoa(pos), name)
	}
	table.Render()
}

// PrintRaw prints the result of an arbitrary query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
