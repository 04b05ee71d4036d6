// Package aggregator derives season and player statistics from a store snapshot.
// Every function here is pure: it reads the snapshot it is given and nothing else.
package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-teamsheet/internal/model"
)

// SeasonStats aggregates every match labelled season. It returns false when no match
// carries that label.
func SeasonStats(snap *model.Snapshot, season string) (*model.SeasonStats, bool) {
	var seasonMatches []model.Match
	for _, m := range snap.Matches {
		if m.Season == season {
			seasonMatches = append(seasonMatches, m)
		}
	}
	if len(seasonMatches) == 0 {
		return nil, false
	}

	idx := newIndex(snap)
	out := &model.SeasonStats{
		Season:       season,
		TotalMatches: len(seasonMatches),
	}

	// ---- Pass 1: results, points and per-player counters. ----

	counts := make(map[int64]*model.PlayerCount)
	shirts := make(map[int]int)
	for _, m := range seasonMatches {
		switch model.ClassifyResult(m.Result) {
		case model.OutcomeWin:
			out.Wins++
		case model.OutcomeDraw:
			out.Draws++
		default:
			out.Losses++
		}
		out.PointsFor += m.PointsFor()
		out.PointsAgainst += m.PointsAgainst()

		for _, a := range idx.appsByMatch[m.ID] {
			c, ok := counts[a.PlayerID]
			if !ok {
				c = &model.PlayerCount{PlayerID: a.PlayerID, Name: idx.playerNames[a.PlayerID]}
				counts[a.PlayerID] = c
			}
			if model.IsStart(a.Position) {
				c.Starts++
			} else {
				c.Bench++
			}
			c.Total++
			shirts[a.Position]++
			out.TotalAppearances++
		}
	}

	out.WinPct = pct(out.Wins, out.TotalMatches)
	out.AvgPointsFor = roundAverage(out.PointsFor, out.TotalMatches)
	out.AvgPointsAgainst = roundAverage(out.PointsAgainst, out.TotalMatches)

	// ---- Pass 2: leaderboard and shirt distribution. ----

	out.Leaderboard = make([]model.PlayerCount, 0, len(counts))
	for _, c := range counts {
		out.Leaderboard = append(out.Leaderboard, *c)
	}
	SortLeaderboard(out.Leaderboard)
	out.TotalPlayersUsed = len(out.Leaderboard)
	out.ShirtDist = shirtDistribution(shirts, out.TotalAppearances)

	// ---- Pass 3: squad churn against the global season index. ----

	out.AvailableSeasons = CollectSeasons(snap.Matches)
	first := firstSeasons(snap, idx, out.AvailableSeasons)
	for id, c := range counts {
		if first[id] == season {
			out.Debutants = append(out.Debutants, c.Name)
		}
	}
	sort.Strings(out.Debutants)
	out.DebutCount = len(out.Debutants)
	out.DebutPct = pct(out.DebutCount, out.TotalPlayersUsed)

	out.PreviousSeason = PreviousSeason(out.AvailableSeasons, season)
	if out.PreviousSeason != "" {
		prevPlayers := make(map[int64]struct{})
		for _, m := range snap.Matches {
			if m.Season != out.PreviousSeason {
				continue
			}
			for _, a := range idx.appsByMatch[m.ID] {
				prevPlayers[a.PlayerID] = struct{}{}
			}
		}
		for id := range prevPlayers {
			if _, ok := counts[id]; !ok {
				out.Leavers = append(out.Leavers, idx.playerNames[id])
			}
		}
		sort.Strings(out.Leavers)
		out.LeaversCount = len(out.Leavers)
		out.LeaversPct = pct(out.LeaversCount, len(prevPlayers))
	}

	// ---- Pass 4: fixture list. ----

	SortMatchesByDate(seasonMatches)
	out.Matches = seasonMatches
	return out, true
}

// SortLeaderboard orders counters by total desc, starts desc, then name asc.
func SortLeaderboard(rows []model.PlayerCount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		if rows[i].Starts != rows[j].Starts {
			return rows[i].Starts > rows[j].Starts
		}
		return rows[i].Name < rows[j].Name
	})
}

// SortMatchesByDate orders matches oldest first. Matches whose date does not parse go
// after every dated match and keep their relative order.
func SortMatchesByDate(matches []model.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		ti, oki := model.ParseDate(matches[i].Date)
		tj, okj := model.ParseDate(matches[j].Date)
		if oki && okj {
			return ti.Before(tj)
		}
		return oki && !okj
	})
}

// firstSeasons maps each player to the earliest season, under the index ordering, in which
// they appear. A year-ordered index lists most recent first, so earliest is the highest
// rank; a lexicographic index is ascending, so earliest is the lowest.
func firstSeasons(snap *model.Snapshot, idx *snapshotIndex, index []string) map[int64]string {
	rank := make(map[string]int, len(index))
	for i, s := range index {
		rank[s] = i
	}
	earlier := func(r, prev int) bool { return r < prev }
	if yearOrdered(index) {
		earlier = func(r, prev int) bool { return r > prev }
	}
	best := make(map[int64]int)
	for _, a := range snap.Appearances {
		m, ok := idx.matches[a.MatchID]
		if !ok {
			continue
		}
		r, ok := rank[m.Season]
		if !ok {
			continue
		}
		if prev, seen := best[a.PlayerID]; !seen || earlier(r, prev) {
			best[a.PlayerID] = r
		}
	}
	out := make(map[int64]string, len(best))
	for id, r := range best {
		out[id] = index[r]
	}
	return out
}

// roundAverage divides and rounds half to even; 0 when there is nothing to divide by.
func roundAverage(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(sum) / float64(n)))
}
